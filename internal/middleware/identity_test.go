package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hitoshi/skintrack/internal/model"
)

// TestIdentityMiddleware_Success はゲートウェイヘッダーからIdentityが解決されることを検証する。
func TestIdentityMiddleware_Success(t *testing.T) {
	var got Identity
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, err := IdentityFromContext(r.Context())
		if err != nil {
			t.Fatalf("IdentityFromContext returned error: %v", err)
		}
		got = identity
		w.WriteHeader(http.StatusOK)
	})

	mw := NewIdentityMiddleware()

	req := httptest.NewRequest(http.MethodGet, "/api/detections", nil)
	req.Header.Set("X-WX-OPENID", "openid-1")
	req.Header.Set("X-WX-UNIONID", "union-1")
	req.Header.Set("X-WX-APPID", "app-1")
	w := httptest.NewRecorder()

	mw(next).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if got.OpenID != "openid-1" || got.UnionID != "union-1" || got.AppID != "app-1" {
		t.Errorf("identity = %+v", got)
	}
}

// TestIdentityMiddleware_MissingOpenID はopenidヘッダー欠落で401になることを検証する。
// ボディはハンドラー層と同じ {code, message, data} エンベロープであること。
func TestIdentityMiddleware_MissingOpenID(t *testing.T) {
	nextCalled := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
	})

	mw := NewIdentityMiddleware()

	req := httptest.NewRequest(http.MethodGet, "/api/detections", nil)
	req.Header.Set("X-WX-UNIONID", "union-1") // openidなし
	w := httptest.NewRecorder()

	mw(next).ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
	if nextCalled {
		t.Error("expected next handler not to be called")
	}

	var envelope struct {
		Code    int             `json:"code"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("failed to parse response body as JSON: %v\nraw: %s", err, w.Body.String())
	}
	if envelope.Code != model.CodeIdentityUnresolved {
		t.Errorf("code = %d, want %d", envelope.Code, model.CodeIdentityUnresolved)
	}
	if envelope.Message == "" {
		t.Error("expected non-empty message")
	}
	if string(envelope.Data) != "null" {
		t.Errorf("data = %s, want null", envelope.Data)
	}
}

// TestOpenIDFromContext_NotSet はIdentity未注入のコンテキストでエラーになることを検証する。
func TestOpenIDFromContext_NotSet(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	if _, err := OpenIDFromContext(req.Context()); err == nil {
		t.Fatal("expected error for missing identity, got nil")
	}
}

// TestContextWithIdentity はテスト用コンテキスト注入ヘルパーを検証する。
func TestContextWithIdentity(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	ctx := ContextWithIdentity(req.Context(), Identity{OpenID: "openid-1"})

	openid, err := OpenIDFromContext(ctx)
	if err != nil {
		t.Fatalf("OpenIDFromContext returned error: %v", err)
	}
	if openid != "openid-1" {
		t.Errorf("openid = %q, want %q", openid, "openid-1")
	}
}
