package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hitoshi/skintrack/internal/auth"
	"github.com/hitoshi/skintrack/internal/middleware"
	"github.com/hitoshi/skintrack/internal/model"
)

// --- モック定義 ---

// mockAuthService はAuthServiceInterfaceのモック実装。
type mockAuthService struct {
	loginFn func(ctx context.Context, openid, unionid, appid string, hints model.ProfileHints) (*auth.LoginResult, error)
}

func (m *mockAuthService) Login(ctx context.Context, openid, unionid, appid string, hints model.ProfileHints) (*auth.LoginResult, error) {
	if m.loginFn != nil {
		return m.loginFn(ctx, openid, unionid, appid, hints)
	}
	return nil, nil
}

// withIdentity はリクエストコンテキストにIdentityを注入するテストヘルパー。
func withIdentity(req *http.Request, openid string) *http.Request {
	ctx := middleware.ContextWithIdentity(req.Context(), middleware.Identity{
		OpenID:  openid,
		UnionID: "union-" + openid,
		AppID:   "app-1",
	})
	return req.WithContext(ctx)
}

// decodeEnvelope はレスポンスボディをエンベロープとしてデコードするテストヘルパー。
func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) (int, string, map[string]interface{}) {
	t.Helper()

	var envelope struct {
		Code    int             `json:"code"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&envelope); err != nil {
		t.Fatalf("failed to decode envelope: %v", err)
	}

	var data map[string]interface{}
	if len(envelope.Data) > 0 && string(envelope.Data) != "null" {
		if err := json.Unmarshal(envelope.Data, &data); err != nil {
			t.Fatalf("failed to decode data: %v", err)
		}
	}
	return envelope.Code, envelope.Message, data
}

// --- POST /api/login テスト ---

func TestAuthHandler_Login_Success(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)
	svc := &mockAuthService{
		loginFn: func(ctx context.Context, openid, unionid, appid string, hints model.ProfileHints) (*auth.LoginResult, error) {
			if openid != "openid-1" {
				t.Errorf("openid = %q, want %q", openid, "openid-1")
			}
			if hints.Nickname != "テスト" {
				t.Errorf("hints.Nickname = %q, want %q", hints.Nickname, "テスト")
			}
			return &auth.LoginResult{
				User: &model.User{
					ID:            "user-1",
					OpenID:        openid,
					UnionID:       unionid,
					AppID:         appid,
					Nickname:      hints.Nickname,
					SkinConcerns:  []string{},
					Preferences:   model.DefaultPreferences(),
					IsActive:      true,
					CreateTime:    now,
					UpdateTime:    now,
					LastLoginTime: now,
				},
				IsNewIdentity: true,
			}, nil
		},
	}

	h := NewAuthHandler(svc, nil)

	body := bytes.NewBufferString(`{"nickname":"テスト","gender":2}`)
	req := httptest.NewRequest(http.MethodPost, "/api/login", body)
	req = withIdentity(req, "openid-1")
	w := httptest.NewRecorder()

	h.Login(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}

	code, _, data := decodeEnvelope(t, w)
	if code != 0 {
		t.Errorf("envelope code = %d, want 0", code)
	}
	if data["openid"] != "openid-1" {
		t.Errorf("data.openid = %v, want %q", data["openid"], "openid-1")
	}
	if data["isNewIdentity"] != true {
		t.Errorf("data.isNewIdentity = %v, want true", data["isNewIdentity"])
	}
	user, ok := data["user"].(map[string]interface{})
	if !ok {
		t.Fatalf("data.user = %v, want object", data["user"])
	}
	if user["totalDetections"] != float64(0) {
		t.Errorf("user.totalDetections = %v, want 0", user["totalDetections"])
	}
	if user["skinType"] != nil {
		t.Errorf("user.skinType = %v, want null", user["skinType"])
	}
	if user["appid"] != "app-1" {
		t.Errorf("user.appid = %v, want %q", user["appid"], "app-1")
	}
}

func TestAuthHandler_Login_EmptyBody(t *testing.T) {
	svc := &mockAuthService{
		loginFn: func(ctx context.Context, openid, unionid, appid string, hints model.ProfileHints) (*auth.LoginResult, error) {
			if hints != (model.ProfileHints{}) {
				t.Errorf("hints = %+v, want zero value", hints)
			}
			return &auth.LoginResult{
				User: &model.User{ID: "user-1", OpenID: openid, SkinConcerns: []string{}},
			}, nil
		},
	}

	h := NewAuthHandler(svc, nil)

	// ボディなしでも有効なリクエスト
	req := httptest.NewRequest(http.MethodPost, "/api/login", nil)
	req = withIdentity(req, "openid-1")
	w := httptest.NewRecorder()

	h.Login(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestAuthHandler_Login_NoIdentity(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/login", nil)
	w := httptest.NewRecorder()

	h.Login(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
	code, _, _ := decodeEnvelope(t, w)
	if code != model.CodeIdentityUnresolved {
		t.Errorf("envelope code = %d, want %d", code, model.CodeIdentityUnresolved)
	}
}

func TestAuthHandler_Login_ServiceError(t *testing.T) {
	svc := &mockAuthService{
		loginFn: func(ctx context.Context, openid, unionid, appid string, hints model.ProfileHints) (*auth.LoginResult, error) {
			return nil, model.NewInternalError(context.DeadlineExceeded)
		},
	}

	h := NewAuthHandler(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/login", nil)
	req = withIdentity(req, "openid-1")
	w := httptest.NewRecorder()

	h.Login(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", w.Code, http.StatusInternalServerError)
	}
	code, _, _ := decodeEnvelope(t, w)
	if code != model.CodeInternal {
		t.Errorf("envelope code = %d, want %d", code, model.CodeInternal)
	}
}
