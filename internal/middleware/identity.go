// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/hitoshi/skintrack/internal/model"
)

// 信頼済みゲートウェイが付与するIdentityヘッダー。
// このサービスはゲートウェイの背後でのみ動作し、ヘッダーの真正性検証は行わない。
const (
	headerOpenID  = "X-WX-OPENID"
	headerUnionID = "X-WX-UNIONID"
	headerAppID   = "X-WX-APPID"
)

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// identityContextKey はリクエストコンテキストにIdentityを格納するためのキー。
var identityContextKey = contextKey("identity")

// Identity はゲートウェイヘッダーから解決した呼び出し元の識別情報。
type Identity struct {
	OpenID  string
	UnionID string
	AppID   string
}

// identityErrorEnvelope はIdentity未解決時のレスポンスボディ。
// ハンドラー層と同じ {code, message, data} エンベロープで返す。
type identityErrorEnvelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// writeIdentityErrorResponse はIdentity解決エラーをエンベロープで書き込む。
func writeIdentityErrorResponse(w http.ResponseWriter) {
	apiErr := model.NewIdentityUnresolvedError()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(identityErrorEnvelope{
		Code:    apiErr.Code,
		Message: apiErr.Message,
		Data:    nil,
	})
}

// NewIdentityMiddleware はゲートウェイヘッダーから呼び出し元のIdentityを読み取り、
// リクエストコンテキストに注入するミドルウェアを返す。
// openidヘッダーが空のリクエストには401とIdentity解決エラーのエンベロープを返す。
func NewIdentityMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			openid := r.Header.Get(headerOpenID)
			if openid == "" {
				writeIdentityErrorResponse(w)
				return
			}

			identity := Identity{
				OpenID:  openid,
				UnionID: r.Header.Get(headerUnionID),
				AppID:   r.Header.Get(headerAppID),
			}

			ctx := context.WithValue(r.Context(), identityContextKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFromContext はリクエストコンテキストからIdentityを取得する。
// Identityミドルウェアを通過したリクエストでのみ有効。
func IdentityFromContext(ctx context.Context) (Identity, error) {
	identity, ok := ctx.Value(identityContextKey).(Identity)
	if !ok || identity.OpenID == "" {
		return Identity{}, fmt.Errorf("identity not found in context")
	}
	return identity, nil
}

// OpenIDFromContext はリクエストコンテキストから呼び出し元openidを取得する。
func OpenIDFromContext(ctx context.Context) (string, error) {
	identity, err := IdentityFromContext(ctx)
	if err != nil {
		return "", err
	}
	return identity.OpenID, nil
}

// ContextWithIdentity はコンテキストにIdentityを注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, identity)
}
