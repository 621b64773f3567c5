package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/hitoshi/skintrack/internal/auth"
	"github.com/hitoshi/skintrack/internal/middleware"
	"github.com/hitoshi/skintrack/internal/model"
)

// AuthServiceInterface はログインハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	// Login はopenidからユーザーを解決する。未登録なら作成する。
	Login(ctx context.Context, openid, unionid, appid string, hints model.ProfileHints) (*auth.LoginResult, error)
}

// LoginRecorder はログインメトリクスの記録インターフェース。
// metrics.Collectorの部分集合として定義する。
type LoginRecorder interface {
	RecordLogin(isNewIdentity bool)
}

// AuthHandler はログインのHTTPハンドラー。
type AuthHandler struct {
	service AuthServiceInterface
	metrics LoginRecorder
}

// NewAuthHandler はAuthHandlerを生成する。metricsはnilを許容する。
func NewAuthHandler(service AuthServiceInterface, metrics LoginRecorder) *AuthHandler {
	return &AuthHandler{
		service: service,
		metrics: metrics,
	}
}

// loginRequest はログインリクエストのボディ。
// すべて任意のプロフィールヒントで、初回ログイン時にのみ適用される。
type loginRequest struct {
	Nickname  string `json:"nickname"`
	AvatarURL string `json:"avatarUrl"`
	Gender    int    `json:"gender"`
	City      string `json:"city"`
	Province  string `json:"province"`
	Country   string `json:"country"`
	Language  string `json:"language"`
}

// loginResponse はログインレスポンスのデータ部。
type loginResponse struct {
	OpenID        string        `json:"openid"`
	UnionID       string        `json:"unionid,omitempty"`
	User          *userResponse `json:"user"`
	IsNewIdentity bool          `json:"isNewIdentity"`
}

// userResponse はユーザー情報のAPIレスポンス。
type userResponse struct {
	ID                string             `json:"id"`
	OpenID            string             `json:"openid"`
	UnionID           string             `json:"unionid,omitempty"`
	AppID             string             `json:"appid,omitempty"`
	Nickname          string             `json:"nickname"`
	AvatarURL         string             `json:"avatarUrl"`
	Gender            int                `json:"gender"`
	City              string             `json:"city"`
	Province          string             `json:"province"`
	Country           string             `json:"country"`
	Language          string             `json:"language"`
	SkinType          *string            `json:"skinType"`
	SkinConcerns      []string           `json:"skinConcerns"`
	Preferences       model.Preferences `json:"preferences"`
	LastDetectionTime *time.Time         `json:"lastDetectionTime"`
	TotalDetections   int                `json:"totalDetections"`
	LastOverallScore  float64            `json:"lastOverallScore"`
	IsActive          bool               `json:"isActive"`
	CreateTime        time.Time          `json:"createTime"`
	UpdateTime        time.Time          `json:"updateTime"`
	LastLoginTime     time.Time          `json:"lastLoginTime"`
}

// toUserResponse はドメインモデルをAPIレスポンスに変換する。
func toUserResponse(u *model.User) *userResponse {
	return &userResponse{
		ID:                u.ID,
		OpenID:            u.OpenID,
		UnionID:           u.UnionID,
		AppID:             u.AppID,
		Nickname:          u.Nickname,
		AvatarURL:         u.AvatarURL,
		Gender:            u.Gender,
		City:              u.City,
		Province:          u.Province,
		Country:           u.Country,
		Language:          u.Language,
		SkinType:          u.SkinType,
		SkinConcerns:      u.SkinConcerns,
		Preferences:       u.Preferences,
		LastDetectionTime: u.LastDetectionTime,
		TotalDetections:   u.TotalDetections,
		LastOverallScore:  u.LastOverallScore,
		IsActive:          u.IsActive,
		CreateTime:        u.CreateTime,
		UpdateTime:        u.UpdateTime,
		LastLoginTime:     u.LastLoginTime,
	}
}

// Login はゲートウェイヘッダーのIdentityでユーザーを解決する。
// POST /api/login
//
// ボディは任意（プロフィールヒント）。ボディなし・空JSONも有効なリクエストとして扱う。
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewIdentityUnresolvedError())
		return
	}

	var req loginRequest
	if r.Body != nil {
		// ヒントは任意のため、デコード失敗は無視して空ヒントで続行する
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	hints := model.ProfileHints{
		Nickname:  req.Nickname,
		AvatarURL: req.AvatarURL,
		Gender:    req.Gender,
		City:      req.City,
		Province:  req.Province,
		Country:   req.Country,
		Language:  req.Language,
	}

	result, err := h.service.Login(r.Context(), identity.OpenID, identity.UnionID, identity.AppID, hints)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordLogin(result.IsNewIdentity)
	}

	writeResult(w, loginResponse{
		OpenID:        result.User.OpenID,
		UnionID:       result.User.UnionID,
		User:          toUserResponse(result.User),
		IsNewIdentity: result.IsNewIdentity,
	})
}
