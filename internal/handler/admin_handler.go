package handler

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/hitoshi/skintrack/internal/model"
)

// AdminDetectionServiceInterface は管理ハンドラーが必要とするサービスインターフェース。
type AdminDetectionServiceInterface interface {
	// AdminCreate は検出レコードを管理操作として作成する。
	AdminCreate(ctx context.Context, openid string, detectionTime time.Time, analysis model.AnalysisResult, imageKey string) (*model.Detection, error)
}

// AdminHandler は解析パイプライン向け管理APIのHTTPハンドラー。
// Authorization: Bearer <管理トークン> による静的トークン認証を行う。
// ゲートウェイのIdentityヘッダーとは独立した経路で呼び出される。
type AdminHandler struct {
	service    AdminDetectionServiceInterface
	adminToken string
}

// NewAdminHandler はAdminHandlerを生成する。
func NewAdminHandler(service AdminDetectionServiceInterface, adminToken string) *AdminHandler {
	return &AdminHandler{
		service:    service,
		adminToken: adminToken,
	}
}

// adminDetectionRequest は検出レコード作成リクエストのボディ。
type adminDetectionRequest struct {
	OpenID        string               `json:"openid"`
	DetectionTime time.Time            `json:"detectionTime"`
	Analysis      model.AnalysisResult `json:"analysis"`
	ImageKey      string               `json:"imageKey"`
}

// adminDetectionResponse は検出レコード作成レスポンスのデータ部。
type adminDetectionResponse struct {
	ID            string    `json:"id"`
	OpenID        string    `json:"openid"`
	DetectionTime time.Time `json:"detectionTime"`
	CreatedAt     time.Time `json:"createdAt"`
}

// CreateDetection は検出レコードを作成する。
// POST /api/admin/detections
func (h *AdminHandler) CreateDetection(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(r) {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewIdentityUnresolvedError())
		return
	}

	var req adminDetectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("body"))
		return
	}

	detection, err := h.service.AdminCreate(r.Context(), req.OpenID, req.DetectionTime, req.Analysis, req.ImageKey)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeResult(w, adminDetectionResponse{
		ID:            detection.ID,
		OpenID:        detection.OpenID,
		DetectionTime: detection.DetectionTime,
		CreatedAt:     detection.CreatedAt,
	})
}

// authorize はAuthorizationヘッダーの管理トークンを検証する。
// タイミング攻撃対策として定数時間比較を使用する。
func (h *AdminHandler) authorize(r *http.Request) bool {
	if h.adminToken == "" {
		return false
	}

	authz := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(authz, "Bearer ")
	if !ok || token == "" {
		return false
	}

	return subtle.ConstantTimeCompare([]byte(token), []byte(h.adminToken)) == 1
}
