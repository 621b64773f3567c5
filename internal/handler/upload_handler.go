package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/hitoshi/skintrack/internal/middleware"
	"github.com/hitoshi/skintrack/internal/model"
)

// UploadServiceInterface はアップロードハンドラーが必要とするサービスインターフェース。
type UploadServiceInterface interface {
	// Reserve はアップロード用ストレージキーを発行する。
	Reserve(ctx context.Context, openid, fileName string) (*model.PendingUpload, error)
}

// UploadHandler は検出画像アップロード予約のHTTPハンドラー。
type UploadHandler struct {
	service UploadServiceInterface
}

// NewUploadHandler はUploadHandlerを生成する。
func NewUploadHandler(service UploadServiceInterface) *UploadHandler {
	return &UploadHandler{
		service: service,
	}
}

// uploadRequest はアップロード予約リクエストのボディ。
type uploadRequest struct {
	FileName string `json:"fileName"`
}

// uploadResponse はアップロード予約レスポンスのデータ部。
type uploadResponse struct {
	StorageKey string `json:"storageKey"`
}

// Reserve はアップロード用ストレージキーを発行する。
// POST /api/uploads
func (h *UploadHandler) Reserve(w http.ResponseWriter, r *http.Request) {
	openid, err := middleware.OpenIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewIdentityUnresolvedError())
		return
	}

	var req uploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("body"))
		return
	}

	upload, err := h.service.Reserve(r.Context(), openid, req.FileName)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeResult(w, uploadResponse{StorageKey: upload.StorageKey})
}
