package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/skintrack/internal/middleware"
	"github.com/hitoshi/skintrack/internal/model"
)

// DiaryServiceInterface は日記ハンドラーが必要とするサービスインターフェース。
type DiaryServiceInterface interface {
	// Create は日記を作成する。
	Create(ctx context.Context, openid, title, content string) (*model.Diary, error)
	// List は日記を新しい順にページング取得する。
	List(ctx context.Context, openid string, limit, offset int) ([]*model.Diary, error)
	// Delete は呼び出し元が所有する日記をハードデリートする。
	Delete(ctx context.Context, openid, diaryID string) (string, error)
}

// DiaryDeletionRecorder は日記削除メトリクスの記録インターフェース。
// metrics.Collectorの部分集合として定義する。
type DiaryDeletionRecorder interface {
	RecordDiaryDeletion()
}

// DiaryHandler は日記のHTTPハンドラー。
type DiaryHandler struct {
	service DiaryServiceInterface
	metrics DiaryDeletionRecorder
}

// NewDiaryHandler はDiaryHandlerを生成する。metricsはnilを許容する。
func NewDiaryHandler(service DiaryServiceInterface, metrics DiaryDeletionRecorder) *DiaryHandler {
	return &DiaryHandler{
		service: service,
		metrics: metrics,
	}
}

// diaryRequest は日記作成リクエストのボディ。
type diaryRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// diaryResponse は日記のAPIレスポンス。
type diaryResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// diaryDeleteResponse は日記削除レスポンスのデータ部。
type diaryDeleteResponse struct {
	DiaryID string `json:"diaryId"`
}

// toDiaryResponse はドメインモデルをAPIレスポンスに変換する。
func toDiaryResponse(d *model.Diary) diaryResponse {
	return diaryResponse{
		ID:        d.ID,
		Title:     d.Title,
		Content:   d.Content,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// Create は日記を作成する。
// POST /api/diaries
func (h *DiaryHandler) Create(w http.ResponseWriter, r *http.Request) {
	openid, err := middleware.OpenIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewIdentityUnresolvedError())
		return
	}

	var req diaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewValidationError("body"))
		return
	}

	diary, err := h.service.Create(r.Context(), openid, req.Title, req.Content)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeResult(w, toDiaryResponse(diary))
}

// List は呼び出し元ユーザーの日記一覧を取得する。
// GET /api/diaries?limit=20&offset=0
func (h *DiaryHandler) List(w http.ResponseWriter, r *http.Request) {
	openid, err := middleware.OpenIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewIdentityUnresolvedError())
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	diaries, err := h.service.List(r.Context(), openid, limit, offset)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := make([]diaryResponse, len(diaries))
	for i, d := range diaries {
		resp[i] = toDiaryResponse(d)
	}

	writeResult(w, resp)
}

// Delete は呼び出し元が所有する日記を削除する。
// DELETE /api/diaries/{id}
func (h *DiaryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	openid, err := middleware.OpenIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewIdentityUnresolvedError())
		return
	}

	diaryID := chi.URLParam(r, "id")

	deletedID, err := h.service.Delete(r.Context(), openid, diaryID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordDiaryDeletion()
	}

	writeResult(w, diaryDeleteResponse{DiaryID: deletedID})
}
