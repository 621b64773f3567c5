package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/skintrack/internal/middleware"
	"github.com/hitoshi/skintrack/internal/model"
)

// DetectionServiceInterface は検出ハンドラーが必要とするサービスインターフェース。
type DetectionServiceInterface interface {
	// Commit は検出レコードをプロフィール集計へ反映する。
	Commit(ctx context.Context, openid, detectionID string) error
	// Compare は直近limit件の検出履歴からスコア差分を計算する。
	Compare(ctx context.Context, openid string, limit int) ([]model.ComparisonPoint, error)
	// List は検出レコードを新しい順にページング取得する。
	List(ctx context.Context, openid string, limit, offset int) ([]*model.Detection, error)
}

// DetectionHandler は検出レコードのHTTPハンドラー。
type DetectionHandler struct {
	service DetectionServiceInterface
}

// NewDetectionHandler はDetectionHandlerを生成する。
func NewDetectionHandler(service DetectionServiceInterface) *DetectionHandler {
	return &DetectionHandler{
		service: service,
	}
}

// commitResponse は検出コミットレスポンスのデータ部。
type commitResponse struct {
	DetectionID string `json:"detectionId"`
}

// detectionResponse は検出レコードのAPIレスポンス。
type detectionResponse struct {
	ID            string               `json:"id"`
	DetectionTime time.Time            `json:"detectionTime"`
	Analysis      model.AnalysisResult `json:"analysis"`
	ImageKey      string               `json:"imageKey,omitempty"`
	CreatedAt     time.Time            `json:"createdAt"`
}

// comparisonPointResponse は期間比較の1データポイントのAPIレスポンス。
type comparisonPointResponse struct {
	ID     string    `json:"id"`
	Date   time.Time `json:"date"`
	Score  float64   `json:"score"`
	Change float64   `json:"change"`
}

// Commit は検出レコードを呼び出し元ユーザーのプロフィール集計へ反映する。
// POST /api/detections/{id}/commit
func (h *DetectionHandler) Commit(w http.ResponseWriter, r *http.Request) {
	openid, err := middleware.OpenIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewIdentityUnresolvedError())
		return
	}

	detectionID := chi.URLParam(r, "id")

	if err := h.service.Commit(r.Context(), openid, detectionID); err != nil {
		handleServiceError(w, err)
		return
	}

	writeResult(w, commitResponse{DetectionID: detectionID})
}

// Compare は呼び出し元ユーザーの検出履歴から期間比較を取得する。
// GET /api/detections/comparison?limit=5&current=<detectionId>
// currentパラメータは参考情報であり、絞り込みには使用しない。
func (h *DetectionHandler) Compare(w http.ResponseWriter, r *http.Request) {
	openid, err := middleware.OpenIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewIdentityUnresolvedError())
		return
	}

	// limit未指定・不正値はサービス層でデフォルトに丸められる
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	points, err := h.service.Compare(r.Context(), openid, limit)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := make([]comparisonPointResponse, len(points))
	for i, p := range points {
		resp[i] = comparisonPointResponse{
			ID:     p.ID,
			Date:   p.Date,
			Score:  p.Score,
			Change: p.Change,
		}
	}

	writeResult(w, resp)
}

// List は呼び出し元ユーザーの検出レコード一覧を取得する。
// GET /api/detections?limit=20&offset=0
func (h *DetectionHandler) List(w http.ResponseWriter, r *http.Request) {
	openid, err := middleware.OpenIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewIdentityUnresolvedError())
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	detections, err := h.service.List(r.Context(), openid, limit, offset)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := make([]detectionResponse, len(detections))
	for i, d := range detections {
		resp[i] = detectionResponse{
			ID:            d.ID,
			DetectionTime: d.DetectionTime,
			Analysis:      d.Analysis,
			ImageKey:      d.ImageKey,
			CreatedAt:     d.CreatedAt,
		}
	}

	writeResult(w, resp)
}
