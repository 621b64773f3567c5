package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/hitoshi/skintrack/internal/model"
)

// CatalogServiceInterface はカタログハンドラーが必要とするサービスインターフェース。
type CatalogServiceInterface interface {
	// ListBrands はブランド一覧をページング取得する。
	ListBrands(ctx context.Context, limit, offset int) ([]*model.Brand, error)
	// ListProducts は指定ブランドの製品一覧をページング取得する。
	ListProducts(ctx context.Context, brandID string, limit, offset int) ([]*model.Product, error)
}

// CatalogHandler はブランド・製品カタログのHTTPハンドラー。
// カタログは全ユーザー共通の読み取り専用データで、所有権判定は行わない。
type CatalogHandler struct {
	service CatalogServiceInterface
}

// NewCatalogHandler はCatalogHandlerを生成する。
func NewCatalogHandler(service CatalogServiceInterface) *CatalogHandler {
	return &CatalogHandler{
		service: service,
	}
}

// brandResponse はブランドのAPIレスポンス。
type brandResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	LogoURL string `json:"logoUrl,omitempty"`
	Country string `json:"country,omitempty"`
}

// productResponse は製品のAPIレスポンス。
type productResponse struct {
	ID       string `json:"id"`
	BrandID  string `json:"brandId"`
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
}

// ListBrands はブランド一覧を取得する。
// GET /api/catalog/brands?limit=20&offset=0
func (h *CatalogHandler) ListBrands(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	brands, err := h.service.ListBrands(r.Context(), limit, offset)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := make([]brandResponse, len(brands))
	for i, b := range brands {
		resp[i] = brandResponse{
			ID:      b.ID,
			Name:    b.Name,
			LogoURL: b.LogoURL,
			Country: b.Country,
		}
	}

	writeResult(w, resp)
}

// ListProducts は指定ブランドの製品一覧を取得する。
// GET /api/catalog/products?brandId=xxx&limit=20&offset=0
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	brandID := r.URL.Query().Get("brandId")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	products, err := h.service.ListProducts(r.Context(), brandID, limit, offset)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := make([]productResponse, len(products))
	for i, p := range products {
		resp[i] = productResponse{
			ID:       p.ID,
			BrandID:  p.BrandID,
			Name:     p.Name,
			Category: p.Category,
		}
	}

	writeResult(w, resp)
}
