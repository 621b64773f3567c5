// Package catalog はブランド・製品カタログの読み取りロジックを提供する。
// 所有権や整合性の考慮が不要な、単純なページング読み取りのみを扱う。
package catalog

import (
	"context"
	"fmt"

	"github.com/hitoshi/skintrack/internal/model"
	"github.com/hitoshi/skintrack/internal/repository"
)

// Service はカタログ読み取りのサービス層。
type Service struct {
	catalogRepo repository.CatalogRepository
}

// NewService はServiceを生成する。
func NewService(catalogRepo repository.CatalogRepository) *Service {
	return &Service{catalogRepo: catalogRepo}
}

// ListBrands はブランド一覧をページング取得する。
func (s *Service) ListBrands(ctx context.Context, limit, offset int) ([]*model.Brand, error) {
	limit, offset = normalizePage(limit, offset)

	brands, err := s.catalogRepo.ListBrands(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("ブランド一覧の取得に失敗しました: %w", err)
	}

	return brands, nil
}

// ListProducts は指定ブランドの製品一覧をページング取得する。
func (s *Service) ListProducts(ctx context.Context, brandID string, limit, offset int) ([]*model.Product, error) {
	if brandID == "" {
		return nil, model.NewValidationError("brandId")
	}
	limit, offset = normalizePage(limit, offset)

	products, err := s.catalogRepo.ListProductsByBrand(ctx, brandID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("製品一覧の取得に失敗しました: %w", err)
	}

	return products, nil
}

// normalizePage はページングパラメータをデフォルト値・上限値に丸める。
func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
