package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/skintrack/internal/model"
)

// PostgresCatalogRepo はPostgreSQLを使用したカタログリポジトリ。
// ブランド・製品は所有権のない共有データで、読み取りのみを提供する。
type PostgresCatalogRepo struct {
	db *sql.DB
}

// NewPostgresCatalogRepo はPostgresCatalogRepoを生成する。
func NewPostgresCatalogRepo(db *sql.DB) *PostgresCatalogRepo {
	return &PostgresCatalogRepo{db: db}
}

// ListBrands はブランド一覧を名前順にページング取得する。
func (r *PostgresCatalogRepo) ListBrands(ctx context.Context, limit, offset int) ([]*model.Brand, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, logo_url, country, created_at
		 FROM brands
		 ORDER BY name ASC, id ASC
		 LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("ブランド一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	brands := []*model.Brand{}
	for rows.Next() {
		brand := &model.Brand{}
		if err := rows.Scan(
			&brand.ID, &brand.Name, &brand.LogoURL, &brand.Country, &brand.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("ブランドのスキャンに失敗しました: %w", err)
		}
		brands = append(brands, brand)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ブランド一覧の読み取りに失敗しました: %w", err)
	}

	return brands, nil
}

// ListProductsByBrand は指定ブランドの製品一覧をページング取得する。
func (r *PostgresCatalogRepo) ListProductsByBrand(ctx context.Context, brandID string, limit, offset int) ([]*model.Product, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, brand_id, name, category, created_at
		 FROM products
		 WHERE brand_id = $1
		 ORDER BY name ASC, id ASC
		 LIMIT $2 OFFSET $3`,
		brandID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("製品一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	products := []*model.Product{}
	for rows.Next() {
		product := &model.Product{}
		if err := rows.Scan(
			&product.ID, &product.BrandID, &product.Name, &product.Category, &product.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("製品のスキャンに失敗しました: %w", err)
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("製品一覧の読み取りに失敗しました: %w", err)
	}

	return products, nil
}

// compile-time interface check
var _ CatalogRepository = (*PostgresCatalogRepo)(nil)
