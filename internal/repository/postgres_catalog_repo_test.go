package repository

import (
	"testing"

	"github.com/hitoshi/skintrack/internal/model"
)

// PostgresCatalogRepoがCatalogRepositoryインターフェースを満たすことを検証
func TestPostgresCatalogRepo_ImplementsInterface(t *testing.T) {
	var _ CatalogRepository = (*PostgresCatalogRepo)(nil)
}

// NewPostgresCatalogRepoが正しく初期化されることを検証
func TestNewPostgresCatalogRepo_Initializes(t *testing.T) {
	repo := NewPostgresCatalogRepo(nil)
	if repo == nil {
		t.Fatal("expected non-nil repo")
	}
}

// Brand・Productモデルのフィールドが正しく構築されることを検証
func TestPostgresCatalogRepo_CatalogModels_Fields(t *testing.T) {
	brand := &model.Brand{ID: "brand-1", Name: "テストブランド", Country: "JP"}
	product := &model.Product{ID: "prod-1", BrandID: "brand-1", Name: "保湿クリーム", Category: "moisturizer"}

	if brand.Name != "テストブランド" {
		t.Errorf("brand.Name = %q, want %q", brand.Name, "テストブランド")
	}
	if product.BrandID != brand.ID {
		t.Errorf("product.BrandID = %q, want %q", product.BrandID, brand.ID)
	}
}
