package repository

import (
	"testing"
	"time"

	"github.com/hitoshi/skintrack/internal/model"
)

// PostgresUploadRepoがUploadRepositoryインターフェースを満たすことを検証
func TestPostgresUploadRepo_ImplementsInterface(t *testing.T) {
	var _ UploadRepository = (*PostgresUploadRepo)(nil)
}

// NewPostgresUploadRepoが正しく初期化されることを検証
func TestNewPostgresUploadRepo_Initializes(t *testing.T) {
	repo := NewPostgresUploadRepo(nil)
	if repo == nil {
		t.Fatal("expected non-nil repo")
	}
}

// PendingUploadモデルのフィールドが正しく構築されることを検証
func TestPostgresUploadRepo_PendingUploadModel_Fields(t *testing.T) {
	now := time.Now()
	upload := &model.PendingUpload{
		StorageKey: "detections/2026/9/1/abc",
		OpenID:     "openid-1",
		FileName:   "photo.jpg",
		CreatedAt:  now,
	}

	if upload.StorageKey != "detections/2026/9/1/abc" {
		t.Errorf("upload.StorageKey = %q, want %q", upload.StorageKey, "detections/2026/9/1/abc")
	}
	if upload.FileName != "photo.jpg" {
		t.Errorf("upload.FileName = %q, want %q", upload.FileName, "photo.jpg")
	}
}
