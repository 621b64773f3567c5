package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/skintrack/internal/model"
)

// PostgresUploadRepo はPostgreSQLを使用したアップロード予約リポジトリ。
type PostgresUploadRepo struct {
	db *sql.DB
}

// NewPostgresUploadRepo はPostgresUploadRepoを生成する。
func NewPostgresUploadRepo(db *sql.DB) *PostgresUploadRepo {
	return &PostgresUploadRepo{db: db}
}

// Create はアップロード予約を記録する。
func (r *PostgresUploadRepo) Create(ctx context.Context, upload *model.PendingUpload) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO pending_uploads (storage_key, openid, file_name, created_at)
		 VALUES ($1, $2, $3, $4)`,
		upload.StorageKey, upload.OpenID, upload.FileName, upload.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("アップロード予約の記録に失敗しました: %w", err)
	}

	return nil
}

// compile-time interface check
var _ UploadRepository = (*PostgresUploadRepo)(nil)
