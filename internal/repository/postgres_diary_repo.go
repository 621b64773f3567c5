package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/hitoshi/skintrack/internal/model"
)

// PostgresDiaryRepo はPostgreSQLを使用した日記リポジトリ。
type PostgresDiaryRepo struct {
	db *sql.DB
}

// NewPostgresDiaryRepo はPostgresDiaryRepoを生成する。
func NewPostgresDiaryRepo(db *sql.DB) *PostgresDiaryRepo {
	return &PostgresDiaryRepo{db: db}
}

// FindByID は指定IDの日記を取得する。見つからない場合はnilを返す。
// idカラムはUUID型のため、形式不正なIDはキャストエラーではなく未検出として扱う。
func (r *PostgresDiaryRepo) FindByID(ctx context.Context, id string) (*model.Diary, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}

	diary := &model.Diary{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, openid, title, content, created_at, updated_at
		 FROM diaries WHERE id = $1`,
		id,
	).Scan(
		&diary.ID, &diary.OpenID, &diary.Title, &diary.Content,
		&diary.CreatedAt, &diary.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("日記の取得に失敗しました: %w", err)
	}

	return diary, nil
}

// Create は日記を作成する。
func (r *PostgresDiaryRepo) Create(ctx context.Context, diary *model.Diary) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO diaries (id, openid, title, content, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		diary.ID, diary.OpenID, diary.Title, diary.Content,
		diary.CreatedAt, diary.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("日記の作成に失敗しました: %w", err)
	}

	return nil
}

// ListByOpenID は指定ユーザーの日記を新しい順にページング取得する。
func (r *PostgresDiaryRepo) ListByOpenID(ctx context.Context, openid string, limit, offset int) ([]*model.Diary, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, openid, title, content, created_at, updated_at
		 FROM diaries
		 WHERE openid = $1
		 ORDER BY created_at DESC, id DESC
		 LIMIT $2 OFFSET $3`,
		openid, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("日記一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	diaries := []*model.Diary{}
	for rows.Next() {
		diary := &model.Diary{}
		if err := rows.Scan(
			&diary.ID, &diary.OpenID, &diary.Title, &diary.Content,
			&diary.CreatedAt, &diary.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("日記のスキャンに失敗しました: %w", err)
		}
		diaries = append(diaries, diary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("日記一覧の読み取りに失敗しました: %w", err)
	}

	return diaries, nil
}

// DeleteByID は指定IDの日記を削除する（ハードデリート）。
func (r *PostgresDiaryRepo) DeleteByID(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM diaries WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("日記の削除に失敗しました: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("削除件数の取得に失敗しました: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("日記が見つかりません: %s", id)
	}

	return nil
}

// compile-time interface check
var _ DiaryRepository = (*PostgresDiaryRepo)(nil)
