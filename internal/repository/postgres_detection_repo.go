package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/skintrack/internal/model"
)

// PostgresDetectionRepo はPostgreSQLを使用した検出レコードリポジトリ。
type PostgresDetectionRepo struct {
	db *sql.DB
}

// NewPostgresDetectionRepo はPostgresDetectionRepoを生成する。
func NewPostgresDetectionRepo(db *sql.DB) *PostgresDetectionRepo {
	return &PostgresDetectionRepo{db: db}
}

// FindByID は指定IDの検出レコードを取得する。見つからない場合はnilを返す。
// idカラムはUUID型のため、形式不正なIDはキャストエラーではなく未検出として扱う。
func (r *PostgresDetectionRepo) FindByID(ctx context.Context, id string) (*model.Detection, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}

	detection := &model.Detection{}
	var analysis []byte

	err := r.db.QueryRowContext(ctx,
		`SELECT id, openid, detection_time, analysis, image_key, created_at
		 FROM detections WHERE id = $1`,
		id,
	).Scan(
		&detection.ID, &detection.OpenID, &detection.DetectionTime,
		&analysis, &detection.ImageKey, &detection.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("検出レコードの取得に失敗しました: %w", err)
	}

	if err := json.Unmarshal(analysis, &detection.Analysis); err != nil {
		return nil, fmt.Errorf("解析結果のデコードに失敗しました: %w", err)
	}

	return detection, nil
}

// ListRecentByOpenID は指定ユーザーの検出レコードを新しい順に最大limit件取得する。
// 同一detection_timeのレコードはID降順で安定ソートされる。
func (r *PostgresDetectionRepo) ListRecentByOpenID(ctx context.Context, openid string, limit int) ([]*model.Detection, error) {
	return r.list(ctx, openid, limit, 0)
}

// ListByOpenID は指定ユーザーの検出レコードを新しい順にページング取得する。
func (r *PostgresDetectionRepo) ListByOpenID(ctx context.Context, openid string, limit, offset int) ([]*model.Detection, error) {
	return r.list(ctx, openid, limit, offset)
}

// list は検出レコード一覧クエリの共通実装。
func (r *PostgresDetectionRepo) list(ctx context.Context, openid string, limit, offset int) ([]*model.Detection, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, openid, detection_time, analysis, image_key, created_at
		 FROM detections
		 WHERE openid = $1
		 ORDER BY detection_time DESC, id DESC
		 LIMIT $2 OFFSET $3`,
		openid, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("検出レコード一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	detections := []*model.Detection{}
	for rows.Next() {
		detection := &model.Detection{}
		var analysis []byte

		if err := rows.Scan(
			&detection.ID, &detection.OpenID, &detection.DetectionTime,
			&analysis, &detection.ImageKey, &detection.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("検出レコードのスキャンに失敗しました: %w", err)
		}

		if err := json.Unmarshal(analysis, &detection.Analysis); err != nil {
			return nil, fmt.Errorf("解析結果のデコードに失敗しました: %w", err)
		}

		detections = append(detections, detection)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("検出レコード一覧の読み取りに失敗しました: %w", err)
	}

	return detections, nil
}

// Create は検出レコードを作成する。
func (r *PostgresDetectionRepo) Create(ctx context.Context, detection *model.Detection) error {
	analysis, err := json.Marshal(detection.Analysis)
	if err != nil {
		return fmt.Errorf("解析結果のエンコードに失敗しました: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO detections (id, openid, detection_time, analysis, image_key, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		detection.ID, detection.OpenID, detection.DetectionTime,
		analysis, detection.ImageKey, detection.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("検出レコードの作成に失敗しました: %w", err)
	}

	return nil
}

// CommitToProfile は検出をユーザープロフィールの集計へ反映する。
// detection_commitsへの記録と集計更新を同一トランザクションで行い、
// 二重コミット時（UNIQUE制約との競合時）は集計を変更せずfalseを返す。
// total_detectionsのインクリメントはUPDATE文内で行い、
// アプリケーション側のread-modify-writeによるロストアップデートを避ける。
func (r *PostgresDetectionRepo) CommitToProfile(ctx context.Context, openid, detectionID string, detectionTime time.Time, overallScore float64) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("トランザクションの開始に失敗しました: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`INSERT INTO detection_commits (openid, detection_id, created_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (openid, detection_id) DO NOTHING`,
		openid, detectionID,
	)
	if err != nil {
		return false, fmt.Errorf("コミット記録の作成に失敗しました: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("コミット記録件数の取得に失敗しました: %w", err)
	}

	if rowsAffected == 0 {
		// 既にコミット済み: 集計には触れない
		return false, nil
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE users SET
		     last_detection_time = $2,
		     total_detections = total_detections + 1,
		     last_overall_score = $3,
		     update_time = now()
		 WHERE openid = $1`,
		openid, detectionTime, overallScore,
	)
	if err != nil {
		return false, fmt.Errorf("ユーザー集計の更新に失敗しました: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("トランザクションのコミットに失敗しました: %w", err)
	}

	return true, nil
}

// compile-time interface check
var _ DetectionRepository = (*PostgresDetectionRepo)(nil)
