// Package cleanup はアップロード予約の自動削除ジョブを提供する。
// 保持期間（デフォルト7日）を超過しても検出レコードに結び付かなかった
// pending_uploadsを日次バッチで削除する。
package cleanup

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

// Executor はSQLのExecContextを抽象化するインターフェース。
// *sql.DB や *sql.Tx を受け付けることができる。
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// PurgeRecorder は削除件数メトリクスの記録インターフェース。
// metrics.Collectorの部分集合として定義する。
type PurgeRecorder interface {
	RecordUploadsPurged(count int)
}

// CleanupJob は保持期間を超過したアップロード予約の自動削除ジョブ。
// 日次実行のバッチジョブとして設計されており、冪等な削除処理を保証する。
type CleanupJob struct {
	db            Executor
	logger        *slog.Logger
	metrics       PurgeRecorder
	RetentionDays int // アップロード予約の保持日数（デフォルト: 7）
}

// NewCleanupJob は新しいCleanupJobを生成する。metricsはnilを許容する。
// デフォルトの保持日数は7日。
func NewCleanupJob(db Executor, logger *slog.Logger, metrics PurgeRecorder) *CleanupJob {
	return &CleanupJob{
		db:            db,
		logger:        logger,
		metrics:       metrics,
		RetentionDays: 7,
	}
}

// Run は保持期間を超過したアップロード予約を削除する。
// created_atがRetentionDays日前より古い行をDELETEする。
// 冪等: 削除対象がない場合でもエラーにならない。
func (j *CleanupJob) Run(ctx context.Context) error {
	start := time.Now()

	interval := fmt.Sprintf("%d days", j.RetentionDays)

	query := `DELETE FROM pending_uploads WHERE created_at < now() - $1::interval`
	result, err := j.db.ExecContext(ctx, query, interval)
	if err != nil {
		j.logger.Error("アップロード予約クリーンアップジョブの実行に失敗しました",
			slog.String("error", err.Error()),
			slog.Int("retention_days", j.RetentionDays),
		)
		return fmt.Errorf("アップロード予約クリーンアップの実行に失敗: %w", err)
	}

	deletedCount, err := result.RowsAffected()
	if err != nil {
		j.logger.Error("削除件数の取得に失敗しました",
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("削除件数の取得に失敗: %w", err)
	}

	if j.metrics != nil {
		j.metrics.RecordUploadsPurged(int(deletedCount))
	}

	duration := time.Since(start)
	j.logger.Info("アップロード予約クリーンアップジョブが完了しました",
		slog.Int64("deleted_count", deletedCount),
		slog.Int("retention_days", j.RetentionDays),
		slog.Float64("duration_ms", float64(duration.Milliseconds())),
	)

	return nil
}
