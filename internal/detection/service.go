// Package detection は検出レコードのプロフィール保存・履歴比較のドメインロジックを提供する。
package detection

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/skintrack/internal/model"
	"github.com/hitoshi/skintrack/internal/ownership"
	"github.com/hitoshi/skintrack/internal/repository"
)

// MetricsRecorder は検出サービスが記録するメトリクスのインターフェース。
// metrics.Collectorの部分集合として定義する。
type MetricsRecorder interface {
	RecordDetectionCommit(applied bool)
	RecordComparison()
}

// ServiceConfig は検出サービスの設定。
type ServiceConfig struct {
	ComparisonDefaultLimit int // 比較ウィンドウのデフォルト件数
	ComparisonMaxLimit     int // 比較ウィンドウの上限件数
}

// Service は検出レコードに関するビジネスロジックを提供する。
// 検出レコード自体は解析パイプラインが作成するもので、このサービスからは
// 読み取り専用として扱う（プロフィール集計への反映記録のみ書き込む）。
type Service struct {
	detectionRepo repository.DetectionRepository
	config        ServiceConfig
	metrics       MetricsRecorder
	now           func() time.Time
}

// NewService はServiceを生成する。metricsはnilを許容する。
func NewService(detectionRepo repository.DetectionRepository, config ServiceConfig, metrics MetricsRecorder) *Service {
	if config.ComparisonDefaultLimit <= 0 {
		config.ComparisonDefaultLimit = 5
	}
	if config.ComparisonMaxLimit <= 0 {
		config.ComparisonMaxLimit = 50
	}
	return &Service{
		detectionRepo: detectionRepo,
		config:        config,
		metrics:       metrics,
		now:           time.Now,
	}
}

// Commit は検出レコードを呼び出し元ユーザーのプロフィール集計へ反映する。
// 手順: 検出レコード取得 → 所有権判定 → 集計更新（トランザクション内で
// last_detection_time、total_detections+1、last_overall_score、update_timeを更新）。
// 所有権判定は必ず取得の後・更新の前に行う。
// 同一検出の再コミットは成功として扱うが集計は変更しない（冪等）。
func (s *Service) Commit(ctx context.Context, openid, detectionID string) error {
	if openid == "" {
		return model.NewIdentityUnresolvedError()
	}
	if detectionID == "" {
		return model.NewValidationError("detectionId")
	}

	detection, err := s.detectionRepo.FindByID(ctx, detectionID)
	if err != nil {
		return fmt.Errorf("検出レコードの取得に失敗しました: %w", err)
	}

	decision := ownership.Authorize(detection != nil, ownerOf(detection), openid)
	if err := decision.Err(model.NewDetectionNotFoundError(detectionID)); err != nil {
		return err
	}

	applied, err := s.detectionRepo.CommitToProfile(
		ctx, openid, detectionID, detection.DetectionTime, detection.OverallScore(),
	)
	if err != nil {
		return fmt.Errorf("プロフィール集計の更新に失敗しました: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordDetectionCommit(applied)
	}

	if !applied {
		slog.Info("detection already committed",
			slog.String("openid", openid),
			slog.String("detection_id", detectionID),
		)
	}

	return nil
}

// Compare は呼び出し元ユーザーの直近limit件の検出履歴から
// 期間比較（スコア差分）を計算する。
// 各ポイントのChangeは1つ古い検出とのスコア差で、ウィンドウ内最古のポイントは常に0。
// 検出履歴が空の場合は空スライスを返す（エラーにはしない）。
func (s *Service) Compare(ctx context.Context, openid string, limit int) ([]model.ComparisonPoint, error) {
	if openid == "" {
		return nil, model.NewIdentityUnresolvedError()
	}

	if limit <= 0 {
		limit = s.config.ComparisonDefaultLimit
	}
	if limit > s.config.ComparisonMaxLimit {
		limit = s.config.ComparisonMaxLimit
	}

	detections, err := s.detectionRepo.ListRecentByOpenID(ctx, openid, limit)
	if err != nil {
		return nil, fmt.Errorf("検出履歴の取得に失敗しました: %w", err)
	}

	points := make([]model.ComparisonPoint, len(detections))
	for i, d := range detections {
		points[i] = model.ComparisonPoint{
			ID:    d.ID,
			Date:  d.DetectionTime,
			Score: d.OverallScore(),
		}
	}

	// 新しい順に並んでいるため、各ポイントの差分は1つ後ろ（古い方）と比較する
	for i := 0; i+1 < len(points); i++ {
		points[i].Change = points[i].Score - points[i+1].Score
	}

	if s.metrics != nil {
		s.metrics.RecordComparison()
	}

	return points, nil
}

// List は呼び出し元ユーザーの検出レコードを新しい順にページング取得する。
func (s *Service) List(ctx context.Context, openid string, limit, offset int) ([]*model.Detection, error) {
	if openid == "" {
		return nil, model.NewIdentityUnresolvedError()
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	detections, err := s.detectionRepo.ListByOpenID(ctx, openid, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("検出レコード一覧の取得に失敗しました: %w", err)
	}

	return detections, nil
}

// AdminCreate は検出レコードを管理操作として作成する。
// 解析パイプラインの投入経路で、所有者openidと解析結果をそのまま記録する。
// 静的ロールチェック（管理トークン検証）はハンドラー層で行う。
func (s *Service) AdminCreate(ctx context.Context, openid string, detectionTime time.Time, analysis model.AnalysisResult, imageKey string) (*model.Detection, error) {
	if openid == "" {
		return nil, model.NewValidationError("openid")
	}

	now := s.now()
	if detectionTime.IsZero() {
		detectionTime = now
	}

	detection := &model.Detection{
		ID:            uuid.New().String(),
		OpenID:        openid,
		DetectionTime: detectionTime,
		Analysis:      analysis,
		ImageKey:      imageKey,
		CreatedAt:     now,
	}

	if err := s.detectionRepo.Create(ctx, detection); err != nil {
		return nil, fmt.Errorf("検出レコードの作成に失敗しました: %w", err)
	}

	return detection, nil
}

// ownerOf はnil安全に所有者openidを返す。
func ownerOf(d *model.Detection) string {
	if d == nil {
		return ""
	}
	return d.OpenID
}
