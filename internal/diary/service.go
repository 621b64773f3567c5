// Package diary はスキンケア日記のドメインロジックを提供する。
package diary

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

// ContentSanitizer は日記本文HTMLのサニタイズインターフェース。
// security.ContentSanitizerServiceの部分集合として定義する。
type ContentSanitizer interface {
	Sanitize(rawHTML string) string
}

// Service は日記に関するビジネスロジックを提供する。
type Service struct {
	diaryRepo repository.DiaryRepository
	sanitizer ContentSanitizer
	now       func() time.Time
}

// NewService はServiceを生成する。
func NewService(diaryRepo repository.DiaryRepository, sanitizer ContentSanitizer) *Service {
	return &Service{
		diaryRepo: diaryRepo,
		sanitizer: sanitizer,
		now:       time.Now,
	}
}

// Create は日記を作成する。所有者は呼び出し元のopenidで固定され、以後変更されない。
// 本文HTMLは保存前にサニタイズする。
func (s *Service) Create(ctx context.Context, openid, title, content string) (*model.Diary, error) {
	if openid == "" {
		return nil, model.NewIdentityUnresolvedError()
	}
	if title == "" && content == "" {
		return nil, model.NewValidationError("title")
	}

	if s.sanitizer != nil {
		content = s.sanitizer.Sanitize(content)
	}

	now := s.now()
	diary := &model.Diary{
		ID:        uuid.New().String(),
		OpenID:    openid,
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.diaryRepo.Create(ctx, diary); err != nil {
		return nil, fmt.Errorf("日記の作成に失敗しました: %w", err)
	}

	return diary, nil
}

// List は呼び出し元ユーザーの日記を新しい順にページング取得する。
func (s *Service) List(ctx context.Context, openid string, limit, offset int) ([]*model.Diary, error) {
	if openid == "" {
		return nil, model.NewIdentityUnresolvedError()
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	diaries, err := s.diaryRepo.ListByOpenID(ctx, openid, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("日記一覧の取得に失敗しました: %w", err)
	}

	return diaries, nil
}

// Delete は呼び出し元が所有する日記を削除する。
// 手順: 入力検証 → 日記取得 → 所有権判定 → ハードデリート。
// 所有権判定は必ず取得の後・削除の前に行う。
// 削除済みIDの再削除はNotFoundになる（成功を繰り返さない）。
func (s *Service) Delete(ctx context.Context, openid, diaryID string) (string, error) {
	if openid == "" {
		return "", model.NewIdentityUnresolvedError()
	}
	if diaryID == "" {
		return "", model.NewValidationError("diaryId")
	}

	diary, err := s.diaryRepo.FindByID(ctx, diaryID)
	if err != nil {
		return "", fmt.Errorf("日記の取得に失敗しました: %w", err)
	}

	decision := ownership.Authorize(diary != nil, ownerOf(diary), openid)
	if err := decision.Err(model.NewDiaryNotFoundError(diaryID)); err != nil {
		return "", err
	}

	if err := s.diaryRepo.DeleteByID(ctx, diaryID); err != nil {
		return "", fmt.Errorf("日記の削除に失敗しました: %w", err)
	}

	slog.Info("diary deleted",
		slog.String("openid", openid),
		slog.String("diary_id", diaryID),
	)

	return diaryID, nil
}

// ownerOf はnil安全に所有者openidを返す。
func ownerOf(d *model.Diary) string {
	if d == nil {
		return ""
	}
	return d.OpenID
}
