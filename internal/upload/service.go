// Package upload は検出画像アップロード用ストレージキーの発行を提供する。
// 画像バイナリの保存自体はこのサービスの範囲外で、キー発行と
// 予約レコードの記録のみを行う。
package upload

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/skintrack/internal/model"
	"github.com/hitoshi/skintrack/internal/repository"
)

// Service はアップロードキー発行のサービス層。
type Service struct {
	uploadRepo repository.UploadRepository
	now        func() time.Time
}

// NewService はServiceを生成する。
func NewService(uploadRepo repository.UploadRepository) *Service {
	return &Service{
		uploadRepo: uploadRepo,
		now:        time.Now,
	}
}

// Reserve はアップロード用の日付シャーディング済みストレージキーを発行し、
// 予約レコードを記録する。キーは "detections/<年>/<月>/<日>/<uuid>" 形式。
func (s *Service) Reserve(ctx context.Context, openid, fileName string) (*model.PendingUpload, error) {
	if openid == "" {
		return nil, model.NewIdentityUnresolvedError()
	}
	if fileName == "" {
		return nil, model.NewValidationError("fileName")
	}

	now := s.now()
	upload := &model.PendingUpload{
		StorageKey: storageKey(now),
		OpenID:     openid,
		FileName:   fileName,
		CreatedAt:  now,
	}

	if err := s.uploadRepo.Create(ctx, upload); err != nil {
		return nil, fmt.Errorf("アップロード予約の記録に失敗しました: %w", err)
	}

	return upload, nil
}

// storageKey は日付シャーディング済みのストレージキーを生成する。
func storageKey(t time.Time) string {
	return fmt.Sprintf("detections/%d/%d/%d/%s", t.Year(), int(t.Month()), t.Day(), uuid.New())
}
