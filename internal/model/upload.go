package model

import "time"

// PendingUpload は発行済みでまだ完了していないアップロード予約を表す。
// ストレージキーの発行記録として保存し、保持期間を超えたものは
// クリーンアップジョブが削除する。
type PendingUpload struct {
	StorageKey string
	OpenID     string
	FileName   string
	CreatedAt  time.Time
}
