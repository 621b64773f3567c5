package model

import "time"

// Diary はユーザーが作成したスキンケア日記を表す。
// OpenID（所有者）は作成時に固定され、以後変更されない。
// 削除はハードデリートで、トゥームストーンは残さない。
type Diary struct {
	ID        string
	OpenID    string
	Title     string
	Content   string // サニタイズ済みHTML
	CreatedAt time.Time
	UpdatedAt time.Time
}
