// Package model はドメインモデルを定義する。
package model

import "time"

// Preferences はユーザーの通知・データ収集設定を表す。
type Preferences struct {
	Notifications  bool `json:"notifications"`
	DataCollection bool `json:"dataCollection"`
}

// DefaultPreferences は新規ユーザーに適用されるデフォルト設定を返す。
func DefaultPreferences() Preferences {
	return Preferences{
		Notifications:  true,
		DataCollection: true,
	}
}

// User はサービス利用ユーザー（Identity）を表す。
// openidを不変の外部識別子としてWeChatゲートウェイから受け取り、
// 1 openidにつき必ず1レコードのみ存在する（usersテーブルのUNIQUE制約で保証）。
type User struct {
	ID      string
	OpenID  string
	UnionID string
	AppID   string

	// プロフィール（初回ログイン時のみヒントから設定される）
	Nickname  string
	AvatarURL string
	Gender    int // 0=未設定, 1=男性, 2=女性
	City      string
	Province  string
	Country   string
	Language  string

	// 肌情報
	SkinType     *string  // 未診断の場合はnil
	SkinConcerns []string // 肌悩みリスト（空の場合は空スライス）

	Preferences Preferences

	// 派生集計フィールド（SaveDetectionの副作用としてのみ更新される）
	LastDetectionTime *time.Time
	TotalDetections   int
	LastOverallScore  float64

	IsActive bool

	CreateTime    time.Time
	UpdateTime    time.Time
	LastLoginTime time.Time
}

// ProfileHints はログイン時にクライアントから任意で送られるプロフィール情報。
// 初回ログイン（レコード作成時）にのみ適用され、2回目以降は無視される。
type ProfileHints struct {
	Nickname  string
	AvatarURL string
	Gender    int
	City      string
	Province  string
	Country   string
	Language  string
}
