// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"time"

	"github.com/hitoshi/skintrack/internal/model"
)

// UserRepository はユーザー（Identity）データの永続化インターフェース。
type UserRepository interface {
	// FindByOpenID は指定openidのユーザーを取得する。見つからない場合はnilを返す。
	FindByOpenID(ctx context.Context, openid string) (*model.User, error)

	// Insert はユーザーを新規作成する。
	// usersテーブルのUNIQUE(openid)制約を利用したINSERT ON CONFLICT DO NOTHINGで実装し、
	// 既に同一openidのレコードが存在する場合はfalseを返す（エラーにはしない）。
	// 同時初回ログインの競合検出に使用する。
	Insert(ctx context.Context, user *model.User) (bool, error)

	// TouchLogin はログイン時刻フィールド（last_login_time, update_time）のみを更新する。
	// その他のフィールドには触れない。
	TouchLogin(ctx context.Context, openid string, at time.Time) error
}

// DetectionRepository は検出レコードの永続化インターフェース。
type DetectionRepository interface {
	// FindByID は指定IDの検出レコードを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Detection, error)

	// ListRecentByOpenID は指定ユーザーの検出レコードを新しい順に最大limit件取得する。
	// 並び順は detection_time 降順、同時刻の場合はID降順で安定させる。
	ListRecentByOpenID(ctx context.Context, openid string, limit int) ([]*model.Detection, error)

	// ListByOpenID は指定ユーザーの検出レコードを新しい順にページング取得する。
	ListByOpenID(ctx context.Context, openid string, limit, offset int) ([]*model.Detection, error)

	// Create は検出レコードを作成する（解析パイプライン・管理操作用）。
	Create(ctx context.Context, detection *model.Detection) error

	// CommitToProfile は検出をユーザープロフィールの集計へ反映する。
	// 同一トランザクション内で detection_commits へのINSERT（ON CONFLICT DO NOTHING）と
	// usersの集計更新（total_detectionsのストア側アトミックインクリメントを含む）を行う。
	// 既にコミット済みの検出だった場合は集計を変更せずfalseを返す。
	CommitToProfile(ctx context.Context, openid, detectionID string, detectionTime time.Time, overallScore float64) (bool, error)
}

// DiaryRepository は日記レコードの永続化インターフェース。
type DiaryRepository interface {
	// FindByID は指定IDの日記を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Diary, error)

	// Create は日記を作成する。
	Create(ctx context.Context, diary *model.Diary) error

	// ListByOpenID は指定ユーザーの日記を新しい順にページング取得する。
	ListByOpenID(ctx context.Context, openid string, limit, offset int) ([]*model.Diary, error)

	// DeleteByID は指定IDの日記を削除する（ハードデリート）。
	DeleteByID(ctx context.Context, id string) error
}

// CatalogRepository はブランド・製品カタログの読み取りインターフェース。
type CatalogRepository interface {
	// ListBrands はブランド一覧を名前順にページング取得する。
	ListBrands(ctx context.Context, limit, offset int) ([]*model.Brand, error)

	// ListProductsByBrand は指定ブランドの製品一覧をページング取得する。
	ListProductsByBrand(ctx context.Context, brandID string, limit, offset int) ([]*model.Product, error)
}

// UploadRepository はアップロード予約レコードの永続化インターフェース。
type UploadRepository interface {
	// Create はアップロード予約を記録する。
	Create(ctx context.Context, upload *model.PendingUpload) error
}
