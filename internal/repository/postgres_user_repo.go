package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hitoshi/skintrack/internal/model"
)

// PostgresUserRepo はPostgreSQLを使用したユーザーリポジトリ。
type PostgresUserRepo struct {
	db *sql.DB
}

// NewPostgresUserRepo はPostgresUserRepoを生成する。
func NewPostgresUserRepo(db *sql.DB) *PostgresUserRepo {
	return &PostgresUserRepo{db: db}
}

// userColumns はusersテーブルのSELECT対象カラム。
const userColumns = `id, openid, unionid, appid, nickname, avatar_url, gender,
	city, province, country, language, skin_type, skin_concerns,
	notifications, data_collection, last_detection_time, total_detections,
	last_overall_score, is_active, create_time, update_time, last_login_time`

// FindByOpenID は指定openidのユーザーを取得する。見つからない場合はnilを返す。
func (r *PostgresUserRepo) FindByOpenID(ctx context.Context, openid string) (*model.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE openid = $1`,
		openid,
	)

	user, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}

	return user, nil
}

// Insert はユーザーを新規作成する。
// UNIQUE(openid)制約との競合時はINSERTを行わずfalseを返す。
func (r *PostgresUserRepo) Insert(ctx context.Context, user *model.User) (bool, error) {
	concerns, err := json.Marshal(user.SkinConcerns)
	if err != nil {
		return false, fmt.Errorf("肌悩みリストのエンコードに失敗しました: %w", err)
	}

	result, err := r.db.ExecContext(ctx,
		`INSERT INTO users (
		     id, openid, unionid, appid, nickname, avatar_url, gender,
		     city, province, country, language, skin_type, skin_concerns,
		     notifications, data_collection, last_detection_time,
		     total_detections, last_overall_score, is_active,
		     create_time, update_time, last_login_time
		 ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
		           $14, $15, $16, $17, $18, $19, $20, $21, $22)
		 ON CONFLICT (openid) DO NOTHING`,
		user.ID, user.OpenID, user.UnionID, user.AppID,
		user.Nickname, user.AvatarURL, user.Gender,
		user.City, user.Province, user.Country, user.Language,
		user.SkinType, concerns,
		user.Preferences.Notifications, user.Preferences.DataCollection,
		user.LastDetectionTime, user.TotalDetections, user.LastOverallScore,
		user.IsActive, user.CreateTime, user.UpdateTime, user.LastLoginTime,
	)
	if err != nil {
		return false, fmt.Errorf("ユーザーの作成に失敗しました: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("作成件数の取得に失敗しました: %w", err)
	}

	return rowsAffected == 1, nil
}

// TouchLogin はログイン時刻フィールドのみを更新する。
func (r *PostgresUserRepo) TouchLogin(ctx context.Context, openid string, at time.Time) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET last_login_time = $2, update_time = $2 WHERE openid = $1`,
		openid, at,
	)
	if err != nil {
		return fmt.Errorf("ログイン時刻の更新に失敗しました: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("更新件数の取得に失敗しました: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("ユーザーが見つかりません: %s", openid)
	}

	return nil
}

// rowScanner はsql.Rowとsql.Rowsの双方からスキャンするためのインターフェース。
type rowScanner interface {
	Scan(dest ...any) error
}

// scanUser は1行分のユーザーレコードをスキャンする。
func scanUser(row rowScanner) (*model.User, error) {
	user := &model.User{}
	var (
		skinType          sql.NullString
		concerns          []byte
		lastDetectionTime sql.NullTime
	)

	err := row.Scan(
		&user.ID, &user.OpenID, &user.UnionID, &user.AppID,
		&user.Nickname, &user.AvatarURL, &user.Gender,
		&user.City, &user.Province, &user.Country, &user.Language,
		&skinType, &concerns,
		&user.Preferences.Notifications, &user.Preferences.DataCollection,
		&lastDetectionTime, &user.TotalDetections, &user.LastOverallScore,
		&user.IsActive, &user.CreateTime, &user.UpdateTime, &user.LastLoginTime,
	)
	if err != nil {
		return nil, err
	}

	if skinType.Valid {
		user.SkinType = &skinType.String
	}
	if lastDetectionTime.Valid {
		t := lastDetectionTime.Time
		user.LastDetectionTime = &t
	}

	user.SkinConcerns = []string{}
	if len(concerns) > 0 {
		if err := json.Unmarshal(concerns, &user.SkinConcerns); err != nil {
			return nil, fmt.Errorf("肌悩みリストのデコードに失敗しました: %w", err)
		}
	}

	return user, nil
}

// compile-time interface check
var _ UserRepository = (*PostgresUserRepo)(nil)
