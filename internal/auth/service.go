// Package auth はログイン（Identity解決・作成）のドメインロジックを提供する。
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/skintrack/internal/model"
	"github.com/hitoshi/skintrack/internal/repository"
)

// LoginResult はログイン処理の結果を表す。
type LoginResult struct {
	User          *model.User
	IsNewIdentity bool
}

// Service はログインに関するビジネスロジックを提供する。
// openidを外部識別子として、ユーザーレコードの初回作成と
// 2回目以降のログイン時刻更新を行う。
type Service struct {
	userRepo repository.UserRepository
	now      func() time.Time
}

// NewService はServiceを生成する。
func NewService(userRepo repository.UserRepository) *Service {
	return &Service{
		userRepo: userRepo,
		now:      time.Now,
	}
}

// Login はopenidからユーザーを解決する。
// 未登録の場合はデフォルト設定でレコードを新規作成しisNewIdentity=trueを返す。
// 登録済みの場合はlast_login_timeとupdate_timeのみ更新し、既存レコードを返す。
// プロフィールヒントは作成時にのみ適用され、以降のログインでは上書きしない。
//
// 同時初回ログインの競合対策として「INSERTを先に試み、UNIQUE(openid)制約との
// 競合時に取得+更新へフォールバックする」手順を取る。素朴なread-then-writeでは
// 同一openidのレコードが二重作成されうるため、この順序を崩さないこと。
func (s *Service) Login(ctx context.Context, openid, unionid, appid string, hints model.ProfileHints) (*LoginResult, error) {
	if openid == "" {
		return nil, model.NewIdentityUnresolvedError()
	}

	now := s.now()

	newUser := &model.User{
		ID:            uuid.New().String(),
		OpenID:        openid,
		UnionID:       unionid,
		AppID:         appid,
		Nickname:      hints.Nickname,
		AvatarURL:     hints.AvatarURL,
		Gender:        hints.Gender,
		City:          hints.City,
		Province:      hints.Province,
		Country:       hints.Country,
		Language:      hints.Language,
		SkinType:      nil,
		SkinConcerns:  []string{},
		Preferences:   model.DefaultPreferences(),
		IsActive:      true,
		CreateTime:    now,
		UpdateTime:    now,
		LastLoginTime: now,
	}

	inserted, err := s.userRepo.Insert(ctx, newUser)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの作成に失敗しました: %w", err)
	}

	if inserted {
		slog.Info("new user created",
			slog.String("openid", openid),
		)
		return &LoginResult{User: newUser, IsNewIdentity: true}, nil
	}

	// 既存ユーザー（または同時初回ログインに競り負けた場合）:
	// 取得してログイン時刻のみ更新する
	existing, err := s.userRepo.FindByOpenID(ctx, openid)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if existing == nil {
		// UNIQUE競合直後に該当レコードが消えることはない（ユーザーは削除されない）
		return nil, fmt.Errorf("ユーザーの解決に失敗しました: %s", openid)
	}

	if err := s.userRepo.TouchLogin(ctx, openid, now); err != nil {
		return nil, fmt.Errorf("ログイン時刻の更新に失敗しました: %w", err)
	}

	// 返却値は更新した2フィールド以外、更新前の値を反映する
	existing.LastLoginTime = now
	existing.UpdateTime = now

	slog.Info("existing user logged in",
		slog.String("openid", openid),
	)

	return &LoginResult{User: existing, IsNewIdentity: false}, nil
}
