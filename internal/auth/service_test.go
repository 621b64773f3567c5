package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hitoshi/skintrack/internal/model"
)

// --- モック ---

type mockUserRepo struct {
	findByOpenIDFn func(ctx context.Context, openid string) (*model.User, error)
	insertFn       func(ctx context.Context, user *model.User) (bool, error)
	touchLoginFn   func(ctx context.Context, openid string, at time.Time) error
}

func (m *mockUserRepo) FindByOpenID(ctx context.Context, openid string) (*model.User, error) {
	if m.findByOpenIDFn != nil {
		return m.findByOpenIDFn(ctx, openid)
	}
	return nil, nil
}
func (m *mockUserRepo) Insert(ctx context.Context, user *model.User) (bool, error) {
	if m.insertFn != nil {
		return m.insertFn(ctx, user)
	}
	return true, nil
}
func (m *mockUserRepo) TouchLogin(ctx context.Context, openid string, at time.Time) error {
	if m.touchLoginFn != nil {
		return m.touchLoginFn(ctx, openid, at)
	}
	return nil
}

// --- テスト ---

// TestService_Login_NewUser は初回ログインでユーザーが作成されることを検証する。
func TestService_Login_NewUser(t *testing.T) {
	var inserted *model.User
	repo := &mockUserRepo{
		insertFn: func(ctx context.Context, user *model.User) (bool, error) {
			inserted = user
			return true, nil
		},
	}

	svc := NewService(repo)

	result, err := svc.Login(context.Background(), "openid-1", "union-1", "app-1", model.ProfileHints{
		Nickname: "テストユーザー",
		Gender:   1,
	})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	if !result.IsNewIdentity {
		t.Error("expected IsNewIdentity = true for first login")
	}
	if inserted == nil {
		t.Fatal("expected Insert to be called")
	}
	if inserted.OpenID != "openid-1" {
		t.Errorf("OpenID = %q, want %q", inserted.OpenID, "openid-1")
	}
	if inserted.UnionID != "union-1" {
		t.Errorf("UnionID = %q, want %q", inserted.UnionID, "union-1")
	}
	if inserted.Nickname != "テストユーザー" {
		t.Errorf("Nickname = %q, want %q", inserted.Nickname, "テストユーザー")
	}
	if inserted.ID == "" {
		t.Error("expected generated ID")
	}
}

// TestService_Login_NewUser_Defaults は新規ユーザーのデフォルト値を検証する。
func TestService_Login_NewUser_Defaults(t *testing.T) {
	var inserted *model.User
	repo := &mockUserRepo{
		insertFn: func(ctx context.Context, user *model.User) (bool, error) {
			inserted = user
			return true, nil
		},
	}

	svc := NewService(repo)

	if _, err := svc.Login(context.Background(), "openid-1", "", "", model.ProfileHints{}); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	if inserted.SkinType != nil {
		t.Errorf("SkinType = %v, want nil", *inserted.SkinType)
	}
	if inserted.SkinConcerns == nil || len(inserted.SkinConcerns) != 0 {
		t.Errorf("SkinConcerns = %v, want empty slice", inserted.SkinConcerns)
	}
	if inserted.Preferences != model.DefaultPreferences() {
		t.Errorf("Preferences = %+v, want defaults", inserted.Preferences)
	}
	if inserted.TotalDetections != 0 {
		t.Errorf("TotalDetections = %d, want 0", inserted.TotalDetections)
	}
	if inserted.LastDetectionTime != nil {
		t.Error("expected LastDetectionTime = nil")
	}
	if !inserted.IsActive {
		t.Error("expected IsActive = true")
	}
	if inserted.CreateTime.IsZero() || inserted.UpdateTime.IsZero() || inserted.LastLoginTime.IsZero() {
		t.Error("expected all timestamps to be set")
	}
}

// TestService_Login_ExistingUser は2回目以降のログインでログイン時刻のみ更新されることを検証する。
func TestService_Login_ExistingUser(t *testing.T) {
	created := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	touchCalled := false
	repo := &mockUserRepo{
		insertFn: func(ctx context.Context, user *model.User) (bool, error) {
			return false, nil
		},
		findByOpenIDFn: func(ctx context.Context, openid string) (*model.User, error) {
			return &model.User{
				ID:              "user-1",
				OpenID:          openid,
				Nickname:        "既存ユーザー",
				TotalDetections: 7,
				CreateTime:      created,
			}, nil
		},
		touchLoginFn: func(ctx context.Context, openid string, at time.Time) error {
			touchCalled = true
			return nil
		},
	}

	svc := NewService(repo)

	result, err := svc.Login(context.Background(), "openid-1", "", "", model.ProfileHints{
		Nickname: "新しいニックネーム",
	})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	if result.IsNewIdentity {
		t.Error("expected IsNewIdentity = false for existing user")
	}
	if !touchCalled {
		t.Error("expected TouchLogin to be called")
	}
	// プロフィールヒントは既存ユーザーには適用されない
	if result.User.Nickname != "既存ユーザー" {
		t.Errorf("Nickname = %q, want %q (hints must not overwrite)", result.User.Nickname, "既存ユーザー")
	}
	if result.User.TotalDetections != 7 {
		t.Errorf("TotalDetections = %d, want 7", result.User.TotalDetections)
	}
	if !result.User.CreateTime.Equal(created) {
		t.Errorf("CreateTime = %v, want %v", result.User.CreateTime, created)
	}
}

// TestService_Login_ConcurrentFirstLogin は同時初回ログインの競合時に
// 取得+更新へフォールバックすることを検証する。
func TestService_Login_ConcurrentFirstLogin(t *testing.T) {
	repo := &mockUserRepo{
		insertFn: func(ctx context.Context, user *model.User) (bool, error) {
			// UNIQUE(openid)制約との競合に競り負けたケース
			return false, nil
		},
		findByOpenIDFn: func(ctx context.Context, openid string) (*model.User, error) {
			return &model.User{ID: "user-winner", OpenID: openid}, nil
		},
	}

	svc := NewService(repo)

	result, err := svc.Login(context.Background(), "openid-1", "", "", model.ProfileHints{})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if result.IsNewIdentity {
		t.Error("expected IsNewIdentity = false when losing the insert race")
	}
	if result.User.ID != "user-winner" {
		t.Errorf("expected the winner's record, got ID %q", result.User.ID)
	}
}

// TestService_Login_EmptyOpenID はopenid欠落がIdentity解決エラーになることを検証する。
func TestService_Login_EmptyOpenID(t *testing.T) {
	insertCalled := false
	repo := &mockUserRepo{
		insertFn: func(ctx context.Context, user *model.User) (bool, error) {
			insertCalled = true
			return true, nil
		},
	}

	svc := NewService(repo)

	_, err := svc.Login(context.Background(), "", "", "", model.ProfileHints{})
	if err == nil {
		t.Fatal("expected error for empty openid, got nil")
	}

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T", err)
	}
	if apiErr.Code != model.CodeIdentityUnresolved {
		t.Errorf("Code = %d, want %d", apiErr.Code, model.CodeIdentityUnresolved)
	}
	// ストアへのアクセス前に検出されること
	if insertCalled {
		t.Error("expected no repository access for unresolved identity")
	}
}

// TestService_Login_InsertError は永続化エラーが伝播することを検証する。
func TestService_Login_InsertError(t *testing.T) {
	repo := &mockUserRepo{
		insertFn: func(ctx context.Context, user *model.User) (bool, error) {
			return false, errors.New("db down")
		},
	}

	svc := NewService(repo)

	if _, err := svc.Login(context.Background(), "openid-1", "", "", model.ProfileHints{}); err == nil {
		t.Fatal("expected error, got nil")
	}
}
