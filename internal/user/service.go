// Package user はユーザー管理のドメインロジックを提供する。
package user

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Gerald-Wheaton/fastbreak-event-dashboard/internal/model"
	"github.com/Gerald-Wheaton/fastbreak-event-dashboard/internal/repository"
)

// AvatarURLValidator はアバターURLの安全性検証インターフェース。
type AvatarURLValidator interface {
	ValidateURL(rawURL string) error
}

// Service はユーザー管理のサービス層。
// usersレコードの遅延作成、プロフィール取得、退会処理を提供する。
type Service struct {
	userRepo     repository.UserRepository
	sessionRepo  repository.SessionRepository
	urlValidator AvatarURLValidator
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	urlValidator AvatarURLValidator,
) *Service {
	return &Service{
		userRepo:     userRepo,
		sessionRepo:  sessionRepo,
		urlValidator: urlValidator,
	}
}

// EnsureUserRecord はusersレコードが存在することを冪等に保証する。
// 認証成功のたびに呼ばれ、レコードが既に存在する場合は何も変更しない。
// 表示名の決定順序: 引数のdisplayName → メールアドレスのローカル部 → 空。
// 安全でないアバターURL（プライベートIP等）は保存せず破棄する。
func (s *Service) EnsureUserRecord(ctx context.Context, subjectID, displayName, email, avatarURL string) (*model.User, error) {
	if subjectID == "" {
		return nil, fmt.Errorf("subject ID is required")
	}

	name := strings.TrimSpace(displayName)
	if name == "" {
		name = emailLocalPart(email)
	}

	if avatarURL != "" && s.urlValidator != nil {
		if err := s.urlValidator.ValidateURL(avatarURL); err != nil {
			slog.Warn("unsafe avatar URL rejected",
				slog.String("user_id", subjectID),
				slog.String("error", err.Error()),
			)
			avatarURL = ""
		}
	}

	now := time.Now()
	user, err := s.userRepo.Upsert(ctx, &model.User{
		ID:          subjectID,
		DisplayName: name,
		AvatarURL:   avatarURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return nil, fmt.Errorf("ユーザーレコードの保証に失敗しました: %w", err)
	}

	return user, nil
}

// GetProfile は指定ユーザーのプロフィールを取得する。
func (s *Service) GetProfile(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError()
	}
	return user, nil
}

// Withdraw はユーザーの退会処理を実行する。
// 削除順序: sessions → user（+ CASCADE: user_credentials, identities）。
// ユーザーが所有していたイベントはowner_idがSET NULLされ公開イベントとして残る。
func (s *Service) Withdraw(ctx context.Context, userID string) error {
	// ユーザー存在確認
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return model.NewUserNotFoundError()
	}

	slog.Info("退会処理を開始します",
		slog.String("user_id", userID),
	)

	// 1. セッションを削除
	if s.sessionRepo != nil {
		if err := s.sessionRepo.DeleteByUserID(ctx, userID); err != nil {
			return fmt.Errorf("セッションの削除に失敗しました: %w", err)
		}
	}

	// 2. ユーザーを削除（user_credentials, identitiesはCASCADE削除）
	if err := s.userRepo.DeleteByID(ctx, userID); err != nil {
		return fmt.Errorf("ユーザーの削除に失敗しました: %w", err)
	}

	slog.Info("退会処理が完了しました",
		slog.String("user_id", userID),
	)

	return nil
}

// emailLocalPart はメールアドレスの@より前の部分を返す。
func emailLocalPart(email string) string {
	at := strings.Index(email, "@")
	if at <= 0 {
		return ""
	}
	return email[:at]
}
