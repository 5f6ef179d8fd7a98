// Package auth はパスワード認証、OAuth認証フロー、セッション管理を提供する。
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Gerald-Wheaton/fastbreak-event-dashboard/internal/model"
	"github.com/Gerald-Wheaton/fastbreak-event-dashboard/internal/repository"
)

// OAuthUserInfo はOAuthプロバイダーから取得したユーザー情報を表す。
type OAuthUserInfo struct {
	ProviderUserID string
	Email          string
	Name           string
	AvatarURL      string
	Provider       string // "google", "github" 等
}

// OAuthProvider はOAuth認証プロバイダーのインターフェース。
// 将来的に複数IdP（Google, GitHub等）に対応するための抽象化。
type OAuthProvider interface {
	// GetLoginURL はOAuth認証URLを生成する。
	GetLoginURL(state string) string
	// ExchangeCode は認可コードをトークンに交換し、ユーザー情報を取得する。
	ExchangeCode(ctx context.Context, code string) (*OAuthUserInfo, error)
}

// UserProvisioner はユーザーレコードの遅延作成を行うインターフェース。
// 認証成功のたびに呼ばれ、usersレコードが存在することを保証する。
type UserProvisioner interface {
	EnsureUserRecord(ctx context.Context, subjectID, displayName, email, avatarURL string) (*model.User, error)
}

// ServiceConfig は認証サービスの設定。
type ServiceConfig struct {
	SessionMaxAge int // セッション有効期間（秒）
}

// Service は認証に関するビジネスロジックを提供する。
type Service struct {
	oauth       OAuthProvider
	users       UserProvisioner
	userRepo    repository.UserRepository
	credRepo    repository.CredentialRepository
	identRepo   repository.IdentityRepository
	sessionRepo repository.SessionRepository
	config      ServiceConfig
}

// NewService はServiceを生成する。
func NewService(
	oauth OAuthProvider,
	users UserProvisioner,
	userRepo repository.UserRepository,
	credRepo repository.CredentialRepository,
	identRepo repository.IdentityRepository,
	sessionRepo repository.SessionRepository,
	config ServiceConfig,
) *Service {
	return &Service{
		oauth:       oauth,
		users:       users,
		userRepo:    userRepo,
		credRepo:    credRepo,
		identRepo:   identRepo,
		sessionRepo: sessionRepo,
		config:      config,
	}
}

// SignUp はメールアドレスとパスワードで新規ユーザーを登録し、セッションを発行する。
// メールアドレスが登録済みの場合はErrCodeEmailTakenを返す。
func (s *Service) SignUp(ctx context.Context, email, password, displayName string) (*model.Session, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if len(password) < minPasswordLength {
		return nil, model.NewValidationError("password", fmt.Sprintf("パスワードは%d文字以上で入力してください", minPasswordLength))
	}

	existing, err := s.credRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("メールアドレスの確認に失敗しました: %w", err)
	}
	if existing != nil {
		return nil, model.NewEmailTakenError()
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("パスワードのハッシュ化に失敗しました: %w", err)
	}

	subjectID := uuid.New().String()
	user, err := s.users.EnsureUserRecord(ctx, subjectID, displayName, email, "")
	if err != nil {
		return nil, fmt.Errorf("ユーザーレコードの作成に失敗しました: %w", err)
	}

	cred := &model.Credential{
		UserID:       user.ID,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}
	if err := s.credRepo.Create(ctx, cred); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, model.NewEmailTakenError()
		}
		return nil, fmt.Errorf("資格情報の保存に失敗しました: %w", err)
	}

	session, err := s.createSession(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("セッションの作成に失敗しました: %w", err)
	}

	slog.Info("new user signed up",
		slog.String("user_id", user.ID),
	)
	return session, nil
}

// SignIn はメールアドレスとパスワードでログインし、セッションを発行する。
// メールアドレス未登録とパスワード不一致は区別せず、
// どちらもErrCodeInvalidCredentialsを返す。
func (s *Service) SignIn(ctx context.Context, email, password string) (*model.Session, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, model.NewInvalidCredentialsError()
	}

	cred, err := s.credRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("資格情報の取得に失敗しました: %w", err)
	}
	if cred == nil {
		return nil, model.NewInvalidCredentialsError()
	}

	if err := VerifyPassword(cred.PasswordHash, password); err != nil {
		if errors.Is(err, ErrPasswordMismatch) {
			return nil, model.NewInvalidCredentialsError()
		}
		return nil, fmt.Errorf("パスワードの検証に失敗しました: %w", err)
	}

	// 認証成功のたびにusersレコードの存在を保証する
	if _, err := s.users.EnsureUserRecord(ctx, cred.UserID, "", cred.Email, ""); err != nil {
		return nil, fmt.Errorf("ユーザーレコードの確認に失敗しました: %w", err)
	}

	session, err := s.createSession(ctx, cred.UserID)
	if err != nil {
		return nil, fmt.Errorf("セッションの作成に失敗しました: %w", err)
	}

	slog.Info("user signed in",
		slog.String("user_id", cred.UserID),
	)
	return session, nil
}

// GetLoginURL はOAuth認証URLを生成する。
func (s *Service) GetLoginURL(state string) string {
	return s.oauth.GetLoginURL(state)
}

// HandleCallback はOAuthコールバックを処理し、セッションを発行する。
// 未登録ユーザーの場合はusersレコードとidentitiesレコードを自動作成する。
// 登録済みユーザーの場合はidentitiesテーブルで既存ユーザーを特定しログインする。
func (s *Service) HandleCallback(ctx context.Context, code string) (*model.Session, error) {
	// 1. 認可コードをトークンに交換し、ユーザー情報を取得
	userInfo, err := s.oauth.ExchangeCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("認可コードの交換に失敗しました: %w", err)
	}

	// 2. identitiesテーブルで既存ユーザーを検索
	identity, err := s.identRepo.FindByProviderAndProviderUserID(ctx, userInfo.Provider, userInfo.ProviderUserID)
	if err != nil {
		return nil, fmt.Errorf("ID連携の検索に失敗しました: %w", err)
	}

	var userID string

	if identity != nil {
		// 3a. 既存ユーザー: identityからユーザーIDを取得
		userID = identity.UserID
		slog.Info("existing user logged in",
			slog.String("user_id", userID),
			slog.String("provider", userInfo.Provider),
		)
	} else {
		// 3b. 新規ユーザー: identitiesレコードを新規作成
		userID = uuid.New().String()
		newIdentity := &model.Identity{
			ID:             uuid.New().String(),
			UserID:         userID,
			Provider:       userInfo.Provider,
			ProviderUserID: userInfo.ProviderUserID,
			CreatedAt:      time.Now(),
		}
		slog.Info("new oauth user",
			slog.String("user_id", userID),
			slog.String("provider", userInfo.Provider),
		)
		// usersレコードはidentitiesより先に作成する（FK制約）
		if _, err := s.users.EnsureUserRecord(ctx, userID, userInfo.Name, userInfo.Email, userInfo.AvatarURL); err != nil {
			return nil, fmt.Errorf("ユーザーレコードの作成に失敗しました: %w", err)
		}
		if err := s.identRepo.Create(ctx, newIdentity); err != nil {
			return nil, fmt.Errorf("ID連携の作成に失敗しました: %w", err)
		}
	}

	// 既存ユーザーでもプロフィール情報の補完のために毎回確認する
	if identity != nil {
		if _, err := s.users.EnsureUserRecord(ctx, userID, userInfo.Name, userInfo.Email, userInfo.AvatarURL); err != nil {
			return nil, fmt.Errorf("ユーザーレコードの確認に失敗しました: %w", err)
		}
	}

	// 4. セッションを発行
	session, err := s.createSession(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("セッションの作成に失敗しました: %w", err)
	}

	return session, nil
}

// Logout はセッションを破棄する。
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("session ID is required")
	}

	if err := s.sessionRepo.DeleteByID(ctx, sessionID); err != nil {
		return fmt.Errorf("セッションの削除に失敗しました: %w", err)
	}

	slog.Info("user logged out", slog.String("session_id", sessionID))
	return nil
}

// GetCurrentUser はセッションから現在のユーザーを取得する。
func (s *Service) GetCurrentUser(ctx context.Context, sessionID string) (*model.User, error) {
	if sessionID == "" {
		return nil, model.NewUnauthorizedError()
	}

	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("セッションの取得に失敗しました: %w", err)
	}
	if session == nil {
		return nil, model.NewUnauthorizedError()
	}

	user, err := s.userRepo.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError()
	}

	return user, nil
}

// validateEmail はメールアドレスの形式を簡易検証する。
func validateEmail(email string) error {
	if email == "" {
		return model.NewValidationError("email", "メールアドレスを入力してください")
	}
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return model.NewValidationError("email", "メールアドレスの形式が正しくありません")
	}
	return nil
}

// createSession はセッションを作成し永続化する。
func (s *Service) createSession(ctx context.Context, userID string) (*model.Session, error) {
	sessionID, err := generateSessionID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session ID: %w", err)
	}

	session := &model.Session{
		ID:        sessionID,
		UserID:    userID,
		ExpiresAt: time.Now().Add(time.Duration(s.config.SessionMaxAge) * time.Second),
		CreatedAt: time.Now(),
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	return session, nil
}

// generateSessionID は暗号的に安全なセッションIDを生成する。
func generateSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
