package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Gerald-Wheaton/fastbreak-event-dashboard/internal/model"
)

// PostgresUserRepo はPostgreSQLを使用したユーザーリポジトリ。
type PostgresUserRepo struct {
	db *sql.DB
}

// NewPostgresUserRepo はPostgresUserRepoを生成する。
func NewPostgresUserRepo(db *sql.DB) *PostgresUserRepo {
	return &PostgresUserRepo{db: db}
}

// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
func (r *PostgresUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	user := &model.User{}
	var displayName, avatarURL sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT id, display_name, avatar_url, created_at, updated_at FROM users WHERE id = $1`,
		id,
	).Scan(&user.ID, &displayName, &avatarURL, &user.CreatedAt, &user.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}

	user.DisplayName = displayName.String
	user.AvatarURL = avatarURL.String
	return user, nil
}

// Upsert はユーザーを冪等に作成する。
// 同一IDの行が既に存在する場合はON CONFLICT DO NOTHINGで何も変更せず、
// 既存行をそのまま返す。2つの認証フロー（パスワード登録・OAuthコールバック）
// から同一ユーザーに対して重複して呼ばれても安全。
func (r *PostgresUserRepo) Upsert(ctx context.Context, user *model.User) (*model.User, error) {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, display_name, avatar_url, created_at, updated_at)
		 VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), $4, $5)
		 ON CONFLICT (id) DO NOTHING`,
		user.ID, user.DisplayName, user.AvatarURL, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}

	stored, err := r.FindByID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, fmt.Errorf("user disappeared after upsert: %s", user.ID)
	}
	return stored, nil
}

// DeleteByID は指定IDのユーザーを削除する。
// credentials、identities、sessionsはCASCADE削除され、
// 所有イベントのowner_idはSET NULLにより公開イベントへ移行する。
func (r *PostgresUserRepo) DeleteByID(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM users WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("user not found: %s", id)
	}
	return nil
}

// compile-time interface check
var _ UserRepository = (*PostgresUserRepo)(nil)
