package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/Gerald-Wheaton/fastbreak-event-dashboard/internal/model"
)

// ErrDuplicateEmail は登録済みメールアドレスでの資格情報作成を表すエラー。
var ErrDuplicateEmail = errors.New("email already registered")

// uniqueViolation はPostgreSQLの一意制約違反のSQLSTATEコード。
const uniqueViolation = "23505"

// PostgresCredentialRepo はPostgreSQLを使用したパスワード資格情報リポジトリ。
type PostgresCredentialRepo struct {
	db *sql.DB
}

// NewPostgresCredentialRepo はPostgresCredentialRepoを生成する。
func NewPostgresCredentialRepo(db *sql.DB) *PostgresCredentialRepo {
	return &PostgresCredentialRepo{db: db}
}

// FindByEmail はメールアドレスで資格情報を検索する。見つからない場合はnilを返す。
func (r *PostgresCredentialRepo) FindByEmail(ctx context.Context, email string) (*model.Credential, error) {
	cred := &model.Credential{}
	var confirmedAt sql.NullTime
	err := r.db.QueryRowContext(ctx,
		`SELECT user_id, email, password_hash, email_confirmed_at, created_at
		 FROM user_credentials
		 WHERE email = $1`,
		email,
	).Scan(&cred.UserID, &cred.Email, &cred.PasswordHash, &confirmedAt, &cred.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find credential by email: %w", err)
	}

	if confirmedAt.Valid {
		cred.EmailConfirmedAt = &confirmedAt.Time
	}
	return cred, nil
}

// Create は資格情報を作成する。
// メールアドレスの一意制約違反はErrDuplicateEmailに変換して返す。
func (r *PostgresCredentialRepo) Create(ctx context.Context, cred *model.Credential) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO user_credentials (user_id, email, password_hash, email_confirmed_at, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		cred.UserID, cred.Email, cred.PasswordHash, cred.EmailConfirmedAt, cred.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create credential: %w", err)
	}
	return nil
}

// compile-time interface check
var _ CredentialRepository = (*PostgresCredentialRepo)(nil)
