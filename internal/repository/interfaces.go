// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"database/sql"

	"github.com/Gerald-Wheaton/fastbreak-event-dashboard/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// Upsert はユーザーを冪等に作成する。
	// 同一IDの行が既に存在する場合は何も変更せず既存行を返す。
	Upsert(ctx context.Context, user *model.User) (*model.User, error)

	// DeleteByID は指定IDのユーザーを削除する。
	// 関連するcredentials、identities、sessionsはCASCADE削除され、
	// ユーザーが所有していたイベントのowner_idはSET NULLで公開イベントになる。
	DeleteByID(ctx context.Context, id string) error
}

// CredentialRepository はパスワード認証資格情報の永続化インターフェース。
type CredentialRepository interface {
	// FindByEmail はメールアドレスで資格情報を検索する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.Credential, error)

	// Create は資格情報を作成する。メールアドレス重複時はErrDuplicateEmailを返す。
	Create(ctx context.Context, cred *model.Credential) error
}

// IdentityRepository は外部IdP紐付け情報の永続化インターフェース。
type IdentityRepository interface {
	// FindByProviderAndProviderUserID はproviderとprovider_user_idでidentityを検索する。
	// 見つからない場合はnilを返す。
	FindByProviderAndProviderUserID(ctx context.Context, provider, providerUserID string) (*model.Identity, error)

	// Create はidentityを作成する。
	Create(ctx context.Context, identity *model.Identity) error
}

// SessionRepository はセッションデータの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error
	// FindByID は指定IDのセッションを取得する。期限切れの場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)
	// DeleteByID は指定IDのセッションを削除する。
	DeleteByID(ctx context.Context, id string) error
	// DeleteByUserID は指定ユーザーの全セッションを削除する。
	DeleteByUserID(ctx context.Context, userID string) error
}

// EventRepository はイベントデータの永続化インターフェース。
type EventRepository interface {
	// ListVisible はactorに可視なイベントを返す。
	// actorIDがnilの場合はowner_id IS NULLの公開イベントのみ、
	// 指定された場合は公開イベントと自身が所有するイベントを返す。
	// 各イベントは競技種目・会場・会場の州とJOINされ、starts_at降順で並ぶ。
	ListVisible(ctx context.Context, actorID *string) ([]model.EventDetail, error)

	// FindByID は指定IDのイベントを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.EventDetail, error)

	// Create はイベントを作成し、関連情報をJOINした作成結果を返す。
	Create(ctx context.Context, event *model.Event) (*model.EventDetail, error)

	// Update は部分更新ペイロードを適用しupdated_atを現在時刻に設定する。
	// 対象行が存在しない場合はnilを返す。
	Update(ctx context.Context, id string, patch model.EventPatch) (*model.EventDetail, error)

	// Delete は指定IDのイベントを削除する。
	// 削除した場合はtrue、対象行が存在しなかった場合はfalseを返す。
	Delete(ctx context.Context, id string) (bool, error)
}

// VenueRepository は会場データの永続化インターフェース。
type VenueRepository interface {
	// List は全会場を州とJOINし、名前順で返す。
	List(ctx context.Context) ([]model.VenueDetail, error)

	// FindByID は指定IDの会場を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.VenueDetail, error)

	// Create は会場を作成し、州をJOINした作成結果を返す。
	Create(ctx context.Context, venue *model.Venue) (*model.VenueDetail, error)
}

// SportRepository は競技種目参照データの永続化インターフェース。
type SportRepository interface {
	// List は全競技種目を名前順で返す。
	List(ctx context.Context) ([]model.Sport, error)

	// FindByID は指定IDの競技種目を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Sport, error)
}

// StateRepository は州参照データの永続化インターフェース。
type StateRepository interface {
	// List は全州を名前順で返す。
	List(ctx context.Context) ([]model.State, error)

	// FindByAbbr は州略称で州を取得する。見つからない場合はnilを返す。
	FindByAbbr(ctx context.Context, abbr string) (*model.State, error)
}

// TxBeginner はトランザクション開始用のインターフェース。
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}
