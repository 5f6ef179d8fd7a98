// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
// バリデーションエラーの場合はFieldに対象フィールド名を設定する。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, event, system
	Action   string // ユーザー向け対処方法
	Field    string // バリデーション対象フィールド（該当する場合のみ）
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeValidationFailed   = "VALIDATION_FAILED"
	ErrCodeEventNotFound      = "EVENT_NOT_FOUND"
	ErrCodeVenueNotFound      = "VENUE_NOT_FOUND"
	ErrCodeSportNotFound      = "SPORT_NOT_FOUND"
	ErrCodeStateNotFound      = "STATE_NOT_FOUND"
	ErrCodeVenueInUse         = "VENUE_IN_USE"
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeEmailTaken         = "EMAIL_TAKEN"
	ErrCodeUserNotFound       = "USER_NOT_FOUND"
	ErrCodePersistenceFailed  = "PERSISTENCE_FAILED"
)

// NewValidationError はフィールド単位のバリデーションエラーを生成する。
func NewValidationError(field, message string) *APIError {
	return &APIError{
		Code:     ErrCodeValidationFailed,
		Message:  message,
		Category: "validation",
		Action:   "入力内容を修正して再度お試しください。",
		Field:    field,
	}
}

// NewEventNotFoundError はイベント未検出エラーを生成する。
func NewEventNotFoundError(eventID string) *APIError {
	return &APIError{
		Code:     ErrCodeEventNotFound,
		Message:  fmt.Sprintf("指定されたイベントが見つかりません: %s", eventID),
		Category: "event",
		Action:   "イベントIDを確認してください。既に削除されている可能性があります。",
	}
}

// NewVenueNotFoundError は会場未検出エラーを生成する。
func NewVenueNotFoundError(venueID string) *APIError {
	return &APIError{
		Code:     ErrCodeVenueNotFound,
		Message:  fmt.Sprintf("指定された会場が見つかりません: %s", venueID),
		Category: "validation",
		Action:   "会場を選択し直してください。",
		Field:    "venueId",
	}
}

// NewSportNotFoundError は競技種目未検出エラーを生成する。
func NewSportNotFoundError(sportID string) *APIError {
	return &APIError{
		Code:     ErrCodeSportNotFound,
		Message:  fmt.Sprintf("指定された競技種目が見つかりません: %s", sportID),
		Category: "validation",
		Action:   "競技種目を選択し直してください。",
		Field:    "sportId",
	}
}

// NewStateNotFoundError は州未検出エラーを生成する。
func NewStateNotFoundError(abbr string) *APIError {
	return &APIError{
		Code:     ErrCodeStateNotFound,
		Message:  fmt.Sprintf("指定された州略称が見つかりません: %s", abbr),
		Category: "validation",
		Action:   "2文字の州略称（例: NV）を指定してください。",
		Field:    "stateAbbr",
	}
}

// NewVenueInUseError は参照中の会場を削除しようとした場合のエラーを生成する。
func NewVenueInUseError(venueID string) *APIError {
	return &APIError{
		Code:     ErrCodeVenueInUse,
		Message:  fmt.Sprintf("この会場を参照するイベントが存在するため削除できません: %s", venueID),
		Category: "validation",
		Action:   "会場を参照するイベントを先に削除または移動してください。",
	}
}

// NewUnauthorizedError は未認証エラーを生成する。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "認証が必要です。",
		Category: "auth",
		Action:   "ログインしてください。",
	}
}

// NewInvalidCredentialsError は認証情報不一致エラーを生成する。
func NewInvalidCredentialsError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidCredentials,
		Message:  "メールアドレスまたはパスワードが正しくありません。",
		Category: "auth",
		Action:   "入力内容を確認して再度お試しください。",
	}
}

// NewEmailTakenError はメールアドレス重複エラーを生成する。
func NewEmailTakenError() *APIError {
	return &APIError{
		Code:     ErrCodeEmailTaken,
		Message:  "このメールアドレスは既に登録されています。",
		Category: "auth",
		Action:   "別のメールアドレスを使用するか、ログインしてください。",
	}
}

// NewUserNotFoundError はユーザーが見つからない場合のエラーを生成する。
func NewUserNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  "ユーザーが見つかりません。",
		Category: "auth",
		Action:   "ログインし直してください。",
	}
}

// NewPersistenceFailedError は永続化層の障害エラーを生成する。
func NewPersistenceFailedError() *APIError {
	return &APIError{
		Code:     ErrCodePersistenceFailed,
		Message:  "データベース操作に失敗しました。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	}
}
