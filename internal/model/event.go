// Package model はドメインモデルを定義する。
package model

import "time"

// Event はスポーツイベントを表す。
// OwnerIDがnil（DB上はNULL）のイベントは全ユーザーに公開される。
type Event struct {
	ID          string
	Name        string
	SportID     string
	StartsAt    time.Time
	Description string
	VenueID     string
	OwnerID     *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// EventDetail はイベントをスポーツ・会場・会場の州とJOINした読み取りモデル。
// ダッシュボード表示に必要な関連情報を1レコードで保持する。
type EventDetail struct {
	Event
	Sport Sport
	Venue VenueDetail
}

// IsPublic はイベントが全ユーザーに公開されているかを返す。
func (e *Event) IsPublic() bool {
	return e.OwnerID == nil
}

// EventPatch はイベントの部分更新ペイロードを表す。
// nilフィールドは変更しない。
type EventPatch struct {
	Name        *string
	SportID     *string
	StartsAt    *time.Time
	Description *string
	VenueID     *string
}
