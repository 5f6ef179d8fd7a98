// Package model はドメインモデルを定義する。
package model

import "time"

// Venue はイベント開催会場を表す。
type Venue struct {
	ID        string
	Name      string
	City      string
	StateAbbr string
	ZipCode   string
	Address1  string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// VenueDetail は会場を州とJOINした読み取りモデル。
type VenueDetail struct {
	Venue
	State State
}

// State は米国の州を表す参照データ。
// Abbreviationは大文字2文字の州略称（例: "NV"）。
type State struct {
	Abbreviation string
	Name         string
}

// Sport は競技種目を表す参照データ。
// IDはケバブケース小文字のスラッグ（例: "water-polo"）。
// イベントから参照された後のID変更は想定しない。
type Sport struct {
	ID    string
	Name  string
	Color string // 16進カラーコード（例: "#FF5733"）。未設定の場合は空文字列。
}
