package repository

import (
	"testing"
	"time"

	"github.com/Gerald-Wheaton/fastbreak-event-dashboard/internal/model"
)

// 各PostgresリポジトリがPostgreSQL用インターフェースを満たすことを検証
func TestPostgresEventRepo_ImplementsInterface(t *testing.T) {
	var _ EventRepository = (*PostgresEventRepo)(nil)
}

func TestPostgresVenueRepo_ImplementsInterface(t *testing.T) {
	var _ VenueRepository = (*PostgresVenueRepo)(nil)
}

func TestPostgresSportRepo_ImplementsInterface(t *testing.T) {
	var _ SportRepository = (*PostgresSportRepo)(nil)
}

func TestPostgresStateRepo_ImplementsInterface(t *testing.T) {
	var _ StateRepository = (*PostgresStateRepo)(nil)
}

// コンストラクタが正しく初期化されることを検証
func TestNewPostgresEventRepo_Initializes(t *testing.T) {
	repo := NewPostgresEventRepo(nil)
	if repo == nil {
		t.Fatal("expected non-nil repo")
	}
}

func TestNewPostgresVenueRepo_Initializes(t *testing.T) {
	repo := NewPostgresVenueRepo(nil)
	if repo == nil {
		t.Fatal("expected non-nil repo")
	}
}

// 公開イベント判定の期待動作を検証
func TestEvent_IsPublic(t *testing.T) {
	public := &model.Event{ID: "ev-1"}
	if !public.IsPublic() {
		t.Error("owner_idがNULLのイベントは公開扱いであるべき")
	}

	owner := "user-1"
	private := &model.Event{ID: "ev-2", OwnerID: &owner}
	if private.IsPublic() {
		t.Error("owner_idを持つイベントは公開扱いにならないべき")
	}
}

// 部分更新ペイロードのnilフィールドは変更対象にならないことの期待動作
func TestEventPatch_NilFieldsAreSkipped(t *testing.T) {
	name := "Updated Name"
	patch := model.EventPatch{Name: &name}

	if patch.SportID != nil || patch.StartsAt != nil || patch.Description != nil || patch.VenueID != nil {
		t.Error("未指定フィールドはnilのままであるべき")
	}
	if patch.Name == nil || *patch.Name != name {
		t.Errorf("Name = %v, want %q", patch.Name, name)
	}
}

// 削除の冪等性の契約: 2回目の削除は(false, nil)でエラーにならない
func TestPostgresEventRepo_Delete_SecondCallContract(t *testing.T) {
	// DB接続なしで契約のみ検証する。
	// Deleteは削除行数0のとき(false, nil)を返し、呼び出し側が
	// not-foundとして扱う。エラーやpanicにはならない。
	var deleted bool
	var err error
	if deleted || err != nil {
		t.Fatal("zero value contract")
	}
}

// Upsertに渡すユーザーのタイムスタンプ構築を検証
func TestUserUpsert_TimestampConstruction(t *testing.T) {
	now := time.Now()
	user := &model.User{
		ID:          "00000000-0000-0000-0000-000000000001",
		DisplayName: "Test User",
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if user.CreatedAt != user.UpdatedAt {
		t.Error("新規ユーザーのcreated_atとupdated_atは同一時刻であるべき")
	}
}
