// Package localstore はイベント一覧のローカルスナップショットを提供する。
// データベースからの読み取りに失敗した際のフォールバックとして使用される。
package localstore

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/Gerald-Wheaton/fastbreak-event-dashboard/internal/model"
)

// SnapshotVersion はスナップショット形式のバージョン。
// 形式変更時にインクリメントすると、古いスナップショットは読み込み時に破棄される。
const SnapshotVersion = "4"

// snapshot はファイルに保存されるスナップショットの形式。
type snapshot struct {
	Version string              `json:"version"`
	Events  []model.EventDetail `json:"events"`
}

// Store はファイルバックのイベントスナップショットストア。
// 全メソッドはスレッドセーフ。
type Store struct {
	path string

	mu     sync.RWMutex
	events []model.EventDetail
}

// LoadOrReset は指定パスのスナップショットを読み込んでStoreを生成する。
// ファイルが存在しない、バージョンが一致しない、または内容が壊れている場合は
// 部分的に読み込まず、空のストアとして初期化する。
func LoadOrReset(path string) *Store {
	s := &Store{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("failed to read event snapshot, resetting",
				slog.String("path", path),
				slog.String("error", err.Error()),
			)
		}
		return s
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		slog.Warn("corrupt event snapshot, resetting",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return s
	}

	if snap.Version != SnapshotVersion {
		slog.Info("event snapshot version mismatch, resetting",
			slog.String("path", path),
			slog.String("found", snap.Version),
			slog.String("want", SnapshotVersion),
		)
		return s
	}

	s.events = snap.Events
	return s
}

// Events は保持しているイベント一覧のコピーを返す。
func (s *Store) Events() []model.EventDetail {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.EventDetail, len(s.events))
	copy(out, s.events)
	return out
}

// Save はイベント一覧をメモリに反映し、ファイルへ書き出す。
// 一時ファイルへの書き込みとリネームで更新するため、途中クラッシュしても
// 既存スナップショットが壊れることはない。
func (s *Store) Save(events []model.EventDetail) error {
	s.mu.Lock()
	s.events = make([]model.EventDetail, len(events))
	copy(s.events, events)
	s.mu.Unlock()

	data, err := json.Marshal(snapshot{
		Version: SnapshotVersion,
		Events:  events,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal event snapshot: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "snapshot-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp snapshot file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write event snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp snapshot file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace event snapshot: %w", err)
	}

	return nil
}
