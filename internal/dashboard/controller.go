// Package dashboard はダッシュボード表示用の読み取りコントローラを提供する。
//
// アクターごとに可視イベントのインメモリコレクションを保持し、
// フィルタ適用とバケットグルーピングはこのコレクションに対して行う。
// データベース読み取りの失敗は画面全体のエラーにせず、対象データを
// 空にして失敗フラグで呼び出し側へ伝える。
package dashboard

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Gerald-Wheaton/fastbreak-event-dashboard/internal/localstore"
	"github.com/Gerald-Wheaton/fastbreak-event-dashboard/internal/model"
	"github.com/Gerald-Wheaton/fastbreak-event-dashboard/internal/repository"
	"github.com/Gerald-Wheaton/fastbreak-event-dashboard/internal/schedule"
)

// Failed はデータ種別ごとの読み取り失敗フラグ。
type Failed struct {
	Events bool
	Sports bool
	Venues bool
	States bool
}

// Any はいずれかの読み取りが失敗していたらtrueを返す。
func (f Failed) Any() bool {
	return f.Events || f.Sports || f.Venues || f.States
}

// PageData はダッシュボード初期表示に必要なデータ一式。
// 失敗した種別は空のまま返り、Failedに記録される。
type PageData struct {
	Events []model.EventDetail
	Sports []model.Sport
	Venues []model.VenueDetail
	States []model.State
	Failed Failed
	// FromSnapshot はイベントがDBではなくローカルスナップショット由来かを示す。
	FromSnapshot bool
}

// Filter はダッシュボードの絞り込み条件。
type Filter struct {
	// Search はイベント名に対する部分一致検索語。大文字小文字を区別しない。
	Search string
	// SportIDs は表示する競技種目のIDリスト。空の場合は全競技を表示する。
	SportIDs []string
	// Period は期間フィルタ。
	Period schedule.Period
}

// BucketGroup は1バケットとそのメンバーのイベント。
type BucketGroup struct {
	Bucket schedule.Bucket
	Events []model.EventDetail
}

// Controller はアクター別の可視イベントコレクションを管理する。
// 全メソッドはスレッドセーフ。
type Controller struct {
	eventRepo repository.EventRepository
	sportRepo repository.SportRepository
	venueRepo repository.VenueRepository
	stateRepo repository.StateRepository
	snapshot  *localstore.Store
	now       func() time.Time

	mu          sync.RWMutex
	collections map[string][]model.EventDetail
}

// NewController はControllerを生成する。
func NewController(
	eventRepo repository.EventRepository,
	sportRepo repository.SportRepository,
	venueRepo repository.VenueRepository,
	stateRepo repository.StateRepository,
	snapshot *localstore.Store,
) *Controller {
	return &Controller{
		eventRepo:   eventRepo,
		sportRepo:   sportRepo,
		venueRepo:   venueRepo,
		stateRepo:   stateRepo,
		snapshot:    snapshot,
		now:         time.Now,
		collections: make(map[string][]model.EventDetail),
	}
}

// actorKey はアクターIDをコレクションのキーに変換する。匿名は空文字列。
func actorKey(actorID *string) string {
	if actorID == nil {
		return ""
	}
	return *actorID
}

// Load はダッシュボード表示用のデータ一式を取得する。
// イベント・競技・会場・州の4種を並行に読み取り、それぞれ独立に
// 失敗を許容する。イベントの読み取りに失敗した場合はローカル
// スナップショットにフォールバックする。
// 成功したイベント一覧はアクターのコレクションとスナップショットに反映される。
func (c *Controller) Load(ctx context.Context, actorID *string) PageData {
	var data PageData
	var wg sync.WaitGroup
	wg.Add(4)

	var eventsErr error
	go func() {
		defer wg.Done()
		events, err := c.eventRepo.ListVisible(ctx, actorID)
		if err != nil {
			eventsErr = err
			return
		}
		data.Events = events
	}()

	go func() {
		defer wg.Done()
		sports, err := c.sportRepo.List(ctx)
		if err != nil {
			slog.Error("failed to load sports for dashboard", slog.String("error", err.Error()))
			data.Failed.Sports = true
			data.Sports = []model.Sport{}
			return
		}
		data.Sports = sports
	}()

	go func() {
		defer wg.Done()
		venues, err := c.venueRepo.List(ctx)
		if err != nil {
			slog.Error("failed to load venues for dashboard", slog.String("error", err.Error()))
			data.Failed.Venues = true
			data.Venues = []model.VenueDetail{}
			return
		}
		data.Venues = venues
	}()

	go func() {
		defer wg.Done()
		states, err := c.stateRepo.List(ctx)
		if err != nil {
			slog.Error("failed to load states for dashboard", slog.String("error", err.Error()))
			data.Failed.States = true
			data.States = []model.State{}
			return
		}
		data.States = states
	}()

	wg.Wait()

	if eventsErr != nil {
		slog.Error("failed to load events for dashboard, falling back to snapshot",
			slog.String("error", eventsErr.Error()),
		)
		data.Failed.Events = true
		data.FromSnapshot = true
		data.Events = c.snapshot.Events()
	}

	c.mu.Lock()
	c.collections[actorKey(actorID)] = cloneEvents(data.Events)
	c.mu.Unlock()

	// スナップショットは匿名視点の読み込みのみで更新する。
	// 所有者限定イベントを共有スナップショットに書き込まない。
	if !data.Failed.Events && actorID == nil {
		if err := c.snapshot.Save(data.Events); err != nil {
			slog.Warn("failed to persist event snapshot", slog.String("error", err.Error()))
		}
	}

	return data
}

// Query はアクターのコレクションにフィルタを適用し、
// 期間フィルタで表示対象となるバケットを順序付きで返す。
// フィルタは検索語 → 競技種目 → 期間の順に適用される。
func (c *Controller) Query(actorID *string, filter Filter) []BucketGroup {
	c.mu.RLock()
	events := cloneEvents(c.collections[actorKey(actorID)])
	c.mu.RUnlock()

	now := c.now()
	filtered := applyFilter(events, filter, now)

	groups := schedule.GroupByBucket(filtered, now)
	visible := schedule.VisibleBuckets(filter.Period)

	result := make([]BucketGroup, 0, len(visible))
	for _, b := range visible {
		result = append(result, BucketGroup{Bucket: b, Events: groups[b]})
	}
	return result
}

// applyFilter は検索語・競技種目・期間の3条件をこの順で適用する。
func applyFilter(events []model.EventDetail, filter Filter, now time.Time) []model.EventDetail {
	search := strings.ToLower(strings.TrimSpace(filter.Search))

	sportSet := make(map[string]struct{}, len(filter.SportIDs))
	for _, id := range filter.SportIDs {
		sportSet[id] = struct{}{}
	}

	filtered := make([]model.EventDetail, 0, len(events))
	for _, ev := range events {
		if search != "" && !strings.Contains(strings.ToLower(ev.Name), search) {
			continue
		}
		if len(sportSet) > 0 {
			if _, ok := sportSet[ev.SportID]; !ok {
				continue
			}
		}
		if !schedule.MatchesPeriod(ev.StartsAt, now, filter.Period) {
			continue
		}
		filtered = append(filtered, ev)
	}
	return filtered
}

// ReconcileUpsert は作成・更新されたイベントをアクターのコレクションへ反映する。
// 既存IDは置き換え、未知のIDは追加する。再取得は行わない。
// 変更操作が失敗した場合は呼び出さないこと。コレクションは変更前のまま保たれる。
func (c *Controller) ReconcileUpsert(actorID *string, event *model.EventDetail) {
	if event == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	key := actorKey(actorID)
	events := c.collections[key]

	replaced := false
	for i := range events {
		if events[i].ID == event.ID {
			events[i] = *event
			replaced = true
			break
		}
	}
	if !replaced {
		events = append(events, *event)
	}

	// リポジトリのListVisibleと同じstarts_at降順を維持する。
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].StartsAt.After(events[j].StartsAt)
	})
	c.collections[key] = events
}

// ReconcileDelete は削除されたイベントをアクターのコレクションから取り除く。
// IDが存在しない場合は何もしない。
func (c *Controller) ReconcileDelete(actorID *string, eventID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := actorKey(actorID)
	events := c.collections[key]

	for i := range events {
		if events[i].ID == eventID {
			c.collections[key] = append(events[:i], events[i+1:]...)
			return
		}
	}
}

// cloneEvents はイベントスライスの浅いコピーを返す。nilは空スライスになる。
func cloneEvents(events []model.EventDetail) []model.EventDetail {
	out := make([]model.EventDetail, len(events))
	copy(out, events)
	return out
}
