package dashboard

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/Gerald-Wheaton/fastbreak-event-dashboard/internal/localstore"
	"github.com/Gerald-Wheaton/fastbreak-event-dashboard/internal/model"
	"github.com/Gerald-Wheaton/fastbreak-event-dashboard/internal/repository"
	"github.com/Gerald-Wheaton/fastbreak-event-dashboard/internal/schedule"
)

// --- モック ---

type mockEventRepo struct {
	listVisibleFn func(ctx context.Context, actorID *string) ([]model.EventDetail, error)
}

func (m *mockEventRepo) ListVisible(ctx context.Context, actorID *string) ([]model.EventDetail, error) {
	return m.listVisibleFn(ctx, actorID)
}

func (m *mockEventRepo) FindByID(ctx context.Context, id string) (*model.EventDetail, error) {
	return nil, nil
}

func (m *mockEventRepo) Create(ctx context.Context, event *model.Event) (*model.EventDetail, error) {
	return nil, nil
}

func (m *mockEventRepo) Update(ctx context.Context, id string, patch model.EventPatch) (*model.EventDetail, error) {
	return nil, nil
}

func (m *mockEventRepo) Delete(ctx context.Context, id string) (bool, error) {
	return false, nil
}

type mockSportRepo struct {
	listFn func(ctx context.Context) ([]model.Sport, error)
}

func (m *mockSportRepo) List(ctx context.Context) ([]model.Sport, error) {
	return m.listFn(ctx)
}

func (m *mockSportRepo) FindByID(ctx context.Context, id string) (*model.Sport, error) {
	return nil, nil
}

type mockVenueRepo struct {
	listFn func(ctx context.Context) ([]model.VenueDetail, error)
}

func (m *mockVenueRepo) List(ctx context.Context) ([]model.VenueDetail, error) {
	return m.listFn(ctx)
}

func (m *mockVenueRepo) FindByID(ctx context.Context, id string) (*model.VenueDetail, error) {
	return nil, nil
}

func (m *mockVenueRepo) Create(ctx context.Context, venue *model.Venue) (*model.VenueDetail, error) {
	return nil, nil
}

type mockStateRepo struct {
	listFn func(ctx context.Context) ([]model.State, error)
}

func (m *mockStateRepo) List(ctx context.Context) ([]model.State, error) {
	return m.listFn(ctx)
}

func (m *mockStateRepo) FindByAbbr(ctx context.Context, abbr string) (*model.State, error) {
	return nil, nil
}

var (
	_ repository.EventRepository = (*mockEventRepo)(nil)
	_ repository.SportRepository = (*mockSportRepo)(nil)
	_ repository.VenueRepository = (*mockVenueRepo)(nil)
	_ repository.StateRepository = (*mockStateRepo)(nil)
)

// --- テストデータ ---

var testNow = time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

func detail(id, name, sportID string, startsAt time.Time) model.EventDetail {
	return model.EventDetail{
		Event: model.Event{
			ID:       id,
			Name:     name,
			SportID:  sportID,
			StartsAt: startsAt,
			VenueID:  "33333333-3333-4333-8333-333333333333",
		},
		Sport: model.Sport{ID: sportID, Name: sportID},
	}
}

func testEvents() []model.EventDetail {
	return []model.EventDetail{
		detail("e1", "Championship Final", "soccer", testNow.AddDate(0, 2, 0)),
		detail("e2", "Friendly Match", "soccer", testNow.Add(3*time.Hour)),
		detail("e3", "Season Opener", "basketball", testNow.Add(24*time.Hour)),
		detail("e4", "Spring Invitational", "lacrosse", testNow.AddDate(0, 0, -30)),
	}
}

type controllerDeps struct {
	events *mockEventRepo
	sports *mockSportRepo
	venues *mockVenueRepo
	states *mockStateRepo
}

func newTestController(t *testing.T) (*Controller, *controllerDeps) {
	t.Helper()

	deps := &controllerDeps{
		events: &mockEventRepo{
			listVisibleFn: func(ctx context.Context, actorID *string) ([]model.EventDetail, error) {
				return testEvents(), nil
			},
		},
		sports: &mockSportRepo{
			listFn: func(ctx context.Context) ([]model.Sport, error) {
				return []model.Sport{{ID: "soccer", Name: "Soccer"}}, nil
			},
		},
		venues: &mockVenueRepo{
			listFn: func(ctx context.Context) ([]model.VenueDetail, error) {
				return []model.VenueDetail{{Venue: model.Venue{ID: "v1", Name: "Central Arena"}}}, nil
			},
		},
		states: &mockStateRepo{
			listFn: func(ctx context.Context) ([]model.State, error) {
				return []model.State{{Abbreviation: "TX", Name: "Texas"}}, nil
			},
		},
	}

	snapshot := localstore.LoadOrReset(filepath.Join(t.TempDir(), "snapshot.json"))
	c := NewController(deps.events, deps.sports, deps.venues, deps.states, snapshot)
	c.now = func() time.Time { return testNow }
	return c, deps
}

func strPtr(s string) *string { return &s }

// --- Load ---

func TestLoad_AllReadsSucceed(t *testing.T) {
	c, _ := newTestController(t)

	data := c.Load(context.Background(), nil)

	if data.Failed.Any() {
		t.Errorf("Failed = %+v, want all false", data.Failed)
	}
	if data.FromSnapshot {
		t.Error("FromSnapshot = true, want false")
	}
	if len(data.Events) != 4 {
		t.Errorf("len(Events) = %d, want 4", len(data.Events))
	}
	if len(data.Sports) != 1 || len(data.Venues) != 1 || len(data.States) != 1 {
		t.Errorf("reference data lengths = %d/%d/%d, want 1/1/1",
			len(data.Sports), len(data.Venues), len(data.States))
	}
}

func TestLoad_ReferenceFailuresDegradeIndependently(t *testing.T) {
	// 競技と州の読み取り失敗はイベント・会場に影響しない
	c, deps := newTestController(t)
	deps.sports.listFn = func(ctx context.Context) ([]model.Sport, error) {
		return nil, errors.New("db down")
	}
	deps.states.listFn = func(ctx context.Context) ([]model.State, error) {
		return nil, errors.New("db down")
	}

	data := c.Load(context.Background(), nil)

	if !data.Failed.Sports || !data.Failed.States {
		t.Errorf("Failed = %+v, want Sports and States true", data.Failed)
	}
	if data.Failed.Events || data.Failed.Venues {
		t.Errorf("Failed = %+v, want Events and Venues false", data.Failed)
	}
	if data.Sports == nil || len(data.Sports) != 0 {
		t.Errorf("Sports = %v, want empty slice", data.Sports)
	}
	if len(data.Events) != 4 {
		t.Errorf("len(Events) = %d, want 4", len(data.Events))
	}
}

func TestLoad_EventFailureFallsBackToSnapshot(t *testing.T) {
	// イベント読み取りが失敗した場合はスナップショットの内容が使われる
	path := filepath.Join(t.TempDir(), "snapshot.json")
	seed := localstore.LoadOrReset(path)
	if err := seed.Save(testEvents()[:2]); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	c, deps := newTestController(t)
	c.snapshot = localstore.LoadOrReset(path)
	deps.events.listVisibleFn = func(ctx context.Context, actorID *string) ([]model.EventDetail, error) {
		return nil, errors.New("db down")
	}

	data := c.Load(context.Background(), nil)

	if !data.Failed.Events {
		t.Error("Failed.Events = false, want true")
	}
	if !data.FromSnapshot {
		t.Error("FromSnapshot = false, want true")
	}
	if len(data.Events) != 2 {
		t.Errorf("len(Events) = %d, want 2 from snapshot", len(data.Events))
	}
}

func TestLoad_SuccessRefreshesSnapshot(t *testing.T) {
	// 読み取り成功時はスナップショットが最新のイベント一覧で置き換わる
	c, _ := newTestController(t)

	c.Load(context.Background(), nil)

	if got := c.snapshot.Events(); len(got) != 4 {
		t.Errorf("snapshot len = %d, want 4", len(got))
	}
}

func TestLoad_AuthenticatedSuccessDoesNotTouchSnapshot(t *testing.T) {
	// 認証済みアクターの読み取りは所有イベントを含むため、
	// 共有スナップショットには書き込まない
	c, deps := newTestController(t)

	owner := "aaaaaaaa-aaaa-4aaa-8aaa-000000000001"
	owned := detail("e-private", "Owner-only planning session", "soccer", testNow.Add(2*time.Hour))
	owned.Event.OwnerID = &owner
	deps.events.listVisibleFn = func(ctx context.Context, actorID *string) ([]model.EventDetail, error) {
		return []model.EventDetail{owned}, nil
	}

	c.Load(context.Background(), strPtr(owner))

	if got := c.snapshot.Events(); len(got) != 0 {
		t.Errorf("snapshot len = %d, want 0", len(got))
	}
}

func TestLoad_SnapshotFallbackNeverServesOwnedEvents(t *testing.T) {
	// アクターAの読み取り成功後にイベント読み取りが失敗しても、
	// 別アクターのフォールバックに所有イベントが混入しないこと
	c, deps := newTestController(t)

	owner := "aaaaaaaa-aaaa-4aaa-8aaa-000000000001"
	owned := detail("e-private", "Owner-only planning session", "soccer", testNow.Add(2*time.Hour))
	owned.Event.OwnerID = &owner
	deps.events.listVisibleFn = func(ctx context.Context, actorID *string) ([]model.EventDetail, error) {
		return []model.EventDetail{owned}, nil
	}
	c.Load(context.Background(), strPtr(owner))

	deps.events.listVisibleFn = func(ctx context.Context, actorID *string) ([]model.EventDetail, error) {
		return nil, errors.New("db down")
	}
	data := c.Load(context.Background(), nil)

	if !data.FromSnapshot {
		t.Error("FromSnapshot = false, want true")
	}
	for _, e := range data.Events {
		if e.OwnerID != nil {
			t.Errorf("snapshot fallback served owned event %q (owner %s)", e.Name, *e.OwnerID)
		}
	}
}

func TestLoad_PassesActorToRepository(t *testing.T) {
	c, deps := newTestController(t)

	var gotActor *string
	deps.events.listVisibleFn = func(ctx context.Context, actorID *string) ([]model.EventDetail, error) {
		gotActor = actorID
		return testEvents(), nil
	}

	actor := strPtr("user-1")
	c.Load(context.Background(), actor)

	if gotActor == nil || *gotActor != "user-1" {
		t.Errorf("actorID = %v, want user-1", gotActor)
	}
}

// --- Query ---

func loadAndQuery(t *testing.T, filter Filter) []BucketGroup {
	t.Helper()
	c, _ := newTestController(t)
	c.Load(context.Background(), nil)
	return c.Query(nil, filter)
}

func bucketEvents(t *testing.T, groups []BucketGroup, bucket schedule.Bucket) []model.EventDetail {
	t.Helper()
	for _, g := range groups {
		if g.Bucket == bucket {
			return g.Events
		}
	}
	t.Fatalf("bucket %q not in result", bucket)
	return nil
}

func totalEvents(groups []BucketGroup) int {
	n := 0
	for _, g := range groups {
		n += len(g.Events)
	}
	return n
}

func TestQuery_NoFilterReturnsAllBuckets(t *testing.T) {
	groups := loadAndQuery(t, Filter{Period: schedule.PeriodAll})

	if len(groups) != 6 {
		t.Fatalf("len(groups) = %d, want 6", len(groups))
	}
	if totalEvents(groups) != 4 {
		t.Errorf("total events = %d, want 4", totalEvents(groups))
	}

	today := bucketEvents(t, groups, schedule.BucketToday)
	if len(today) != 1 || today[0].ID != "e2" {
		t.Errorf("Today bucket = %v, want [e2]", today)
	}
	tomorrow := bucketEvents(t, groups, schedule.BucketTomorrow)
	if len(tomorrow) != 1 || tomorrow[0].ID != "e3" {
		t.Errorf("Tomorrow bucket = %v, want [e3]", tomorrow)
	}
	past := bucketEvents(t, groups, schedule.BucketPastEvents)
	if len(past) != 1 || past[0].ID != "e4" {
		t.Errorf("Past Events bucket = %v, want [e4]", past)
	}
	upcoming := bucketEvents(t, groups, schedule.BucketUpcoming)
	if len(upcoming) != 1 || upcoming[0].ID != "e1" {
		t.Errorf("Upcoming bucket = %v, want [e1]", upcoming)
	}
}

func TestQuery_SearchIsCaseInsensitive(t *testing.T) {
	groups := loadAndQuery(t, Filter{Search: "CHAMPIONSHIP", Period: schedule.PeriodAll})

	if totalEvents(groups) != 1 {
		t.Fatalf("total events = %d, want 1", totalEvents(groups))
	}
	upcoming := bucketEvents(t, groups, schedule.BucketUpcoming)
	if len(upcoming) != 1 || upcoming[0].ID != "e1" {
		t.Errorf("Upcoming bucket = %v, want [e1]", upcoming)
	}
}

func TestQuery_SportFilter(t *testing.T) {
	groups := loadAndQuery(t, Filter{SportIDs: []string{"soccer"}, Period: schedule.PeriodAll})

	if totalEvents(groups) != 2 {
		t.Errorf("total events = %d, want 2", totalEvents(groups))
	}
}

func TestQuery_EmptySportListMeansAll(t *testing.T) {
	groups := loadAndQuery(t, Filter{SportIDs: []string{}, Period: schedule.PeriodAll})

	if totalEvents(groups) != 4 {
		t.Errorf("total events = %d, want 4", totalEvents(groups))
	}
}

func TestQuery_PeriodTodayLimitsBuckets(t *testing.T) {
	groups := loadAndQuery(t, Filter{Period: schedule.PeriodToday})

	if len(groups) != 1 || groups[0].Bucket != schedule.BucketToday {
		t.Fatalf("groups = %v, want only Today", groups)
	}
	if len(groups[0].Events) != 1 || groups[0].Events[0].ID != "e2" {
		t.Errorf("Today bucket = %v, want [e2]", groups[0].Events)
	}
}

func TestQuery_PeriodMonthExcludesOutOfMonth(t *testing.T) {
	// 今月外のイベント（e1: 2ヶ月後、e4: 先月）は除外される
	groups := loadAndQuery(t, Filter{Period: schedule.PeriodMonth})

	if len(groups) != 4 {
		t.Fatalf("len(groups) = %d, want 4 visible buckets", len(groups))
	}
	if totalEvents(groups) != 2 {
		t.Errorf("total events = %d, want 2", totalEvents(groups))
	}
}

func TestQuery_CombinedFilters(t *testing.T) {
	groups := loadAndQuery(t, Filter{
		Search:   "match",
		SportIDs: []string{"soccer", "basketball"},
		Period:   schedule.PeriodAll,
	})

	if totalEvents(groups) != 1 {
		t.Fatalf("total events = %d, want 1", totalEvents(groups))
	}
	today := bucketEvents(t, groups, schedule.BucketToday)
	if len(today) != 1 || today[0].ID != "e2" {
		t.Errorf("Today bucket = %v, want [e2]", today)
	}
}

func TestQuery_EmptyCollectionStillYieldsAllBuckets(t *testing.T) {
	// コレクションが空でも6バケットすべてが空リストで返る
	c, _ := newTestController(t)

	groups := c.Query(nil, Filter{Period: schedule.PeriodAll})

	if len(groups) != 6 {
		t.Fatalf("len(groups) = %d, want 6", len(groups))
	}
	for _, g := range groups {
		if g.Events == nil {
			t.Errorf("bucket %q events is nil, want empty slice", g.Bucket)
		}
		if len(g.Events) != 0 {
			t.Errorf("bucket %q has %d events, want 0", g.Bucket, len(g.Events))
		}
	}
}

func TestQuery_CollectionsAreSeparatedByActor(t *testing.T) {
	// 匿名とログインユーザーのコレクションは独立している
	c, deps := newTestController(t)

	deps.events.listVisibleFn = func(ctx context.Context, actorID *string) ([]model.EventDetail, error) {
		if actorID == nil {
			return testEvents()[:1], nil
		}
		return testEvents(), nil
	}

	actor := strPtr("user-1")
	c.Load(context.Background(), nil)
	c.Load(context.Background(), actor)

	if got := totalEvents(c.Query(nil, Filter{Period: schedule.PeriodAll})); got != 1 {
		t.Errorf("anonymous total = %d, want 1", got)
	}
	if got := totalEvents(c.Query(actor, Filter{Period: schedule.PeriodAll})); got != 4 {
		t.Errorf("actor total = %d, want 4", got)
	}
}

// --- Reconcile ---

func TestReconcileUpsert_ReplacesExisting(t *testing.T) {
	c, _ := newTestController(t)
	c.Load(context.Background(), nil)

	updated := detail("e2", "Friendly Match (Rescheduled)", "soccer", testNow.Add(5*time.Hour))
	c.ReconcileUpsert(nil, &updated)

	groups := c.Query(nil, Filter{Period: schedule.PeriodAll})
	if totalEvents(groups) != 4 {
		t.Fatalf("total events = %d, want 4", totalEvents(groups))
	}
	today := bucketEvents(t, groups, schedule.BucketToday)
	if len(today) != 1 || today[0].Name != "Friendly Match (Rescheduled)" {
		t.Errorf("Today bucket = %v, want renamed e2", today)
	}
}

func TestReconcileUpsert_AppendsNew(t *testing.T) {
	c, _ := newTestController(t)
	c.Load(context.Background(), nil)

	created := detail("e5", "Night Game", "hockey", testNow.Add(2*time.Hour))
	c.ReconcileUpsert(nil, &created)

	groups := c.Query(nil, Filter{Period: schedule.PeriodAll})
	if totalEvents(groups) != 5 {
		t.Errorf("total events = %d, want 5", totalEvents(groups))
	}
}

func TestReconcileUpsert_KeepsDescendingOrder(t *testing.T) {
	// 追加後もstarts_at降順が維持される
	c, _ := newTestController(t)
	c.Load(context.Background(), nil)

	created := detail("e5", "Night Game", "hockey", testNow.AddDate(0, 3, 0))
	c.ReconcileUpsert(nil, &created)

	c.mu.RLock()
	events := c.collections[""]
	c.mu.RUnlock()

	for i := 1; i < len(events); i++ {
		if events[i].StartsAt.After(events[i-1].StartsAt) {
			t.Errorf("events out of order at %d: %v after %v",
				i, events[i].StartsAt, events[i-1].StartsAt)
		}
	}
	if events[0].ID != "e5" {
		t.Errorf("events[0].ID = %q, want e5 (latest start)", events[0].ID)
	}
}

func TestReconcileUpsert_NilEventIsNoop(t *testing.T) {
	c, _ := newTestController(t)
	c.Load(context.Background(), nil)

	c.ReconcileUpsert(nil, nil)

	if got := totalEvents(c.Query(nil, Filter{Period: schedule.PeriodAll})); got != 4 {
		t.Errorf("total events = %d, want 4", got)
	}
}

func TestReconcileDelete_RemovesEvent(t *testing.T) {
	c, _ := newTestController(t)
	c.Load(context.Background(), nil)

	c.ReconcileDelete(nil, "e2")

	groups := c.Query(nil, Filter{Period: schedule.PeriodAll})
	if totalEvents(groups) != 3 {
		t.Errorf("total events = %d, want 3", totalEvents(groups))
	}
	today := bucketEvents(t, groups, schedule.BucketToday)
	if len(today) != 0 {
		t.Errorf("Today bucket = %v, want empty", today)
	}
}

func TestReconcileDelete_UnknownIDIsNoop(t *testing.T) {
	c, _ := newTestController(t)
	c.Load(context.Background(), nil)

	c.ReconcileDelete(nil, "no-such-event")

	if got := totalEvents(c.Query(nil, Filter{Period: schedule.PeriodAll})); got != 4 {
		t.Errorf("total events = %d, want 4", got)
	}
}

func TestReconcile_DoesNotTouchOtherActors(t *testing.T) {
	c, _ := newTestController(t)
	actor := strPtr("user-1")
	c.Load(context.Background(), nil)
	c.Load(context.Background(), actor)

	c.ReconcileDelete(actor, "e1")

	if got := totalEvents(c.Query(nil, Filter{Period: schedule.PeriodAll})); got != 4 {
		t.Errorf("anonymous total = %d, want 4 (untouched)", got)
	}
	if got := totalEvents(c.Query(actor, Filter{Period: schedule.PeriodAll})); got != 3 {
		t.Errorf("actor total = %d, want 3", got)
	}
}
