package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/Gerald-Wheaton/fastbreak-event-dashboard/internal/dashboard"
	"github.com/Gerald-Wheaton/fastbreak-event-dashboard/internal/metrics"
	"github.com/Gerald-Wheaton/fastbreak-event-dashboard/internal/schedule"
)

// DashboardControllerInterface はダッシュボードハンドラーが必要とするインターフェース。
type DashboardControllerInterface interface {
	Load(ctx context.Context, actorID *string) dashboard.PageData
	Query(actorID *string, filter dashboard.Filter) []dashboard.BucketGroup
}

// DashboardHandler はダッシュボード表示のHTTPハンドラー。
type DashboardHandler struct {
	controller  DashboardControllerInterface
	collector   metrics.MetricsCollector
	loadTimeout time.Duration
}

// NewDashboardHandler はDashboardHandlerを生成する。
// collectorはnilを許容する。loadTimeoutが0の場合はタイムアウトしない。
func NewDashboardHandler(controller DashboardControllerInterface, collector metrics.MetricsCollector, loadTimeout time.Duration) *DashboardHandler {
	return &DashboardHandler{
		controller:  controller,
		collector:   collector,
		loadTimeout: loadTimeout,
	}
}

// dashboardEventResponse はダッシュボード表示用のイベントレスポンス。
// 一覧表示で使う相対・絶対の開始時刻テキストを付加する。
type dashboardEventResponse struct {
	eventResponse
	StartsIn     string `json:"starts_in"`
	StartsAtText string `json:"starts_at_text"`
}

// bucketGroupResponse は1バケットのAPIレスポンス。
type bucketGroupResponse struct {
	Bucket string                   `json:"bucket"`
	Events []dashboardEventResponse `json:"events"`
}

// dashboardFailedResponse はデータ種別ごとの読み取り失敗フラグ。
type dashboardFailedResponse struct {
	Events bool `json:"events"`
	Sports bool `json:"sports"`
	Venues bool `json:"venues"`
	States bool `json:"states"`
}

// dashboardResponse はダッシュボードのAPIレスポンス。
type dashboardResponse struct {
	Buckets      []bucketGroupResponse   `json:"buckets"`
	Sports       []sportResponse         `json:"sports"`
	Venues       []venueResponse         `json:"venues"`
	States       []stateResponse         `json:"states"`
	Failed       dashboardFailedResponse `json:"failed"`
	FromSnapshot bool                    `json:"from_snapshot"`
}

// GetDashboard はフィルタ適用済みのダッシュボードデータを返す。
// GET /api/dashboard?search=&sports=a,b&period=all|today|month
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	actorID := optionalActorID(r)

	ctx := r.Context()
	if h.loadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.loadTimeout)
		defer cancel()
	}

	data := h.controller.Load(ctx, actorID)
	h.recordLoadFailures(data)

	filter := parseDashboardFilter(r)
	groups := h.controller.Query(actorID, filter)

	resp := dashboardResponse{
		Buckets:      make([]bucketGroupResponse, 0, len(groups)),
		Sports:       make([]sportResponse, 0, len(data.Sports)),
		Venues:       make([]venueResponse, 0, len(data.Venues)),
		States:       make([]stateResponse, 0, len(data.States)),
		Failed:       dashboardFailedResponse(data.Failed),
		FromSnapshot: data.FromSnapshot,
	}
	now := time.Now()
	for _, g := range groups {
		events := make([]dashboardEventResponse, 0, len(g.Events))
		for _, e := range g.Events {
			events = append(events, dashboardEventResponse{
				eventResponse: toEventResponse(e),
				StartsIn:      schedule.CountdownText(e.StartsAt, now),
				StartsAtText:  schedule.FormatEventTime(e.StartsAt, now),
			})
		}
		resp.Buckets = append(resp.Buckets, bucketGroupResponse{
			Bucket: string(g.Bucket),
			Events: events,
		})
	}
	for _, s := range data.Sports {
		resp.Sports = append(resp.Sports, toSportResponse(s))
	}
	for _, v := range data.Venues {
		resp.Venues = append(resp.Venues, toVenueResponse(v))
	}
	for _, s := range data.States {
		resp.States = append(resp.States, toStateResponse(s))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// recordLoadFailures は読み取り失敗をメトリクスに記録する。
func (h *DashboardHandler) recordLoadFailures(data dashboard.PageData) {
	if h.collector == nil {
		return
	}

	if data.FromSnapshot {
		h.collector.RecordSnapshotFallback()
	}
	if data.Failed.Events {
		h.collector.RecordDashboardLoadFailure("events")
	}
	if data.Failed.Sports {
		h.collector.RecordDashboardLoadFailure("sports")
	}
	if data.Failed.Venues {
		h.collector.RecordDashboardLoadFailure("venues")
	}
	if data.Failed.States {
		h.collector.RecordDashboardLoadFailure("states")
	}
}

// parseDashboardFilter はクエリパラメータからフィルタを組み立てる。
// sportsはカンマ区切り、periodの未知の値はallとして扱う。
func parseDashboardFilter(r *http.Request) dashboard.Filter {
	filter := dashboard.Filter{
		Search: r.URL.Query().Get("search"),
		Period: schedule.ParsePeriod(r.URL.Query().Get("period")),
	}

	if sports := r.URL.Query().Get("sports"); sports != "" {
		for _, id := range strings.Split(sports, ",") {
			if id = strings.TrimSpace(id); id != "" {
				filter.SportIDs = append(filter.SportIDs, id)
			}
		}
	}

	return filter
}

// SetupDashboardRoutes はダッシュボード関連のルーティングを設定したchi.Routerを返す。
func SetupDashboardRoutes(controller DashboardControllerInterface, collector metrics.MetricsCollector, loadTimeout time.Duration) http.Handler {
	r := chi.NewRouter()
	h := NewDashboardHandler(controller, collector, loadTimeout)

	r.Get("/api/dashboard", h.GetDashboard)

	return r
}
