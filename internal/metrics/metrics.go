// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// ミドルウェアやサービス層から利用する。
type MetricsCollector interface {
	RecordHTTPStatus(statusCode int)
	RecordRequestLatency(route string, duration time.Duration)
	RecordEventWrite(operation string)
	RecordSnapshotFallback()
	RecordDashboardLoadFailure(kind string)
	RecordAuthFailure(reason string)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	httpStatus        *prometheus.CounterVec
	requestLatency    *prometheus.HistogramVec
	eventWrites       *prometheus.CounterVec
	snapshotFallback  prometheus.Counter
	dashboardFailures *prometheus.CounterVec
	authFailures      *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fastbreak_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		requestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fastbreak_request_latency_seconds",
			Help:    "ルート別のリクエスト処理レイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		eventWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fastbreak_event_writes_total",
			Help: "イベント変更操作の合計数",
		}, []string{"operation"}),
		snapshotFallback: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fastbreak_snapshot_fallback_total",
			Help: "イベント読み取り失敗によるスナップショットフォールバックの合計数",
		}),
		dashboardFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fastbreak_dashboard_load_failures_total",
			Help: "ダッシュボード読み取り失敗のデータ種別ごとの合計数",
		}, []string{"kind"}),
		authFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fastbreak_auth_failures_total",
			Help: "認証失敗の理由別の合計数",
		}, []string{"reason"}),
	}

	reg.MustRegister(
		c.httpStatus,
		c.requestLatency,
		c.eventWrites,
		c.snapshotFallback,
		c.dashboardFailures,
		c.authFailures,
	)

	return c
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordRequestLatency はルート別のリクエスト処理レイテンシを記録する。
func (c *Collector) RecordRequestLatency(route string, duration time.Duration) {
	c.requestLatency.WithLabelValues(route).Observe(duration.Seconds())
}

// RecordEventWrite はイベント変更操作（create/update/delete）を記録する。
func (c *Collector) RecordEventWrite(operation string) {
	c.eventWrites.WithLabelValues(operation).Inc()
}

// RecordSnapshotFallback はスナップショットへのフォールバックを記録する。
func (c *Collector) RecordSnapshotFallback() {
	c.snapshotFallback.Inc()
}

// RecordDashboardLoadFailure はダッシュボード読み取り失敗をデータ種別ごとに記録する。
func (c *Collector) RecordDashboardLoadFailure(kind string) {
	c.dashboardFailures.WithLabelValues(kind).Inc()
}

// RecordAuthFailure は認証失敗を理由別に記録する。
func (c *Collector) RecordAuthFailure(reason string) {
	c.authFailures.WithLabelValues(reason).Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetupMetricsRoute は/metricsエンドポイントを提供するHTTPハンドラーを返す。
// Prometheusスクレイプに対応する。
func SetupMetricsRoute(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	return mux
}
