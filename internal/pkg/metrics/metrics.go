package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics はアプリケーションのメトリクスを管理する
type Metrics struct {
	// HTTPリクエストの総数（method, path, status_code）
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPリクエストのレイテンシ（method, path）
	HTTPRequestDuration *prometheus.HistogramVec

	// 予約操作の総数（operation: create/update/cancel, status: success/unavailable/over_capacity/forbidden/lock_failed/error）
	BookingsTotal *prometheus.CounterVec

	// 分散ロックの操作時間（operation: acquire/release, status: success/failed）
	DistributedLockDuration *prometheus.HistogramVec

	// 会場の収容人数キャッシュの参照結果（result: hit/miss）
	VenueCacheRequests *prometheus.CounterVec

	// キャンセルされておらず、まだ開始していないイベント数
	ActiveEvents prometheus.Gauge
}

// New は新しいMetricsインスタンスを作成し、デフォルトレジストリに登録する
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry は指定したレジストリにメトリクスを登録する
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		BookingsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "venue_bookings_total",
				Help: "Total number of event booking operations by outcome",
			},
			[]string{"operation", "status"},
		),
		DistributedLockDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "distributed_lock_duration_seconds",
				Help:    "Time spent on distributed lock operations",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"operation", "status"},
		),
		VenueCacheRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "venue_capacity_cache_requests_total",
				Help: "Venue capacity cache lookups by result",
			},
			[]string{"result"},
		),
		ActiveEvents: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "active_events",
				Help: "Current number of non-cancelled events that have not started",
			},
		),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.BookingsTotal,
		m.DistributedLockDuration,
		m.VenueCacheRequests,
		m.ActiveEvents,
	)

	return m
}

// ObserveBooking は予約操作の結果を記録する。nil レシーバーでは何もしない
func (m *Metrics) ObserveBooking(operation, status string) {
	if m == nil {
		return
	}
	m.BookingsTotal.WithLabelValues(operation, status).Inc()
}

// ObserveLock は分散ロック操作の時間を記録する。nil レシーバーでは何もしない
func (m *Metrics) ObserveLock(operation string, ok bool, seconds float64) {
	if m == nil {
		return
	}
	status := "success"
	if !ok {
		status = "failed"
	}
	m.DistributedLockDuration.WithLabelValues(operation, status).Observe(seconds)
}

// ObserveCache はキャッシュ参照の結果を記録する。nil レシーバーでは何もしない
func (m *Metrics) ObserveCache(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.VenueCacheRequests.WithLabelValues(result).Inc()
}

// デフォルトのメトリクスインスタンス
var defaultMetrics *Metrics

// Init はデフォルトのメトリクスインスタンスを初期化する
func Init() *Metrics {
	defaultMetrics = New()
	return defaultMetrics
}

// Get はデフォルトのメトリクスインスタンスを返す
func Get() *Metrics {
	return defaultMetrics
}
