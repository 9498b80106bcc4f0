package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	FilterChangesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "greenlink_filter_changes_total",
		Help: "Filter mutations by axis (material|comuna)",
	}, []string{"axis"})
	VisiblePoints = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "greenlink_visible_points",
		Help:    "Size of the visible set after each recomputation",
		Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 100},
	})
	FocusTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "greenlink_focus_total",
		Help: "Total list-entry focus requests",
	})
	MarkerMissingTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "greenlink_marker_missing_total",
		Help: "Invariant violations: list entry without marker",
	})
	SessionsActive = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "greenlink_sessions_active",
		Help: "Live map sessions",
	})
	VisibleCacheTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "greenlink_visible_cache_total",
		Help: "Redis cache lookups for /visible by result (hit|miss)",
	}, []string{"result"})
	SubmissionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "greenlink_submissions_total",
		Help: "Add-location submissions by outcome (accepted|invalid|duplicate)",
	}, []string{"outcome"})
	ReviewPublishTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "greenlink_review_publish_total",
		Help: "Review queue publishes by status (ok|fail)",
	}, []string{"status"})
	LocateTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "greenlink_locate_total",
		Help: "IP geolocation fallback lookups by outcome (ok|fail)",
	}, []string{"outcome"})
	RequestDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "greenlink_request_duration_ms",
		Help:    "API request duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000},
	}, []string{"route"})
)

func init() {
	prometheus.MustRegister(FilterChangesTotal)
	prometheus.MustRegister(VisiblePoints)
	prometheus.MustRegister(FocusTotal)
	prometheus.MustRegister(MarkerMissingTotal)
	prometheus.MustRegister(SessionsActive)
	prometheus.MustRegister(VisibleCacheTotal)
	prometheus.MustRegister(SubmissionsTotal)
	prometheus.MustRegister(ReviewPublishTotal)
	prometheus.MustRegister(LocateTotal)
	prometheus.MustRegister(RequestDurationMs)
}

// 文档注释：返回 Prometheus 指标处理器，在主入口挂载到 {API_BASE}/metrics
func Handler() http.Handler { return promhttp.Handler() }
