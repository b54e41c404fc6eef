package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics 公告抓取与滑块会话的监控指标
type Metrics struct {
	CacheHits      prometheus.Counter
	CacheMisses    prometheus.Counter
	FetchErrors    *prometheus.CounterVec
	FetchDuration  prometheus.Histogram
	OpenSliders    prometheus.Gauge
	SkippedLoads   prometheus.Counter
	DroppedScrolls prometheus.Counter
}

// 抓取失败原因标签
const (
	ReasonTransport = "transport"
	ReasonStatus    = "status"
	ReasonParse     = "parse"
	ReasonCache     = "cache"
)

// New 创建指标并注册到 reg；reg 为 nil 时不注册
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "announcements",
			Name:      "cache_hits_total",
			Help:      "Announcement pages served from the cache.",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "announcements",
			Name:      "cache_misses_total",
			Help:      "Announcement pages that required a network fetch.",
		}),
		FetchErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "announcements",
			Name:      "fetch_errors_total",
			Help:      "Failed announcement fetches by reason.",
		}, []string{"reason"}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "announcements",
			Name:      "fetch_duration_seconds",
			Help:      "Latency of announcement fetches that hit the network.",
			Buckets:   prometheus.DefBuckets,
		}),
		OpenSliders: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "announcements",
			Name:      "open_sliders",
			Help:      "Slider sessions currently open.",
		}),
		SkippedLoads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "announcements",
			Name:      "skipped_loads_total",
			Help:      "Load calls ignored because a load was in flight or pages were exhausted.",
		}),
		DroppedScrolls: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "announcements",
			Name:      "dropped_scroll_loads_total",
			Help:      "Scroll-triggered loads dropped because the worker queue was full.",
		}),
	}

	if reg != nil {
		reg.MustRegister(
			m.CacheHits,
			m.CacheMisses,
			m.FetchErrors,
			m.FetchDuration,
			m.OpenSliders,
			m.SkippedLoads,
			m.DroppedScrolls,
		)
	}
	return m
}
