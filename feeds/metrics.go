package feeds

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	feedRenders = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "syndicate_feed_renders_total",
		Help: "The total number of feed renders by format and cache outcome",
	}, []string{"format", "cache"})

	feedRenderDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "syndicate_feed_render_duration_seconds",
		Help:    "Time spent by the render engine producing a feed document",
		Buckets: prometheus.ExponentialBuckets(0.0001, 2, 12), // Start at 0.1ms, double each bucket
	}, []string{"format"})
)

// Cache outcomes used as metric labels
const (
	cacheHit    = "hit"
	cacheMiss   = "miss"
	cacheOff    = "off"
	cacheBypass = "bypass"
)
