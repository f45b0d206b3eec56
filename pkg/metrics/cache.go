package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Latency of cache writes, labelled by set kind
	CacheAddLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ml_feed_cache_add_latency_seconds",
		Help:    "Latency of cache add operations",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})

	// Total items written per set kind
	CacheItemsAdded = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ml_feed_cache_items_added_total",
		Help: "Total number of items added to cache sets",
	}, []string{"kind"})

	// Total items evicted by trim-after-insert
	CacheItemsTrimmed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ml_feed_cache_items_trimmed_total",
		Help: "Total number of items evicted to enforce set bounds",
	}, []string{"kind"})

	// Members dropped at read time by resilient decoding
	CacheDecodeSkips = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ml_feed_cache_decode_skips_total",
		Help: "Total number of members skipped by resilient decoding",
	}, []string{"record"})

	// Buffer items handed to the recommender
	BufferItemsDrained = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ml_feed_cache_buffer_items_drained_total",
		Help: "Total number of buffer items drained",
	})
)

func Init() {
	prometheus.MustRegister(
		CacheAddLatency,
		CacheItemsAdded,
		CacheItemsTrimmed,
		CacheDecodeSkips,
		BufferItemsDrained,
	)
}
