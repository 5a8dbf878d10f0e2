package matching

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	rankRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matching_rank_requests_total",
			Help: "Total number of ranking pipeline runs",
		},
		[]string{"sort"},
	)

	rankDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "matching_rank_duration_seconds",
			Help:    "Time spent loading and ranking candidates",
			Buckets: prometheus.DefBuckets,
		},
	)

	rankResultSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "matching_rank_result_size",
			Help:    "Number of candidates returned per ranking run",
			Buckets: prometheus.ExponentialBuckets(1, 2, 9),
		},
	)

	fameRecomputesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "matching_fame_recomputes_total",
			Help: "Total number of fame ratings recomputed",
		},
	)

	fameRatings = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "matching_fame_rating",
			Help:    "Distribution of recomputed fame ratings",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		},
	)

	suggestionCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matching_suggestion_cache_total",
			Help: "Suggestion cache lookups by result",
		},
		[]string{"result"},
	)
)

func RecordRank(sort SortStrategy, results int, duration time.Duration) {
	rankRequestsTotal.WithLabelValues(string(sort)).Inc()
	rankResultSize.Observe(float64(results))
	rankDuration.Observe(duration.Seconds())
}

func RecordFameRecompute(rating int) {
	fameRecomputesTotal.Inc()
	fameRatings.Observe(float64(rating))
}

func RecordCacheResult(hit bool) {
	if hit {
		suggestionCacheTotal.WithLabelValues("hit").Inc()
		return
	}
	suggestionCacheTotal.WithLabelValues("miss").Inc()
}
