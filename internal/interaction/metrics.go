package interaction

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	interactionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "interaction_actions_total",
			Help: "Profile interactions by action and outcome",
		},
		[]string{"action", "result"},
	)

	matchesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "interaction_matches_total",
			Help: "Likes that completed a mutual pair",
		},
	)
)

func recordAction(action string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	interactionsTotal.WithLabelValues(action, result).Inc()
}
