package moderation

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	scorerCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "toxicity_scorer_calls_total",
			Help: "Total number of toxicity scorer calls",
		},
		[]string{"status"},
	)

	scorerDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "toxicity_scorer_duration_seconds",
			Help:    "Toxicity scorer call duration in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)
)

func recordScorerCall(success bool, duration time.Duration) {
	status := "success"
	if !success {
		status = "error"
	}
	scorerCallsTotal.WithLabelValues(status).Inc()
	scorerDuration.Observe(duration.Seconds())
}
