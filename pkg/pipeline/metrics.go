package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	athletesProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tendon_pipeline_athletes_processed_total",
		Help: "Athletes whose feature rows were computed successfully.",
	})

	athleteFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tendon_pipeline_athlete_failures_total",
		Help: "Athletes skipped due to invalid records or leakage-check failures.",
	})

	rowsComposed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tendon_pipeline_rows_composed_total",
		Help: "Feature rows composed, before validation.",
	})

	rowsAccepted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tendon_pipeline_rows_accepted_total",
		Help: "Feature rows accepted into the training matrix.",
	})

	rowsInsufficientHistory = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tendon_pipeline_rows_insufficient_history_total",
		Help: "Feature rows excluded for not meeting the minimum history.",
	})
)
