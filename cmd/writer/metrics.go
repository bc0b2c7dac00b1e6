package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	recordsWritten = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tendon_writer_records_written_total",
		Help: "Training records persisted to DuckDB.",
	})
	profilesWritten = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tendon_writer_profiles_written_total",
		Help: "Athlete profiles persisted to DuckDB.",
	})
	featuresWritten = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tendon_writer_features_written_total",
		Help: "Feature vectors persisted to DuckDB.",
	})
)
