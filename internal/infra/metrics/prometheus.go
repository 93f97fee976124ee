package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	StrategiesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gifpress_strategies_total",
		Help: "Total number of strategies processed, by outcome",
	}, []string{"outcome"})

	OptimizerInvocations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gifpress_optimizer_invocations_total",
		Help: "Total external optimizer invocations, by mode",
	}, []string{"mode"})

	StageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gifpress_stage_duration_seconds",
		Help:    "Duration of compression pipeline stages",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
	}, []string{"stage"})

	ActiveWorkers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "gifpress_active_workers",
		Help: "Number of strategy workers currently running",
	})

	ArtifactsReclaimed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gifpress_artifacts_reclaimed_total",
		Help: "Total number of superseded temporary artifacts deleted",
	})

	BestSizeKB = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "gifpress_best_size_kb",
		Help: "Smallest candidate size observed so far in the current run",
	})
)
