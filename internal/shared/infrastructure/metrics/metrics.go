// Package metrics declares the Prometheus collectors for planning runs and
// the outbox. Collectors register on the default registry, which the worker
// serves on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "tired"

var (
	PlanRunDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "plan_run_duration_seconds",
			Help:      "Duration of auto-plan and optimize runs, including persistence.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
		},
		[]string{"kind", "status"},
	)

	TasksScheduled = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tasks_scheduled_total",
		Help:      "Tasks given a planned date by auto-plan.",
	})

	TasksSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tasks_skipped_total",
			Help:      "Tasks auto-plan could not place, by reason.",
		},
		[]string{"reason"},
	)

	TasksMoved = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tasks_moved_total",
		Help:      "Tasks moved between days by the optimizer.",
	})

	OverloadedDays = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "overloaded_days_total",
		Help:      "Days reported over capacity after an auto-plan run.",
	})

	BusySourceFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "busy_source_failures_total",
			Help:      "External busy-time lookups that failed and were skipped.",
		},
		[]string{"source"},
	)

	OutboxMessages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outbox_messages_total",
			Help:      "Outbox messages handled by the processor, by result.",
		},
		[]string{"result"},
	)

	OutboxLag = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "outbox_lag_seconds",
		Help:      "Age of the oldest message in the last polled batch.",
	})
)

// RecordPlanRun observes one planning run.
func RecordPlanRun(kind string, err error, d time.Duration) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	PlanRunDuration.WithLabelValues(kind, status).Observe(d.Seconds())
}

// RecordAutoPlan adds the counts from one auto-plan report.
func RecordAutoPlan(scheduled int, skippedByReason map[string]int, overloaded int) {
	TasksScheduled.Add(float64(scheduled))
	for reason, n := range skippedByReason {
		TasksSkipped.WithLabelValues(reason).Add(float64(n))
	}
	OverloadedDays.Add(float64(overloaded))
}

func RecordMoves(n int) {
	TasksMoved.Add(float64(n))
}

func RecordBusySourceFailure(source string) {
	BusySourceFailures.WithLabelValues(source).Inc()
}

// RecordOutbox counts a message as published, failed or dead.
func RecordOutbox(result string) {
	OutboxMessages.WithLabelValues(result).Inc()
}

func SetOutboxLag(d time.Duration) {
	OutboxLag.Set(d.Seconds())
}
