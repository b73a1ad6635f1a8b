// Package metrics provides Prometheus instrumentation for goexec components.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds all metric instances for goexec components.
type Registry struct {
	// Submission Metrics
	TasksSubmitted   *prometheus.CounterVec
	TasksCompleted   *prometheus.CounterVec
	TasksFailed      *prometheus.CounterVec
	InlineDispatches *prometheus.CounterVec
	TaskDuration     *prometheus.HistogramVec

	// Pool State Metrics
	PoolThreads     *prometheus.GaugeVec
	WorkOutstanding *prometheus.GaugeVec
	QueueDepth      *prometheus.GaugeVec
}

// DefaultRegistry is the default metrics registry used by goexec components.
var DefaultRegistry *Registry

func init() {
	DefaultRegistry = NewRegistry(prometheus.DefaultRegisterer)
}

// NewRegistry creates a new metrics registry with the given Prometheus registerer.
func NewRegistry(reg prometheus.Registerer) *Registry {
	factory := promauto.With(reg)

	return &Registry{
		TasksSubmitted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "goexec",
				Subsystem: "threadpool",
				Name:      "tasks_submitted_total",
				Help:      "Total number of functions submitted to the pool",
			},
			[]string{"pool_name", "method"},
		),

		TasksCompleted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "goexec",
				Subsystem: "threadpool",
				Name:      "tasks_completed_total",
				Help:      "Total number of submitted functions that returned normally",
			},
			[]string{"pool_name"},
		),

		TasksFailed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "goexec",
				Subsystem: "threadpool",
				Name:      "tasks_failed_total",
				Help:      "Total number of submitted functions that panicked",
			},
			[]string{"pool_name"},
		),

		InlineDispatches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "goexec",
				Subsystem: "threadpool",
				Name:      "inline_dispatches_total",
				Help:      "Total number of dispatches executed synchronously on a worker",
			},
			[]string{"pool_name"},
		),

		TaskDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "goexec",
				Subsystem: "threadpool",
				Name:      "task_duration_seconds",
				Help:      "Execution time of submitted functions",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"pool_name"},
		),

		PoolThreads: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "goexec",
				Subsystem: "threadpool",
				Name:      "threads",
				Help:      "Fixed number of worker goroutines in the pool",
			},
			[]string{"pool_name"},
		),

		WorkOutstanding: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "goexec",
				Subsystem: "scheduler",
				Name:      "work_outstanding",
				Help:      "Current outstanding-work count of the pool's scheduler",
			},
			[]string{"pool_name"},
		),

		QueueDepth: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "goexec",
				Subsystem: "scheduler",
				Name:      "queue_depth",
				Help:      "Number of queued functions not yet started",
			},
			[]string{"pool_name"},
		),
	}
}
