package threadpool

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vnykmshr/goexec/pkg/metrics"
)

// MetricsExecutor wraps an Executor with Prometheus metrics collection.
// Submissions are counted per method, execution time is observed per
// function, and the pool's state gauges are refreshed on every submission.
type MetricsExecutor struct {
	exec     Executor
	name     string
	registry *metrics.Registry
	enabled  bool
}

// NewMetricsExecutor creates a metrics-collecting executor for the given
// pool. The name labels every metric emitted for this pool.
func NewMetricsExecutor(pool Pool, name string, config metrics.Config) *MetricsExecutor {
	me := &MetricsExecutor{
		exec:     pool.Executor(),
		name:     name,
		registry: registryFor(config),
		enabled:  config.Enabled,
	}

	if me.enabled {
		me.registry.PoolThreads.WithLabelValues(me.name).Set(float64(pool.Size()))
		me.updateGauges()
	}
	return me
}

// registryFor maps a metrics config to a registry. The default registerer
// already carries metrics.DefaultRegistry, so it is reused rather than
// registered into a second time.
func registryFor(config metrics.Config) *metrics.Registry {
	if config.Registry == nil || config.Registry == prometheus.DefaultRegisterer {
		return metrics.DefaultRegistry
	}
	return metrics.NewRegistry(config.Registry)
}

// Context returns the pool that owns this executor.
func (me *MetricsExecutor) Context() Pool {
	return me.exec.Context()
}

// Registry returns the metrics registry this executor records into.
func (me *MetricsExecutor) Registry() *metrics.Registry {
	return me.registry
}

// Dispatch submits f with Executor.Dispatch semantics, recording the
// submission and whether it took the inline path.
func (me *MetricsExecutor) Dispatch(f func()) error {
	if !me.enabled {
		return me.exec.Dispatch(f)
	}

	me.registry.TasksSubmitted.WithLabelValues(me.name, "dispatch").Inc()
	if me.exec.pool.sched.RunningInCaller() {
		me.registry.InlineDispatches.WithLabelValues(me.name).Inc()
	}

	err := me.exec.Dispatch(me.instrument(f))
	me.updateGauges()
	return err
}

// Post submits f with Executor.Post semantics.
func (me *MetricsExecutor) Post(f func()) error {
	if !me.enabled {
		return me.exec.Post(f)
	}

	me.registry.TasksSubmitted.WithLabelValues(me.name, "post").Inc()
	err := me.exec.Post(me.instrument(f))
	me.updateGauges()
	return err
}

// Defer submits f with Executor.Defer semantics.
func (me *MetricsExecutor) Defer(f func()) error {
	if !me.enabled {
		return me.exec.Defer(f)
	}

	me.registry.TasksSubmitted.WithLabelValues(me.name, "defer").Inc()
	err := me.exec.Defer(me.instrument(f))
	me.updateGauges()
	return err
}

// instrument wraps f to observe its duration and outcome. A panic is
// re-raised after counting so the scheduler's isolation boundary still logs
// it.
func (me *MetricsExecutor) instrument(f func()) func() {
	return func() {
		start := time.Now()
		defer func() {
			me.registry.TaskDuration.WithLabelValues(me.name).Observe(time.Since(start).Seconds())
			me.updateGauges()

			if r := recover(); r != nil {
				me.registry.TasksFailed.WithLabelValues(me.name).Inc()
				panic(r)
			}
			me.registry.TasksCompleted.WithLabelValues(me.name).Inc()
		}()

		f()
	}
}

func (me *MetricsExecutor) updateGauges() {
	pool := me.exec.Context()
	me.registry.WorkOutstanding.WithLabelValues(me.name).Set(float64(pool.OutstandingWork()))
	me.registry.QueueDepth.WithLabelValues(me.name).Set(float64(pool.QueueDepth()))
}

// EnableMetrics enables metrics collection.
func (me *MetricsExecutor) EnableMetrics(config metrics.Config) error {
	me.enabled = config.Enabled

	me.registry = registryFor(config)

	if me.enabled {
		me.registry.PoolThreads.WithLabelValues(me.name).Set(float64(me.Context().Size()))
		me.updateGauges()
	}
	return nil
}

// DisableMetrics disables metrics collection.
func (me *MetricsExecutor) DisableMetrics() {
	me.enabled = false
}

// MetricsEnabled returns true if metrics are currently enabled.
func (me *MetricsExecutor) MetricsEnabled() bool {
	return me.enabled
}
