// Package integration contains integration tests that verify cross-package functionality.
// These tests ensure that different components work together correctly in realistic scenarios.
package integration

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/vnykmshr/goexec/internal/testutil"
	"github.com/vnykmshr/goexec/pkg/execution/periodic"
	"github.com/vnykmshr/goexec/pkg/execution/threadpool"
	"github.com/vnykmshr/goexec/pkg/metrics"
)

// TestPeriodicSubmissionWithMetrics verifies that cron-driven submission,
// the thread pool and the metrics wrapper compose: every tick lands on a
// pool worker and shows up in the instrumented counters.
func TestPeriodicSubmissionWithMetrics(t *testing.T) {
	pool := threadpool.New(2)

	me := threadpool.NewMetricsExecutor(pool, "integration", metrics.Config{
		Enabled:  true,
		Registry: prometheus.NewRegistry(),
	})

	var ticks atomic.Int32
	runner := periodic.New(pool.Executor())
	_, err := runner.Add("@every 30ms", func() {
		// Fan out from the periodic tick through the instrumented executor.
		_ = me.Post(func() { ticks.Add(1) })
	})
	testutil.AssertNoError(t, err)

	runner.Start()
	testutil.Eventually(t, func() bool {
		return ticks.Load() >= 3
	}, testutil.TestTimeout, 10*time.Millisecond)
	runner.Stop()

	testutil.CompleteWithin(t, testutil.TestTimeout, pool.Join)

	completed := promtestutil.ToFloat64(me.Registry().TasksCompleted.WithLabelValues("integration"))
	if completed < 3 {
		t.Errorf("completed = %v, want >= 3", completed)
	}
}

// TestGracefulDrainUnderLoad verifies the Join contract while producers,
// recursive dispatches and deferred continuations are all in flight.
func TestGracefulDrainUnderLoad(t *testing.T) {
	pool := threadpool.New(4)
	exec := pool.Executor()

	var executed atomic.Int64

	const producers = 4
	const perProducer = 50
	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				_ = exec.Post(func() {
					executed.Add(1)
					// Each item fans out one inline dispatch and one
					// deferred continuation.
					_ = exec.Dispatch(func() { executed.Add(1) })
					_ = exec.Defer(func() { executed.Add(1) })
				})
			}
		}()
	}

	// All submissions must be accepted before the drain begins.
	wg.Wait()

	testutil.CompleteWithin(t, testutil.TestTimeout, pool.Join)
	testutil.AssertEqual(t, executed.Load(), int64(3*producers*perProducer))
}

// TestStopDropsBacklogAcrossComponents verifies that Stop abandons queued
// work no matter which component submitted it.
func TestStopDropsBacklogAcrossComponents(t *testing.T) {
	pool := threadpool.New(1)
	exec := pool.Executor()

	started := make(chan struct{})
	release := make(chan struct{})
	testutil.AssertNoError(t, exec.Post(func() {
		close(started)
		<-release
	}))
	<-started

	var ran atomic.Int32
	me := threadpool.NewMetricsExecutor(pool, "backlog", metrics.Config{
		Enabled:  true,
		Registry: prometheus.NewRegistry(),
	})
	for i := 0; i < 10; i++ {
		testutil.AssertNoError(t, me.Post(func() { ran.Add(1) }))
	}

	pool.Stop()
	close(release)
	testutil.CompleteWithin(t, testutil.TestTimeout, pool.Join)

	testutil.AssertEqual(t, ran.Load(), int32(0))
}

// TestMetricsReflectPoolActivity spot-checks the exported counters after a
// known amount of traffic.
func TestMetricsReflectPoolActivity(t *testing.T) {
	pool := threadpool.New(2)
	me := threadpool.NewMetricsExecutor(pool, "activity", metrics.Config{
		Enabled:  true,
		Registry: prometheus.NewRegistry(),
	})

	for i := 0; i < 20; i++ {
		testutil.AssertNoError(t, me.Post(func() {}))
	}
	pool.Join()

	submitted := promtestutil.ToFloat64(me.Registry().TasksSubmitted.WithLabelValues("activity", "post"))
	testutil.AssertEqual(t, submitted, 20.0)

	completed := promtestutil.ToFloat64(me.Registry().TasksCompleted.WithLabelValues("activity"))
	testutil.AssertEqual(t, completed, 20.0)
}
