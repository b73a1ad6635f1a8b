/*
Package threadpool provides a fixed-size pool of worker goroutines driven by
a shared scheduler, with a lightweight executor handle for submitting work.

A pool's size is fixed at construction and never changes. Each worker parks
in the scheduler's blocking run loop, picking up submitted functions as they
become ready. The pool tracks outstanding work by reference counting, which
makes Join block exactly until everything submitted has finished.

Basic usage:

	pool := threadpool.New(4)
	defer pool.Close()

	exec := pool.Executor()
	if err := exec.Post(func() {
		// Do work on a pool worker.
	}); err != nil {
		log.Printf("submission failed: %v", err)
	}

	pool.Join() // returns once all submitted work has drained

Scheduling Disciplines:

The executor offers three ways to submit a function, differing in when the
function may run relative to the caller:

  - Dispatch: runs the function synchronously, in place, when the caller is
    already a pool worker inside the run loop; otherwise identical to Post.
    This skips the queue round trip for call chains already on the pool.
  - Post: always enqueues; the function never runs inline, even on a worker.
  - Defer: enqueues, but when called from a function running on the pool,
    the new function only becomes eligible after the current one returns
    control to the scheduler. This bounds stack growth for recursive
    submission patterns.

Lifecycle:

A pool is active from construction until Join. Stop asks every worker to
exit as soon as possible, dropping queued-but-not-started functions;
in-flight functions always finish. Join without a prior Stop is a graceful
drain. Close is Stop followed by Join and is safe to defer on any path.
After Join the pool is terminal: functions submitted from then on may never
run.

Join blocks indefinitely if submitted work keeps acquiring outstanding work
forever; that is a liveness bug in caller code, not something the pool can
detect. Calling Join from a function running on the pool would deadlock and
panics instead.

Failure Isolation:

A panic escaping a submitted function is recovered at the point the worker
invoked it, optionally logged, and discarded; the worker keeps processing
subsequent work. One bad function never takes down the pool. The only
exception is Dispatch's inline path, which runs on the caller's own stack
and therefore lets the panic reach the caller.

Metrics:

MetricsExecutor wraps an executor with Prometheus instrumentation:

	me := threadpool.NewMetricsExecutor(pool, "ingest", metrics.DefaultConfig())
	me.Post(task)
*/
package threadpool
