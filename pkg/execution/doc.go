/*
Package execution provides the thread-pool execution primitives of goexec.

Thread Pool:

The thread pool runs submitted functions on a fixed number of worker
goroutines, each parked in the scheduler's blocking run loop:

	pool := threadpool.New(4)
	defer pool.Close()

	exec := pool.Executor()
	exec.Post(task)     // async, never inline
	exec.Dispatch(task) // inline when already on a worker
	exec.Defer(task)    // eligible after the current item returns

	pool.Join() // graceful drain

Scheduler:

The scheduler owns the ready queue and the outstanding-work counter. Run
returns only once the scheduler is stopped, or once the queue is empty and
no outstanding work remains. Most callers never touch it directly; the pool
wires it up.

Work Guards:

A work.Guard holds one unit of outstanding work, keeping Join from
completing while the guarded activity is in flight:

	g := work.NewGuard(sched)
	defer g.Release()

Periodic Submission:

The periodic runner posts functions to a pool on a cron schedule:

	r := periodic.New(pool.Executor())
	r.Add("@every 1m", refreshCache)
	r.Start()
	defer r.Stop()
*/
package execution
