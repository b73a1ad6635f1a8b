/*
Package goexec provides a fixed-size thread-pool execution context for Go
applications: a pool of worker goroutines driven by a shared scheduler, a
copyable executor handle with three scheduling disciplines, and
reference-counted work tracking that makes graceful Join possible.

Execution (pkg/execution):
  - threadpool: Fixed pool of workers with Dispatch/Post/Defer executors
  - scheduler: The run-loop engine behind a pool
  - work: Outstanding-work guards that hold Join open
  - periodic: Cron-driven repeated submission onto a pool

Example usage:

	import "github.com/vnykmshr/goexec/pkg/execution/threadpool"

	pool := threadpool.New(4)
	defer pool.Close()

	exec := pool.Executor()
	exec.Post(func() {
		// Runs on one of the pool's workers.
	})

	pool.Join() // Blocks until all submitted work has drained.
*/
package goexec
