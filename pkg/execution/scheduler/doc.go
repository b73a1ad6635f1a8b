/*
Package scheduler implements the run-loop engine behind a thread pool: a
FIFO queue of ready functions, an outstanding-work counter, and a blocking
Run entry point that worker goroutines call.

Run returns only when the scheduler has been stopped, or when the queue is
empty and the outstanding-work count is zero. While the queue is empty but
outstanding work remains, Run blocks; it wakes when work is enqueued, when
the last outstanding unit is finished, or on Stop.

Dispatch, Post and Defer differ in how they treat a caller that is itself a
runner goroutine: Dispatch runs the function inline, Post always enqueues,
and Defer holds the function back until the currently executing item returns
control to the loop. The runner set is keyed by goroutine ID, which stands
in for the thread-local "inside run()" marker a thread-based implementation
would use.

Most applications use this package through threadpool rather than directly.
*/
package scheduler
