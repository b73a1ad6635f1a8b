package threadpool

import (
	"github.com/vnykmshr/goexec/pkg/common/errors"
	"github.com/vnykmshr/goexec/pkg/execution/work"
)

// Executor is a cheap-to-copy handle for submitting functions to one pool.
// It carries no state beyond the pool reference; any number of executors may
// coexist for the same pool and all route to the same scheduler. An executor
// must not outlive its pool.
//
// Each submission holds one work-guard unit from acceptance until the
// submitted function finishes, so the pool never looks drained while a
// submitted-but-not-started or currently-running function exists.
type Executor struct {
	pool *threadPool
}

// Context returns the pool that owns this executor.
func (e Executor) Context() Pool {
	return e.pool
}

// Dispatch submits f for execution. If the calling goroutine is a pool
// worker currently inside the scheduler's run loop, f runs synchronously on
// the caller's stack before Dispatch returns (no queueing round trip); a
// panic on that path propagates to the caller. Otherwise Dispatch behaves
// exactly like Post.
func (e Executor) Dispatch(f func()) error {
	return e.submit(f, e.pool.sched.Dispatch)
}

// Post enqueues f for asynchronous execution on some worker. f is never
// invoked inline, even when called from a worker. Post returns as soon as f
// is queued.
func (e Executor) Post(f func()) error {
	return e.submit(f, e.pool.sched.Post)
}

// Defer enqueues f for execution. When called from a function already
// running on this pool, f only becomes eligible once that function returns
// control to the scheduler, which bounds stack growth in recursive
// submission patterns. From any other goroutine, Defer behaves as Post.
func (e Executor) Defer(f func()) error {
	return e.submit(f, e.pool.sched.Defer)
}

func (e Executor) submit(f func(), via func(func()) error) error {
	if f == nil {
		return errors.ErrNilFunction
	}

	g := work.NewGuard(e.pool.sched)
	err := via(func() {
		defer g.Release()
		f()
	})
	if err != nil {
		g.Release()
	}
	return err
}
