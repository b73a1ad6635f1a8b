package scheduler

import (
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/petermattis/goid"
	"go.uber.org/zap"

	"github.com/vnykmshr/goexec/pkg/common/errors"
)

// Scheduler is the run-loop engine behind a thread pool: a queue of ready
// functions, an outstanding-work counter, and a blocking Run entry point that
// worker goroutines park in.
type Scheduler interface {
	// Run executes ready functions on the calling goroutine until the
	// scheduler is stopped, or until the queue is empty and no outstanding
	// work remains. It blocks while the queue is empty but outstanding work
	// is nonzero. Returns the number of functions executed.
	Run() int

	// RunOne executes at most one ready function, blocking until one is
	// available or Run's return conditions hold. Returns 1 if a function
	// was executed, 0 otherwise.
	RunOne() int

	// Stop marks the scheduler stopped and wakes every goroutine blocked in
	// Run. Queued functions that have not started are abandoned. Idempotent.
	Stop()

	// Stopped reports whether Stop has been called without a subsequent
	// Restart.
	Stopped() bool

	// Restart clears the stopped flag so Run may be invoked again. It must
	// only be called while no goroutine is inside Run.
	Restart()

	// Dispatch submits fn for execution. If the calling goroutine is
	// currently inside Run for this scheduler, fn is invoked synchronously
	// before Dispatch returns; otherwise it is enqueued like Post.
	Dispatch(fn func()) error

	// Post enqueues fn for asynchronous execution. fn is never invoked
	// inline, even when called from inside Run.
	Post(fn func()) error

	// Defer enqueues fn for execution. When called from inside Run, fn only
	// becomes eligible once the currently executing function returns control
	// to the run loop; from any other goroutine it behaves as Post.
	Defer(fn func()) error

	// WorkStarted increments the outstanding-work counter, preventing Run
	// from returning due to an empty queue.
	WorkStarted()

	// WorkFinished decrements the outstanding-work counter. Decrementing to
	// zero with an empty queue wakes blocked Run calls so they may return.
	// Decrementing below zero is an acquire/release imbalance and panics.
	WorkFinished()

	// OutstandingWork returns the current outstanding-work count.
	OutstandingWork() int64

	// QueueDepth returns the number of queued functions not yet started.
	QueueDepth() int

	// RunningInCaller reports whether the calling goroutine is currently
	// inside Run for this scheduler.
	RunningInCaller() bool
}

// Config holds configuration options for creating a scheduler.
type Config struct {
	// QueueCapacity bounds the number of queued functions. Zero means
	// unbounded. Submissions beyond the bound fail with ErrQueueFull.
	QueueCapacity int

	// Logger receives a record for every work item that panics. If nil,
	// panics are swallowed silently after recovery.
	Logger *zap.Logger

	// PanicHandler, if set, is called with the recovered value when a work
	// item panics. The run loop continues either way.
	PanicHandler func(recovered interface{})
}

// taskScheduler implements Scheduler with a mutex-and-condvar protected FIFO
// queue. The queue, the outstanding-work counter and the stopped flag share
// one mutex so every observation of the Run return condition is consistent.
type taskScheduler struct {
	config Config
	logger *zap.Logger

	mu          sync.Mutex
	cond        *sync.Cond
	queue       []func()
	outstanding int64
	stopped     bool

	// runners maps goroutine IDs to the run state of their innermost Run
	// call. Membership is the Dispatch inline-path affinity check.
	runners map[int64]*runState
}

// runState is per-Run-invocation bookkeeping. The deferred slice is only
// touched by the owning goroutine, so it needs no locking.
type runState struct {
	deferred []func()
	prev     *runState
}

// New creates a scheduler with an unbounded queue and no logging.
func New() Scheduler {
	return NewWithConfig(Config{})
}

// NewWithConfig creates a scheduler with the specified configuration.
func NewWithConfig(config Config) Scheduler {
	if config.QueueCapacity < 0 {
		panic("queue capacity must be non-negative")
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &taskScheduler{
		config:  config,
		logger:  logger,
		runners: make(map[int64]*runState),
	}
	s.cond = sync.NewCond(&s.mu)
	return s
}

func (s *taskScheduler) Run() int {
	rs := s.enterRun()
	defer s.exitRun(rs)

	n := 0
	for s.runNext(rs) {
		n++
	}
	return n
}

func (s *taskScheduler) RunOne() int {
	rs := s.enterRun()
	defer s.exitRun(rs)

	if s.runNext(rs) {
		return 1
	}
	return 0
}

// enterRun registers the calling goroutine as a runner. Nested Run calls on
// the same goroutine stack their run states.
func (s *taskScheduler) enterRun() *runState {
	id := goid.Get()
	rs := &runState{}

	s.mu.Lock()
	rs.prev = s.runners[id]
	s.runners[id] = rs
	s.mu.Unlock()
	return rs
}

func (s *taskScheduler) exitRun(rs *runState) {
	id := goid.Get()

	s.mu.Lock()
	if rs.prev != nil {
		s.runners[id] = rs.prev
	} else {
		delete(s.runners, id)
	}
	s.mu.Unlock()
}

// runNext blocks for the next ready function, executes it, then publishes
// any functions the item deferred. Returns false when Run should return.
func (s *taskScheduler) runNext(rs *runState) bool {
	s.mu.Lock()
	for len(s.queue) == 0 && !s.stopped && s.outstanding > 0 {
		s.cond.Wait()
	}
	if s.stopped || len(s.queue) == 0 {
		s.mu.Unlock()
		return false
	}
	fn := s.queue[0]
	s.queue = s.queue[1:]
	s.mu.Unlock()

	s.invoke(fn)

	// The finished item returned control to the loop; its deferred
	// submissions become eligible now.
	if len(rs.deferred) > 0 {
		s.mu.Lock()
		s.queue = append(s.queue, rs.deferred...)
		s.cond.Broadcast()
		s.mu.Unlock()
		rs.deferred = nil
	}
	return true
}

// invoke is the single call site where a dequeued function runs. A panicking
// work item is recovered, logged and discarded; the worker keeps going.
func (s *taskScheduler) invoke(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("work item panicked",
				zap.Any("panic", r),
				zap.ByteString("stack", debug.Stack()),
			)
			if s.config.PanicHandler != nil {
				s.config.PanicHandler(r)
			}
		}
	}()

	fn()
}

func (s *taskScheduler) Dispatch(fn func()) error {
	if fn == nil {
		return errors.ErrNilFunction
	}

	// Inline path: already on a runner goroutine for this scheduler. The
	// function runs on the caller's stack, so a panic propagates to the
	// caller rather than being swallowed here.
	if s.RunningInCaller() {
		fn()
		return nil
	}
	return s.enqueue(fn)
}

func (s *taskScheduler) Post(fn func()) error {
	if fn == nil {
		return errors.ErrNilFunction
	}
	return s.enqueue(fn)
}

func (s *taskScheduler) Defer(fn func()) error {
	if fn == nil {
		return errors.ErrNilFunction
	}

	id := goid.Get()
	s.mu.Lock()
	rs := s.runners[id]
	s.mu.Unlock()

	if rs != nil {
		// Held back until the current item returns control to the run
		// loop; runNext publishes it. Only the owning goroutine touches
		// rs.deferred.
		rs.deferred = append(rs.deferred, fn)
		return nil
	}
	return s.enqueue(fn)
}

func (s *taskScheduler) enqueue(fn func()) error {
	s.mu.Lock()
	if s.config.QueueCapacity > 0 && len(s.queue) >= s.config.QueueCapacity {
		s.mu.Unlock()
		return fmt.Errorf("cannot enqueue function: %w", errors.ErrQueueFull)
	}
	s.queue = append(s.queue, fn)
	s.cond.Signal()
	s.mu.Unlock()
	return nil
}

func (s *taskScheduler) Stop() {
	s.mu.Lock()
	if !s.stopped {
		s.stopped = true
		s.cond.Broadcast()
	}
	s.mu.Unlock()
}

func (s *taskScheduler) Stopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped
}

func (s *taskScheduler) Restart() {
	s.mu.Lock()
	s.stopped = false
	s.mu.Unlock()
}

func (s *taskScheduler) WorkStarted() {
	s.mu.Lock()
	s.outstanding++
	s.mu.Unlock()
}

func (s *taskScheduler) WorkFinished() {
	s.mu.Lock()
	s.outstanding--
	if s.outstanding < 0 {
		s.mu.Unlock()
		panic("scheduler: WorkFinished without matching WorkStarted")
	}
	if s.outstanding == 0 && len(s.queue) == 0 {
		s.cond.Broadcast()
	}
	s.mu.Unlock()
}

func (s *taskScheduler) OutstandingWork() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outstanding
}

func (s *taskScheduler) QueueDepth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

func (s *taskScheduler) RunningInCaller() bool {
	id := goid.Get()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runners[id] != nil
}
