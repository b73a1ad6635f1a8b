package threadpool

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/vnykmshr/goexec/pkg/common/errors"
	"github.com/vnykmshr/goexec/pkg/execution/scheduler"
	"github.com/vnykmshr/goexec/pkg/execution/work"
)

// Pool is a fixed-size pool of worker goroutines, each parked in the blocking
// run loop of a shared scheduler. Submitted functions run on one of the
// pool's workers; the pool itself never resizes.
//
// A pool moves through three states: active (workers running, the pool's own
// work guard held), stopping (Stop called, workers exiting as soon as
// possible) and joined (workers gone, terminal). It never re-enters active
// after joined.
type Pool interface {
	// Executor returns a new executor handle bound to this pool. It is
	// side-effect free and may be called any number of times, concurrently.
	Executor() Executor

	// Stop signals the scheduler to stop. Every worker's run loop exits as
	// soon as it next checks the stop condition: in-flight functions finish,
	// queued-but-not-started functions are dropped. Idempotent.
	Stop()

	// Join releases the pool's own work guard and blocks until every worker
	// goroutine has returned. Without a prior Stop this is a graceful drain:
	// Join only returns once the scheduler has neither queued nor
	// outstanding work. Join is one-shot; concurrent callers block until the
	// first invocation completes and later callers return immediately.
	//
	// Calling Join from a function running on this pool would deadlock (the
	// caller is one of the very workers Join waits for) and panics instead.
	Join()

	// Close stops then joins the pool, making it safe to drop on any path:
	//
	//	pool := threadpool.New(4)
	//	defer pool.Close()
	//
	// Always returns nil; the error is for io.Closer compatibility.
	Close() error

	// Size returns the fixed number of worker goroutines.
	Size() int

	// Joined reports whether the pool has reached its terminal state.
	// Functions submitted after that point may never run.
	Joined() bool

	// OutstandingWork returns the scheduler's outstanding-work count.
	OutstandingWork() int64

	// QueueDepth returns the number of submitted functions not yet started.
	QueueDepth() int
}

// Config holds configuration options for creating a pool.
type Config struct {
	// Threads is the number of worker goroutines. Zero selects a default
	// derived from runtime.NumCPU, with a minimum of one.
	Threads int

	// QueueCapacity bounds the scheduler queue. Zero means unbounded.
	QueueCapacity int

	// Logger receives a record for every submitted function that panics on
	// a worker. If nil, panics are recovered silently.
	Logger *zap.Logger

	// PanicHandler, if set, is called with the recovered value when a
	// submitted function panics. The worker continues either way.
	PanicHandler func(recovered interface{})

	// OnWorkerStart is called on each worker goroutine before it enters the
	// scheduler's run loop.
	OnWorkerStart func(workerID int)

	// OnWorkerStop is called on each worker goroutine after its run loop
	// returns.
	OnWorkerStop func(workerID int)
}

// threadPool implements Pool.
type threadPool struct {
	config Config
	sched  scheduler.Scheduler

	// guard is the pool's long-lived work unit, held from construction
	// until Join. Its presence keeps an idle pool's workers parked instead
	// of returning from the run loop immediately.
	guard *work.Guard

	workerWg sync.WaitGroup
	joinOnce sync.Once
	joined   atomic.Bool
}

// New creates a pool with the specified number of worker goroutines.
// Panics if threads is not positive; use NewWithConfig for the
// hardware-derived default, or NewSafe to get an error instead of a panic.
func New(threads int) Pool {
	pool, err := NewSafe(threads)
	if err != nil {
		panic(err)
	}
	return pool
}

// NewWithConfig creates a pool with the specified configuration.
func NewWithConfig(config Config) Pool {
	pool, err := NewWithConfigSafe(config)
	if err != nil {
		panic(err)
	}
	return pool
}

// NewSafe creates a pool with validation that returns an error instead of
// panicking. This is the recommended way to create pools for production use.
func NewSafe(threads int) (Pool, error) {
	if threads <= 0 {
		return nil, fmt.Errorf("%w: thread count must be positive, got %d",
			errors.ErrInvalidConfiguration, threads)
	}
	return NewWithConfigSafe(Config{Threads: threads})
}

// NewWithConfigSafe creates a pool from config with validation that returns
// an error instead of panicking.
func NewWithConfigSafe(config Config) (Pool, error) {
	if config.Threads < 0 {
		return nil, fmt.Errorf("%w: thread count must be non-negative, got %d",
			errors.ErrInvalidConfiguration, config.Threads)
	}
	if config.QueueCapacity < 0 {
		return nil, fmt.Errorf("%w: queue capacity must be non-negative, got %d",
			errors.ErrInvalidConfiguration, config.QueueCapacity)
	}
	if config.Threads == 0 {
		config.Threads = runtime.NumCPU()
		if config.Threads < 1 {
			config.Threads = 1
		}
	}

	sched := scheduler.NewWithConfig(scheduler.Config{
		QueueCapacity: config.QueueCapacity,
		Logger:        config.Logger,
		PanicHandler:  config.PanicHandler,
	})

	p := &threadPool{
		config: config,
		sched:  sched,
		guard:  work.NewGuard(sched),
	}

	for i := 0; i < config.Threads; i++ {
		p.workerWg.Add(1)
		go p.worker(i)
	}
	return p, nil
}

// worker is the body of one pool goroutine. Panic isolation for individual
// work items lives inside the scheduler's run loop, so a failing item never
// unwinds past Run.
func (p *threadPool) worker(id int) {
	defer p.workerWg.Done()

	if cb := p.config.OnWorkerStart; cb != nil {
		cb(id)
	}
	if cb := p.config.OnWorkerStop; cb != nil {
		defer cb(id)
	}

	p.sched.Run()
}

func (p *threadPool) Executor() Executor {
	return Executor{pool: p}
}

func (p *threadPool) Stop() {
	p.sched.Stop()
}

func (p *threadPool) Join() {
	if p.sched.RunningInCaller() {
		panic("threadpool: Join called from a pool worker goroutine")
	}

	p.joinOnce.Do(func() {
		p.guard.Release()
		p.workerWg.Wait()
		p.joined.Store(true)
	})
}

func (p *threadPool) Close() error {
	p.Stop()
	p.Join()
	return nil
}

func (p *threadPool) Size() int {
	return p.config.Threads
}

func (p *threadPool) Joined() bool {
	return p.joined.Load()
}

func (p *threadPool) OutstandingWork() int64 {
	return p.sched.OutstandingWork()
}

func (p *threadPool) QueueDepth() int {
	return p.sched.QueueDepth()
}
