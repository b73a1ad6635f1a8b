// Package work provides reference-counted tracking of outstanding work
// against a scheduler.
package work

import "sync/atomic"

// Tracker counts outstanding work for a scheduler. A scheduler's blocking run
// loop is only permitted to return when its queue is empty and the tracked
// count is zero, or when the scheduler has been stopped.
type Tracker interface {
	// WorkStarted records that a unit of work is outstanding.
	WorkStarted()

	// WorkFinished records that a previously started unit of work has
	// completed. Finishing the last unit wakes any run loop blocked on an
	// empty queue.
	WorkFinished()
}

// Guard holds exactly one unit of outstanding work against a Tracker for its
// lifetime. While any guard is held, the scheduler's run loop will not return
// due to an empty queue, and a pool's Join will not complete.
//
// A guard is acquired by NewGuard and duplicated with Clone; each clone holds
// its own independent unit. There is no replace operation: a guard is bound
// to one tracker for life, and value assignment between guards is forbidden
// (guards carry a vet-enforced no-copy marker, so `go vet` flags copies).
//
// Release must be called on every exit path, including error paths:
//
//	g := work.NewGuard(sched)
//	defer g.Release()
type Guard struct {
	noCopy noCopy

	tracker  Tracker
	released atomic.Bool
}

// NewGuard acquires one unit of outstanding work from t. Acquisition succeeds
// unconditionally, even on a stopped scheduler (stopped overrides outstanding
// work as a run-loop return condition, so the unit simply has no effect
// there).
func NewGuard(t Tracker) *Guard {
	if t == nil {
		panic("work: nil tracker")
	}
	t.WorkStarted()
	return &Guard{tracker: t}
}

// Clone duplicates the guard, acquiring a second independent unit of work
// from the same tracker. Releasing either guard does not affect the other.
// Cloning an already released guard is a bookkeeping bug and panics.
func (g *Guard) Clone() *Guard {
	if g.released.Load() {
		panic("work: Clone of released guard")
	}
	return NewGuard(g.tracker)
}

// Release returns the guard's unit of work to the tracker. Only the first
// call has an effect; subsequent calls are no-ops, so Release is safe to
// call from multiple deferred paths.
func (g *Guard) Release() {
	if g.released.CompareAndSwap(false, true) {
		g.tracker.WorkFinished()
	}
}

// Released reports whether the guard has been released.
func (g *Guard) Released() bool {
	return g.released.Load()
}

// noCopy makes `go vet -copylocks` flag guard values copied by assignment.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
