package threadpool_test

import (
	"fmt"
	"sync/atomic"

	"github.com/vnykmshr/goexec/pkg/execution/threadpool"
)

// Example demonstrates basic usage of the thread pool
func Example() {
	pool := threadpool.New(2)
	defer pool.Close()

	exec := pool.Executor()
	if err := exec.Post(func() {
		fmt.Println("ran on a pool worker")
	}); err != nil {
		fmt.Println("submission failed:", err)
		return
	}

	// Graceful drain: returns once all submitted work has finished.
	pool.Join()

	// Output: ran on a pool worker
}

// Example_dispatch shows the inline fast path taken when Dispatch is called
// from a function already running on the pool
func Example_dispatch() {
	pool := threadpool.New(1)
	defer pool.Close()

	exec := pool.Executor()
	_ = exec.Post(func() {
		fmt.Println("item start")
		_ = exec.Dispatch(func() {
			fmt.Println("dispatched inline")
		})
		fmt.Println("item end")
	})

	pool.Join()

	// Output:
	// item start
	// dispatched inline
	// item end
}

// Example_defer shows that a deferred function only becomes eligible after
// the submitting item returns control to the scheduler
func Example_defer() {
	pool := threadpool.New(1)
	defer pool.Close()

	exec := pool.Executor()
	_ = exec.Post(func() {
		_ = exec.Defer(func() {
			fmt.Println("after item returned")
		})
		fmt.Println("inside item")
	})

	pool.Join()

	// Output:
	// inside item
	// after item returned
}

// Example_fanOut runs independent work items across the pool and waits for
// all of them with Join
func Example_fanOut() {
	pool := threadpool.New(4)
	defer pool.Close()

	var processed atomic.Int32
	exec := pool.Executor()
	for i := 0; i < 100; i++ {
		_ = exec.Post(func() {
			processed.Add(1)
		})
	}

	pool.Join()
	fmt.Println("processed:", processed.Load())

	// Output: processed: 100
}
