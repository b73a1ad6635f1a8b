package benchmark

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/vnykmshr/goexec/pkg/execution/threadpool"
)

// BenchmarkThreadPoolPost measures submission performance across pool sizes.
func BenchmarkThreadPoolPost(b *testing.B) {
	threadCounts := []int{2, 4, 8}

	for _, threads := range threadCounts {
		b.Run(threadLabel(threads), func(b *testing.B) {
			pool := threadpool.New(threads)
			exec := pool.Executor()

			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_ = exec.Post(func() {})
			}
			b.StopTimer()

			_ = pool.Close()
		})
	}
}

// BenchmarkThreadPoolVsRawGoroutines compares pool submission against
// spawning a goroutine per work item.
func BenchmarkThreadPoolVsRawGoroutines(b *testing.B) {
	var sink atomic.Int64
	item := func() { sink.Add(1) }

	b.Run("threadpool", func(b *testing.B) {
		pool := threadpool.New(8)
		exec := pool.Executor()

		b.ReportAllocs()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_ = exec.Post(item)
		}
		b.StopTimer()
		_ = pool.Close()
	})

	b.Run("goroutines", func(b *testing.B) {
		var wg sync.WaitGroup

		b.ReportAllocs()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				item()
			}()
		}
		wg.Wait()
	})
}

// BenchmarkDispatchVsPost compares the inline fast path against the queue
// round trip for submissions made from a worker.
func BenchmarkDispatchVsPost(b *testing.B) {
	for _, method := range []string{"dispatch", "post"} {
		b.Run(method, func(b *testing.B) {
			pool := threadpool.New(1)
			exec := pool.Executor()

			submit := exec.Dispatch
			if method == "post" {
				submit = exec.Post
			}

			_ = exec.Post(func() {
				b.ReportAllocs()
				b.ResetTimer()
				for i := 0; i < b.N; i++ {
					_ = submit(func() {})
				}
				b.StopTimer()
			})

			pool.Join()
		})
	}
}

func threadLabel(n int) string {
	return fmt.Sprintf("threads-%d", n)
}
