// Package workerpool runs an embarrassingly-parallel index range across a
// bounded set of goroutines, adapted from the teacher's generic
// x/math/primitive/generics/helpers.WorkerPool but trimmed to the
// domain-typed callback registration.Register's hot loops actually need
// (per-item pyramid/descriptor/matcher work), instead of importing the
// teacher's type-parameterized pool.
package workerpool

import (
	"runtime"
	"sync"
)

// Callback processes a single work item index. It must be safe to call
// concurrently from multiple goroutines for different indices.
type Callback func(i int)

// Run executes fn(i) for every i in [0, total), spreading work across up to
// workers goroutines. Results must be written by fn into a caller-owned,
// pre-sized slice indexed by i so the caller can assemble output in index
// order regardless of completion order (§5(c)). If workers <= 0, runtime.GOMAXPROCS(0)
// is used.
func Run(total, workers int, fn Callback) {
	if total <= 0 {
		return
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > total {
		workers = total
	}

	var wg sync.WaitGroup
	next := make(chan int)

	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range next {
				fn(i)
			}
		}()
	}

	for i := 0; i < total; i++ {
		next <- i
	}
	close(next)
	wg.Wait()
}
