package dewarp

import (
	"runtime"
	"sync"
)

// Backend selects the execution strategy for the elementwise passes inside
// pipeline stages. Implementations run op over the half-open index range
// [0, n), split into contiguous sub-ranges however they see fit; op must
// be safe to call concurrently on disjoint ranges.
type Backend interface {
	// Rows invokes op over sub-ranges that together cover [0, n) exactly
	// once, and returns only after every invocation has completed.
	Rows(n int, op func(lo, hi int))

	// Name identifies the backend in logs.
	Name() string
}

// ReferenceBackend runs every pass on the calling goroutine. It is the
// baseline the parallel backend is checked against.
type ReferenceBackend struct{}

// Rows implements Backend.
func (ReferenceBackend) Rows(n int, op func(lo, hi int)) {
	if n > 0 {
		op(0, n)
	}
}

// Name implements Backend.
func (ReferenceBackend) Name() string { return "reference" }

// ParallelBackend slices each pass across a fixed pool of worker
// goroutines. Workers defaults to runtime.NumCPU() when zero.
type ParallelBackend struct {
	Workers int
}

// Rows implements Backend.
func (p ParallelBackend) Rows(n int, op func(lo, hi int)) {
	if n <= 0 {
		return
	}
	workers := p.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > n {
		workers = n
	}
	if workers == 1 {
		op(0, n)
		return
	}

	chunk := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for lo := 0; lo < n; lo += chunk {
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			op(lo, hi)
		}(lo, hi)
	}
	wg.Wait()
}

// Name implements Backend.
func (p ParallelBackend) Name() string { return "parallel" }
