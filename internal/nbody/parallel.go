package nbody

import (
	"runtime"
	"sync"
)

// ForBlocks runs fn over contiguous blocks of [0, n) and returns once every
// block has finished. Small ranges run inline. workers <= 0 selects
// runtime.NumCPU().
func ForBlocks(n, minChunk, workers int, fn func(lo, hi int)) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if minChunk < 1 {
		minChunk = 1
	}
	if n <= minChunk || workers <= 1 {
		fn(0, n)
		return
	}
	if n/minChunk < workers {
		workers = n / minChunk
	}

	chunk := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for lo := 0; lo < n; lo += chunk {
		hi := min(lo+chunk, n)
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn(lo, hi)
		}()
	}
	wg.Wait()
}
