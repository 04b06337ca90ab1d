package numeric

import (
	"runtime"
	"sync"
)

// ParallelFor executes fn over the range [0, n) split into contiguous chunks,
// one goroutine per chunk. Ranges no larger than minChunk run on the calling
// goroutine.
func ParallelFor(n, minChunk int, fn func(start, end int)) {
	numWorkers := runtime.GOMAXPROCS(0)
	if minChunk < 1 {
		minChunk = 1
	}
	if n <= minChunk || numWorkers <= 1 {
		fn(0, n)
		return
	}

	workers := numWorkers
	if n/minChunk < workers {
		workers = n / minChunk
	}
	if workers < 1 {
		workers = 1
	}

	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunkSize {
		end := start + chunkSize
		if end > n {
			end = n
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}

	wg.Wait()
}
