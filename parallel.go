package itemex

import "sync"

// parallelRanges splits [0, n) into contiguous ranges, one per worker, and
// calls fn(start, end) for each range on its own goroutine. Ranges never
// overlap, so fn may write to disjoint slots of a shared slice without
// further synchronization. With numWorkers <= 1 (or n <= 1) fn runs once on
// the calling goroutine.
func parallelRanges(n, numWorkers int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	if numWorkers <= 1 || n == 1 {
		fn(0, n)
		return
	}

	var wg sync.WaitGroup
	perWorker := (n + numWorkers - 1) / numWorkers

	for w := 0; w < numWorkers; w++ {
		start := w * perWorker
		end := start + perWorker
		if end > n {
			end = n
		}
		if start >= n {
			break
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			fn(start, end)
		}(start, end)
	}

	wg.Wait()
}

// parallelFor calls fn(i) for every i in [0, n) using parallelRanges.
func parallelFor(n, numWorkers int, fn func(i int)) {
	parallelRanges(n, numWorkers, func(start, end int) {
		for i := start; i < end; i++ {
			fn(i)
		}
	})
}
