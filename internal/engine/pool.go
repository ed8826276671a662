package engine

import "sync"

type poolResult[R any] struct {
	Value R
	Err   error
}

// runOrdered fans items out over a bounded goroutine pool and joins results
// back into input order, so downstream consumers see a deterministic sequence
// regardless of worker scheduling.
func runOrdered[T any, R any](items []T, concurrency int, fn func(int, T) (R, error)) []poolResult[R] {
	if len(items) == 0 {
		return nil
	}
	if concurrency < 1 {
		concurrency = 1
	}
	if concurrency > len(items) {
		concurrency = len(items)
	}

	sem := make(chan struct{}, concurrency)
	results := make([]poolResult[R], len(items))

	var wg sync.WaitGroup
	for i, item := range items {
		wg.Add(1)
		go func(i int, item T) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			v, err := fn(i, item)
			results[i] = poolResult[R]{Value: v, Err: err}
		}(i, item)
	}
	wg.Wait()
	return results
}
