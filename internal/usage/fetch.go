package usage

import (
	"context"
	"sync"
)

// fetchAll runs fetch for every key on a bounded worker pool. Results keep
// the order of keys. The first error cancels the remaining work.
func fetchAll[K, T any](
	ctx context.Context,
	keys []K,
	workers int,
	fetch func(context.Context, K) (T, error),
) ([]T, error) {
	if len(keys) == 0 {
		return []T{}, nil
	}
	if workers <= 0 {
		workers = 1
	}
	if workers > len(keys) {
		workers = len(keys)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan int)
	out := make([]T, len(keys))

	var wg sync.WaitGroup
	var firstErr error
	var errMu sync.Mutex

	worker := func() {
		defer wg.Done()
		for i := range jobs {
			if ctx.Err() != nil {
				return
			}
			v, err := fetch(ctx, keys[i])
			if err != nil {
				errMu.Lock()
				if firstErr == nil {
					firstErr = err
					cancel()
				}
				errMu.Unlock()
				return
			}
			out[i] = v
		}
	}

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go worker()
	}

	go func() {
		defer close(jobs)
		for i := range keys {
			select {
			case <-ctx.Done():
				return
			case jobs <- i:
			}
		}
	}()

	wg.Wait()

	errMu.Lock()
	defer errMu.Unlock()
	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
