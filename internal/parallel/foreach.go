// Package parallel contains bounded fan-out helpers used for batch parallelism.
package parallel

import (
	"context"
	"sync"
)

// ForEach calls body(i) for every i in [0, length) using at most limit
// concurrent goroutines, and returns once all calls have finished.
func ForEach(length, limit int, body func(i int)) {
	if length <= 0 {
		return
	}
	if limit <= 0 {
		limit = 1
	}
	if limit == 1 || length == 1 {
		for i := 0; i < length; i++ {
			body(i)
		}
		return
	}

	sem := make(chan struct{}, limit)
	var wg sync.WaitGroup
	wg.Add(length)

	for i := 0; i < length; i++ {
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()

			body(i)
		}(i)
	}

	wg.Wait()
}

// ForEachContext is ForEach with cancellation and error propagation.
//
// No new iteration starts after ctx is done or after any body returns an
// error. The first error (or ctx.Err()) is returned; iterations already
// running are waited for.
func ForEachContext(ctx context.Context, length, limit int, body func(ctx context.Context, i int) error) error {
	if length <= 0 {
		return ctx.Err()
	}
	if limit <= 0 {
		limit = 1
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		once     sync.Once
		firstErr error
	)
	fail := func(err error) {
		once.Do(func() {
			firstErr = err
			cancel()
		})
	}

	sem := make(chan struct{}, limit)
loop:
	for i := 0; i < length; i++ {
		select {
		case <-ctx.Done():
			break loop
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()

			if err := body(ctx, i); err != nil {
				fail(err)
			}
		}(i)
	}

	wg.Wait()

	if firstErr != nil {
		return firstErr
	}
	return ctx.Err()
}

// Chunks splits [0, n) into at most parts contiguous [from, to) ranges of
// near-equal size. Earlier ranges get the remainder.
func Chunks(n, parts int) [][2]int {
	if n <= 0 {
		return nil
	}
	if parts <= 0 {
		parts = 1
	}
	if parts > n {
		parts = n
	}

	out := make([][2]int, 0, parts)
	size, rem := n/parts, n%parts
	from := 0
	for p := 0; p < parts; p++ {
		to := from + size
		if p < rem {
			to++
		}
		out = append(out, [2]int{from, to})
		from = to
	}
	return out
}
