package encoding

import (
	"context"
	"errors"
	"sync"
)

// Below this many values per task the work is done in one go.
const minChunk = 1024

type span struct {
	lo, hi int
}

func generateSpans(ctx context.Context, n, size int) <-chan span {
	out := make(chan span)
	go func() {
		defer close(out)
		for lo := 0; lo < n; lo += size {
			select {
			case out <- span{lo, min(lo+size, n)}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

func spanWorker(ctx context.Context, in <-chan span, fn func(lo, hi int) error) <-chan error {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for s := range in {
			if ctx.Err() != nil {
				return
			}
			if err := fn(s.lo, s.hi); err != nil {
				errc <- err
				return
			}
		}
	}()
	return errc
}

func waitForPipeline(errs ...<-chan error) error {
	errc := mergeErrors(errs...)
	for err := range errc {
		if err != nil {
			return err
		}
	}
	return nil
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

var errBadSpan = errors.New("encoding: invalid span")

// parallel calls fn over contiguous spans covering [0, n) using up to
// parallelism workers. Spans never overlap so fn may write to disjoint
// regions of a shared buffer.
func parallel(n, parallelism int, fn func(lo, hi int) error) error {
	if n < 0 {
		return errBadSpan
	}
	if parallelism <= 1 || n <= minChunk {
		return fn(0, n)
	}

	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()

	size := max((n+parallelism-1)/parallelism, minChunk)
	spans := generateSpans(ctx, n, size)

	var errcList []<-chan error
	for i := 0; i < parallelism; i++ {
		errcList = append(errcList, spanWorker(ctx, spans, fn))
	}

	return waitForPipeline(errcList...)
}
