package divergence

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Evaluate scores p against every candidate in qs and stores fn(p, qs[j]) in
// dst[j]. dst is grown when too short and the filled slice is returned.
func Evaluate(fn Func, p []float64, qs [][]float64, dst []float64) []float64 {
	dst = resize(dst, len(qs))
	for j, q := range qs {
		dst[j] = fn(p, q)
	}

	return dst
}

// EvaluateParallel is Evaluate spread over up to workers goroutines.
//
// Every dst[j] is written by exactly one goroutine, so the result is
// identical to Evaluate. The only error returned is ctx's.
func EvaluateParallel(ctx context.Context, fn Func, p []float64, qs [][]float64, dst []float64, workers int) ([]float64, error) {
	dst = resize(dst, len(qs))
	if workers <= 1 || len(qs) < 2*workers {
		if err := ctx.Err(); err != nil {
			return dst, err
		}

		return Evaluate(fn, p, qs, dst), nil
	}

	g, gctx := errgroup.WithContext(ctx)
	chunk := (len(qs) + workers - 1) / workers
	for lo := 0; lo < len(qs); lo += chunk {
		hi := min(lo+chunk, len(qs))
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			for j := lo; j < hi; j++ {
				dst[j] = fn(p, qs[j])
			}

			return nil
		})
	}

	return dst, g.Wait()
}

func resize(dst []float64, n int) []float64 {
	if cap(dst) < n {
		return make([]float64, n)
	}

	return dst[:n]
}
