package cluster

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/arloliu/mixtree/divergence"
	"github.com/arloliu/mixtree/errs"
	"github.com/arloliu/mixtree/internal/options"
	"github.com/arloliu/mixtree/internal/pool"
	"github.com/arloliu/mixtree/tree"
)

// Engine runs agglomerative clustering. An Engine holds no per-run state and
// may be shared by concurrent runs.
type Engine struct {
	metric     divergence.Func
	metricName string
	workers    int
	observer   Observer
	logger     *slog.Logger
}

// New creates an Engine using JS divergence on a single goroutine unless
// options say otherwise.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{
		metric:     divergence.JS,
		metricName: divergence.MetricJS.String(),
		workers:    1,
		logger:     slog.New(slog.DiscardHandler),
	}
	if err := options.Apply(e, opts...); err != nil {
		return nil, err
	}

	return e, nil
}

// Metric returns the name of the configured divergence.
func (e *Engine) Metric() string { return e.metricName }

// Cluster merges every item of src into one tree and returns its root. The
// root centroid is the unweighted iterative mean of all items.
//
// src must hold at least one item and every item must have the same number
// of features and the same density. The only error after validation is the
// context's.
func (e *Engine) Cluster(ctx context.Context, src tree.Source) (*tree.Node, error) {
	numFeat, density, err := validate(src)
	if err != nil {
		return nil, err
	}

	n := src.Len()
	e.logger.Info("clustering started",
		slog.Int("items", n),
		slog.Int("features", numFeat),
		slog.Int("density", density),
		slog.String("metric", e.metricName),
		slog.Int("workers", e.workers),
	)
	started := time.Now()

	active := make([]*tree.Node, n)
	for i := range active {
		active[i] = tree.NewLeaf(i, cloneItem(src.Item(i)))
	}

	score := divergence.Midpoint(e.metric)
	perFeature := make([][]float64, numFeat)
	candidates := make([][]float64, n)
	scores := make([]float64, n)
	row, release := pool.GetFloat64Slice(numFeat)
	defer release()

	step := 0
	for len(active) > 1 {
		for i := 0; i < len(active) && len(active) > 1; i++ {
			pivot := active[i].Centroid()
			k := len(active)
			for f := range numFeat {
				candidates = candidates[:k]
				for j, c := range active {
					candidates[j] = c.Centroid()[f]
				}
				perFeature[f], err = divergence.EvaluateParallel(ctx, score, pivot[f], candidates, perFeature[f], e.workers)
				if err != nil {
					return nil, err
				}
			}

			scores = scores[:k]
			for j := range k {
				for f := range numFeat {
					row[f] = perFeature[f][j]
				}
				scores[j] = stat.Mean(row, nil)
			}

			partner := selectPartner(scores, i)
			if e.observer != nil {
				e.observer.OnMerge(MergeEvent{
					Step:       step,
					Pivot:      i,
					Partner:    partner,
					Divergence: scores[partner],
					Remaining:  k,
				})
			}

			active[i] = tree.Merge(active[i], active[partner])
			active = slices.Delete(active, partner, partner+1)
			step++
		}
	}

	e.logger.Info("clustering finished",
		slog.Int("merges", step),
		slog.Duration("elapsed", time.Since(started)),
	)

	return active[0], nil
}

// selectPartner picks the candidate a pivot merges with.
//
// Ranking the scores ascending with ties kept in position order and taking
// the first strictly positive entry is the same as taking the smallest
// positive score at the lowest position, which is what the scan computes.
// When no score is positive the lowest-scoring position other than the
// pivot is used so a cluster never merges with itself. NaN ranks last.
func selectPartner(scores []float64, pivot int) int {
	best := -1
	for j, s := range scores {
		if s > 0 && (best < 0 || s < scores[best]) {
			best = j
		}
	}
	if best >= 0 {
		return best
	}

	for j, s := range scores {
		if j == pivot {
			continue
		}
		if best < 0 || less(s, scores[best]) {
			best = j
		}
	}

	return best
}

func less(a, b float64) bool {
	if math.IsNaN(a) {
		return false
	}

	return math.IsNaN(b) || a < b
}

func validate(src tree.Source) (numFeat, density int, err error) {
	if src == nil || src.Len() == 0 {
		return 0, 0, errs.ErrEmptyTable
	}

	first := src.Item(0)
	numFeat = len(first)
	if numFeat == 0 || len(first[0]) == 0 {
		return 0, 0, fmt.Errorf("%w: item 0 has no features or zero density", errs.ErrInvalidDimension)
	}
	density = len(first[0])

	for i := range src.Len() {
		item := src.Item(i)
		if len(item) != numFeat {
			return 0, 0, fmt.Errorf("%w: item %d has %d features, want %d", errs.ErrShapeMismatch, i, len(item), numFeat)
		}
		for f, dist := range item {
			if len(dist) != density {
				return 0, 0, fmt.Errorf("%w: item %d feature %d has density %d, want %d",
					errs.ErrShapeMismatch, i, f, len(dist), density)
			}
		}
	}

	return numFeat, density, nil
}

func cloneItem(item [][]float64) [][]float64 {
	out := make([][]float64, len(item))
	for f, dist := range item {
		out[f] = append([]float64(nil), dist...)
	}

	return out
}
