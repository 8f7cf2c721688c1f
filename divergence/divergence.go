package divergence

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/arloliu/mixtree/errs"
	"github.com/arloliu/mixtree/internal/pool"
)

// Func computes the divergence from p to q. Both slices must have the same length.
type Func func(p, q []float64) float64

// KL returns the Kullback-Leibler divergence from p to q in nats.
func KL(p, q []float64) float64 {
	return stat.KullbackLeibler(p, q)
}

// JS returns the symmetric divergence (KL(p, q) + KL(q, p)) / 2 in nats.
func JS(p, q []float64) float64 {
	return 0.5 * (stat.KullbackLeibler(q, p) + stat.KullbackLeibler(p, q))
}

// SqDiff returns the squared Euclidean distance between p and q.
func SqDiff(p, q []float64) float64 {
	d := floats.Distance(p, q, 2)
	return d * d
}

// Metric names one of the built-in divergences.
type Metric int

const (
	MetricJS Metric = iota
	MetricKL
	MetricSqDiff
)

func (m Metric) String() string {
	switch m {
	case MetricJS:
		return "js"
	case MetricKL:
		return "kl"
	case MetricSqDiff:
		return "sqdiff"
	default:
		return fmt.Sprintf("unknown(%d)", int(m))
	}
}

// ParseMetric maps "js", "kl" or "sqdiff" (case-insensitive) to a Metric.
func ParseMetric(name string) (Metric, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "js", "jensen-shannon":
		return MetricJS, nil
	case "kl", "kullback-leibler":
		return MetricKL, nil
	case "sqdiff", "euclidean":
		return MetricSqDiff, nil
	default:
		return 0, fmt.Errorf("%w: %q", errs.ErrUnknownMetric, name)
	}
}

// Provider returns the divergence function for m.
func Provider(m Metric) (Func, error) {
	switch m {
	case MetricJS:
		return JS, nil
	case MetricKL:
		return KL, nil
	case MetricSqDiff:
		return SqDiff, nil
	default:
		return nil, fmt.Errorf("%w: %v", errs.ErrUnknownMetric, m)
	}
}

// Midpoint returns a Func scoring p against the interpolation (p + q) / 2
// instead of q itself. The returned Func is safe for concurrent use.
func Midpoint(fn Func) Func {
	return func(p, q []float64) float64 {
		mid, release := pool.GetFloat64Slice(len(p))
		defer release()

		floats.AddTo(mid, p, q)
		floats.Scale(0.5, mid)

		return fn(p, mid)
	}
}
