package cluster

import (
	"fmt"
	"log/slog"

	"github.com/arloliu/mixtree/divergence"
	"github.com/arloliu/mixtree/errs"
	"github.com/arloliu/mixtree/internal/options"
)

// Option configures an Engine.
type Option = options.Option[*Engine]

// WithMetric selects a built-in divergence. The default is divergence.MetricJS.
func WithMetric(m divergence.Metric) Option {
	return options.New(func(e *Engine) error {
		fn, err := divergence.Provider(m)
		if err != nil {
			return err
		}
		e.metric = fn
		e.metricName = m.String()

		return nil
	})
}

// WithDivergence installs a custom divergence function.
func WithDivergence(name string, fn divergence.Func) Option {
	return options.New(func(e *Engine) error {
		if fn == nil {
			return fmt.Errorf("%w: nil divergence %q", errs.ErrUnknownMetric, name)
		}
		e.metric = fn
		e.metricName = name

		return nil
	})
}

// WithWorkers spreads the candidate scan of every merge over n goroutines.
// n = 1, the default, keeps the scan on the calling goroutine.
func WithWorkers(n int) Option {
	return options.New(func(e *Engine) error {
		if n < 1 {
			return fmt.Errorf("%w: %d", errs.ErrInvalidWorkerCount, n)
		}
		e.workers = n

		return nil
	})
}

// WithObserver registers an observer notified after every merge.
func WithObserver(o Observer) Option {
	return options.NoError(func(e *Engine) {
		e.observer = o
	})
}

// WithLogger sets the logger for run-level messages. Logging is discarded by default.
func WithLogger(l *slog.Logger) Option {
	return options.NoError(func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	})
}
