package cluster

import (
	"context"
	"log/slog"
)

// MergeEvent describes one merge.
type MergeEvent struct {
	// Step counts merges from 0; a run over n items ends after n-1 merges.
	Step int
	// Pivot and Partner are pool positions before the merge.
	Pivot   int
	Partner int
	// Divergence is the averaged score that selected Partner.
	Divergence float64
	// Remaining is the pool size before the merge.
	Remaining int
}

// Observer receives merge notifications. It runs on the clustering goroutine
// and must not block for long.
type Observer interface {
	OnMerge(ev MergeEvent)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ev MergeEvent)

func (f ObserverFunc) OnMerge(ev MergeEvent) { f(ev) }

// LogObserver reports every merge at debug level.
func LogObserver(l *slog.Logger) Observer {
	return ObserverFunc(func(ev MergeEvent) {
		if !l.Enabled(context.Background(), slog.LevelDebug) {
			return
		}
		l.Debug("merge",
			slog.Int("step", ev.Step),
			slog.Int("pivot", ev.Pivot),
			slog.Int("partner", ev.Partner),
			slog.Float64("divergence", ev.Divergence),
			slog.Int("remaining", ev.Remaining),
		)
	})
}
