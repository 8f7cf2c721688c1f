package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type engineConfig struct {
	workers int
	metric  string
}

func withWorkers(n int) Option[*engineConfig] {
	return New(func(c *engineConfig) error {
		if n < 1 {
			return errors.New("workers must be positive")
		}
		c.workers = n

		return nil
	})
}

func withMetric(name string) Option[*engineConfig] {
	return NoError(func(c *engineConfig) {
		c.metric = name
	})
}

func TestApply(t *testing.T) {
	t.Run("applies options in order", func(t *testing.T) {
		cfg := &engineConfig{}
		err := Apply(cfg, withWorkers(2), withMetric("js"), withWorkers(4))
		require.NoError(t, err)
		require.Equal(t, 4, cfg.workers)
		require.Equal(t, "js", cfg.metric)
	})

	t.Run("stops at first error", func(t *testing.T) {
		cfg := &engineConfig{}
		err := Apply(cfg, withMetric("kl"), withWorkers(0), withMetric("js"))
		require.EqualError(t, err, "workers must be positive")
		require.Equal(t, "kl", cfg.metric)
	})

	t.Run("skips nil options", func(t *testing.T) {
		cfg := &engineConfig{}
		require.NoError(t, Apply[*engineConfig](cfg, nil, withWorkers(3)))
		require.Equal(t, 3, cfg.workers)
	})

	t.Run("no options", func(t *testing.T) {
		cfg := &engineConfig{workers: 1}
		require.NoError(t, Apply(cfg))
		require.Equal(t, 1, cfg.workers)
	})
}
