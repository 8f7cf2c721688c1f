package pool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetFloat64Slice(t *testing.T) {
	t.Run("exact length", func(t *testing.T) {
		s, cleanup := GetFloat64Slice(256)
		defer cleanup()
		require.Len(t, s, 256)
	})

	t.Run("reuse shrinks to requested size", func(t *testing.T) {
		s, cleanup := GetFloat64Slice(64)
		s[0] = 1
		cleanup()

		s2, cleanup2 := GetFloat64Slice(4)
		defer cleanup2()
		require.Len(t, s2, 4)
	})

	t.Run("zero size", func(t *testing.T) {
		s, cleanup := GetFloat64Slice(0)
		defer cleanup()
		require.Empty(t, s)
	})
}
