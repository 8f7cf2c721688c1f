package bitmap

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/arloliu/mixtree/errs"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name    string
		members []int
		nbits   int
		start   int
		words   []uint32
	}{
		{"two words from start", []int{3, 40, 41}, 64, 0, []uint32{1 << 3, 1<<8 | 1<<9}},
		{"leading words trimmed", []int{100}, 128, 3, []uint32{1 << 4}},
		{"trailing words trimmed", []int{0, 1}, 4096, 0, []uint32{0b11}},
		{"bit 31 and 32", []int{31, 32}, 0, 0, []uint32{1 << 31, 1}},
		{"unsorted with duplicates", []int{41, 3, 3}, 64, 0, []uint32{1 << 3, 1 << 9}},
		{"universe sized from members", []int{70}, 0, 2, []uint32{1 << 6}},
		{"odd start word", []int{33, 95}, 96, 1, []uint32{1 << 1, 1 << 31}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bm, err := Encode(tt.members, tt.nbits)
			require.NoError(t, err)
			require.Equal(t, tt.start, bm.Start)
			require.Equal(t, len(tt.words), bm.Count())
			require.Equal(t, tt.words, bm.Words)
		})
	}
}

func TestEncode_Errors(t *testing.T) {
	_, err := Encode(nil, 32)
	require.ErrorIs(t, err, errs.ErrEmptyBitmap)

	_, err = Encode([]int{4, -1}, 32)
	require.ErrorIs(t, err, errs.ErrNegativeMember)
}

func TestDecode(t *testing.T) {
	require.Equal(t, []int{3, 40, 41}, Decode(0, []uint32{1 << 3, 1<<8 | 1<<9}))
	require.Equal(t, []int{100}, Decode(3, []uint32{1 << 4}))
	require.Equal(t, []int{63, 64}, Decode(1, []uint32{1 << 31, 1}))
	require.Empty(t, Decode(5, []uint32{0, 0}))
	require.Empty(t, Decode(0, nil))
}

func TestRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for iter := range 200 {
		n := 1 + rng.Intn(50)
		universe := 1 + rng.Intn(5000)
		set := make([]int, n)
		for i := range set {
			set[i] = rng.Intn(universe)
		}

		bm, err := Encode(set, universe)
		require.NoError(t, err)

		want := slices.Clone(set)
		slices.Sort(want)
		want = slices.Compact(want)
		require.Equal(t, want, bm.Members(), "iteration %d", iter)
	}
}

func BenchmarkEncode(b *testing.B) {
	members := make([]int, 0, 512)
	for i := 0; i < 4096; i += 8 {
		members = append(members, i)
	}

	b.ReportAllocs()
	for b.Loop() {
		_, _ = Encode(members, 4096)
	}
}
