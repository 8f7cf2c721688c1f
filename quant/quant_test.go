package quant

import (
	"math"
	"testing"

	"github.com/arloliu/mixtree/errs"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	q := newDefault(t)

	tests := []struct {
		name string
		v    float64
		want uint8
	}{
		{"one", 1.0, 0},
		{"above one clips", 3.0, 0},
		{"half", 0.5, 7},    // -ln(0.5)/ln(1.0001)/1024 = 6.77
		{"tenth", 0.1, 22},  // 22.49
		{"1e-3", 1e-3, 67},  // 67.46
		{"1e-6", 1e-6, 135}, // 134.92
		{"floor saturates", 1e-8, MaxCode},
		{"zero floors", 0, MaxCode},
		{"negative floors", -1, MaxCode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, q.Encode(tt.v))
		})
	}
}

func TestDecode(t *testing.T) {
	q := newDefault(t)
	require.InDelta(t, 1.0, q.Decode(0), 1e-15)
	require.InDelta(t, math.Pow(DefaultLogBase, -1024), q.Decode(1), 1e-12)
	require.InDelta(t, math.Pow(DefaultLogBase, -160*1024), q.Decode(MaxCode), 1e-15)
}

func TestRoundTripBound(t *testing.T) {
	q := newDefault(t)
	lowest := q.Decode(MaxCode)

	for v := 1.0; v >= lowest; v *= 0.93 {
		got := q.Decode(q.Encode(v))
		require.LessOrEqual(t, math.Abs(got-v), step(q, v), "v=%g", v)
		require.NotEqual(t, 0.0, got)
	}
}

func TestEncodeTo_DecodeTo(t *testing.T) {
	q := newDefault(t)
	codes := q.EncodeTo(nil, []float64{1, 0.5, 0.1})
	require.Equal(t, []uint8{0, 7, 22}, codes)

	vals := q.DecodeTo(nil, codes)
	require.Len(t, vals, 3)
	require.InDelta(t, 1.0, vals[0], 1e-12)
	require.InDelta(t, 0.5, vals[1], step(q, 0.5))
	require.InDelta(t, 0.1, vals[2], step(q, 0.1))
}

func TestNew_Options(t *testing.T) {
	t.Run("custom base", func(t *testing.T) {
		q, err := New(WithLogBase(1.0003), WithFloor(1e-5))
		require.NoError(t, err)
		require.Equal(t, 1.0003, q.LogBase())
		require.Equal(t, q.Encode(1e-5), q.Encode(1e-9))
		// a coarser base packs the same value into fewer codes
		require.Less(t, q.Encode(1e-3), newDefault(t).Encode(1e-3))
	})

	t.Run("invalid base", func(t *testing.T) {
		for _, b := range []float64{1, 0.5, -2, math.NaN(), math.Inf(1)} {
			_, err := New(WithLogBase(b))
			require.ErrorIs(t, err, errs.ErrInvalidLogBase, "base %v", b)
		}
	})

	t.Run("invalid floor", func(t *testing.T) {
		for _, f := range []float64{0, 1, -1e-8, math.NaN()} {
			_, err := New(WithFloor(f))
			require.ErrorIs(t, err, errs.ErrInvalidFloor, "floor %v", f)
		}
	})
}

func TestEncode_NaN(t *testing.T) {
	require.Equal(t, uint8(MaxCode), newDefault(t).Encode(math.NaN()))
}

func newDefault(t *testing.T) *Quantizer {
	t.Helper()

	q, err := New()
	require.NoError(t, err)

	return q
}

// step is the distance between the decoded values of v's code and the next
// larger code.
func step(q *Quantizer, v float64) float64 {
	code := q.Encode(v)
	if code == 0 {
		return q.Decode(0) - q.Decode(1)
	}

	return q.Decode(code-1) - q.Decode(code)
}
