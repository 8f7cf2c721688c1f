// Package quant maps probabilities to 8-bit logarithmic codes and back.
//
// A value v is clipped to [floor, 1] and stored as
//
//	code = clip(round(-log_b(v) / 1024), 0, 160)
//
// and decoded as b^-(code<<10). With the default base 1.0001 one code step
// is a factor of about 1.108, so a decoded value is within half a step
// (about 5.3%) of the original for every v at or above Decode(MaxCode).
// Smaller values saturate at MaxCode. The mapping is lossy on purpose.
package quant

import (
	"fmt"
	"math"

	"github.com/arloliu/mixtree/errs"
	"github.com/arloliu/mixtree/internal/options"
)

const (
	DefaultLogBase = 1.0001 // DefaultLogBase is the log base written to s3 headers.
	DefaultFloor   = 1e-8   // DefaultFloor is the smallest value before quantization.
	MaxCode        = 160    // MaxCode is the largest code ever produced.
	Shift          = 10     // Shift is the right shift applied to -log_b(v).
)

// Quantizer converts between float64 probabilities and uint8 codes.
//
// A Quantizer is immutable after construction and safe for concurrent use.
type Quantizer struct {
	logBase float64
	floor   float64
	lnBase  float64
}

// Option configures a Quantizer.
type Option = options.Option[*Quantizer]

// WithLogBase sets the logarithm base. It must be greater than 1.
func WithLogBase(base float64) Option {
	return options.New(func(q *Quantizer) error {
		if !(base > 1) || math.IsInf(base, 1) {
			return fmt.Errorf("%w: %v", errs.ErrInvalidLogBase, base)
		}
		q.logBase = base

		return nil
	})
}

// WithFloor sets the clipping floor. It must lie in (0, 1).
func WithFloor(floor float64) Option {
	return options.New(func(q *Quantizer) error {
		if !(floor > 0 && floor < 1) {
			return fmt.Errorf("%w: %v", errs.ErrInvalidFloor, floor)
		}
		q.floor = floor

		return nil
	})
}

// New creates a Quantizer using DefaultLogBase and DefaultFloor unless overridden.
func New(opts ...Option) (*Quantizer, error) {
	q := &Quantizer{logBase: DefaultLogBase, floor: DefaultFloor}
	if err := options.Apply(q, opts...); err != nil {
		return nil, err
	}
	q.lnBase = math.Log(q.logBase)

	return q, nil
}

// LogBase returns the configured logarithm base.
func (q *Quantizer) LogBase() float64 { return q.logBase }

// Encode quantizes one probability.
func (q *Quantizer) Encode(v float64) uint8 {
	v = min(max(v, q.floor), 1.0)
	if math.IsNaN(v) {
		v = q.floor
	}

	x := math.Round(-math.Log(v) / q.lnBase / (1 << Shift))

	return uint8(min(max(x, 0), MaxCode))
}

// Decode returns the probability represented by code.
func (q *Quantizer) Decode(code uint8) float64 {
	return math.Exp(-float64(int(code)<<Shift) * q.lnBase)
}

// EncodeTo appends the codes of src to dst and returns the extended slice.
func (q *Quantizer) EncodeTo(dst []uint8, src []float64) []uint8 {
	for _, v := range src {
		dst = append(dst, q.Encode(v))
	}

	return dst
}

// DecodeTo appends the probabilities of codes to dst and returns the extended slice.
func (q *Quantizer) DecodeTo(dst []float64, codes []uint8) []float64 {
	for _, c := range codes {
		dst = append(dst, q.Decode(c))
	}

	return dst
}
