// Package hash computes xxHash64 fingerprints of distribution data.
package hash

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
)

// Digest accumulates a fingerprint over integers and float64 values.
//
// Floats are hashed by their IEEE-754 bit pattern, so -0 and +0 differ and
// every NaN payload is distinct. The zero value is not usable; call NewDigest.
type Digest struct {
	d   *xxhash.Digest
	buf [8]byte
}

// NewDigest returns an empty Digest.
func NewDigest() *Digest {
	return &Digest{d: xxhash.New()}
}

// Int adds v to the fingerprint.
func (d *Digest) Int(v int) {
	binary.LittleEndian.PutUint64(d.buf[:], uint64(int64(v)))
	_, _ = d.d.Write(d.buf[:])
}

// Uint64 adds v to the fingerprint.
func (d *Digest) Uint64(v uint64) {
	binary.LittleEndian.PutUint64(d.buf[:], v)
	_, _ = d.d.Write(d.buf[:])
}

// Float64s adds every value of vals to the fingerprint.
func (d *Digest) Float64s(vals []float64) {
	for _, v := range vals {
		binary.LittleEndian.PutUint64(d.buf[:], math.Float64bits(v))
		_, _ = d.d.Write(d.buf[:])
	}
}

// Sum64 returns the current fingerprint.
func (d *Digest) Sum64() uint64 {
	return d.d.Sum64()
}
