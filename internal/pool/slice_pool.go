// Package pool provides pooled byte buffers for the blob encoders and pooled
// float64 scratch slices for the clustering engine.
package pool

import "sync"

var float64SlicePool = sync.Pool{
	New: func() any { return &[]float64{} },
}

// GetFloat64Slice retrieves a float64 slice of exactly size elements.
//
// The contents are not zeroed. The caller must call the returned cleanup
// function (typically with defer) to hand the slice back.
//
// Example:
//
//	scratch, cleanup := pool.GetFloat64Slice(nDensity)
//	defer cleanup()
func GetFloat64Slice(size int) ([]float64, func()) {
	ptr, _ := float64SlicePool.Get().(*[]float64)
	slice := (*ptr)[:0]

	if cap(slice) < size {
		slice = make([]float64, size)
	} else {
		slice = slice[:size]
	}
	*ptr = slice

	return slice, func() { float64SlicePool.Put(ptr) }
}
