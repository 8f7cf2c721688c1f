package pool

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewByteBuffer(t *testing.T) {
	bb := NewByteBuffer(1024)

	require.NotNil(t, bb)
	assert.Equal(t, 0, bb.Len())
	assert.Equal(t, 1024, cap(bb.B))
}

func TestByteBuffer_WriteAndReset(t *testing.T) {
	bb := NewByteBuffer(16)

	n, err := bb.Write([]byte("s3\n"))
	require.NoError(t, err)
	require.Equal(t, 3, n)

	n, err = bb.Write([]byte{0x44, 0x33, 0x22, 0x11})
	require.NoError(t, err)
	require.Equal(t, 4, n)
	require.Equal(t, []byte("s3\n\x44\x33\x22\x11"), bb.Bytes())

	capBefore := cap(bb.B)
	bb.Reset()
	assert.Equal(t, 0, bb.Len())
	assert.Equal(t, capBefore, cap(bb.B))
}

func TestByteBuffer_Grow(t *testing.T) {
	t.Run("sufficient capacity is a no-op", func(t *testing.T) {
		bb := NewByteBuffer(100)
		bb.Grow(50)
		assert.Equal(t, 100, cap(bb.B))
	})

	t.Run("small buffer grows by default size", func(t *testing.T) {
		bb := NewByteBuffer(10)
		_, _ = bb.Write([]byte("0123456789"))
		bb.Grow(1)
		assert.Equal(t, 10+EncodeBufferDefaultSize, cap(bb.B))
		assert.Equal(t, "0123456789", string(bb.Bytes()))
	})

	t.Run("large request wins over default growth", func(t *testing.T) {
		bb := NewByteBuffer(0)
		bb.Grow(EncodeBufferDefaultSize * 2)
		assert.GreaterOrEqual(t, cap(bb.B), EncodeBufferDefaultSize*2)
	})

	t.Run("large buffer grows by a quarter", func(t *testing.T) {
		size := 8 * EncodeBufferDefaultSize
		bb := NewByteBuffer(size)
		bb.B = bb.B[:size]
		bb.Grow(1)
		assert.Equal(t, size+size/4, cap(bb.B))
	})
}

func TestByteBufferPool(t *testing.T) {
	t.Run("returned buffers are empty", func(t *testing.T) {
		bb := GetEncodeBuffer()
		_, _ = bb.Write([]byte("stale"))
		PutEncodeBuffer(bb)

		again := GetEncodeBuffer()
		defer PutEncodeBuffer(again)
		assert.Equal(t, 0, again.Len())
	})

	t.Run("nil put is ignored", func(t *testing.T) {
		require.NotPanics(t, func() { PutEncodeBuffer(nil) })
	})

	t.Run("oversized buffers are discarded", func(t *testing.T) {
		p := NewByteBufferPool(8, 16)
		big := NewByteBuffer(64)
		p.Put(big)

		got := p.Get()
		assert.NotSame(t, big, got)
		assert.Equal(t, 8, cap(got.B))
	})

	t.Run("concurrent access", func(t *testing.T) {
		p := NewByteBufferPool(32, 0)
		var wg sync.WaitGroup
		for i := range 16 {
			wg.Add(1)
			go func(id int) {
				defer wg.Done()
				bb := p.Get()
				_, _ = bb.Write([]byte{byte(id)})
				p.Put(bb)
			}(i)
		}
		wg.Wait()
	})
}
