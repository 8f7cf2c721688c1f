package endian

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromMarker(t *testing.T) {
	t.Run("little endian marker", func(t *testing.T) {
		marker := GetLittleEndianEngine().AppendUint32(nil, ByteOrderMagic)
		require.Equal(t, []byte{0x44, 0x33, 0x22, 0x11}, marker)

		engine, ok := FromMarker(marker)
		require.True(t, ok)
		require.Equal(t, binary.LittleEndian, engine)
	})

	t.Run("big endian marker", func(t *testing.T) {
		marker := GetBigEndianEngine().AppendUint32(nil, ByteOrderMagic)

		engine, ok := FromMarker(marker)
		require.True(t, ok)
		require.Equal(t, binary.BigEndian, engine)
	})

	t.Run("garbage marker", func(t *testing.T) {
		_, ok := FromMarker([]byte{0xde, 0xad, 0xbe, 0xef})
		require.False(t, ok)
	})

	t.Run("short marker", func(t *testing.T) {
		_, ok := FromMarker([]byte{0x44, 0x33})
		require.False(t, ok)
	})
}
