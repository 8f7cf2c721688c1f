// Package endian provides byte order engines for the s3 binary payloads.
//
// s3 files carry a 4-byte marker (0x11223344) written in the producer's byte
// order right after the text header. Readers use FromMarker to pick the
// engine that decodes the marker back to its canonical value, which makes
// files portable between little- and big-endian producers.
//
// Writers default to little-endian:
//
//	engine := endian.GetLittleEndianEngine()
//	buf = engine.AppendUint32(buf, endian.ByteOrderMagic)
package endian

import "encoding/binary"

// ByteOrderMagic is the canonical value of the s3 byte-order marker.
const ByteOrderMagic uint32 = 0x11223344

// EndianEngine combines ByteOrder and AppendByteOrder from encoding/binary.
//
// Both binary.LittleEndian and binary.BigEndian satisfy it.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// GetLittleEndianEngine returns the little-endian engine.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}

// FromMarker returns the engine under which marker decodes to ByteOrderMagic.
// The second result is false when marker matches neither byte order.
func FromMarker(marker []byte) (EndianEngine, bool) {
	if len(marker) < 4 {
		return nil, false
	}

	switch {
	case binary.LittleEndian.Uint32(marker) == ByteOrderMagic:
		return binary.LittleEndian, true
	case binary.BigEndian.Uint32(marker) == ByteOrderMagic:
		return binary.BigEndian, true
	default:
		return nil, false
	}
}
