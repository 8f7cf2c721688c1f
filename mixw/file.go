package mixw

import (
	"fmt"
	"math"
	"os"

	"github.com/arloliu/mixtree/endian"
	"github.com/arloliu/mixtree/errs"
	"github.com/arloliu/mixtree/section"
)

// FileVersion is the header version of s3 mixture weight files.
const FileVersion = "1.0"

// Decode parses an s3 mixture weight file.
//
// Layout: s3 header, byte-order marker, int32 n_mixw, n_feat, n_density and
// total count, float32[n_mixw*n_feat*n_density], then a uint32 checksum
// when the header carries "chksum0 yes".
func Decode(data []byte) (*Table, error) {
	hdr, off, err := section.ParseHeader(data)
	if err != nil {
		return nil, err
	}
	engine, err := section.ParseByteOrder(data, off)
	if err != nil {
		return nil, err
	}
	off += section.ByteOrderSize

	// the checksum runs over the dimension words and the weights
	var sum uint32
	var dims [4]int
	for i := range dims {
		if len(data)-off < 4 {
			return nil, errs.NewFormatError(errs.ErrUnexpectedEOF, off, "int32 dimension", "end of data")
		}
		word := engine.Uint32(data[off:])
		if v := int32(word); v < 0 {
			return nil, errs.NewFormatError(errs.ErrInvalidDimension, off, "non-negative dimension", fmt.Sprint(v))
		}
		sum = rotateChecksum(sum, word)
		dims[i] = int(word)
		off += 4
	}
	nMixw, nFeat, nDensity, total := dims[0], dims[1], dims[2], dims[3]
	if nMixw == 0 {
		return nil, errs.NewFormatError(errs.ErrEmptyTable, off-16, "n_mixw > 0", "0")
	}
	if nFeat == 0 || nDensity == 0 {
		return nil, errs.NewFormatError(errs.ErrInvalidDimension, off-12,
			"n_feat and n_density > 0", fmt.Sprintf("%d, %d", nFeat, nDensity))
	}
	if total > (len(data)-off)/4 {
		return nil, errs.NewFormatError(errs.ErrUnexpectedEOF, off,
			fmt.Sprintf("%d values of weights", total), fmt.Sprintf("%d bytes", len(data)-off))
	}
	// both factors fit in int32, so their product cannot overflow
	perItem := nFeat * nDensity
	if total%perItem != 0 || total/perItem != nMixw {
		return nil, errs.NewFormatError(errs.ErrHeaderCountMismatch, off-4,
			fmt.Sprintf("%d x %d x %d values", nMixw, nFeat, nDensity), fmt.Sprintf("%d values", total))
	}

	t, err := NewTable(nMixw, nFeat, nDensity)
	if err != nil {
		return nil, err
	}

	for i := range total {
		bits := engine.Uint32(data[off:])
		sum = rotateChecksum(sum, bits)
		t.data[i] = float64(math.Float32frombits(bits))
		off += 4
	}

	if v, _ := hdr.Get(section.KeyChecksum); v == "yes" {
		if len(data)-off < 4 {
			return nil, errs.NewFormatError(errs.ErrUnexpectedEOF, off, "uint32 checksum", "end of data")
		}
		stored := engine.Uint32(data[off:])
		if stored != sum {
			return nil, errs.NewFormatError(errs.ErrChecksumMismatch, off,
				fmt.Sprintf("0x%08x", sum), fmt.Sprintf("0x%08x", stored))
		}
	}

	return t, nil
}

// Encode serializes t as an s3 mixture weight file with a checksum over the
// dimension words and the weights.
// Values are narrowed to float32.
func Encode(t *Table, engine endian.EndianEngine) []byte {
	hdr := section.NewHeader(FileVersion)
	hdr.Set(section.KeyChecksum, "yes")

	buf := hdr.AppendTo(make([]byte, 0, 64+16+4*len(t.data)+4))
	buf = section.AppendByteOrder(buf, engine)
	var sum uint32
	for _, v := range []int{t.nItems, t.nFeat, t.nDensity, len(t.data)} {
		sum = rotateChecksum(sum, uint32(v))
		buf = engine.AppendUint32(buf, uint32(v))
	}
	for _, v := range t.data {
		bits := math.Float32bits(float32(v))
		sum = rotateChecksum(sum, bits)
		buf = engine.AppendUint32(buf, bits)
	}

	return engine.AppendUint32(buf, sum)
}

// ReadFile loads an s3 mixture weight file from disk.
func ReadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	t, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return t, nil
}

// rotateChecksum folds one 32-bit word into the running s3 checksum.
func rotateChecksum(sum, word uint32) uint32 {
	return (sum<<20 | sum>>12) + word
}
