package blob

import (
	"fmt"

	"github.com/arloliu/mixtree/compress"
	"github.com/arloliu/mixtree/endian"
	"github.com/arloliu/mixtree/errs"
	"github.com/arloliu/mixtree/format"
	"github.com/arloliu/mixtree/quant"
	"github.com/arloliu/mixtree/section"
)

// opened is a parsed blob header plus its (decompressed) body.
type opened struct {
	header      *section.Header
	engine      endian.EndianEngine
	quantizer   *quant.Quantizer
	compression format.CompressionType
	body        []byte
	// bodyOffset is the file offset of body[0]; error offsets are reported
	// relative to the file as if it were uncompressed.
	bodyOffset int
}

func openBlob(data []byte) (*opened, error) {
	hdr, end, err := section.ParseHeader(data)
	if err != nil {
		return nil, err
	}
	engine, err := section.ParseByteOrder(data, end)
	if err != nil {
		return nil, err
	}

	logBase := quant.DefaultLogBase
	if hdr.Has(section.KeyLogBase) {
		if logBase, err = hdr.Float(section.KeyLogBase); err != nil {
			return nil, err
		}
	}
	q, err := quant.New(quant.WithLogBase(logBase))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrInvalidHeader, err)
	}

	o := &opened{
		header:      hdr,
		engine:      engine,
		quantizer:   q,
		compression: format.CompressionNone,
		body:        data[end+section.ByteOrderSize:],
		bodyOffset:  end + section.ByteOrderSize,
	}

	if name, ok := hdr.Get(section.KeyCompression); ok {
		ct, err := format.ParseCompression(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", errs.ErrInvalidHeader, err)
		}
		o.compression = ct
		if o.body, err = compress.Decompress(ct, o.body); err != nil {
			return nil, err
		}
	}

	return o, nil
}

// requireVersion rejects blobs whose version line differs from want.
func (o *opened) requireVersion(want string) error {
	if got := o.header.Version(); got != want {
		return fmt.Errorf("%w: version %q, want %q", errs.ErrUnsupportedVersion, got, want)
	}

	return nil
}

// ints reads the named header fields, failing on the first missing or
// malformed one.
func (o *opened) ints(keys ...string) ([]int, error) {
	out := make([]int, len(keys))
	for i, k := range keys {
		v, err := o.header.Int(k)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}

	return out, nil
}

func (o *opened) reader() *byteReader {
	return &byteReader{data: o.body, base: o.bodyOffset, engine: o.engine}
}

// byteReader walks a blob body and reports short reads with file offsets.
type byteReader struct {
	data   []byte
	off    int
	base   int
	engine endian.EndianEngine
}

func (r *byteReader) offset() int    { return r.base + r.off }
func (r *byteReader) remaining() int { return len(r.data) - r.off }

func (r *byteReader) take(n int, what string) ([]byte, error) {
	if n < 0 || r.remaining() < n {
		return nil, errs.NewFormatError(errs.ErrUnexpectedEOF, r.offset(),
			fmt.Sprintf("%d bytes of %s", n, what), fmt.Sprintf("%d bytes", r.remaining()))
	}
	b := r.data[r.off : r.off+n]
	r.off += n

	return b, nil
}

// fits fails unless count values of size bytes remain. The product is never
// formed, so corrupt header counts cannot wrap it.
func (r *byteReader) fits(count, size int, what string) error {
	if count < 0 || (size > 0 && count > r.remaining()/size) {
		return errs.NewFormatError(errs.ErrUnexpectedEOF, r.offset(),
			fmt.Sprintf("%d x %d bytes of %s", count, size, what), fmt.Sprintf("%d bytes", r.remaining()))
	}

	return nil
}

func (r *byteReader) int16(what string) (int, error) {
	b, err := r.take(2, what)
	if err != nil {
		return 0, err
	}

	return int(int16(r.engine.Uint16(b))), nil
}

func (r *byteReader) uint16s(n int, what string) ([]int, error) {
	if err := r.fits(n, 2, what); err != nil {
		return nil, err
	}
	b, err := r.take(2*n, what)
	if err != nil {
		return nil, err
	}
	out := make([]int, n)
	for i := range out {
		out[i] = int(r.engine.Uint16(b[2*i:]))
	}

	return out, nil
}

func (r *byteReader) uint32s(n int, what string) ([]uint32, error) {
	if err := r.fits(n, 4, what); err != nil {
		return nil, err
	}
	b, err := r.take(4*n, what)
	if err != nil {
		return nil, err
	}
	out := make([]uint32, n)
	for i := range out {
		out[i] = r.engine.Uint32(b[4*i:])
	}

	return out, nil
}

// expectEnd fails when bytes remain after the last expected field.
func (r *byteReader) expectEnd() error {
	if r.remaining() != 0 {
		return errs.NewFormatError(errs.ErrHeaderCountMismatch, r.offset(),
			"end of data", fmt.Sprintf("%d trailing bytes", r.remaining()))
	}

	return nil
}
