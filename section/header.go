package section

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/arloliu/mixtree/endian"
	"github.com/arloliu/mixtree/errs"
)

// Field is one "key value" line of an s3 header.
type Field struct {
	Key   string
	Value string
}

// Header is the ordered list of text fields between the "s3" line and "endhdr".
//
// Field order is preserved so that Bytes reproduces a header byte for byte.
type Header struct {
	fields []Field
}

// NewHeader creates an empty header with the given version line.
func NewHeader(version string) *Header {
	h := &Header{}
	h.Set(KeyVersion, version)

	return h
}

// Set assigns value to key, replacing an existing field in place or appending a new one.
func (h *Header) Set(key, value string) {
	for i := range h.fields {
		if h.fields[i].Key == key {
			h.fields[i].Value = value
			return
		}
	}
	h.fields = append(h.fields, Field{Key: key, Value: value})
}

// SetInt assigns a decimal integer value to key.
func (h *Header) SetInt(key string, v int) {
	h.Set(key, strconv.Itoa(v))
}

// SetFloat assigns a float value to key using the shortest representation.
func (h *Header) SetFloat(key string, v float64) {
	h.Set(key, strconv.FormatFloat(v, 'g', -1, 64))
}

// Get returns the value of key.
func (h *Header) Get(key string) (string, bool) {
	for _, f := range h.fields {
		if f.Key == key {
			return f.Value, true
		}
	}

	return "", false
}

// Has reports whether key is present.
func (h *Header) Has(key string) bool {
	_, ok := h.Get(key)
	return ok
}

// Version returns the version field, or "" when absent.
func (h *Header) Version() string {
	v, _ := h.Get(KeyVersion)
	return v
}

// Int parses the value of key as a non-negative decimal integer.
func (h *Header) Int(key string) (int, error) {
	v, ok := h.Get(key)
	if !ok {
		return 0, fmt.Errorf("%w: %s", errs.ErrMissingHeaderField, key)
	}

	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: field %s has value %q", errs.ErrInvalidHeader, key, v)
	}

	return n, nil
}

// Float parses the value of key as a float64.
func (h *Header) Float(key string) (float64, error) {
	v, ok := h.Get(key)
	if !ok {
		return 0, fmt.Errorf("%w: %s", errs.ErrMissingHeaderField, key)
	}

	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: field %s has value %q", errs.ErrInvalidHeader, key, v)
	}

	return f, nil
}

// Fields returns a copy of the header fields in order.
func (h *Header) Fields() []Field {
	out := make([]Field, len(h.fields))
	copy(out, h.fields)

	return out
}

// AppendTo appends the encoded header to buf.
//
// The layout is "s3\n", one "key value\n" line per field, 1 to 4 spaces of
// padding and "endhdr\n", so that the total length is a multiple of Alignment.
func (h *Header) AppendTo(buf []byte) []byte {
	start := len(buf)
	buf = append(buf, HeaderMagic...)
	buf = append(buf, '\n')
	for _, f := range h.fields {
		buf = append(buf, f.Key...)
		buf = append(buf, ' ')
		buf = append(buf, f.Value...)
		buf = append(buf, '\n')
	}

	pos := len(buf) - start + len(EndHeader) + 1
	pad := Alignment - (pos & (Alignment - 1))
	for range pad {
		buf = append(buf, ' ')
	}
	buf = append(buf, EndHeader...)

	return append(buf, '\n')
}

// Bytes returns the encoded header.
func (h *Header) Bytes() []byte {
	return h.AppendTo(nil)
}

// ParseHeader decodes an s3 header from the start of data.
//
// It returns the header and the offset of the first byte after the "endhdr"
// line. Blank lines are ignored; any other line must start with a key.
func ParseHeader(data []byte) (*Header, int, error) {
	h := &Header{}
	offset := 0
	first := true

	for {
		nl := bytes.IndexByte(data[offset:], '\n')
		if nl < 0 {
			return nil, 0, errs.NewFormatError(errs.ErrInvalidHeader, offset, "\"endhdr\" line", "end of data")
		}

		line := strings.TrimSpace(string(data[offset : offset+nl]))
		lineStart := offset
		offset += nl + 1

		if first {
			if line != HeaderMagic {
				return nil, 0, errs.NewFormatError(errs.ErrInvalidHeader, lineStart, strconv.Quote(HeaderMagic), strconv.Quote(line))
			}
			first = false

			continue
		}

		if strings.HasSuffix(line, EndHeader) {
			return h, offset, nil
		}
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		value := ""
		if len(parts) > 1 {
			value = strings.Join(parts[1:], " ")
		}
		h.fields = append(h.fields, Field{Key: parts[0], Value: value})
	}
}

// AppendByteOrder appends the byte-order marker encoded with engine.
func AppendByteOrder(buf []byte, engine endian.EndianEngine) []byte {
	return engine.AppendUint32(buf, endian.ByteOrderMagic)
}

// ParseByteOrder reads the byte-order marker at offset and returns the engine
// the payload was written with.
func ParseByteOrder(data []byte, offset int) (endian.EndianEngine, error) {
	if len(data)-offset < ByteOrderSize {
		return nil, errs.NewFormatError(errs.ErrUnexpectedEOF, offset,
			fmt.Sprintf("%d byte marker", ByteOrderSize), fmt.Sprintf("%d bytes", max(len(data)-offset, 0)))
	}

	engine, ok := endian.FromMarker(data[offset : offset+ByteOrderSize])
	if !ok {
		return nil, errs.NewFormatError(errs.ErrInvalidByteOrder, offset,
			fmt.Sprintf("0x%08x", endian.ByteOrderMagic), fmt.Sprintf("% x", data[offset:offset+ByteOrderSize]))
	}

	return engine, nil
}
