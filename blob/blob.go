package blob

import (
	"fmt"
	"math"
	"strings"

	"github.com/arloliu/mixtree/bitmap"
	"github.com/arloliu/mixtree/endian"
	"github.com/arloliu/mixtree/errs"
	"github.com/arloliu/mixtree/format"
	"github.com/arloliu/mixtree/internal/pool"
	"github.com/arloliu/mixtree/quant"
	"github.com/arloliu/mixtree/section"
	"github.com/arloliu/mixtree/tree"
)

// finish assembles header, byte-order marker and body into a new slice,
// compressing the body when configured. body may be a pooled buffer; it is
// not retained.
func (c *EncoderConfig) finish(hdr *section.Header, body []byte) ([]byte, error) {
	hdr.SetFloat(section.KeyLogBase, c.logBase)
	if c.compression != format.CompressionNone {
		hdr.Set(section.KeyCompression, strings.ToLower(c.compression.String()))
		compressed, err := c.codec.Compress(body)
		if err != nil {
			return nil, fmt.Errorf("compress blob body: %w", err)
		}
		body = compressed
	}

	head := hdr.Bytes()
	out := make([]byte, 0, len(head)+section.ByteOrderSize+len(body))
	out = append(out, head...)
	out = section.AppendByteOrder(out, c.engine)

	return append(out, body...), nil
}

func appendInt16(buf []byte, engine endian.EndianEngine, v int) []byte {
	return engine.AppendUint16(buf, uint16(int16(v)))
}

func checkInt16(what string, v int) error {
	if v < math.MinInt16 || v > math.MaxInt16 {
		return fmt.Errorf("%w: %s %d does not fit int16", errs.ErrOffsetOutOfRange, what, v)
	}

	return nil
}

// appendTree appends the breadth-first records of root followed by the
// sentinel record.
func appendTree(bb *pool.ByteBuffer, root *tree.Node, numItems, numFeat, density int,
	engine endian.EndianEngine, q *quant.Quantizer,
) error {
	buf := bb.B
	for k, rec := range tree.Records(root) {
		if err := checkInt16("subtree offset", rec.Right); err != nil {
			return fmt.Errorf("record %d: %w", k, err)
		}

		bm, err := bitmap.Encode(rec.Items, numItems)
		if err != nil {
			return fmt.Errorf("record %d: %w", k, err)
		}
		if err := checkInt16("bitmap start word", bm.Start); err != nil {
			return fmt.Errorf("record %d: %w", k, err)
		}
		if err := checkInt16("bitmap word count", bm.Count()); err != nil {
			return fmt.Errorf("record %d: %w", k, err)
		}

		centroid := rec.Node.Centroid()
		if len(centroid) != numFeat {
			return fmt.Errorf("%w: record %d has %d features, want %d", errs.ErrShapeMismatch, k, len(centroid), numFeat)
		}

		buf = appendInt16(buf, engine, rec.Left)
		buf = appendInt16(buf, engine, rec.Right)
		buf = appendInt16(buf, engine, bm.Start)
		buf = appendInt16(buf, engine, bm.Count())
		for _, w := range bm.Words {
			buf = engine.AppendUint32(buf, w)
		}
		for f, dist := range centroid {
			if len(dist) != density {
				return fmt.Errorf("%w: record %d feature %d has density %d, want %d",
					errs.ErrShapeMismatch, k, f, len(dist), density)
			}
			buf = q.EncodeTo(buf, dist)
		}
	}

	buf = appendInt16(buf, engine, section.NoLink)
	buf = appendInt16(buf, engine, section.NoLink)
	buf = appendInt16(buf, engine, 0)
	bb.B = appendInt16(buf, engine, 0)

	return nil
}

// maxLeaf returns the largest item below root.
func maxLeaf(root *tree.Node) int {
	hi := -1
	for _, item := range root.Leaves() {
		hi = max(hi, item)
	}

	return hi
}
