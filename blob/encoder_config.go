package blob

import (
	"fmt"

	"github.com/arloliu/mixtree/compress"
	"github.com/arloliu/mixtree/endian"
	"github.com/arloliu/mixtree/errs"
	"github.com/arloliu/mixtree/format"
	"github.com/arloliu/mixtree/internal/options"
	"github.com/arloliu/mixtree/quant"
)

// EncoderConfig holds the settings shared by every blob encoder.
type EncoderConfig struct {
	engine      endian.EndianEngine
	logBase     float64
	floor       float64
	compression format.CompressionType
	codec       compress.Codec
	numItems    int
}

// EncoderOption is a functional option for the blob encoders.
type EncoderOption = options.Option[*EncoderConfig]

func newEncoderConfig(opts ...EncoderOption) (*EncoderConfig, *quant.Quantizer, error) {
	cfg := &EncoderConfig{
		engine:      endian.GetLittleEndianEngine(),
		logBase:     quant.DefaultLogBase,
		floor:       quant.DefaultFloor,
		compression: format.CompressionNone,
	}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, nil, err
	}

	q, err := quant.New(quant.WithLogBase(cfg.logBase), quant.WithFloor(cfg.floor))
	if err != nil {
		return nil, nil, err
	}

	return cfg, q, nil
}

// WithLittleEndian writes the body little-endian. It is the default.
func WithLittleEndian() EncoderOption {
	return options.NoError(func(c *EncoderConfig) {
		c.engine = endian.GetLittleEndianEngine()
	})
}

// WithBigEndian writes the body big-endian. Readers detect the byte order
// from the marker, so this only matters for consumers that do not.
func WithBigEndian() EncoderOption {
	return options.NoError(func(c *EncoderConfig) {
		c.engine = endian.GetBigEndianEngine()
	})
}

// WithLogBase sets the quantization log base written to the header.
func WithLogBase(base float64) EncoderOption {
	return options.New(func(c *EncoderConfig) error {
		if !(base > 1) {
			return fmt.Errorf("%w: %v", errs.ErrInvalidLogBase, base)
		}
		c.logBase = base

		return nil
	})
}

// WithFloor sets the smallest probability kept before quantization.
func WithFloor(floor float64) EncoderOption {
	return options.New(func(c *EncoderConfig) error {
		if !(floor > 0 && floor < 1) {
			return fmt.Errorf("%w: %v", errs.ErrInvalidFloor, floor)
		}
		c.floor = floor

		return nil
	})
}

// WithCompression compresses the body after the byte-order marker.
// format.CompressionNone, the default, keeps the plain s3 layout.
func WithCompression(ct format.CompressionType) EncoderOption {
	return options.New(func(c *EncoderConfig) error {
		codec, err := compress.CreateCodec(ct, "blob body")
		if err != nil {
			return err
		}
		c.compression = ct
		c.codec = codec

		return nil
	})
}

// WithItemCount sets the number of items of the clustered table. It sizes
// the membership bitmaps and is written as n_mixw (trees) or n_sen (pruned).
// By default the largest item index plus one is used.
func WithItemCount(n int) EncoderOption {
	return options.New(func(c *EncoderConfig) error {
		if n < 1 {
			return fmt.Errorf("%w: item count %d", errs.ErrInvalidDimension, n)
		}
		c.numItems = n

		return nil
	})
}

// itemCount resolves the configured item count against the largest item
// actually present.
func (c *EncoderConfig) itemCount(maxItem int) (int, error) {
	if c.numItems == 0 {
		return maxItem + 1, nil
	}
	if maxItem >= c.numItems {
		return 0, fmt.Errorf("%w: item %d with item count %d", errs.ErrItemOutOfRange, maxItem, c.numItems)
	}

	return c.numItems, nil
}
