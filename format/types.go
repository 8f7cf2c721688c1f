// Package format holds the small enums shared by the encoders, decoders and the CLI.
package format

import (
	"fmt"
	"strings"

	"github.com/arloliu/mixtree/errs"
)

type (
	CompressionType uint8
	Variant         uint8
)

const (
	CompressionNone CompressionType = 0x1 // CompressionNone writes the blob as-is.
	CompressionZstd CompressionType = 0x2 // CompressionZstd wraps the blob in a Zstandard frame.
	CompressionS2   CompressionType = 0x3 // CompressionS2 wraps the blob in an S2 block.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 wraps the blob in an LZ4 block.
)

const (
	VariantTrees  Variant = 0x1 // VariantTrees is one or more single-feature trees (version 0.1).
	VariantMerged Variant = 0x2 // VariantMerged is one multi-feature tree (version 0.1).
	VariantPruned Variant = 0x3 // VariantPruned is a flat item to cluster map (version 0.4).
)

const (
	VersionTree   = "0.1" // header version written for tree variants
	VersionPruned = "0.4" // header version written for the pruned cluster map
)

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// ParseCompression maps a user supplied name ("none", "zstd", "s2", "lz4") to a CompressionType.
func ParseCompression(name string) (CompressionType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none":
		return CompressionNone, nil
	case "zstd":
		return CompressionZstd, nil
	case "s2":
		return CompressionS2, nil
	case "lz4":
		return CompressionLZ4, nil
	default:
		return 0, fmt.Errorf("%w: %q", errs.ErrInvalidCompression, name)
	}
}

func (v Variant) String() string {
	switch v {
	case VariantTrees:
		return "Trees"
	case VariantMerged:
		return "Merged"
	case VariantPruned:
		return "Pruned"
	default:
		return "Unknown"
	}
}

// Version returns the header version string written for the variant.
func (v Variant) Version() string {
	if v == VariantPruned {
		return VersionPruned
	}

	return VersionTree
}
