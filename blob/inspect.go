package blob

import (
	"encoding/binary"
	"fmt"

	"github.com/arloliu/mixtree/errs"
	"github.com/arloliu/mixtree/format"
	"github.com/arloliu/mixtree/internal/hash"
	"github.com/arloliu/mixtree/section"
)

// Info summarizes a blob without keeping its decoded contents.
type Info struct {
	Variant     format.Variant
	Version     string
	Fields      []section.Field
	BigEndian   bool
	Compression format.CompressionType
	// FileSize is the size of the blob as stored; BodySize is the size of
	// the body after decompression.
	FileSize int
	BodySize int
	// Trees and Nodes are set for tree variants, Clusters and Items for
	// pruned blobs.
	Trees    int
	Nodes    int
	Clusters int
	Items    int
	// Fingerprint is an xxHash64 of the decoded tree(s) or cluster map.
	Fingerprint uint64
}

// Detect tells the blob variants apart.
//
// Version 0.4 is a pruned map. A version 0.1 blob without n_feat, or with
// n_feat 1, holds one single-feature tree, which is also a valid merged
// tree. Otherwise the blob is merged when it decodes as one tree whose
// records end exactly at the end of the body, and a multi-tree blob if not.
func Detect(data []byte) (format.Variant, error) {
	o, err := openBlob(data)
	if err != nil {
		return 0, err
	}

	switch o.header.Version() {
	case format.VersionPruned:
		return format.VariantPruned, nil
	case format.VersionTree:
	default:
		return 0, fmt.Errorf("%w: %q", errs.ErrUnsupportedVersion, o.header.Version())
	}

	if n, err := o.header.Int(section.KeyNumFeat); err != nil || n <= 1 {
		return format.VariantTrees, nil
	}
	if _, err := DecodeMerged(data); err == nil {
		return format.VariantMerged, nil
	}

	return format.VariantTrees, nil
}

// Inspect decodes data fully and reports its layout.
func Inspect(data []byte) (*Info, error) {
	variant, err := Detect(data)
	if err != nil {
		return nil, err
	}
	o, err := openBlob(data)
	if err != nil {
		return nil, err
	}

	info := &Info{
		Variant:     variant,
		Version:     o.header.Version(),
		Fields:      o.header.Fields(),
		BigEndian:   o.engine == binary.BigEndian,
		Compression: o.compression,
		FileSize:    len(data),
		BodySize:    len(o.body),
	}

	d := hash.NewDigest()
	switch variant {
	case format.VariantPruned:
		m, err := DecodePruned(data)
		if err != nil {
			return nil, err
		}
		info.Clusters = m.NumClusters()
		info.Items = m.NumItems()
		for _, c := range m.Assignments {
			d.Int(c)
		}
		for _, feats := range m.Centroids {
			for _, dist := range feats {
				d.Float64s(dist)
			}
		}
	case format.VariantMerged:
		root, err := DecodeMerged(data)
		if err != nil {
			return nil, err
		}
		info.Trees = 1
		info.Nodes = 2*root.Size() - 1
		info.Items = root.Size()
		d.Uint64(root.Fingerprint())
	default:
		roots, err := DecodeTrees(data)
		if err != nil {
			return nil, err
		}
		info.Trees = len(roots)
		for _, root := range roots {
			info.Nodes += 2*root.Size() - 1
			info.Items = max(info.Items, root.Size())
			d.Uint64(root.Fingerprint())
		}
	}
	info.Fingerprint = d.Sum64()

	return info, nil
}
