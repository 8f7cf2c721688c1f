package blob

import (
	"fmt"

	"github.com/arloliu/mixtree/errs"
	"github.com/arloliu/mixtree/format"
	"github.com/arloliu/mixtree/internal/pool"
	"github.com/arloliu/mixtree/section"
	"github.com/arloliu/mixtree/tree"
)

// EncodeTrees writes one or more single-feature trees into a version 0.1
// blob, one record stream per tree, each closed by its own sentinel.
//
// All trees must have the same density. n_feat is written only when more
// than one tree is stored.
func EncodeTrees(roots []*tree.Node, opts ...EncoderOption) ([]byte, error) {
	if len(roots) == 0 {
		return nil, errs.ErrNilTree
	}

	cfg, q, err := newEncoderConfig(opts...)
	if err != nil {
		return nil, err
	}

	hi := -1
	for i, root := range roots {
		if root == nil {
			return nil, fmt.Errorf("%w: tree %d", errs.ErrNilTree, i)
		}
		if root.Features() != 1 {
			return nil, fmt.Errorf("%w: tree %d has %d features, want 1", errs.ErrShapeMismatch, i, root.Features())
		}
		if root.Density() != roots[0].Density() {
			return nil, fmt.Errorf("%w: tree %d has density %d, want %d",
				errs.ErrShapeMismatch, i, root.Density(), roots[0].Density())
		}
		hi = max(hi, maxLeaf(root))
	}
	numItems, err := cfg.itemCount(hi)
	if err != nil {
		return nil, err
	}
	density := roots[0].Density()

	hdr := section.NewHeader(format.VariantTrees.Version())
	if len(roots) > 1 {
		hdr.SetInt(section.KeyNumFeat, len(roots))
	}
	hdr.SetInt(section.KeyNumMixw, numItems)
	hdr.SetInt(section.KeyDensity, density)

	bb := pool.GetEncodeBuffer()
	defer pool.PutEncodeBuffer(bb)
	for i, root := range roots {
		if err := appendTree(bb, root, numItems, 1, density, cfg.engine, q); err != nil {
			return nil, fmt.Errorf("tree %d: %w", i, err)
		}
	}

	return cfg.finish(hdr, bb.Bytes())
}

// EncodeMerged writes one multi-feature tree into a version 0.1 blob. Every
// record carries one quantized row per feature.
func EncodeMerged(root *tree.Node, opts ...EncoderOption) ([]byte, error) {
	if root == nil {
		return nil, errs.ErrNilTree
	}
	if root.Features() == 0 || root.Density() == 0 {
		return nil, fmt.Errorf("%w: root centroid is empty", errs.ErrInvalidDimension)
	}

	cfg, q, err := newEncoderConfig(opts...)
	if err != nil {
		return nil, err
	}
	numItems, err := cfg.itemCount(maxLeaf(root))
	if err != nil {
		return nil, err
	}

	hdr := section.NewHeader(format.VariantMerged.Version())
	hdr.SetInt(section.KeyNumFeat, root.Features())
	hdr.SetInt(section.KeyNumMixw, numItems)
	hdr.SetInt(section.KeyDensity, root.Density())

	bb := pool.GetEncodeBuffer()
	defer pool.PutEncodeBuffer(bb)
	if err := appendTree(bb, root, numItems, root.Features(), root.Density(), cfg.engine, q); err != nil {
		return nil, err
	}

	return cfg.finish(hdr, bb.Bytes())
}
