package blob

import (
	"fmt"

	"github.com/arloliu/mixtree/bitmap"
	"github.com/arloliu/mixtree/errs"
	"github.com/arloliu/mixtree/format"
	"github.com/arloliu/mixtree/section"
	"github.com/arloliu/mixtree/tree"
)

// DecodeTrees reads every single-feature tree of a version 0.1 blob.
//
// Trees are read until the body is exhausted. When the header carries
// n_feat the number of trees must match it.
func DecodeTrees(data []byte) ([]*tree.Node, error) {
	o, err := openBlob(data)
	if err != nil {
		return nil, err
	}
	if err := o.requireVersion(format.VariantTrees.Version()); err != nil {
		return nil, err
	}
	dims, err := o.ints(section.KeyNumMixw, section.KeyDensity)
	if err != nil {
		return nil, err
	}
	numItems, density := dims[0], dims[1]
	if numItems == 0 || density == 0 {
		return nil, fmt.Errorf("%w: n_mixw %d n_density %d", errs.ErrInvalidHeader, numItems, density)
	}

	want := 0
	if o.header.Has(section.KeyNumFeat) {
		if want, err = o.header.Int(section.KeyNumFeat); err != nil {
			return nil, err
		}
	}

	r := o.reader()
	var roots []*tree.Node
	for r.remaining() > 0 {
		root, err := readTree(r, o, numItems, 1, density)
		if err != nil {
			return nil, fmt.Errorf("tree %d: %w", len(roots), err)
		}
		roots = append(roots, root)
	}
	if len(roots) == 0 {
		return nil, errs.NewFormatError(errs.ErrUnexpectedEOF, r.offset(), "tree record", "end of data")
	}
	if want > 0 && len(roots) != want {
		return nil, fmt.Errorf("%w: header n_feat %d, found %d trees", errs.ErrHeaderCountMismatch, want, len(roots))
	}

	return roots, nil
}

// DecodeMerged reads the multi-feature tree of a version 0.1 blob written by
// EncodeMerged. Bytes after the sentinel are rejected.
func DecodeMerged(data []byte) (*tree.Node, error) {
	o, err := openBlob(data)
	if err != nil {
		return nil, err
	}
	if err := o.requireVersion(format.VariantMerged.Version()); err != nil {
		return nil, err
	}
	dims, err := o.ints(section.KeyNumFeat, section.KeyNumMixw, section.KeyDensity)
	if err != nil {
		return nil, err
	}
	numFeat, numItems, density := dims[0], dims[1], dims[2]
	if numFeat == 0 || numItems == 0 || density == 0 {
		return nil, fmt.Errorf("%w: n_feat %d n_mixw %d n_density %d", errs.ErrInvalidHeader, numFeat, numItems, density)
	}

	r := o.reader()
	root, err := readTree(r, o, numItems, numFeat, density)
	if err != nil {
		return nil, err
	}
	if err := r.expectEnd(); err != nil {
		return nil, err
	}

	return root, nil
}

type rawRecord struct {
	offset      int
	left, right int
	item        int
	codes       []byte
}

// readTree reads records up to and including the sentinel and links them.
func readTree(r *byteReader, o *opened, numItems, numFeat, density int) (*tree.Node, error) {
	var recs []rawRecord
	seen := make(map[int]bool)
	for {
		recOff := r.offset()
		left, err := r.int16("subtree offset")
		if err != nil {
			return nil, err
		}
		right, err := r.int16("subtree offset")
		if err != nil {
			return nil, err
		}
		start, err := r.int16("bitmap start word")
		if err != nil {
			return nil, err
		}
		count, err := r.int16("bitmap word count")
		if err != nil {
			return nil, err
		}
		if count == 0 {
			break
		}
		if start < 0 || count < 0 {
			return nil, errs.NewFormatError(errs.ErrCorruptTree, recOff,
				"non-negative bitmap position", fmt.Sprintf("start %d count %d", start, count))
		}

		words, err := r.uint32s(count, "bitmap words")
		if err != nil {
			return nil, err
		}
		if err := r.fits(numFeat, density, "centroid"); err != nil {
			return nil, err
		}
		codes, err := r.take(numFeat*density, "centroid")
		if err != nil {
			return nil, err
		}

		rec := rawRecord{offset: recOff, left: left, right: right, item: -1, codes: codes}
		switch {
		case left == section.NoLink:
			if right != section.NoLink {
				return nil, errs.NewFormatError(errs.ErrCorruptTree, recOff, "leaf link -1", fmt.Sprintf("%d", right))
			}
			members := bitmap.Decode(start, words)
			if len(members) != 1 {
				return nil, errs.NewFormatError(errs.ErrCorruptTree, recOff, "one leaf member", fmt.Sprintf("%d members", len(members)))
			}
			if members[0] >= numItems || seen[members[0]] {
				return nil, errs.NewFormatError(errs.ErrCorruptTree, recOff,
					fmt.Sprintf("unique item below %d", numItems), fmt.Sprintf("item %d", members[0]))
			}
			seen[members[0]] = true
			rec.item = members[0]
		case left <= 0 || right <= 0:
			return nil, errs.NewFormatError(errs.ErrCorruptTree, recOff,
				"forward subtree offsets", fmt.Sprintf("%d, %d", left, right))
		}
		recs = append(recs, rec)
	}

	if len(recs) == 0 {
		return nil, errs.NewFormatError(errs.ErrCorruptTree, r.offset()-section.RecordLinkSize-section.RecordBitposSize,
			"at least one record", "sentinel")
	}

	nodes := make([]*tree.Node, len(recs))
	linked := make([]bool, len(recs))
	for k := len(recs) - 1; k >= 0; k-- {
		rec := recs[k]
		centroid := make([][]float64, numFeat)
		for f := range centroid {
			centroid[f] = o.quantizer.DecodeTo(make([]float64, 0, density), rec.codes[f*density:(f+1)*density])
		}

		if rec.item >= 0 {
			nodes[k] = tree.NewLeaf(rec.item, centroid)
			continue
		}

		l, rr := k+rec.left, k+rec.right
		if l >= len(recs) || rr >= len(recs) || l == rr || linked[l] || linked[rr] {
			return nil, errs.NewFormatError(errs.ErrCorruptTree, rec.offset,
				fmt.Sprintf("two distinct unlinked records within %d", len(recs)-k-1),
				fmt.Sprintf("offsets %d, %d", rec.left, rec.right))
		}
		linked[l], linked[rr] = true, true
		nodes[k] = tree.NewInternal(nodes[l], nodes[rr], centroid)
	}

	for k := 1; k < len(recs); k++ {
		if !linked[k] {
			return nil, errs.NewFormatError(errs.ErrCorruptTree, recs[k].offset, "record reachable from the root", "orphan record")
		}
	}

	return nodes[0], nil
}
