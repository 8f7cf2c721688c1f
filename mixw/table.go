// Package mixw holds dense tables of mixture weight distributions and reads and
// writes them in the s3 mixture weight file format.
//
// A Table has shape [items][features][density]: every item (a senone in an
// acoustic model) owns one distribution per feature stream.
package mixw

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/arloliu/mixtree/errs"
	"github.com/arloliu/mixtree/internal/collision"
	"github.com/arloliu/mixtree/internal/hash"
)

// DefaultFloor is the floor NormFloor applies when given a non-positive floor.
const DefaultFloor = 1e-7

// Table is a dense, row-major [items][features][density] array of float64.
//
// Item and At return views into the table's storage; callers must not
// modify them when the table is shared.
type Table struct {
	nItems   int
	nFeat    int
	nDensity int
	data     []float64
}

// NewTable allocates a zero-filled table.
func NewTable(nItems, nFeat, nDensity int) (*Table, error) {
	if nItems <= 0 {
		return nil, errs.ErrEmptyTable
	}
	if nFeat <= 0 || nDensity <= 0 {
		return nil, fmt.Errorf("%w: n_feat=%d n_density=%d", errs.ErrInvalidDimension, nFeat, nDensity)
	}

	return &Table{
		nItems:   nItems,
		nFeat:    nFeat,
		nDensity: nDensity,
		data:     make([]float64, nItems*nFeat*nDensity),
	}, nil
}

// FromSlices copies a [items][features][density] nested slice into a Table.
func FromSlices(items [][][]float64) (*Table, error) {
	if len(items) == 0 {
		return nil, errs.ErrEmptyTable
	}
	if len(items[0]) == 0 {
		return nil, fmt.Errorf("%w: item 0 has no features", errs.ErrInvalidDimension)
	}

	t, err := NewTable(len(items), len(items[0]), len(items[0][0]))
	if err != nil {
		return nil, err
	}
	for i, feats := range items {
		if len(feats) != t.nFeat {
			return nil, fmt.Errorf("%w: item %d has %d features, want %d", errs.ErrShapeMismatch, i, len(feats), t.nFeat)
		}
		for f, dist := range feats {
			if len(dist) != t.nDensity {
				return nil, fmt.Errorf("%w: item %d feature %d has %d densities, want %d",
					errs.ErrShapeMismatch, i, f, len(dist), t.nDensity)
			}
			copy(t.At(i, f), dist)
		}
	}

	return t, nil
}

// FromRows builds a single-feature table from one distribution per item.
func FromRows(rows [][]float64) (*Table, error) {
	items := make([][][]float64, len(rows))
	for i, r := range rows {
		items[i] = [][]float64{r}
	}

	return FromSlices(items)
}

// Len returns the number of items.
func (t *Table) Len() int { return t.nItems }

// Features returns the number of feature streams per item.
func (t *Table) Features() int { return t.nFeat }

// Density returns the number of values per distribution.
func (t *Table) Density() int { return t.nDensity }

// Shape returns (items, features, density).
func (t *Table) Shape() (int, int, int) { return t.nItems, t.nFeat, t.nDensity }

// At returns the distribution of item i, feature f.
func (t *Table) At(i, f int) []float64 {
	off := (i*t.nFeat + f) * t.nDensity
	return t.data[off : off+t.nDensity : off+t.nDensity]
}

// Item returns every feature distribution of item i.
func (t *Table) Item(i int) [][]float64 {
	out := make([][]float64, t.nFeat)
	for f := range out {
		out[f] = t.At(i, f)
	}

	return out
}

// Feature returns a view of feature stream f as a single-feature table.
func (t *Table) Feature(f int) FeatureView {
	return FeatureView{t: t, f: f}
}

// FeatureView is one feature stream of a Table. It shares the table's storage.
type FeatureView struct {
	t *Table
	f int
}

// Len returns the number of items.
func (v FeatureView) Len() int { return v.t.nItems }

// Item returns the single distribution of item i in this feature stream.
func (v FeatureView) Item(i int) [][]float64 { return [][]float64{v.t.At(i, v.f)} }

// Values returns the backing storage in row-major order.
func (t *Table) Values() []float64 { return t.data }

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	c := *t
	c.data = make([]float64, len(t.data))
	copy(c.data, t.data)

	return &c
}

// Fingerprint returns an xxHash64 of the table shape and values.
func (t *Table) Fingerprint() uint64 {
	d := hash.NewDigest()
	d.Int(t.nItems)
	d.Int(t.nFeat)
	d.Int(t.nDensity)
	d.Float64s(t.data)

	return d.Sum64()
}

// DuplicateReport describes the identical items of a table.
type DuplicateReport struct {
	// Groups lists every set of two or more identical items, ordered by
	// their first item.
	Groups [][]int
	// HashCollisions counts distinct items whose content hash matched an
	// earlier item.
	HashCollisions int
}

// Duplicates groups items whose distributions are identical in all feature
// streams. Such items merge at zero divergence.
func (t *Table) Duplicates() DuplicateReport {
	width := t.nFeat * t.nDensity
	row := func(i int) []float64 { return t.data[i*width : (i+1)*width] }

	tracker := collision.NewTracker()
	for i := range t.nItems {
		d := hash.NewDigest()
		d.Float64s(row(i))
		tracker.Track(d.Sum64(), i, func(rep int) bool {
			return floats.Equal(row(rep), row(i))
		})
	}

	return DuplicateReport{Groups: tracker.Duplicates(), HashCollisions: tracker.Collisions()}
}

// NormFloor returns a copy of t where every distribution is scaled to sum to 1
// and every value is then clipped into [floor, 1].
//
// Distributions summing to zero become uniform before clipping. A
// non-positive floor selects DefaultFloor. Flooring is a precondition of
// every divergence and clustering entry point.
func NormFloor(t *Table, floor float64) *Table {
	if floor <= 0 {
		floor = DefaultFloor
	}

	out := t.Clone()
	for i := range out.nItems {
		for f := range out.nFeat {
			dist := out.At(i, f)
			sum := floats.Sum(dist)
			if sum > 0 {
				floats.Scale(1/sum, dist)
			} else {
				for k := range dist {
					dist[k] = 1 / float64(len(dist))
				}
			}
			for k, v := range dist {
				dist[k] = min(max(v, floor), 1.0)
			}
		}
	}

	return out
}
