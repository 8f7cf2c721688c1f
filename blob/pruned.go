package blob

import (
	"fmt"
	"math"

	"github.com/arloliu/mixtree/errs"
	"github.com/arloliu/mixtree/format"
	"github.com/arloliu/mixtree/internal/pool"
	"github.com/arloliu/mixtree/section"
	"github.com/arloliu/mixtree/tree"
)

// MaxClusters is the largest cluster count a pruned blob can address.
const MaxClusters = math.MaxUint16 + 1

// ClusterMap is a decoded pruned blob.
type ClusterMap struct {
	// Assignments maps every item to its cluster index.
	Assignments []int
	// Centroids holds the dequantized centroids, [cluster][feature][density].
	Centroids [][][]float64
	// LogBase is the quantization base read from the header.
	LogBase float64
}

// NumClusters returns the number of clusters.
func (m *ClusterMap) NumClusters() int { return len(m.Centroids) }

// NumItems returns the number of mapped items.
func (m *ClusterMap) NumItems() int { return len(m.Assignments) }

// Features returns the number of feature streams per centroid.
func (m *ClusterMap) Features() int {
	if len(m.Centroids) == 0 {
		return 0
	}

	return len(m.Centroids[0])
}

// Density returns the length of each centroid distribution.
func (m *ClusterMap) Density() int {
	if m.Features() == 0 {
		return 0
	}

	return len(m.Centroids[0][0])
}

// Members returns the items of cluster c in ascending order.
func (m *ClusterMap) Members(c int) []int {
	var items []int
	for item, a := range m.Assignments {
		if a == c {
			items = append(items, item)
		}
	}

	return items
}

// EncodePruned writes flattened clusters as a version 0.4 blob: a uint16
// item to cluster map followed, per feature, by the quantized centroids laid
// out as n_density rows of n_mixw codes.
//
// The item count defaults to the largest clustered item plus one; items of
// no cluster map to cluster 0.
func EncodePruned(clusters []tree.Cluster, opts ...EncoderOption) ([]byte, error) {
	if len(clusters) == 0 || len(clusters) > MaxClusters {
		return nil, fmt.Errorf("%w: %d clusters, want 1..%d", errs.ErrInvalidClusterCount, len(clusters), MaxClusters)
	}

	cfg, q, err := newEncoderConfig(opts...)
	if err != nil {
		return nil, err
	}

	numFeat := len(clusters[0].Centroid)
	if numFeat == 0 || len(clusters[0].Centroid[0]) == 0 {
		return nil, fmt.Errorf("%w: cluster 0 centroid is empty", errs.ErrInvalidDimension)
	}
	density := len(clusters[0].Centroid[0])

	hi := -1
	for c, cl := range clusters {
		if len(cl.Items) == 0 {
			return nil, fmt.Errorf("%w: cluster %d has no items", errs.ErrInvalidDimension, c)
		}
		if len(cl.Centroid) != numFeat {
			return nil, fmt.Errorf("%w: cluster %d has %d features, want %d", errs.ErrShapeMismatch, c, len(cl.Centroid), numFeat)
		}
		for f, dist := range cl.Centroid {
			if len(dist) != density {
				return nil, fmt.Errorf("%w: cluster %d feature %d has density %d, want %d",
					errs.ErrShapeMismatch, c, f, len(dist), density)
			}
		}
		for _, item := range cl.Items {
			if item < 0 {
				return nil, fmt.Errorf("%w: cluster %d item %d", errs.ErrItemOutOfRange, c, item)
			}
			hi = max(hi, item)
		}
	}
	numItems, err := cfg.itemCount(hi)
	if err != nil {
		return nil, err
	}

	assign, err := tree.Assignments(clusters, numItems)
	if err != nil {
		return nil, err
	}

	hdr := section.NewHeader(format.VariantPruned.Version())
	hdr.SetInt(section.KeyNumSen, numItems)
	hdr.SetInt(section.KeyNumFeat, numFeat)
	hdr.SetInt(section.KeyNumMixw, len(clusters))
	hdr.SetInt(section.KeyDensity, density)

	bb := pool.GetEncodeBuffer()
	defer pool.PutEncodeBuffer(bb)
	bb.Grow(2*numItems + numFeat*density*len(clusters))

	buf := bb.B
	for _, c := range assign {
		buf = cfg.engine.AppendUint16(buf, uint16(max(c, 0)))
	}
	for f := range numFeat {
		for d := range density {
			for _, cl := range clusters {
				buf = append(buf, q.Encode(cl.Centroid[f][d]))
			}
		}
	}
	bb.B = buf

	return cfg.finish(hdr, bb.Bytes())
}

// DecodePruned reads a version 0.4 blob back into a ClusterMap.
func DecodePruned(data []byte) (*ClusterMap, error) {
	o, err := openBlob(data)
	if err != nil {
		return nil, err
	}
	if err := o.requireVersion(format.VariantPruned.Version()); err != nil {
		return nil, err
	}
	dims, err := o.ints(section.KeyNumSen, section.KeyNumFeat, section.KeyNumMixw, section.KeyDensity)
	if err != nil {
		return nil, err
	}
	numItems, numFeat, numClusters, density := dims[0], dims[1], dims[2], dims[3]
	if numItems == 0 || numFeat == 0 || numClusters == 0 || density == 0 || numClusters > MaxClusters {
		return nil, fmt.Errorf("%w: n_sen %d n_feat %d n_mixw %d n_density %d",
			errs.ErrInvalidHeader, numItems, numFeat, numClusters, density)
	}

	r := o.reader()
	mapOffset := r.offset()
	assign, err := r.uint16s(numItems, "cluster map")
	if err != nil {
		return nil, err
	}
	for item, c := range assign {
		if c >= numClusters {
			return nil, errs.NewFormatError(errs.ErrHeaderCountMismatch, mapOffset+2*item,
				fmt.Sprintf("cluster below n_mixw %d", numClusters), fmt.Sprintf("cluster %d", c))
		}
	}

	if err := r.fits(density, numClusters, "cluster centroids"); err != nil {
		return nil, err
	}
	if err := r.fits(numFeat, density*numClusters, "cluster centroids"); err != nil {
		return nil, err
	}

	centroids := make([][][]float64, numClusters)
	for c := range centroids {
		centroids[c] = make([][]float64, numFeat)
		for f := range numFeat {
			centroids[c][f] = make([]float64, density)
		}
	}
	for f := range numFeat {
		codes, err := r.take(density*numClusters, "cluster centroids")
		if err != nil {
			return nil, err
		}
		for d := range density {
			row := codes[d*numClusters : (d+1)*numClusters]
			for c, code := range row {
				centroids[c][f][d] = o.quantizer.Decode(code)
			}
		}
	}
	if err := r.expectEnd(); err != nil {
		return nil, err
	}

	return &ClusterMap{Assignments: assign, Centroids: centroids, LogBase: o.quantizer.LogBase()}, nil
}
