package tree

import (
	"fmt"
	"slices"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/arloliu/mixtree/errs"
)

// Cluster is one group of a flattened tree.
type Cluster struct {
	// Items lists the member items in ascending order.
	Items []int
	// Centroid is the centroid of the subtree the cluster was cut from.
	Centroid [][]float64
}

// Flatten cuts the tree into at least n clusters.
//
// Starting from the root, every internal node of the frontier is replaced by
// its two children until the frontier holds n or more entries. A single
// expansion can overshoot n. When the frontier holds only leaves the cut
// stops early, so a tree with fewer than n items yields one cluster per item.
// Clusters are returned ordered by their smallest item.
func Flatten(root *Node, n int) ([]Cluster, error) {
	if root == nil {
		return nil, errs.ErrNilTree
	}
	if n < 1 {
		return nil, fmt.Errorf("%w: %d", errs.ErrInvalidClusterCount, n)
	}

	frontier := []*Node{root}
	for len(frontier) < n {
		next := make([]*Node, 0, 2*len(frontier))
		expanded := false
		for _, cur := range frontier {
			if cur.IsLeaf() {
				next = append(next, cur)
				continue
			}
			next = append(next, cur.left, cur.right)
			expanded = true
		}
		if !expanded {
			break
		}
		frontier = next
	}

	clusters := make([]Cluster, len(frontier))
	for i, cur := range frontier {
		bm := roaring.New()
		for _, item := range cur.Leaves() {
			bm.Add(uint32(item))
		}
		clusters[i] = Cluster{Items: toInts(bm), Centroid: cur.centroid}
	}
	slices.SortStableFunc(clusters, func(a, b Cluster) int {
		return a.Items[0] - b.Items[0]
	})

	return clusters, nil
}

// Assignments maps every item to the index of the cluster that holds it.
// numItems sizes the result; items of no cluster map to -1.
func Assignments(clusters []Cluster, numItems int) ([]int, error) {
	out := make([]int, numItems)
	for i := range out {
		out[i] = -1
	}
	for c, cl := range clusters {
		for _, item := range cl.Items {
			if item < 0 || item >= numItems {
				return nil, fmt.Errorf("%w: item %d of cluster %d, have %d items", errs.ErrItemOutOfRange, item, c, numItems)
			}
			out[item] = c
		}
	}

	return out, nil
}
