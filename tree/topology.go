package tree

import (
	"fmt"

	"github.com/arloliu/mixtree/errs"
)

// Source supplies per-item distributions, indexed by the item numbers found
// in tree leaves. mixw.Table satisfies it.
type Source interface {
	Len() int
	Item(i int) [][]float64
}

// ApplyTopology rebuilds the tree rooted at root with the same shape but with
// leaf centroids taken from src; internal centroids are recomputed as the
// mean of their children. The input tree is left untouched.
//
// Every leaf item must be a valid index into src and every item of src must
// have the same shape.
func ApplyTopology(root *Node, src Source) (*Node, error) {
	if root == nil {
		return nil, errs.ErrNilTree
	}
	if src == nil || src.Len() == 0 {
		return nil, errs.ErrEmptyTable
	}

	numFeat, density := shapeOf(src.Item(0))
	order := breadthFirst(root)
	rebuilt := make([]*Node, len(order))
	index := make(map[*Node]int, len(order))
	for k, cur := range order {
		index[cur] = k
	}

	for k := len(order) - 1; k >= 0; k-- {
		cur := order[k]
		if !cur.IsLeaf() {
			rebuilt[k] = Merge(rebuilt[index[cur.left]], rebuilt[index[cur.right]])
			continue
		}
		if cur.item < 0 || cur.item >= src.Len() {
			return nil, fmt.Errorf("%w: leaf item %d, source has %d items", errs.ErrItemOutOfRange, cur.item, src.Len())
		}
		dist := src.Item(cur.item)
		if f, d := shapeOf(dist); f != numFeat || d != density {
			return nil, fmt.Errorf("%w: item %d has shape %dx%d, want %dx%d",
				errs.ErrShapeMismatch, cur.item, f, d, numFeat, density)
		}
		rebuilt[k] = NewLeaf(cur.item, cloneCentroid(dist))
	}

	return rebuilt[0], nil
}

func shapeOf(dist [][]float64) (numFeat, density int) {
	if len(dist) == 0 {
		return 0, 0
	}

	return len(dist), len(dist[0])
}

func cloneCentroid(dist [][]float64) [][]float64 {
	out := make([][]float64, len(dist))
	for f, d := range dist {
		out[f] = append([]float64(nil), d...)
	}

	return out
}
