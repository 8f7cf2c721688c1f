// Package tree implements the binary merge tree produced by agglomerative
// clustering, together with the traversals the file formats need.
//
// A Node is either a leaf, naming one item of the clustered table, or an
// internal node owning exactly two children. Every node carries a centroid
// with one distribution per feature stream; a leaf's centroid is its item's
// distribution and an internal centroid is the unweighted mean of its two
// children's centroids. Trees are immutable once built.
package tree

import (
	"gonum.org/v1/gonum/floats"

	"github.com/arloliu/mixtree/internal/hash"
)

// Kind tells leaves and internal nodes apart.
type Kind uint8

const (
	KindLeaf Kind = iota
	KindInternal
)

func (k Kind) String() string {
	if k == KindLeaf {
		return "leaf"
	}

	return "internal"
}

// Node is a merge tree node.
type Node struct {
	kind     Kind
	item     int
	left     *Node
	right    *Node
	centroid [][]float64
}

// NewLeaf creates a leaf for item with the given per-feature centroid.
// The centroid slices are retained, not copied.
func NewLeaf(item int, centroid [][]float64) *Node {
	return &Node{kind: KindLeaf, item: item, centroid: centroid}
}

// NewInternal creates an internal node with an explicit centroid.
// Decoders use it to attach centroids read from disk.
func NewInternal(left, right *Node, centroid [][]float64) *Node {
	return &Node{kind: KindInternal, item: -1, left: left, right: right, centroid: centroid}
}

// Merge creates the internal node joining left and right; its centroid is
// the element-wise mean of theirs.
func Merge(left, right *Node) *Node {
	return NewInternal(left, right, Mean(left.centroid, right.centroid))
}

// Mean returns (a + b) / 2 computed per feature. a and b must have the same shape.
func Mean(a, b [][]float64) [][]float64 {
	out := make([][]float64, len(a))
	for f := range a {
		m := make([]float64, len(a[f]))
		floats.AddTo(m, a[f], b[f])
		floats.Scale(0.5, m)
		out[f] = m
	}

	return out
}

// Kind returns the node kind.
func (n *Node) Kind() Kind { return n.kind }

// IsLeaf reports whether n is a leaf.
func (n *Node) IsLeaf() bool { return n.kind == KindLeaf }

// Item returns the item index of a leaf, or -1 for an internal node.
func (n *Node) Item() int { return n.item }

// Left returns the left child, nil for leaves.
func (n *Node) Left() *Node { return n.left }

// Right returns the right child, nil for leaves.
func (n *Node) Right() *Node { return n.right }

// Centroid returns the per-feature centroid. Callers must not modify it.
func (n *Node) Centroid() [][]float64 { return n.centroid }

// Features returns the number of feature streams in the centroid.
func (n *Node) Features() int { return len(n.centroid) }

// Density returns the length of each centroid distribution.
func (n *Node) Density() int {
	if len(n.centroid) == 0 {
		return 0
	}

	return len(n.centroid[0])
}

// Leaves returns the item indices beneath n in left-to-right order.
func (n *Node) Leaves() []int {
	var items []int
	stack := []*Node{n}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur.IsLeaf() {
			items = append(items, cur.item)
			continue
		}
		stack = append(stack, cur.right, cur.left)
	}

	return items
}

// Size returns the number of leaves beneath n.
func (n *Node) Size() int {
	size := 0
	stack := []*Node{n}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur.IsLeaf() {
			size++
			continue
		}
		stack = append(stack, cur.right, cur.left)
	}

	return size
}

// Fingerprint returns an xxHash64 over the breadth-first topology, leaf items
// and centroid values of the tree rooted at n.
func (n *Node) Fingerprint() uint64 {
	d := hash.NewDigest()
	for _, cur := range breadthFirst(n) {
		d.Int(int(cur.kind))
		d.Int(cur.item)
		d.Int(len(cur.centroid))
		for _, dist := range cur.centroid {
			d.Float64s(dist)
		}
	}

	return d.Sum64()
}

// breadthFirst lists the nodes of the tree in breadth-first, left-to-right order.
func breadthFirst(root *Node) []*Node {
	order := []*Node{root}
	for k := 0; k < len(order); k++ {
		if cur := order[k]; !cur.IsLeaf() {
			order = append(order, cur.left, cur.right)
		}
	}

	return order
}
