package tree

import (
	"github.com/RoaringBitmap/roaring/v2"
)

// Record is one node of the breadth-first serialization order.
type Record struct {
	Node *Node
	// Items lists every item beneath Node in ascending order.
	Items []int
	// Left and Right are the forward distances, in records, from this record
	// to the records of its children; both are -1 for leaves.
	Left, Right int
}

// Records lists the tree in breadth-first order with forward child offsets.
//
// A node at position k whose children sit at positions l and l+1 gets
// Left = l-k and Right = l-k+1, so a reader can link the tree while
// streaming without seeking backwards. Item sets are accumulated bottom-up
// in roaring bitmaps, so the whole walk costs one union per internal node.
func Records(root *Node) []Record {
	order := breadthFirst(root)
	sets := make([]*roaring.Bitmap, len(order))
	childPos := make([]int, len(order))

	// children are appended to the order in the same sequence as their parents
	next := 1
	for k, cur := range order {
		childPos[k] = -1
		if !cur.IsLeaf() {
			childPos[k] = next
			next += 2
		}
	}

	for k := len(order) - 1; k >= 0; k-- {
		cur := order[k]
		if cur.IsLeaf() {
			sets[k] = roaring.BitmapOf(uint32(cur.item))
			continue
		}
		l := childPos[k]
		sets[k] = roaring.Or(sets[l], sets[l+1])
	}

	records := make([]Record, len(order))
	for k, cur := range order {
		rec := Record{Node: cur, Items: toInts(sets[k]), Left: -1, Right: -1}
		if !cur.IsLeaf() {
			rec.Left = childPos[k] - k
			rec.Right = rec.Left + 1
		}
		records[k] = rec
	}

	return records
}

func toInts(bm *roaring.Bitmap) []int {
	out := make([]int, 0, bm.GetCardinality())
	it := bm.Iterator()
	for it.HasNext() {
		out = append(out, int(it.Next()))
	}

	return out
}
