// Package collision groups items by content hash.
package collision

import "slices"

// Tracker groups items whose contents are equal. Items are bucketed by hash
// and every hash match is confirmed by value; distinct items that share a
// hash are counted as collisions and kept apart.
type Tracker struct {
	reps       map[uint64][]int // hash -> representatives with that hash
	groups     map[int][]int    // representative -> every item equal to it
	collisions int
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		reps:   make(map[uint64][]int),
		groups: make(map[int][]int),
	}
}

// Track records item idx with content hash h. same reports whether idx
// equals the earlier item rep. Track returns the representative idx was
// grouped under, which is idx itself when no earlier item matched.
func (t *Tracker) Track(h uint64, idx int, same func(rep int) bool) int {
	reps := t.reps[h]
	for _, rep := range reps {
		if same(rep) {
			t.groups[rep] = append(t.groups[rep], idx)
			return rep
		}
	}
	if len(reps) > 0 {
		t.collisions++
	}
	t.reps[h] = append(reps, idx)
	t.groups[idx] = []int{idx}

	return idx
}

// Collisions returns how many items shared a hash with a different item.
func (t *Tracker) Collisions() int { return t.collisions }

// Duplicates returns every group of two or more equal items, ordered by
// their first item.
func (t *Tracker) Duplicates() [][]int {
	var out [][]int
	for _, g := range t.groups {
		if len(g) > 1 {
			out = append(out, slices.Clone(g))
		}
	}
	slices.SortFunc(out, func(a, b []int) int { return a[0] - b[0] })

	return out
}
