// Package bitmap encodes sets of item indices as trimmed runs of 32-bit words.
//
// Member v sets bit v%32 of word v/32. Only the words between the one holding
// the smallest member and the one holding the largest are kept, together
// with the index of the first kept word:
//
//	bm, _ := bitmap.Encode([]int{3, 40, 41}, 64)
//	// bm.Start == 0, bm.Words == []uint32{1 << 3, 1<<8 | 1<<9}
//	bitmap.Decode(bm.Start, bm.Words) // [3 40 41]
package bitmap

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"

	"github.com/arloliu/mixtree/errs"
)

// WordBits is the number of members covered by one encoded word.
const WordBits = 32

// Bitmap is a trimmed word run covering every member of a set.
type Bitmap struct {
	// Start is the index of the first stored word in the untrimmed bitmap.
	Start int
	// Words holds the stored words; word i covers members [(Start+i)*32, (Start+i+1)*32).
	Words []uint32
}

// Count returns the number of stored words.
func (b Bitmap) Count() int {
	return len(b.Words)
}

// Members decodes the bitmap back into an ascending member list.
func (b Bitmap) Members() []int {
	return Decode(b.Start, b.Words)
}

// Encode builds the trimmed bitmap of members.
//
// nbits is the size of the universe the members come from; values not above
// the largest member (including zero) let Encode size the universe itself.
// Duplicate members are allowed. Encode fails on an empty set or a negative member.
func Encode(members []int, nbits int) (Bitmap, error) {
	if len(members) == 0 {
		return Bitmap{}, errs.ErrEmptyBitmap
	}

	lo, hi := members[0], members[0]
	for _, v := range members {
		if v < 0 {
			return Bitmap{}, fmt.Errorf("%w: %d", errs.ErrNegativeMember, v)
		}
		lo = min(lo, v)
		hi = max(hi, v)
	}
	if nbits <= hi {
		nbits = hi + 1
	}

	bs := bitset.New(uint(nbits))
	for _, v := range members {
		bs.Set(uint(v))
	}
	full := bs.Words()

	start := lo / WordBits
	end := (hi + WordBits) / WordBits
	words := make([]uint32, end-start)
	for w := start; w < end; w++ {
		word := full[w/2]
		if w%2 == 1 {
			word >>= 32
		}
		words[w-start] = uint32(word)
	}

	return Bitmap{Start: start, Words: words}, nil
}

// Decode returns the ascending list of members set in words, where words[0]
// is word number start of the untrimmed bitmap.
func Decode(start int, words []uint32) []int {
	packed := make([]uint64, (len(words)+1)/2)
	for i, w := range words {
		packed[i/2] |= uint64(w) << (32 * (i % 2))
	}

	bs := bitset.From(packed)
	members := make([]int, 0, bs.Count())
	base := start * WordBits
	for i, ok := bs.NextSet(0); ok; i, ok = bs.NextSet(i + 1) {
		members = append(members, base+int(i))
	}

	return members
}
