package spliter

import (
	"github.com/zeebo/bitset"
	"github.com/zeebo/bitset/internal/wordbits"
)

//
// every index in a range
//

type dense struct{}

// NewRange returns an Iterator over every index in [pos, end), regardless of
// the state of any set.
func NewRange(pos, end int) (*Iterator, error) {
	return newIterator(pos, end, dense{})
}

func (dense) sub(pos, end int) strategy { return dense{} }
func (dense) estimate(pos, end int) int { return end - pos }
func (dense) exact(pos, end int) int    { return end - pos }
func (dense) seek(pos, end int) int     { return pos }
func (dense) value(pos int) int         { return pos }
func (dense) split(pos, end int) int    { return wordAligned(pos, end) }

func (dense) each(pos, end int, fn func(int) bool) int {
	for ; pos < end; pos++ {
		if !fn(pos) {
			return pos + 1
		}
	}
	return end
}

//
// a sorted list of indices
//

type array struct{ items []int }

// NewArray returns an Iterator over items, which must be sorted ascending.
func NewArray(items []int) (*Iterator, error) {
	return NewArrayRange(items, 0, len(items))
}

// NewArrayRange returns an Iterator over items[pos:end], which must be sorted
// ascending.
func NewArrayRange(items []int, pos, end int) (*Iterator, error) {
	if items == nil {
		return nil, bitset.NullReference.New("nil items")
	}
	if end > len(items) {
		return nil, bitset.InvalidRange.New("%d > %d", end, len(items))
	}
	return newIterator(pos, end, array{items: items})
}

func (a array) sub(pos, end int) strategy { return a }
func (a array) estimate(pos, end int) int { return end - pos }
func (a array) exact(pos, end int) int    { return end - pos }
func (a array) seek(pos, end int) int     { return pos }
func (a array) value(pos int) int         { return a.items[pos] }

// split moves forward from the middle until the word changes, since the items
// are not spread evenly across words.
func (a array) split(pos, end int) int {
	mid := middle(pos, end)
	wi := wordbits.Index(a.items[mid])
	for mid++; mid < end && wordbits.Index(a.items[mid]) <= wi; mid++ {
	}
	return mid
}

func (a array) each(pos, end int, fn func(int) bool) int {
	for ; pos < end; pos++ {
		if !fn(a.items[pos]) {
			return pos + 1
		}
	}
	return end
}
