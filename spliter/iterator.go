// Package spliter provides one-shot iterators over set indices that can be
// divided for parallel consumption.
//
// Split never places a boundary inside of a word: the two halves of a split
// always cover disjoint words. That is what makes it safe for goroutines to
// mutate the plain bitset.Set concurrently, each through its own piece, and
// what keeps pieces of a bitset.ConcurrentSet from contending on words.
package spliter

import (
	"iter"

	"github.com/zeebo/bitset"
	"github.com/zeebo/bitset/internal/wordbits"
)

// Threshold is the smallest estimated size that Split will divide: four words
// worth of indices.
const Threshold = 4 * wordbits.Size

// Words is the view of a set the scanning iterators need. Both bitset.Set and
// bitset.ConcurrentSet implement it.
type Words interface {
	bitset.Reader
	CountRange(from, to int) int
	DensityRange(from, to int) float64
}

// strategy decides what positions in [pos, end) hold elements, and where a
// span can be divided.
type strategy interface {
	// sub returns the strategy for a prefix split off of the span.
	sub(pos, end int) strategy
	estimate(pos, end int) int
	exact(pos, end int) int
	// seek returns the first position at or after pos holding an element,
	// or end.
	seek(pos, end int) int
	value(pos int) int
	// split returns a word aligned position to divide the span at.
	split(pos, end int) int
	// each calls fn with every element value from pos until fn returns false
	// and returns the position after the last element consumed.
	each(pos, end int, fn func(int) bool) int
}

// Iterator produces an ascending sequence of indices from the positions
// [pos, end). It is single use and not safe for concurrent use; concurrent
// consumers each take their own piece from Split.
type Iterator struct {
	pos int
	end int
	s   strategy
}

func newIterator(pos, end int, s strategy) (*Iterator, error) {
	if pos < 0 || pos >= end {
		return nil, bitset.InvalidRange.New("%d >= %d", pos, end)
	}
	return &Iterator{pos: pos, end: end, s: s}, nil
}

// Position returns the next position the iterator will consider.
func (it *Iterator) Position() int { return it.pos }

// End returns the exclusive bound of the iterator's positions.
func (it *Iterator) End() int { return it.end }

// Estimate returns an estimate of the number of remaining elements.
func (it *Iterator) Estimate() int {
	if it.pos >= it.end {
		return 0
	}
	return it.s.estimate(it.pos, it.end)
}

// Exact returns the number of remaining elements, counting them if necessary.
func (it *Iterator) Exact() int {
	if it.pos >= it.end {
		return 0
	}
	return it.s.exact(it.pos, it.end)
}

// Split divides the iterator in two. The returned iterator takes the prefix of
// the remaining positions up to a word boundary and the receiver keeps the
// rest. It returns nil if the estimated size is below Threshold.
func (it *Iterator) Split() *Iterator {
	if it.Estimate() < Threshold {
		return nil
	}

	at := it.s.split(it.pos, it.end)
	if at <= it.pos || at >= it.end {
		return nil
	}

	prefix := &Iterator{pos: it.pos, end: at, s: it.s.sub(it.pos, at)}
	it.pos = at
	return prefix
}

// Next returns the next element.
func (it *Iterator) Next() (int, bool) {
	it.pos = it.s.seek(it.pos, it.end)
	if it.pos >= it.end {
		return 0, false
	}
	v := it.s.value(it.pos)
	it.pos++
	return v, true
}

// ForEach calls fn with every remaining element.
func (it *Iterator) ForEach(fn func(int)) {
	it.pos = it.s.each(it.pos, it.end, func(i int) bool { fn(i); return true })
}

// All returns the remaining elements as a sequence. Stopping early leaves the
// unvisited elements in the iterator.
func (it *Iterator) All() iter.Seq[int] {
	return func(yield func(int) bool) {
		it.pos = it.s.each(it.pos, it.end, yield)
	}
}

// middle returns the midpoint of [pos, end) without overflow.
func middle(pos, end int) int { return int(uint(pos+end) >> 1) }

// wordAligned returns the start of the word containing the midpoint of
// [pos, end).
func wordAligned(pos, end int) int { return middle(pos, end) &^ wordbits.Mod }
