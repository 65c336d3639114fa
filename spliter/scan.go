package spliter

import (
	"math"
	"math/bits"

	"github.com/zeebo/bitset"
	"github.com/zeebo/bitset/internal/wordbits"
)

// op selects the word a scan looks for live bits in.
type op uint8

const (
	opLive op = iota
	opDead
	opAnd
	opOr
	opXor
)

// scan enumerates the live bits of a word function over one or two sets.
// Words are read from the sets as they are visited, so a word is a snapshot
// of the moment the scan reached it.
type scan struct {
	op      op
	a, b    Words
	density float64 // estimated over the span at construction
}

func newScan(op op, a, b Words, pos, end int) *scan {
	s := &scan{op: op, a: a, b: b}
	s.density = s.estimateDensity(pos, end)
	return s
}

// NewLive returns an Iterator over the live indices of set.
func NewLive(set Words) (*Iterator, error) {
	if bitset.IsNil(set) {
		return nil, bitset.NullReference.New("nil set")
	}
	return NewLiveRange(set, 0, set.Size())
}

// NewLiveRange returns an Iterator over the live indices of set in [pos, end).
func NewLiveRange(set Words, pos, end int) (*Iterator, error) {
	return newScanIterator(opLive, set, nil, pos, end)
}

// NewDead returns an Iterator over the dead indices of set.
func NewDead(set Words) (*Iterator, error) {
	if bitset.IsNil(set) {
		return nil, bitset.NullReference.New("nil set")
	}
	return NewDeadRange(set, 0, set.Size())
}

// NewDeadRange returns an Iterator over the dead indices of set in [pos, end).
func NewDeadRange(set Words, pos, end int) (*Iterator, error) {
	return newScanIterator(opDead, set, nil, pos, end)
}

// NewAnd returns an Iterator over the indices live in both a and b.
func NewAnd(a, b Words) (*Iterator, error) { return newBinary(opAnd, a, b) }

// NewOr returns an Iterator over the indices live in either a or b.
func NewOr(a, b Words) (*Iterator, error) { return newBinary(opOr, a, b) }

// NewXor returns an Iterator over the indices live in exactly one of a and b.
func NewXor(a, b Words) (*Iterator, error) { return newBinary(opXor, a, b) }

// NewAndRange is NewAnd restricted to [pos, end).
func NewAndRange(a, b Words, pos, end int) (*Iterator, error) {
	return newScanIterator(opAnd, a, b, pos, end)
}

// NewOrRange is NewOr restricted to [pos, end).
func NewOrRange(a, b Words, pos, end int) (*Iterator, error) {
	return newScanIterator(opOr, a, b, pos, end)
}

// NewXorRange is NewXor restricted to [pos, end).
func NewXorRange(a, b Words, pos, end int) (*Iterator, error) {
	return newScanIterator(opXor, a, b, pos, end)
}

func newBinary(op op, a, b Words) (*Iterator, error) {
	if bitset.IsNil(a) || bitset.IsNil(b) {
		return nil, bitset.NullReference.New("nil set")
	}
	return newScanIterator(op, a, b, 0, a.Size())
}

func newScanIterator(op op, a, b Words, pos, end int) (*Iterator, error) {
	if bitset.IsNil(a) || (op >= opAnd && bitset.IsNil(b)) {
		return nil, bitset.NullReference.New("nil set")
	}
	if op >= opAnd && a.Size() != b.Size() {
		return nil, bitset.SizeMismatch.New("%d != %d", a.Size(), b.Size())
	}
	if end > a.Size() {
		return nil, bitset.InvalidRange.New("%d > %d", end, a.Size())
	}
	if pos < 0 || pos >= end {
		return nil, bitset.InvalidRange.New("%d >= %d", pos, end)
	}
	return newIterator(pos, end, newScan(op, a, b, pos, end))
}

// word returns the word the scan looks for live bits in.
func (s *scan) word(wi int) uint64 {
	switch s.op {
	case opDead:
		return ^s.a.Word(wi)
	case opAnd:
		return s.a.Word(wi) & s.b.Word(wi)
	case opOr:
		return s.a.Word(wi) | s.b.Word(wi)
	case opXor:
		return s.a.Word(wi) ^ s.b.Word(wi)
	default:
		return s.a.Word(wi)
	}
}

// estimateDensity treats the two sets of a binary scan as independent.
func (s *scan) estimateDensity(pos, end int) float64 {
	da := s.a.DensityRange(pos, end)
	switch s.op {
	case opDead:
		return 1 - da
	case opAnd, opOr, opXor:
		db := s.b.DensityRange(pos, end)
		switch s.op {
		case opAnd:
			return da * db
		case opOr:
			return da + db - da*db
		default:
			return da + db - 2*da*db
		}
	default:
		return da
	}
}

func (s *scan) sub(pos, end int) strategy { return newScan(s.op, s.a, s.b, pos, end) }
func (s *scan) value(pos int) int         { return pos }
func (s *scan) split(pos, end int) int    { return wordAligned(pos, end) }

func (s *scan) estimate(pos, end int) int {
	return int(math.Round(float64(end-pos) * s.density))
}

func (s *scan) exact(pos, end int) (n int) {
	switch s.op {
	case opLive:
		return s.a.CountRange(pos, end)
	case opDead:
		return (end - pos) - s.a.CountRange(pos, end)
	}

	start, last := wordbits.Index(pos), wordbits.Index(end-1)
	for wi := start; wi <= last; wi++ {
		w := s.word(wi)
		if wi == start {
			w &= wordbits.StartMask(pos)
		}
		if wi == last {
			w &= wordbits.EndMask(end)
		}
		n += bits.OnesCount64(w)
	}
	return n
}

func (s *scan) seek(pos, end int) int {
	if pos >= end {
		return end
	}

	wi, last := wordbits.Index(pos), wordbits.Index(end-1)
	w := s.word(wi) & wordbits.StartMask(pos)
	for w == 0 {
		if wi == last {
			return end
		}
		wi++
		w = s.word(wi)
	}

	return min(wordbits.Base(wi)+int(wordbits.First(w)), end)
}

// each pops live bits off of the current word rather than seeking for every
// element.
func (s *scan) each(pos, end int, fn func(int) bool) int {
	if pos >= end {
		return end
	}

	wi, last := wordbits.Index(pos), wordbits.Index(end-1)
	w := s.word(wi) & wordbits.StartMask(pos)
	for {
		for w == 0 {
			if wi == last {
				return end
			}
			wi++
			w = s.word(wi)
		}

		off, _ := wordbits.Next(&w)
		i := wordbits.Base(wi) + int(off)
		if i >= end {
			return end
		}
		if !fn(i) {
			return i + 1
		}
	}
}
