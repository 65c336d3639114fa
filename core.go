package bitset

import (
	"math/bits"

	"github.com/zeebo/bitset/internal/wordbits"
)

// Reader is the read side of a set: anything with a capacity and addressable
// words. Both Set and ConcurrentSet are Readers.
type Reader interface {
	Size() int
	Word(wi int) uint64
}

// Source produces uniformly random words.
type Source interface {
	Uint64() uint64
}

// core implements every set operation in terms of a wordStore so that the
// plain and atomic variants share one copy of the algorithms.
type core[S wordStore] struct {
	size  int
	last  int
	tail  uint64
	words S
}

func (c *core[S]) init(size int, words S) {
	c.size = size
	c.last = words.len() - 1
	c.tail = wordbits.TailMask(size)
	c.words = words
}

// Size returns the number of bits the set holds.
func (c *core[S]) Size() int { return c.size }

// WordCount returns the number of words backing the set.
func (c *core[S]) WordCount() int { return c.words.len() }

// Hanging returns the number of valid bits in the last word, or 0 if the
// capacity is a multiple of the word size.
func (c *core[S]) Hanging() int { return int(wordbits.Offset(c.size)) }

// mask returns the valid bits of word wi.
func (c *core[S]) mask(wi int) uint64 {
	if wi == c.last {
		return c.tail
	}
	return wordbits.All
}

func (c *core[S]) check(i int) {
	if uint(i) >= uint(c.size) {
		panic(InvalidRange.New("index %d out of range [0, %d)", i, c.size))
	}
}

// clamp restricts the range to the capacity of the set.
func (c *core[S]) clamp(from, to int) (int, int) {
	if from < 0 {
		from = 0
	}
	if to > c.size {
		to = c.size
	}
	return from, to
}

// span breaks [from, to) into word sized pieces. edge is called for the first
// and last words with the mask of bits in the range, or once with the combined
// mask if they are the same word. inner is called for every word in between,
// all of whose bits are in the range.
func (c *core[S]) span(from, to int, edge func(wi int, mask uint64), inner func(wi int)) {
	from, to = c.clamp(from, to)
	if from >= to {
		return
	}

	start, end := wordbits.Index(from), wordbits.Index(to-1)
	startMask, endMask := wordbits.StartMask(from), wordbits.EndMask(to)

	if start == end {
		edge(start, startMask&endMask)
		return
	}

	edge(start, startMask)
	for wi := start + 1; wi < end; wi++ {
		inner(wi)
	}
	edge(end, endMask)
}

//
// single bits
//

// Get reports if bit i is live.
func (c *core[S]) Get(i int) bool {
	c.check(i)
	return c.words.load(wordbits.Index(i))&wordbits.Bit(i) != 0
}

// Set makes bit i live.
func (c *core[S]) Set(i int) {
	c.check(i)
	c.words.or(wordbits.Index(i), wordbits.Bit(i))
}

// Clear makes bit i dead.
func (c *core[S]) Clear(i int) {
	c.check(i)
	c.words.and(wordbits.Index(i), ^wordbits.Bit(i))
}

// Toggle flips bit i.
func (c *core[S]) Toggle(i int) {
	c.check(i)
	c.words.xor(wordbits.Index(i), wordbits.Bit(i))
}

// Add makes bit i live and reports if it was dead before.
func (c *core[S]) Add(i int) bool {
	c.check(i)
	bit := wordbits.Bit(i)
	old, _ := c.words.update(wordbits.Index(i), func(w uint64) uint64 { return w | bit })
	return old&bit == 0
}

// Remove makes bit i dead and reports if it was live before.
func (c *core[S]) Remove(i int) bool {
	c.check(i)
	bit := wordbits.Bit(i)
	old, _ := c.words.update(wordbits.Index(i), func(w uint64) uint64 { return w &^ bit })
	return old&bit != 0
}

//
// ranges
//

// SetRange makes every bit in [from, to) live. It does nothing if from >= to.
func (c *core[S]) SetRange(from, to int) {
	c.span(from, to,
		func(wi int, mask uint64) { c.words.or(wi, mask) },
		func(wi int) { c.words.store(wi, wordbits.All) })
}

// ClearRange makes every bit in [from, to) dead. It does nothing if from >= to.
func (c *core[S]) ClearRange(from, to int) {
	c.span(from, to,
		func(wi int, mask uint64) { c.words.and(wi, ^mask) },
		func(wi int) { c.words.store(wi, 0) })
}

// ToggleRange flips every bit in [from, to). It does nothing if from >= to.
func (c *core[S]) ToggleRange(from, to int) {
	c.span(from, to,
		func(wi int, mask uint64) { c.words.xor(wi, mask) },
		func(wi int) { c.words.xor(wi, wordbits.All) })
}

// RandomizeRange replaces every bit in [from, to) with bits from src.
func (c *core[S]) RandomizeRange(src Source, from, to int) {
	c.span(from, to,
		func(wi int, mask uint64) { c.SetWordSegment(wi, src.Uint64(), mask) },
		func(wi int) { c.words.store(wi, src.Uint64()) })
}

// XorRandomizeRange flips the bits in [from, to) that are live in words from
// src.
func (c *core[S]) XorRandomizeRange(src Source, from, to int) {
	c.span(from, to,
		func(wi int, mask uint64) { c.words.xor(wi, mask&src.Uint64()) },
		func(wi int) { c.words.xor(wi, src.Uint64()) })
}

// CountRange returns the number of live bits in [from, to).
func (c *core[S]) CountRange(from, to int) (n int) {
	c.span(from, to,
		func(wi int, mask uint64) { n += bits.OnesCount64(c.words.load(wi) & mask) },
		func(wi int) { n += bits.OnesCount64(c.words.load(wi)) })
	return n
}

// DensityRange returns the fraction of bits in [from, to) that are live. An
// empty range has a density of 0.
func (c *core[S]) DensityRange(from, to int) float64 {
	from, to = c.clamp(from, to)
	if from >= to {
		return 0
	}
	return float64(c.CountRange(from, to)) / float64(to-from)
}

//
// whole set
//

// Fill makes every bit live.
func (c *core[S]) Fill() {
	for wi := 0; wi < c.words.len(); wi++ {
		c.words.store(wi, c.mask(wi))
	}
}

// Empty makes every bit dead.
func (c *core[S]) Empty() {
	for wi := 0; wi < c.words.len(); wi++ {
		c.words.store(wi, 0)
	}
}

// Not flips every bit.
func (c *core[S]) Not() {
	for wi := 0; wi < c.words.len(); wi++ {
		c.words.xor(wi, c.mask(wi))
	}
}

// Randomize replaces every word with one from src.
func (c *core[S]) Randomize(src Source) {
	for wi := 0; wi < c.words.len(); wi++ {
		c.words.store(wi, src.Uint64()&c.mask(wi))
	}
}

// XorRandomize flips the bits that are live in words from src.
func (c *core[S]) XorRandomize(src Source) {
	for wi := 0; wi < c.words.len(); wi++ {
		c.words.xor(wi, src.Uint64()&c.mask(wi))
	}
}

// And keeps only the bits also live in r.
func (c *core[S]) And(r Reader) error {
	if err := compatible(c.size, r); err != nil {
		return err
	}
	for wi := 0; wi < c.words.len(); wi++ {
		c.words.and(wi, r.Word(wi))
	}
	return nil
}

// AndNot kills the bits that are live in r.
func (c *core[S]) AndNot(r Reader) error {
	if err := compatible(c.size, r); err != nil {
		return err
	}
	for wi := 0; wi < c.words.len(); wi++ {
		c.words.and(wi, ^r.Word(wi))
	}
	return nil
}

// Or makes the bits live in r live.
func (c *core[S]) Or(r Reader) error {
	if err := compatible(c.size, r); err != nil {
		return err
	}
	for wi := 0; wi < c.words.len(); wi++ {
		c.words.or(wi, r.Word(wi)&c.mask(wi))
	}
	return nil
}

// Xor flips the bits live in r.
func (c *core[S]) Xor(r Reader) error {
	if err := compatible(c.size, r); err != nil {
		return err
	}
	for wi := 0; wi < c.words.len(); wi++ {
		c.words.xor(wi, r.Word(wi)&c.mask(wi))
	}
	return nil
}

// CopyFrom replaces the contents with those of r.
func (c *core[S]) CopyFrom(r Reader) error {
	if err := compatible(c.size, r); err != nil {
		return err
	}
	for wi := 0; wi < c.words.len(); wi++ {
		c.words.store(wi, r.Word(wi)&c.mask(wi))
	}
	return nil
}

//
// words
//

// Word returns the word at index wi.
func (c *core[S]) Word(wi int) uint64 { return c.words.load(wi) }

// SetWord replaces the word at index wi.
func (c *core[S]) SetWord(wi int, w uint64) { c.words.store(wi, w&c.mask(wi)) }

// AndWord ANDs the word at index wi with mask.
func (c *core[S]) AndWord(wi int, mask uint64) { c.words.and(wi, mask) }

// OrWord ORs the word at index wi with mask.
func (c *core[S]) OrWord(wi int, mask uint64) { c.words.or(wi, mask&c.mask(wi)) }

// XorWord XORs the word at index wi with mask.
func (c *core[S]) XorWord(wi int, mask uint64) { c.words.xor(wi, mask&c.mask(wi)) }

// NandWord replaces the word at index wi with NOT (word AND mask).
func (c *core[S]) NandWord(wi int, mask uint64) {
	valid := c.mask(wi)
	c.words.update(wi, func(w uint64) uint64 { return ^(w & mask) & valid })
}

// NorWord replaces the word at index wi with NOT (word OR mask).
func (c *core[S]) NorWord(wi int, mask uint64) {
	valid := c.mask(wi)
	c.words.update(wi, func(w uint64) uint64 { return ^(w | mask) & valid })
}

// XnorWord replaces the word at index wi with NOT (word XOR mask).
func (c *core[S]) XnorWord(wi int, mask uint64) {
	valid := c.mask(wi)
	c.words.update(wi, func(w uint64) uint64 { return ^(w ^ mask) & valid })
}

// SetWordSegment replaces the bits of the word at index wi selected by mask
// with the same bits of w, leaving the rest alone.
func (c *core[S]) SetWordSegment(wi int, w, mask uint64) {
	valid := c.mask(wi)
	c.words.update(wi, func(old uint64) uint64 { return (old&^mask | w&mask) & valid })
}

// ShiftLeftWord shifts the word at index wi n bits towards the high end.
func (c *core[S]) ShiftLeftWord(wi int, n uint) {
	valid := c.mask(wi)
	c.words.update(wi, func(w uint64) uint64 { return w << n & valid })
}

// ShiftRightWord shifts the word at index wi n bits towards the low end.
func (c *core[S]) ShiftRightWord(wi int, n uint) {
	valid := c.mask(wi)
	c.words.update(wi, func(w uint64) uint64 { return w >> n & valid })
}

// RotateLeftWord rotates the word at index wi n bits towards the high end.
func (c *core[S]) RotateLeftWord(wi int, n uint) {
	valid := c.mask(wi)
	k := int(n & wordbits.Mod)
	c.words.update(wi, func(w uint64) uint64 { return bits.RotateLeft64(w, k) & valid })
}

// RotateRightWord rotates the word at index wi n bits towards the low end.
func (c *core[S]) RotateRightWord(wi int, n uint) {
	valid := c.mask(wi)
	k := -int(n & wordbits.Mod)
	c.words.update(wi, func(w uint64) uint64 { return bits.RotateLeft64(w, k) & valid })
}

// ReverseWord reverses the order of the bits in the word at index wi.
func (c *core[S]) ReverseWord(wi int) {
	valid := c.mask(wi)
	c.words.update(wi, func(w uint64) uint64 { return bits.Reverse64(w) & valid })
}
