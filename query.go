package bitset

import (
	"encoding/binary"
	"math/bits"
	"strconv"
	"strings"

	"github.com/zeebo/xxh3"

	"github.com/zeebo/bitset/internal/wordbits"
)

// Count returns the number of live bits.
func (c *core[S]) Count() (n int) {
	for wi := 0; wi < c.words.len(); wi++ {
		n += bits.OnesCount64(c.words.load(wi))
	}
	return n
}

// Density returns the fraction of bits that are live.
func (c *core[S]) Density() float64 {
	if c.size == 0 {
		return 0
	}
	return float64(c.Count()) / float64(c.size)
}

// NextLive returns the first live index at or after i, or -1 if there is none.
func (c *core[S]) NextLive(i int) int {
	return c.next(i, 0)
}

// NextDead returns the first dead index at or after i, or -1 if there is none.
func (c *core[S]) NextDead(i int) int {
	return c.next(i, wordbits.All)
}

// LastLive returns the last live index at or before i, or -1 if there is none.
func (c *core[S]) LastLive(i int) int {
	return c.prev(i, 0)
}

// LastDead returns the last dead index at or before i, or -1 if there is none.
func (c *core[S]) LastDead(i int) int {
	return c.prev(i, wordbits.All)
}

// next scans forward for a live bit in the words XOR'd with flip.
func (c *core[S]) next(i int, flip uint64) int {
	if i < 0 {
		i = 0
	}
	if i >= c.size {
		return -1
	}

	wi := wordbits.Index(i)
	w := (c.words.load(wi) ^ flip) & wordbits.StartMask(i) & c.mask(wi)
	for w == 0 {
		wi++
		if wi >= c.words.len() {
			return -1
		}
		w = (c.words.load(wi) ^ flip) & c.mask(wi)
	}
	return wordbits.Base(wi) + int(wordbits.First(w))
}

// prev scans backward for a live bit in the words XOR'd with flip.
func (c *core[S]) prev(i int, flip uint64) int {
	if i >= c.size {
		i = c.size - 1
	}
	if i < 0 {
		return -1
	}

	wi := wordbits.Index(i)
	w := (c.words.load(wi) ^ flip) & wordbits.EndMask(i+1) & c.mask(wi)
	for w == 0 {
		wi--
		if wi < 0 {
			return -1
		}
		w = c.words.load(wi) ^ flip
	}
	return wordbits.Base(wi) + int(wordbits.Last(w))
}

// Equal reports if r has the same capacity and live bits.
func (c *core[S]) Equal(r Reader) bool {
	if IsNil(r) || r.Size() != c.size {
		return false
	}
	for wi := 0; wi < c.words.len(); wi++ {
		if c.words.load(wi) != r.Word(wi) {
			return false
		}
	}
	return true
}

// Hash returns a hash of the capacity and contents.
func (c *core[S]) Hash() uint64 {
	buf := make([]byte, 0, 8+8*c.words.len())
	buf = binary.LittleEndian.AppendUint64(buf, uint64(c.size))
	for wi := 0; wi < c.words.len(); wi++ {
		buf = binary.LittleEndian.AppendUint64(buf, c.words.load(wi))
	}
	return xxh3.Hash(buf)
}

// String lists the live indices.
func (c *core[S]) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i := c.NextLive(0); i >= 0; i = c.NextLive(i + 1) {
		if b.Len() > 1 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.Itoa(i))
	}
	b.WriteByte('}')
	return b.String()
}
