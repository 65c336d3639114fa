// Package wordbits holds the index arithmetic and single word helpers shared
// by the set implementations and the iterators.
package wordbits

import "math/bits"

const (
	// Size is the number of bits in a word.
	Size = 64
	// Log is log2(Size).
	Log = 6
	// Mod masks an index down to its offset within a word.
	Mod = Size - 1
	// All is a word with every bit live.
	All = ^uint64(0)
)

// Index returns the index of the word holding bit i.
func Index(i int) int { return i >> Log }

// Base returns the bit index of the first bit in word wi.
func Base(wi int) int { return wi << Log }

// Offset returns the position of bit i inside of its word.
func Offset(i int) uint { return uint(i) & Mod }

// Bit returns a word with only the bit for index i live.
func Bit(i int) uint64 { return 1 << (uint(i) & Mod) }

// Words returns how many words are required to hold size bits.
func Words(size int) int { return (size + Mod) >> Log }

// StartMask selects the bits of a word at or above the offset of from.
func StartMask(from int) uint64 { return All << (uint(from) & Mod) }

// EndMask selects the bits of a word below the offset of the exclusive bound
// to. A bound on a word boundary selects the whole word.
func EndMask(to int) uint64 { return All >> (uint(-to) & Mod) }

// TailMask returns the mask of valid bits in the last word of a set holding
// size bits.
func TailMask(size int) uint64 { return EndMask(size) }

// Next removes the lowest live bit from the word and returns its offset. ok is
// false if the word was already empty.
func Next(w *uint64) (idx uint, ok bool) {
	u := *w
	c := u & (u - 1)
	idx = uint(bits.Len64(u ^ c))
	*w = c
	return (idx - 1) % 64, u > 0
}

// Last returns the offset of the highest live bit of a non-zero word.
func Last(w uint64) uint { return uint(63-bits.LeadingZeros64(w)) % 64 }

// First returns the offset of the lowest live bit of a non-zero word.
func First(w uint64) uint { return uint(bits.TrailingZeros64(w)) % 64 }
