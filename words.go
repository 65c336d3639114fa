package bitset

import "sync/atomic"

// wordStore is the set of word primitives a storage variant provides. All of
// the range and set algorithms in core are written once against it.
type wordStore interface {
	len() int
	load(i int) uint64
	store(i int, w uint64)
	and(i int, mask uint64)
	or(i int, mask uint64)
	xor(i int, mask uint64)

	// update replaces the word at i with fn applied to it and returns the
	// values before and after. fn may be called more than once and must be
	// pure.
	update(i int, fn func(uint64) uint64) (old, new uint64)
}

//
// plain words
//

type plainWords []uint64

func (w plainWords) len() int               { return len(w) }
func (w plainWords) load(i int) uint64      { return w[i] }
func (w plainWords) store(i int, v uint64)  { w[i] = v }
func (w plainWords) and(i int, mask uint64) { w[i] &= mask }
func (w plainWords) or(i int, mask uint64)  { w[i] |= mask }
func (w plainWords) xor(i int, mask uint64) { w[i] ^= mask }

func (w plainWords) update(i int, fn func(uint64) uint64) (old, new uint64) {
	old = w[i]
	new = fn(old)
	w[i] = new
	return old, new
}

//
// atomic words
//

type atomicWords []atomic.Uint64

func (w atomicWords) len() int               { return len(w) }
func (w atomicWords) load(i int) uint64      { return w[i].Load() }
func (w atomicWords) store(i int, v uint64)  { w[i].Store(v) }
func (w atomicWords) and(i int, mask uint64) { w[i].And(mask) }
func (w atomicWords) or(i int, mask uint64)  { w[i].Or(mask) }
func (w atomicWords) xor(i int, mask uint64) { w.update(i, func(v uint64) uint64 { return v ^ mask }) }

// update retries until no other writer has changed the word between the load
// and the swap. A result equal to the loaded value needs no swap.
func (w atomicWords) update(i int, fn func(uint64) uint64) (old, new uint64) {
	for {
		old = w[i].Load()
		new = fn(old)
		if new == old || w[i].CompareAndSwap(old, new) {
			return old, new
		}
	}
}
