package bitset

import "github.com/zeebo/bitset/internal/wordbits"

// ConcurrentSet is a Set whose every mutation is an atomic word operation, so
// it may be read and written by many goroutines without external locking.
// Each single word mutation is linearizable. Operations spanning several
// words are not.
type ConcurrentSet struct {
	core[atomicWords]
}

// NewConcurrent returns an empty ConcurrentSet holding size bits. It panics if
// size is not positive.
func NewConcurrent(size int) *ConcurrentSet {
	if size <= 0 {
		panic(InvalidRange.New("size %d must be positive", size))
	}
	s := new(ConcurrentSet)
	s.init(size, make(atomicWords, wordbits.Words(size)))
	return s
}

// NewConcurrentFrom returns a ConcurrentSet with the capacity and contents of r.
func NewConcurrentFrom(r Reader) (*ConcurrentSet, error) {
	if IsNil(r) {
		return nil, NullReference.New("nil set")
	}
	if r.Size() <= 0 {
		return nil, InvalidRange.New("size %d must be positive", r.Size())
	}
	s := NewConcurrent(r.Size())
	return s, s.CopyFrom(r)
}

// Clone returns an independent copy of the set. Concurrent writers may be
// observed per word.
func (s *ConcurrentSet) Clone() *ConcurrentSet {
	if s.size == 0 {
		return new(ConcurrentSet)
	}
	c := NewConcurrent(s.size)
	for wi := range s.words {
		c.words[wi].Store(s.words[wi].Load())
	}
	return c
}
