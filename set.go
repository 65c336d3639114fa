package bitset

import "github.com/zeebo/bitset/internal/wordbits"

// Set is a fixed capacity set of integers in [0, Size()). It is not safe for
// concurrent mutation except by goroutines that own disjoint words.
type Set struct {
	core[plainWords]
}

// New returns an empty Set holding size bits. It panics if size is not
// positive.
func New(size int) *Set {
	if size <= 0 {
		panic(InvalidRange.New("size %d must be positive", size))
	}
	s := new(Set)
	s.init(size, make(plainWords, wordbits.Words(size)))
	return s
}

// NewFrom returns a Set with the capacity and contents of r.
func NewFrom(r Reader) (*Set, error) {
	if IsNil(r) {
		return nil, NullReference.New("nil set")
	}
	if r.Size() <= 0 {
		return nil, InvalidRange.New("size %d must be positive", r.Size())
	}
	s := New(r.Size())
	return s, s.CopyFrom(r)
}

// Clone returns an independent copy of the set.
func (s *Set) Clone() *Set {
	c := new(Set)
	c.init(s.size, append(plainWords(nil), s.words...))
	return c
}
