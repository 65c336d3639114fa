package bitset

import (
	"github.com/zeebo/errs"
)

var (
	// InvalidRange is the class of errors for empty or out of bounds ranges.
	InvalidRange = errs.Class("invalid range")

	// NullReference is the class of errors for missing sets or arrays.
	NullReference = errs.Class("null reference")

	// SizeMismatch is the class of errors for binary operations between sets
	// of different capacity.
	SizeMismatch = errs.Class("size mismatch")

	// Corrupt is the class of errors for malformed encoded sets.
	Corrupt = errs.Class("corrupt")
)

// IsNil reports if r is nil or a nil *Set or *ConcurrentSet.
func IsNil(r Reader) bool {
	switch r := r.(type) {
	case nil:
		return true
	case *Set:
		return r == nil
	case *ConcurrentSet:
		return r == nil
	}
	return false
}

// compatible checks that r can be combined with a set of the given size.
func compatible(size int, r Reader) error {
	if IsNil(r) {
		return NullReference.New("nil set")
	}
	if r.Size() != size {
		return SizeMismatch.New("%d != %d", size, r.Size())
	}
	return nil
}
