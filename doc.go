// Package bitset provides fixed capacity sets of integers packed into 64 bit
// words.
//
// Set is the plain variant and must not be mutated concurrently unless every
// goroutine owns a disjoint, word aligned span of it (see package spliter).
// ConcurrentSet performs every mutation with atomic word operations and may be
// shared freely. Atomicity is per word only: a range operation that spans
// several words can be observed half applied.
//
// Bits at or beyond the capacity of a set are always dead.
package bitset
