package bitset

import (
	"encoding/binary"
	"math"

	"github.com/klauspost/compress/s2"

	"github.com/zeebo/bitset/internal/wordbits"
)

// The binary form of a set is the varint encoded capacity followed by the s2
// compressed little endian words.

func (c *core[S]) marshal() ([]byte, error) {
	if uint64(c.size) > math.MaxUint32 {
		return nil, InvalidRange.New("size %d too large to encode", c.size)
	}

	raw := make([]byte, 8*c.words.len())
	for wi := 0; wi < c.words.len(); wi++ {
		binary.LittleEndian.PutUint64(raw[8*wi:], c.words.load(wi))
	}

	out := varintAppend(nil, uint32(c.size))
	return append(out, s2.Encode(nil, raw)...), nil
}

// unmarshal decodes the capacity and words from data. words is nil only when
// an error is returned.
func unmarshal(data []byte) (size int, words []uint64, err error) {
	val, rest, ok := varintConsume(data)
	if !ok {
		return 0, nil, Corrupt.New("invalid size header")
	}
	size = int(val)
	if size <= 0 {
		return 0, nil, Corrupt.New("invalid size %d", size)
	}

	n := wordbits.Words(size)
	dlen, err := s2.DecodedLen(rest)
	if err != nil {
		return 0, nil, Corrupt.Wrap(err)
	}
	if dlen != 8*n {
		return 0, nil, Corrupt.New("payload has %d bytes, need %d", dlen, 8*n)
	}

	raw, err := s2.Decode(make([]byte, dlen), rest)
	if err != nil {
		return 0, nil, Corrupt.Wrap(err)
	}
	if len(raw) != 8*n {
		return 0, nil, Corrupt.New("payload has %d bytes, need %d", len(raw), 8*n)
	}

	words = make([]uint64, n)
	for wi := range words {
		words[wi] = binary.LittleEndian.Uint64(raw[8*wi:])
	}
	if words[n-1]&^wordbits.TailMask(size) != 0 {
		return 0, nil, Corrupt.New("live bits beyond size %d", size)
	}

	return size, words, nil
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (s *Set) MarshalBinary() ([]byte, error) { return s.marshal() }

// UnmarshalBinary implements encoding.BinaryUnmarshaler. A zero Set takes the
// encoded capacity; any other Set must already have it.
func (s *Set) UnmarshalBinary(data []byte) error {
	size, words, err := unmarshal(data)
	if err != nil {
		return err
	}
	if s.size == 0 {
		s.init(size, plainWords(words))
		return nil
	}
	if s.size != size {
		return SizeMismatch.New("%d != %d", s.size, size)
	}
	copy(s.words, words)
	return nil
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (s *ConcurrentSet) MarshalBinary() ([]byte, error) { return s.marshal() }

// UnmarshalBinary implements encoding.BinaryUnmarshaler. A zero ConcurrentSet
// takes the encoded capacity; any other must already have it. Each word is
// stored atomically.
func (s *ConcurrentSet) UnmarshalBinary(data []byte) error {
	size, words, err := unmarshal(data)
	if err != nil {
		return err
	}
	if s.size == 0 {
		s.init(size, make(atomicWords, len(words)))
	} else if s.size != size {
		return SizeMismatch.New("%d != %d", s.size, size)
	}
	for wi, w := range words {
		s.words.store(wi, w)
	}
	return nil
}
