package bitset

import (
	"encoding/binary"
	"math/bits"
)

//
// varint support
//
// The low bits of the first byte hold a unary count of the extra bytes, so
// the length of an encoded value is known from its first byte.
//

func varintStats(val uint32) (nbytes uint8, enc uint64) {
	switch {
	case val < 1<<7:
		return 1, uint64(val)<<1 | 0
	case val < 1<<14:
		return 2, uint64(val)<<2 | 1
	case val < 1<<21:
		return 3, uint64(val)<<3 | 3
	case val < 1<<28:
		return 4, uint64(val)<<4 | 7
	default:
		return 5, uint64(val)<<5 | 15
	}
}

// varintAppend appends the encoding of val to buf.
func varintAppend(buf []byte, val uint32) []byte {
	nbytes, enc := varintStats(val)
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], enc)
	return append(buf, tmp[:nbytes]...)
}

// varintConsume decodes a value from the front of buf and returns the rest.
func varintConsume(buf []byte) (uint32, []byte, bool) {
	if len(buf) == 0 {
		return 0, buf, false
	}

	nbytes := uint8(bits.TrailingZeros8(^buf[0])) + 1
	if nbytes > 5 || int(nbytes) > len(buf) {
		return 0, buf, false
	}

	var tmp [8]byte
	copy(tmp[:], buf[:nbytes])
	val := binary.LittleEndian.Uint64(tmp[:]) >> nbytes
	if val > 1<<32-1 {
		return 0, buf, false
	}

	return uint32(val), buf[nbytes:], true
}
