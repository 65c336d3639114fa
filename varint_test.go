package bitset

import (
	"fmt"
	"testing"

	"github.com/zeebo/assert"
)

func TestVarint(t *testing.T) {
	for i := uint(0); i <= 32; i++ {
		val := uint32(1<<i - 1)
		buf := varintAppend(nil, val)
		buf = append(buf, 0xaa)

		got, rest, ok := varintConsume(buf)
		assert.That(t, ok)
		assert.Equal(t, got, val)
		assert.DeepEqual(t, rest, []byte{0xaa})
	}

	_, _, ok := varintConsume(nil)
	assert.That(t, !ok)

	_, _, ok = varintConsume([]byte{0xff})
	assert.That(t, !ok)
}

func BenchmarkVarint(b *testing.B) {
	b.Run("Append", func(b *testing.B) {
		for _, i := range []uint{1, 32} {
			b.Run(fmt.Sprint(i), func(b *testing.B) {
				n := uint32(1<<i - 1)
				buf := make([]byte, 0, 16)

				for i := 0; i < b.N; i++ {
					varintAppend(buf, n)
				}
			})
		}
	})

	b.Run("Consume", func(b *testing.B) {
		for _, i := range []uint{1, 32} {
			b.Run(fmt.Sprint(i), func(b *testing.B) {
				buf := varintAppend(nil, uint32(1<<i-1))

				for i := 0; i < b.N; i++ {
					varintConsume(buf)
				}
			})
		}
	})
}
