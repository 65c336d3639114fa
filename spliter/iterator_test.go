package spliter

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/zeebo/assert"
	"github.com/zeebo/errs"
	"github.com/zeebo/pcg"

	"github.com/zeebo/bitset"
	"github.com/zeebo/bitset/densityrand"
	"github.com/zeebo/bitset/internal/wordbits"
)

// randomSet returns a set and an equal roaring bitmap with about density of
// the bits live.
func randomSet(size int, density float64, seed uint64) (*bitset.ConcurrentSet, *roaring.Bitmap) {
	s, rb := bitset.NewConcurrent(size), roaring.New()
	rng := densityrand.NewSeeded(density, 16, seed)
	for i := 0; i < size; i++ {
		if rng.Bool() {
			s.Set(i)
			rb.Add(uint32(i))
		}
	}
	return s, rb
}

func toInts(xs []uint32) []int {
	out := make([]int, len(xs))
	for i, x := range xs {
		out[i] = int(x)
	}
	return out
}

// walk splits the iterator as far as it goes and returns the elements of the
// pieces in order, checking that every piece is ascending and that every split
// point starts a word.
func walk(t *testing.T, it *Iterator, aligned bool) []int {
	t.Helper()

	if prefix := it.Split(); prefix != nil {
		assert.Equal(t, prefix.End(), it.Position())
		if aligned {
			assert.Equal(t, prefix.End()&wordbits.Mod, 0)
		}
		return append(walk(t, prefix, aligned), walk(t, it, aligned)...)
	}

	var out []int
	it.ForEach(func(i int) {
		if len(out) > 0 {
			assert.That(t, out[len(out)-1] < i)
		}
		out = append(out, i)
	})
	return out
}

func drain(it *Iterator) (out []int) {
	for {
		i, ok := it.Next()
		if !ok {
			return out
		}
		out = append(out, i)
	}
}

func TestConstruction(t *testing.T) {
	s := bitset.New(100)

	_, err := NewRange(5, 5)
	assert.That(t, bitset.InvalidRange.Has(err))
	_, err = NewRange(6, 5)
	assert.That(t, bitset.InvalidRange.Has(err))
	_, err = NewRange(-1, 5)
	assert.That(t, bitset.InvalidRange.Has(err))

	_, err = NewArray(nil)
	assert.That(t, bitset.NullReference.Has(err))
	_, err = NewArray([]int{})
	assert.That(t, bitset.InvalidRange.Has(err))
	_, err = NewArrayRange([]int{1, 2}, 0, 3)
	assert.That(t, bitset.InvalidRange.Has(err))

	_, err = NewLive(nil)
	assert.That(t, bitset.NullReference.Has(err))
	_, err = NewDead((*bitset.Set)(nil))
	assert.That(t, bitset.NullReference.Has(err))
	_, err = NewLiveRange(s, 50, 50)
	assert.That(t, bitset.InvalidRange.Has(err))
	_, err = NewDeadRange(s, 0, 101)
	assert.That(t, bitset.InvalidRange.Has(err))

	_, err = NewAnd(s, bitset.New(101))
	assert.That(t, bitset.SizeMismatch.Has(err))
	_, err = NewOr(s, nil)
	assert.That(t, bitset.NullReference.Has(err))
	_, err = NewAnd(s, (*bitset.ConcurrentSet)(nil))
	assert.That(t, bitset.NullReference.Has(err))
	_, err = NewXorRange(nil, s, 0, 10)
	assert.That(t, bitset.NullReference.Has(err))

	err = ForEachParallel(context.Background(), nil, nil)
	assert.That(t, bitset.NullReference.Has(err))
}

func TestRange(t *testing.T) {
	it, err := NewRange(3, 10000)
	assert.NoError(t, err)
	assert.Equal(t, it.Estimate(), 9997)
	assert.Equal(t, it.Exact(), 9997)

	got := walk(t, it, true)
	assert.Equal(t, len(got), 9997)
	for i, v := range got {
		assert.Equal(t, v, i+3)
	}
	assert.Equal(t, it.Estimate(), 0)

	small, err := NewRange(0, Threshold-1)
	assert.NoError(t, err)
	assert.Nil(t, small.Split())

	it, err = NewRange(0, 10)
	assert.NoError(t, err)
	assert.DeepEqual(t, drain(it), []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9})
}

func TestArray(t *testing.T) {
	var rng pcg.T
	var items []int
	for i := 0; len(items) < 5000; i++ {
		// clumps of indices inside of a few words
		if rng.Uint32n(7) == 0 {
			items = append(items, i)
		}
	}

	it, err := NewArray(items)
	assert.NoError(t, err)
	assert.Equal(t, it.Estimate(), len(items))

	var pieces [][2]int
	var split func(it *Iterator)
	split = func(it *Iterator) {
		if prefix := it.Split(); prefix != nil {
			split(prefix)
			split(it)
			return
		}
		pieces = append(pieces, [2]int{it.Position(), it.End()})
	}
	split(it)
	assert.That(t, len(pieces) > 1)

	for _, p := range pieces[1:] {
		// no word has items on both sides of a split
		assert.That(t, wordbits.Index(items[p[0]-1]) != wordbits.Index(items[p[0]]))
	}

	var got []int
	for _, p := range pieces {
		it, err := NewArrayRange(items, p[0], p[1])
		assert.NoError(t, err)
		got = append(got, drain(it)...)
	}
	assert.DeepEqual(t, got, items)
}

func TestLive(t *testing.T) {
	for _, density := range []float64{0.01, 0.3, 0.9} {
		t.Run(fmt.Sprint(density), func(t *testing.T) {
			s, rb := randomSet(50000, density, 1)
			want := toInts(rb.ToArray())

			it, err := NewLive(s)
			assert.NoError(t, err)
			assert.Equal(t, it.Exact(), len(want))
			assert.Equal(t, it.Estimate(), len(want))
			assert.DeepEqual(t, walk(t, it, true), want)

			it, err = NewLive(s)
			assert.NoError(t, err)
			assert.DeepEqual(t, drain(it), want)
		})
	}
}

func TestLiveRange(t *testing.T) {
	s, rb := randomSet(10000, 0.5, 2)

	for _, r := range [][2]int{{0, 1}, {63, 65}, {100, 9000}, {9999, 10000}} {
		it, err := NewLiveRange(s, r[0], r[1])
		assert.NoError(t, err)

		var want []int
		for _, v := range toInts(rb.ToArray()) {
			if v >= r[0] && v < r[1] {
				want = append(want, v)
			}
		}
		assert.Equal(t, it.Exact(), len(want))
		assert.DeepEqual(t, walk(t, it, true), want)
	}
}

func TestDead(t *testing.T) {
	const size = 20000
	s, rb := randomSet(size, 0.7, 3)
	rb.Flip(0, size)
	want := toInts(rb.ToArray())

	it, err := NewDead(s)
	assert.NoError(t, err)
	assert.Equal(t, it.Exact(), len(want))
	assert.DeepEqual(t, walk(t, it, true), want)

	// hanging bits past the size are never reported
	small := bitset.New(70)
	it, err = NewDead(small)
	assert.NoError(t, err)
	assert.Equal(t, len(drain(it)), 70)
}

func TestBinary(t *testing.T) {
	const size = 30000
	a, ra := randomSet(size, 0.4, 4)
	b, rb := randomSet(size, 0.6, 5)

	cases := []struct {
		name string
		new  func(a, b Words) (*Iterator, error)
		want *roaring.Bitmap
	}{
		{"And", NewAnd, roaring.And(ra, rb)},
		{"Or", NewOr, roaring.Or(ra, rb)},
		{"Xor", NewXor, roaring.Xor(ra, rb)},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			want := toInts(c.want.ToArray())

			it, err := c.new(a, b)
			assert.NoError(t, err)
			assert.Equal(t, it.Exact(), len(want))
			assert.DeepEqual(t, walk(t, it, true), want)
		})
	}

	it, err := NewAndRange(a, b, 100, 200)
	assert.NoError(t, err)
	assert.Equal(t, it.Exact(), len(drain(it)))

	it, err = NewOrRange(a, b, 100, 200)
	assert.NoError(t, err)
	assert.Equal(t, it.Exact(), len(drain(it)))
}

func TestEstimate(t *testing.T) {
	s := bitset.New(1000)
	s.SetRange(0, 250)

	it, err := NewLive(s)
	assert.NoError(t, err)
	assert.Equal(t, it.Estimate(), 250)

	it, err = NewDead(s)
	assert.NoError(t, err)
	assert.Equal(t, it.Estimate(), 750)

	// a full estimate over a sparse prefix still splits, and the piece gets
	// its own density.
	it, err = NewLive(s)
	assert.NoError(t, err)
	assert.Nil(t, it.Split())

	big := bitset.New(10000)
	big.SetRange(0, 5000)
	it, err = NewLive(big)
	assert.NoError(t, err)
	prefix := it.Split()
	assert.NotNil(t, prefix)
	assert.Equal(t, prefix.Estimate(), prefix.End())
	assert.Equal(t, it.Exact(), 5000-prefix.End())
}

func TestAllStopsEarly(t *testing.T) {
	s := bitset.New(1000)
	s.SetRange(10, 20)
	s.Set(500)

	it, err := NewLive(s)
	assert.NoError(t, err)

	var got []int
	for i := range it.All() {
		got = append(got, i)
		if i == 14 {
			break
		}
	}
	assert.DeepEqual(t, got, []int{10, 11, 12, 13, 14})
	assert.DeepEqual(t, drain(it), []int{15, 16, 17, 18, 19, 500})
}

func TestSnapshotPerWord(t *testing.T) {
	s := bitset.New(256)
	s.Set(0)
	s.Set(200)

	it, err := NewLive(s)
	assert.NoError(t, err)

	i, ok := it.Next()
	assert.That(t, ok)
	assert.Equal(t, i, 0)

	// words are read as they are reached, so changes ahead of the position
	// are seen
	s.Set(1)
	s.Set(130)
	assert.DeepEqual(t, drain(it), []int{1, 130, 200})
}

func TestForEachParallel(t *testing.T) {
	const size = 1 << 18
	src, rb := randomSet(size, 0.3, 6)

	// writes into a plain set are safe because pieces own whole words
	dst := bitset.New(size)
	var n int64

	it, err := NewLive(src)
	assert.NoError(t, err)
	assert.NoError(t, ForEachParallel(context.Background(), it, func(i int) error {
		dst.Set(i)
		atomic.AddInt64(&n, 1)
		return nil
	}))

	assert.Equal(t, n, int64(rb.GetCardinality()))
	assert.That(t, dst.Equal(src))
}

func TestForEachParallelError(t *testing.T) {
	it, err := NewRange(0, 1<<16)
	assert.NoError(t, err)

	boom := errs.New("boom")
	err = ForEachParallel(context.Background(), it, func(i int) error {
		if i == 1000 {
			return boom
		}
		return nil
	})
	assert.Equal(t, err, boom)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	it, err = NewRange(0, 1<<16)
	assert.NoError(t, err)
	err = ForEachParallel(ctx, it, func(i int) error { return nil })
	assert.Equal(t, err, context.Canceled)
}

func BenchmarkLive(b *testing.B) {
	for _, density := range []float64{0.01, 0.5} {
		b.Run(fmt.Sprint(density), func(b *testing.B) {
			s, _ := randomSet(1<<16, density, 7)
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				it, _ := NewLive(s)
				it.ForEach(func(int) {})
			}
		})
	}
}
