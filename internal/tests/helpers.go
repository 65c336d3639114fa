// Package tests contains benchmarks shared by the set implementations.
package tests

import (
	"runtime"
	"sync"
	"testing"

	"github.com/zeebo/pcg"
)

// Size is the capacity of the sets the benchmarks use.
const Size = 1 << 14

// Type is the subset of a set the benchmarks exercise.
type Type interface {
	Get(int) bool
	Set(int)
	Add(int) bool
	SetRange(from, to int)
	ToggleRange(from, to int)
	Count() int
}

// RunBenchmarks runs the shared benchmarks against sets made by fn. parallel
// controls whether the benchmarks that write from many goroutines at once are
// run.
func RunBenchmarks(b *testing.B, fn func(size int) Type, parallel bool) {
	var rng pcg.T

	b.Run("Set", func(b *testing.B) {
		t := fn(Size)
		b.ReportAllocs()

		for i := 0; i < b.N; i++ {
			t.Set(int(rng.Uint32n(Size)))
		}
	})

	b.Run("Get", func(b *testing.B) {
		var sink bool
		t := fn(Size)
		for i := 0; i < Size; i += 3 {
			t.Set(i)
		}
		b.ReportAllocs()
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			sink = t.Get(int(rng.Uint32n(Size)))
		}

		runtime.KeepAlive(sink)
	})

	b.Run("SetRange", func(b *testing.B) {
		t := fn(Size)
		b.ReportAllocs()

		for i := 0; i < b.N; i++ {
			from := int(rng.Uint32n(Size))
			t.SetRange(from, from+int(rng.Uint32n(Size)))
		}
	})

	b.Run("ToggleRange", func(b *testing.B) {
		t := fn(Size)
		b.ReportAllocs()

		for i := 0; i < b.N; i++ {
			t.ToggleRange(0, Size)
		}
	})

	b.Run("Count", func(b *testing.B) {
		var sink int
		t := fn(Size)
		t.SetRange(0, Size/2)
		b.ReportAllocs()
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			sink = t.Count()
		}

		runtime.KeepAlive(sink)
	})

	if !parallel {
		return
	}

	b.Run("AddParallel", func(b *testing.B) {
		t := fn(Size)
		b.ReportAllocs()
		b.ResetTimer()

		b.RunParallel(func(pb *testing.PB) {
			rng := pcg.New(pcg.Uint64())
			for pb.Next() {
				t.Add(int(rng.Uint32n(Size)))
			}
		})
	})

	b.Run("AddFullParallel", func(b *testing.B) {
		procs := runtime.GOMAXPROCS(-1)
		iters := Size / procs
		b.ReportAllocs()

		for i := 0; i < b.N; i++ {
			t := fn(Size)
			var wg sync.WaitGroup

			for i := 0; i < procs; i++ {
				wg.Add(1)
				go func() {
					rng := pcg.New(pcg.Uint64())
					for i := 0; i < iters; i++ {
						t.Add(int(rng.Uint32n(Size)))
					}
					wg.Done()
				}()
			}
			wg.Wait()
		}
	})
}
