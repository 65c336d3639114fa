package spliter

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/zeebo/bitset"
	"github.com/zeebo/bitset/internal/wordbits"
)

// ForEachParallel splits it into word aligned pieces and calls fn with every
// element, running the pieces on up to GOMAXPROCS goroutines. Elements of a
// piece are visited in ascending order by a single goroutine. The first error
// returned by fn, or the cancellation of ctx, stops the pieces from pulling
// further elements.
func ForEachParallel(ctx context.Context, it *Iterator, fn func(i int) error) error {
	if it == nil {
		return bitset.NullReference.New("nil iterator")
	}

	procs := runtime.GOMAXPROCS(-1)
	pieces := divide(it, 4*procs)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(procs)

	for _, p := range pieces {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			n := 0
			for i := range p.All() {
				if err := fn(i); err != nil {
					return err
				}
				if n++; n&wordbits.Mod == 0 {
					if err := gctx.Err(); err != nil {
						return err
					}
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// divide splits the iterator breadth first until there are want pieces or no
// piece will split further.
func divide(it *Iterator, want int) []*Iterator {
	pieces := []*Iterator{it}
	for split := true; split && len(pieces) < want; {
		split = false
		for _, p := range pieces {
			if len(pieces) >= want {
				break
			}
			if q := p.Split(); q != nil {
				pieces = append(pieces, q)
				split = true
			}
		}
	}
	return pieces
}
