// Package densityrand generates random words whose bits are live with a
// chosen probability.
//
// A uniform word has each bit live with probability 1/2. ANDing it with
// another uniform word halves that probability, and ORing moves it halfway to
// 1. Any dyadic fraction n/2^d can be reached by d-1 such steps, so a Density
// consumes d uniform words for each word it returns and approximates the
// requested probability within 2^-(d+1).
package densityrand

import (
	"math"
	"math/bits"

	"github.com/zeebo/pcg"
)

// Source produces uniformly random words.
type Source interface {
	Uint64() uint64
}

const maxDepth = 63

// Density produces words whose bits are live with a fixed probability. It is
// not safe for concurrent use.
type Density struct {
	src      Source
	density  float64
	depth    int
	sequence uint64

	word     uint64 // bits handed out by Bool
	consumed uint
}

// New returns a Density drawing from src that approximates density with depth
// composition steps. depth is clamped to [1, 63] and density to
// [2^-depth, 1-2^-depth]. A nil src is replaced by a freshly seeded PCG.
func New(src Source, density float64, depth int) *Density {
	if src == nil {
		p := pcg.New(Seed())
		src = &p
	}

	depth = boundDepth(depth)
	density = boundDensity(density, depth)

	numerator := uint64(math.Round(density / PowerInverse(depth)))
	if limit := uint64(1)<<uint(depth) - 1; numerator > limit {
		// 1-2^-63 is not representable and rounds up to 1.
		numerator = limit
	}

	reductions := bits.TrailingZeros64(numerator)
	numerator >>= uint(reductions)
	depth -= reductions

	return &Density{
		src:      src,
		density:  float64(numerator) * PowerInverse(depth),
		depth:    depth,
		sequence: numerator >> 1,
	}
}

// NewTolerance returns a Density whose realized density is within tolerance
// of the requested one.
func NewTolerance(src Source, density, tolerance float64) *Density {
	return New(src, density, ToleranceDepth(tolerance))
}

// NewSeeded returns a Density drawing from a PCG seeded with seed.
func NewSeeded(density float64, depth int, seed uint64) *Density {
	p := pcg.New(seed)
	return New(&p, density, depth)
}

// Density returns the probability a produced bit is live.
func (d *Density) Density() float64 { return d.density }

// Depth returns the number of uniform words consumed per produced word.
func (d *Density) Depth() int { return d.depth }

// Uint64 returns a word with each bit live with probability Density().
func (d *Density) Uint64() uint64 {
	word := d.src.Uint64()
	for i := 0; i < d.depth-1; i++ {
		if d.sequence>>uint(i)&1 == 0 {
			word &= d.src.Uint64()
		} else {
			word |= d.src.Uint64()
		}
	}
	return word
}

// Uint32 returns the top half of Uint64.
func (d *Density) Uint32() uint32 {
	return uint32(d.Uint64() >> 32)
}

// Bool returns true with probability Density(). A new word is only produced
// every 64 calls.
func (d *Density) Bool() bool {
	offset := d.consumed % 64
	if offset == 0 {
		d.word = d.Uint64()
	}
	d.consumed++
	return d.word>>offset&1 != 0
}

// ToleranceDepth returns the depth needed to approximate any density to within
// tolerance.
func ToleranceDepth(tolerance float64) int {
	tolerance = boundPercentage(tolerance)
	if tolerance == 0 {
		return maxDepth
	}
	_, exp := math.Frexp(tolerance)
	return boundDepth(1 - exp)
}

// PowerInverse returns 2^-power.
func PowerInverse(power int) float64 {
	return math.Ldexp(1, -power)
}

func boundDensity(density float64, depth int) float64 {
	if math.IsNaN(density) {
		return 0.5
	}
	inverse := PowerInverse(depth)
	return math.Min(math.Max(density, inverse), 1-inverse)
}

func boundPercentage(p float64) float64 {
	if math.IsNaN(p) {
		return 0
	}
	return math.Min(math.Max(p, 0), 1)
}

func boundDepth(depth int) int {
	if depth < 1 {
		return 1
	}
	if depth > maxDepth {
		return maxDepth
	}
	return depth
}
