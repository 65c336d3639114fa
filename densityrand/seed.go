package densityrand

import "github.com/zeebo/pcg"

// Seed returns a fresh seed drawn from a process wide generator.
func Seed() uint64 { return pcg.Uint64() }
