package nn

import (
	"math"
	"math/rand/v2"
)

// Initializer returns the starting value of the next parameter.
type Initializer func() float64

// Uniform draws values from U(lo, hi) using rng.
//
// The generator is passed in explicitly so that the same seed always
// produces the same network.
func Uniform(lo, hi float64, rng *rand.Rand) Initializer {
	return func() float64 {
		//nolint:gosec // Using math/rand for weight initialization (not security-critical)
		return lo + rng.Float64()*(hi-lo)
	}
}

// Xavier (Glorot) initialization.
//
// Draws from U(-sqrt(6/(fan_in + fan_out)), sqrt(6/(fan_in + fan_out))),
// which keeps activation variance roughly constant across tanh/sigmoid layers.
func Xavier(fanIn, fanOut int, rng *rand.Rand) Initializer {
	bound := math.Sqrt(6.0 / float64(fanIn+fanOut))
	return Uniform(-bound, bound, rng)
}

// Constant returns c for every parameter. Useful in tests.
func Constant(c float64) Initializer {
	return func() float64 { return c }
}

// NewRand returns a deterministic generator for seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
