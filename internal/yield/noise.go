package yield

import "math/rand/v2"

// Noise is a source of uniform values in [0, 1).
// *rand.Rand satisfies it.
type Noise interface {
	Float64() float64
}

// NewSeededNoise returns a PCG-backed generator. Two generators built from
// the same seed yield the same sequence.
func NewSeededNoise(seed uint64) Noise {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// FixedNoise always returns the same value. 0.5 gives zero perturbation.
type FixedNoise float64

func (n FixedNoise) Float64() float64 {
	return float64(n)
}
