// Package randutil centralises how deterministic random sources are derived
// from a single configured seed, so every consumer gets a reproducible but
// well-mixed sequence.
package randutil

import "math/rand"

const goldenRatio64 = 0x9e3779b97f4a7c15

// New returns a *rand.Rand seeded deterministically from the provided int64.
// The raw seed is mixed first so adjacent seeds produce unrelated streams.
func New(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(int64(mix(uint64(seed)))))
}

// Derive returns a fresh seed for a child source, keeping parent and child
// streams independent.
func Derive(rng *rand.Rand) int64 {
	return int64(mix(uint64(rng.Int63()) + goldenRatio64))
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
