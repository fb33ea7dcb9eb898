package rng

import "math/rand"

// seededSource implements Source using math/rand with a fixed seed.
// It is the replay/testing implementation: the same seed always produces
// the same draw sequence.
//
// Not safe for concurrent use; the combat core is single-threaded and one
// session owns its source exclusively.
type seededSource struct {
	r *rand.Rand
}

// NewSeeded returns a deterministic Source seeded with seed.
//
// Postcondition: two sources created with equal seeds produce identical
// draw sequences.
func NewSeeded(seed int64) Source {
	return &seededSource{r: rand.New(rand.NewSource(seed))}
}

// Intn returns a random int in [0, n).
//
// Precondition: n > 0. Panics with "rng: Intn called with n <= 0" if n <= 0.
func (s *seededSource) Intn(n int) int {
	if n <= 0 {
		panic("rng: Intn called with n <= 0")
	}
	return s.r.Intn(n)
}

// Float64 returns a random float in [0, 1).
func (s *seededSource) Float64() float64 {
	return s.r.Float64()
}
