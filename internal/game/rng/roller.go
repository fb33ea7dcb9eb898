package rng

import "go.uber.org/zap"

// Roller wraps a Source and logger to provide logged combat rolls.
// All rolls are logged at debug level with their purpose and result so a
// fight can be audited draw by draw.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewRoller creates a Roller that draws from src and logs each roll.
//
// Precondition: src and logger must be non-nil.
func NewRoller(src Source, logger *zap.Logger) *Roller {
	return &Roller{src: src, logger: logger}
}

// Intn draws an int in [0, n) and logs it.
//
// Precondition: n > 0.
func (r *Roller) Intn(n int) int {
	v := r.src.Intn(n)
	r.logger.Debug("roll intn", zap.Int("n", n), zap.Int("value", v))
	return v
}

// Float64 draws a float in [0, 1) and logs it.
func (r *Roller) Float64() float64 {
	v := r.src.Float64()
	r.logger.Debug("roll float", zap.Float64("value", v))
	return v
}

// Chance draws against probability p and logs the outcome.
//
// Precondition: none; p <= 0 always fails and p >= 1 always succeeds.
// Postcondition: returns true with probability min(max(p, 0), 1).
func Chance(src Source, p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return src.Float64() < p
}

// IntBetween draws a uniform int in [lo, hi] inclusive.
//
// Precondition: hi >= lo. Panics via Intn if hi < lo.
func IntBetween(src Source, lo, hi int) int {
	return lo + src.Intn(hi-lo+1)
}
