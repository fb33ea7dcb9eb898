package gear

import (
	"errors"
	"fmt"
)

// Magazine tracks loaded round count for one firearm instance.
//
// Invariant: 0 <= Loaded <= Capacity.
type Magazine struct {
	// WeaponID identifies the firearm this magazine belongs to.
	WeaponID string
	// AmmoID identifies the loaded ammunition type; empty when unloaded.
	AmmoID string
	// Loaded is the number of rounds currently available.
	Loaded int
	// Capacity is the maximum number of rounds the magazine can hold.
	Capacity int
}

// NewMagazine returns a fully loaded Magazine for the given weapon and ammo.
//
// Precondition:  capacity > 0 (panics otherwise).
// Postcondition: Loaded == Capacity == capacity.
func NewMagazine(weaponID, ammoID string, capacity int) *Magazine {
	if capacity <= 0 {
		panic(fmt.Sprintf("gear: NewMagazine: capacity must be > 0, got %d", capacity))
	}
	return &Magazine{
		WeaponID: weaponID,
		AmmoID:   ammoID,
		Loaded:   capacity,
		Capacity: capacity,
	}
}

// IsEmpty returns true when Loaded <= 0.
//
// Postcondition: result == (Loaded <= 0).
func (m *Magazine) IsEmpty() bool {
	return m.Loaded <= 0
}

// IsFull returns true when Loaded == Capacity.
func (m *Magazine) IsFull() bool {
	return m.Loaded >= m.Capacity
}

// Consume removes n rounds from the magazine.
//
// Precondition:  n > 0 (panics if n <= 0).
// Postcondition: on success Loaded decreases by n; returns error if Loaded < n.
func (m *Magazine) Consume(n int) error {
	if n <= 0 {
		panic(fmt.Sprintf("gear: Magazine.Consume: n must be > 0, got %d", n))
	}
	if m.Loaded < n {
		return errors.New("gear: Magazine.Consume: insufficient rounds loaded")
	}
	m.Loaded -= n
	return nil
}

// ConsumeUpTo removes at most n rounds, returning how many were actually
// consumed. Used for auto-fire malfunction waste, which may not exceed the
// remaining load.
//
// Precondition: n >= 0.
// Postcondition: 0 <= result <= n; Loaded decreases by result.
func (m *Magazine) ConsumeUpTo(n int) int {
	if n <= 0 {
		return 0
	}
	if n > m.Loaded {
		n = m.Loaded
	}
	m.Loaded -= n
	return n
}

// Reload restores Loaded to Capacity with the given ammunition type.
//
// Postcondition: Loaded == Capacity; AmmoID == ammoID.
func (m *Magazine) Reload(ammoID string) {
	m.AmmoID = ammoID
	m.Loaded = m.Capacity
}

// Clone returns a copy of the magazine.
func (m *Magazine) Clone() *Magazine {
	cp := *m
	return &cp
}
