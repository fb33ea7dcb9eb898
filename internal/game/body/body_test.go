package body_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/hexforged/scourge/internal/game/body"
	"github.com/hexforged/scourge/internal/game/rng"
)

func TestLethal(t *testing.T) {
	assert.True(t, body.Lethal(body.PartHead))
	assert.True(t, body.Lethal(body.PartTorso))
	assert.False(t, body.Lethal(body.PartLeftArm))
	assert.False(t, body.Lethal(body.PartRightLeg))
}

func TestValid(t *testing.T) {
	for _, p := range body.All() {
		assert.True(t, body.Valid(p))
	}
	assert.False(t, body.Valid(body.Part("tail")))
}

func TestDisplayName_FallsBackToIdentifier(t *testing.T) {
	assert.Equal(t, "Torso", body.DisplayName(body.PartTorso))
	assert.Equal(t, "tail", body.DisplayName(body.Part("tail")))
}

func TestPickWeighted_TorsoDominates(t *testing.T) {
	// Torso weight is 50/110; over many draws it must land near half.
	src := rng.NewSeeded(11)
	counts := map[body.Part]int{}
	const n = 20000
	for i := 0; i < n; i++ {
		counts[body.PickWeighted(src, body.DamageWeights())]++
	}
	torso := float64(counts[body.PartTorso]) / n
	assert.Greater(t, torso, 0.40)
	assert.Less(t, torso, 0.52)
	head := float64(counts[body.PartHead]) / n
	assert.Greater(t, head, 0.13)
	assert.Less(t, head, 0.24)
}

func TestPickWeighted_PanicsOnZeroWeights(t *testing.T) {
	src := rng.NewSeeded(1)
	assert.Panics(t, func() {
		body.PickWeighted(src, []body.Weight{{body.PartHead, 0}})
	})
}

func TestMeleeWeights_PanicsOnNonPositiveScale(t *testing.T) {
	assert.Panics(t, func() { body.MeleeWeights(0) })
}

func TestPropertyPickWeighted_AlwaysReturnsListedPart(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		seed := rapid.Int64().Draw(t, "seed")
		scale := rapid.Float64Range(0.1, 5).Draw(t, "scale")
		src := rng.NewSeeded(seed)
		got := body.PickWeighted(src, body.MeleeWeights(scale))
		assert.True(t, body.Valid(got))
	})
}
