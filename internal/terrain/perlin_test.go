package terrain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/hexboard/internal/hex"
)

func TestFade(t *testing.T) {
	assert.Equal(t, 0.0, fade(0))
	assert.Equal(t, 1.0, fade(1))
	assert.InDelta(t, 0.5, fade(0.5), 1e-12)
	assert.InDelta(t, 6*math.Pow(0.3, 5)-15*math.Pow(0.3, 4)+10*math.Pow(0.3, 3), fade(0.3), 1e-12)
}

func TestPerlinNoiseZeroOnLattice(t *testing.T) {
	p := NewPerlin(DefaultSteps(), 42)
	for x := -3.0; x <= 3; x++ {
		for y := -3.0; y <= 3; y++ {
			assert.InDelta(t, 0, p.Noise(x, y), 1e-12)
		}
	}
}

func TestPerlinNoiseBounded(t *testing.T) {
	p := NewPerlin(nil, 7)
	limit := math.Sqrt2/2 + 1e-9
	nonzero := 0
	for x := -5.0; x < 5; x += 0.137 {
		for y := -5.0; y < 5; y += 0.173 {
			n := p.Noise(x, y)
			require.LessOrEqual(t, math.Abs(n), limit, "noise(%v, %v)", x, y)
			if math.Abs(n) > 1e-6 {
				nonzero++
			}
		}
	}
	assert.Greater(t, nonzero, 100)
}

func TestPerlinNoiseContinuous(t *testing.T) {
	p := NewPerlin(nil, 3)
	// Crossing a lattice line must not jump.
	for _, y := range []float64{-1.3, 0.25, 2.7} {
		below := p.Noise(1-1e-9, y)
		above := p.Noise(1+1e-9, y)
		assert.InDelta(t, below, above, 1e-6)
	}
}

func TestPerlinGradientsAreUnit(t *testing.T) {
	p := NewPerlin(nil, 5)
	for i := int64(-10); i <= 10; i++ {
		g := p.gradient(i, -i*3)
		assert.InDelta(t, 1, g.Len(), 1e-12)
	}
}

func TestPerlinDeterministic(t *testing.T) {
	steps := DefaultSteps()
	a := NewField(NewPerlin(steps, 2024))
	b := NewField(NewPerlin(steps, 2024))
	for _, c := range sample {
		require.Equal(t, a.Height(c), b.Height(c))
		require.Equal(t, a.Height(c), a.Height(c))
	}
}

func TestPerlinSeedsDiffer(t *testing.T) {
	steps := []Step{NewStep(0.31, 0.29, 100)}
	a := NewPerlin(steps, 1)
	b := NewPerlin(steps, 2)
	diff := 0
	for _, c := range sample {
		if a.Generate(c) != b.Generate(c) {
			diff++
		}
	}
	assert.Greater(t, diff, len(sample)*9/10)
}

func TestPerlinSumsSteps(t *testing.T) {
	s1 := NewStep(0.21, 0.33, 5)
	s2 := NewStep(0.57, 0.11, 2)
	both := NewPerlin([]Step{s1, s2}, 17)
	one := NewPerlin([]Step{s1}, 17)
	two := NewPerlin([]Step{s2}, 17)
	reversed := NewPerlin([]Step{s2, s1}, 17)
	for _, c := range sample {
		assert.InDelta(t, one.Generate(c)+two.Generate(c), both.Generate(c), 1e-9)
		assert.InDelta(t, both.Generate(c), reversed.Generate(c), 1e-9)
	}
	assert.Equal(t, []Step{s2, s1}, reversed.Steps())
}

func TestPerlinStepContribution(t *testing.T) {
	// At the origin every sample is a lattice point, so noise is 0 and each
	// step contributes exactly its magnitude.
	p := NewPerlin([]Step{NewStep(0.3, 0.3, 4), NewStep(0.7, 0.7, 2.5)}, 1)
	assert.InDelta(t, 6.5, p.Generate(hex.Origin), 1e-12)
	assert.Equal(t, 6, NewField(p).Height(hex.Origin))
}

func TestPerlinCopiesSteps(t *testing.T) {
	steps := []Step{NewStep(0.3, 0.3, 4)}
	p := NewPerlin(steps, 1)
	steps[0].Magnitude = 1000
	assert.InDelta(t, 4, p.Generate(hex.Origin), 1e-12)
}

func TestPerlinRejectsNonFiniteSteps(t *testing.T) {
	assert.Panics(t, func() { NewPerlin([]Step{NewStep(math.Inf(1), 0.1, 1)}, 1) })
	assert.Panics(t, func() { NewSimplex([]Step{NewStep(0.1, 0.1, math.NaN())}, 1) })
}

func TestSimplexDeterministic(t *testing.T) {
	a := NewField(NewSimplex(DefaultSteps(), 5150))
	b := NewField(NewSimplex(DefaultSteps(), 5150))
	varied := make(map[int]bool)
	for _, c := range sample {
		require.Equal(t, a.Height(c), b.Height(c))
		varied[a.Height(c)] = true
	}
	assert.Greater(t, len(varied), 3)
	assert.Equal(t, uint64(5150), a.Generator().(Seeded).Seed())
}
