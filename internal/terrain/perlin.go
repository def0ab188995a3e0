package terrain

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"

	"github.com/talgya/hexboard/internal/hex"
)

// Step is one octave of fractal noise. A tile (q, r) is sampled at
// (q*XFreq, r*YFreq). Integer frequencies land every sample on a lattice
// point, where gradient noise is always zero; use fractional ones.
type Step struct {
	XFreq     float64 `json:"x_freq"`
	YFreq     float64 `json:"y_freq"`
	Magnitude float64 `json:"magnitude"`
}

// NewStep is shorthand for a Step literal.
func NewStep(xFreq, yFreq, magnitude float64) Step {
	return Step{XFreq: xFreq, YFreq: yFreq, Magnitude: magnitude}
}

// contribution scales a noise sample in roughly [-1, 1] into a step's share of the height.
// Every step and both noise generators use (noise*2 + 1) * magnitude.
func (s Step) contribution(noise float64) float64 {
	return (noise*2 + 1) * s.Magnitude
}

func checkSteps(steps []Step) error {
	for i, s := range steps {
		for _, v := range []float64{s.XFreq, s.YFreq, s.Magnitude} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return errors.Errorf("step %d has non-finite parameter %v", i, v)
			}
		}
	}
	return nil
}

func validateSteps(steps []Step) {
	if err := checkSteps(steps); err != nil {
		panic(errors.Wrap(err, "terrain"))
	}
}

// DefaultSteps is a three-octave profile: broad hills, ridges, surface detail.
func DefaultSteps() []Step {
	return []Step{
		NewStep(0.055, 0.055, 6),
		NewStep(0.17, 0.17, 2),
		NewStep(0.43, 0.43, 0.5),
	}
}

// Perlin sums gradient-noise octaves. Gradients come from SeededHash of each
// lattice point instead of a permutation table.
type Perlin struct {
	steps []Step
	seed  uint64
}

const (
	gradientXTag = "Perlin X Dir"
	gradientYTag = "Perlin Y Dir"
)

// NewPerlin builds a fractal Perlin generator. Seed 0 picks a random seed.
// The steps slice is copied; order is preserved.
func NewPerlin(steps []Step, seed uint64) *Perlin {
	validateSteps(steps)
	return &Perlin{
		steps: append([]Step(nil), steps...),
		seed:  resolveSeed(seed),
	}
}

// Generate sums every step's contribution at the tile.
func (p *Perlin) Generate(c hex.HexCoord) float64 {
	height := 0.0
	for _, s := range p.steps {
		n := p.Noise(float64(c.Q)*s.XFreq, float64(c.R)*s.YFreq)
		height += s.contribution(n)
	}
	return height
}

func (p *Perlin) Name() string { return string(KindPerlin) }

// Seed returns the effective seed.
func (p *Perlin) Seed() uint64 { return p.seed }

// Steps returns a copy of the octave list.
func (p *Perlin) Steps() []Step {
	return append([]Step(nil), p.steps...)
}

// gradient returns the unit gradient at a lattice point.
func (p *Perlin) gradient(ix, iy int64) mgl64.Vec2 {
	b := latticeBytes(ix, iy)
	g := mgl64.Vec2{
		unitFloat(SeededHash(b[:], p.seed, gradientXTag)),
		unitFloat(SeededHash(b[:], p.seed, gradientYTag)),
	}
	if g.Len() == 0 {
		return mgl64.Vec2{1, 0}
	}
	return g.Normalize()
}

// Noise samples 2-D gradient noise at (x, y). Output lies within ±sqrt(2)/2.
func (p *Perlin) Noise(x, y float64) float64 {
	x0 := math.Floor(x)
	y0 := math.Floor(y)
	ix := int64(x0)
	iy := int64(y0)
	v := mgl64.Vec2{x, y}

	v0 := mgl64.Vec2{x0, y0}
	v1 := mgl64.Vec2{x0 + 1, y0}
	v2 := mgl64.Vec2{x0, y0 + 1}
	v3 := mgl64.Vec2{x0 + 1, y0 + 1}

	d0 := p.gradient(ix, iy).Dot(v.Sub(v0))
	d1 := p.gradient(ix+1, iy).Dot(v.Sub(v1))
	d2 := p.gradient(ix, iy+1).Dot(v.Sub(v2))
	d3 := p.gradient(ix+1, iy+1).Dot(v.Sub(v3))

	tx := fade(x - x0)
	ty := fade(y - y0)

	bottom := (1-tx)*d0 + tx*d1
	top := (1-tx)*d2 + tx*d3
	return (1-ty)*bottom + ty*top
}

// fade is the smootherstep curve 6t^5 - 15t^4 + 10t^3.
func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}
