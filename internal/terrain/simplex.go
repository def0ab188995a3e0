package terrain

import (
	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/talgya/hexboard/internal/hex"
)

// Simplex is a drop-in alternative to Perlin backed by OpenSimplex noise,
// for maps that want better noise quality than hash gradients give.
// Steps mean the same thing for both.
type Simplex struct {
	steps []Step
	seed  uint64
	noise opensimplex.Noise
}

// NewSimplex builds a fractal OpenSimplex generator. Seed 0 picks a random seed.
func NewSimplex(steps []Step, seed uint64) *Simplex {
	validateSteps(steps)
	seed = resolveSeed(seed)
	return &Simplex{
		steps: append([]Step(nil), steps...),
		seed:  seed,
		noise: opensimplex.New(int64(seed)),
	}
}

// Generate sums every step's contribution at the tile.
func (s *Simplex) Generate(c hex.HexCoord) float64 {
	height := 0.0
	for _, st := range s.steps {
		n := s.noise.Eval2(float64(c.Q)*st.XFreq, float64(c.R)*st.YFreq)
		height += st.contribution(n)
	}
	return height
}

func (s *Simplex) Name() string { return string(KindSimplex) }

// Seed returns the effective seed.
func (s *Simplex) Seed() uint64 { return s.seed }

// Steps returns a copy of the octave list.
func (s *Simplex) Steps() []Step {
	return append([]Step(nil), s.steps...)
}
