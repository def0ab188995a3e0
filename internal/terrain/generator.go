package terrain

import (
	"github.com/pkg/errors"

	"github.com/talgya/hexboard/internal/hex"
)

// Generator produces a raw, unclamped height for a tile.
// Implementations must be deterministic and must not mutate on Generate,
// so one instance can be read from many goroutines.
type Generator interface {
	Generate(c hex.HexCoord) float64
	Name() string
}

// Seeded is implemented by generators whose output depends on a seed.
type Seeded interface {
	Seed() uint64
}

// Flat returns the same height everywhere.
type Flat struct {
	Height float64
}

// Generate returns the constant height.
func (f Flat) Generate(hex.HexCoord) float64 { return f.Height }

func (f Flat) Name() string { return string(KindFlat) }

// Random rolls a uniform height in [min, max) per tile from a keyed hash of the
// tile's canonical bytes.
type Random struct {
	min  int
	max  int
	seed uint64
}

const randomTag = "Random Height Map"

// NewRandom builds a uniform random generator. Seed 0 picks a random seed.
// Panics unless max > min.
func NewRandom(min, max int, seed uint64) *Random {
	if max <= min {
		panic(errors.Errorf("terrain: random generator needs max > min, got min=%d max=%d", min, max))
	}
	return &Random{min: min, max: max, seed: resolveSeed(seed)}
}

// Generate returns hash % (max-min) + min.
func (g *Random) Generate(c hex.HexCoord) float64 {
	return float64(g.roll(c))
}

// roll works in uint64 so that spans wider than MaxInt64 do not wrap.
func (g *Random) roll(c hex.HexCoord) int64 {
	b := c.Bytes()
	h := SeededHash(b[:], g.seed, randomTag)
	span := uint64(int64(g.max)) - uint64(int64(g.min))
	return int64(uint64(int64(g.min)) + h%span)
}

func (g *Random) Name() string { return string(KindRandom) }

// Seed returns the effective seed.
func (g *Random) Seed() uint64 { return g.seed }
