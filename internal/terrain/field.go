package terrain

import (
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/talgya/hexboard/internal/hex"
)

// MaxHeight caps generated heights so they always fit an int32.
const MaxHeight = math.MaxInt32

// Field maps tiles to integer heights of at least 1.
// It holds no per-tile state and is safe for concurrent use.
type Field struct {
	gen Generator
}

// NewField wraps a generator. Panics on nil.
func NewField(gen Generator) *Field {
	if gen == nil {
		panic(errors.New("terrain: nil generator"))
	}
	return &Field{gen: gen}
}

// Height returns the floored, clamped height of a tile. Never less than 1.
func (f *Field) Height(c hex.HexCoord) int {
	raw := math.Floor(f.gen.Generate(c))
	switch {
	case math.IsNaN(raw) || raw < 1:
		return 1
	case raw > MaxHeight:
		return MaxHeight
	}
	return int(raw)
}

// Generator returns the wrapped generator.
func (f *Field) Generator() Generator {
	return f.gen
}

// Kind names a generator variant.
type Kind string

const (
	KindFlat    Kind = "flat"
	KindRandom  Kind = "random"
	KindPerlin  Kind = "perlin"
	KindSimplex Kind = "simplex"
)

// ParseKind accepts a variant name, case-insensitively.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	switch k {
	case KindFlat, KindRandom, KindPerlin, KindSimplex:
		return k, nil
	}
	return "", errors.Errorf("unknown generator %q (want flat, random, perlin or simplex)", s)
}

// Config selects a generator variant and its parameters.
type Config struct {
	Kind       Kind
	Seed       uint64  // 0 = random
	FlatHeight float64 // flat only
	MinHeight  int     // random only
	MaxHeight  int     // random only, exclusive
	Steps      []Step  // perlin and simplex
}

// DefaultConfig returns a Perlin profile with a random seed.
func DefaultConfig() Config {
	return Config{
		Kind:       KindPerlin,
		FlatHeight: 1,
		MinHeight:  1,
		MaxHeight:  8,
		Steps:      DefaultSteps(),
	}
}

// New builds the generator cfg describes. Invalid parameters panic the same
// way the individual constructors do; validate untrusted input first.
func New(cfg Config) Generator {
	switch cfg.Kind {
	case KindFlat:
		return Flat{Height: cfg.FlatHeight}
	case KindRandom:
		return NewRandom(cfg.MinHeight, cfg.MaxHeight, cfg.Seed)
	case KindSimplex:
		return NewSimplex(cfg.Steps, cfg.Seed)
	case KindPerlin, "":
		return NewPerlin(cfg.Steps, cfg.Seed)
	}
	panic(errors.Errorf("terrain: unknown generator kind %q", cfg.Kind))
}

// Validate reports the precondition violations New would panic on.
func (cfg Config) Validate() error {
	switch cfg.Kind {
	case KindRandom:
		if cfg.MaxHeight <= cfg.MinHeight {
			return errors.Errorf("random generator needs max > min, got min=%d max=%d", cfg.MinHeight, cfg.MaxHeight)
		}
	case KindPerlin, KindSimplex, "":
		return checkSteps(cfg.Steps)
	case KindFlat:
	default:
		return errors.Errorf("unknown generator kind %q", cfg.Kind)
	}
	return nil
}

// ParseSteps reads a comma-separated list of xfreq:yfreq:magnitude triples,
// e.g. "0.05:0.05:6,0.2:0.2:1.5".
func ParseSteps(s string) ([]Step, error) {
	var steps []Step
	for i, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		fields := strings.Split(part, ":")
		if len(fields) != 3 {
			return nil, errors.Errorf("step %d: want xfreq:yfreq:magnitude, got %q", i, part)
		}
		var vals [3]float64
		for j, f := range fields {
			v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
			if err != nil {
				return nil, errors.Wrapf(err, "step %d", i)
			}
			vals[j] = v
		}
		steps = append(steps, NewStep(vals[0], vals[1], vals[2]))
	}
	return steps, nil
}
