// Package config reads hexboard settings from HEXBOARD_* environment variables.
// Anything unset keeps its world.DefaultGenConfig value.
package config

import (
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/talgya/hexboard/internal/terrain"
	"github.com/talgya/hexboard/internal/world"
)

// MaxRadius bounds the board size; a board holds 3R²+3R+1 tiles.
const MaxRadius = 1000

// Config is everything cmd/hexboard needs to start.
type Config struct {
	Port        int
	LogLevel    slog.Level
	CORSOrigins []string
	RateLimit   int  // Requests per minute per client on line/area/path. 0 disables.
	TrustProxy  bool // Key the rate limit on X-Forwarded-For. Only behind a proxy that sets it.
	Gen         world.GenConfig
}

// Default returns the configuration used when no variables are set.
func Default() Config {
	return Config{
		Port:      8080,
		LogLevel:  slog.LevelInfo,
		RateLimit: 120,
		Gen:       world.DefaultGenConfig(),
	}
}

// Load reads the process environment.
func Load() (Config, error) {
	return FromEnv(os.Getenv)
}

// FromEnv reads configuration through getenv and validates it.
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Default()
	env := envReader{getenv: getenv}

	cfg.Port = env.getInt("HEXBOARD_PORT", cfg.Port)
	cfg.RateLimit = env.getInt("HEXBOARD_RATE_LIMIT", cfg.RateLimit)
	cfg.TrustProxy = env.getBool("HEXBOARD_TRUST_PROXY", cfg.TrustProxy)
	if lvl := getenv("HEXBOARD_LOG_LEVEL"); lvl != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(lvl)); err != nil {
			env.fail("HEXBOARD_LOG_LEVEL", err)
		}
	}
	if origins := getenv("HEXBOARD_CORS_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, o)
			}
		}
	}

	gen := &cfg.Gen
	gen.Radius = env.getInt("HEXBOARD_RADIUS", gen.Radius)
	gen.InnerRadius = env.getFloat("HEXBOARD_INNER_RADIUS", gen.InnerRadius)
	gen.HeightScale = env.getFloat("HEXBOARD_HEIGHT_SCALE", gen.HeightScale)

	t := &gen.Terrain
	if kind := getenv("HEXBOARD_GENERATOR"); kind != "" {
		k, err := terrain.ParseKind(kind)
		if err != nil {
			env.fail("HEXBOARD_GENERATOR", err)
		}
		t.Kind = k
	}
	t.Seed = env.getUint("HEXBOARD_SEED", t.Seed)
	t.FlatHeight = env.getFloat("HEXBOARD_FLAT_HEIGHT", t.FlatHeight)
	t.MinHeight = env.getInt("HEXBOARD_MIN_HEIGHT", t.MinHeight)
	t.MaxHeight = env.getInt("HEXBOARD_MAX_HEIGHT", t.MaxHeight)
	if steps := getenv("HEXBOARD_STEPS"); steps != "" {
		parsed, err := terrain.ParseSteps(steps)
		if err != nil {
			env.fail("HEXBOARD_STEPS", err)
		}
		t.Steps = parsed
	}

	if env.err != nil {
		return Config{}, env.err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks everything world.Generate would otherwise panic on.
func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return errors.Errorf("port %d out of range", c.Port)
	}
	if c.RateLimit < 0 {
		return errors.Errorf("rate limit must be >= 0, got %d", c.RateLimit)
	}
	if c.Gen.Radius < 0 || c.Gen.Radius > MaxRadius {
		return errors.Errorf("radius must be in [0, %d], got %d", MaxRadius, c.Gen.Radius)
	}
	if !(c.Gen.InnerRadius > 0) || math.IsInf(c.Gen.InnerRadius, 1) {
		return errors.Errorf("inner radius must be positive and finite, got %v", c.Gen.InnerRadius)
	}
	if math.IsNaN(c.Gen.HeightScale) || math.IsInf(c.Gen.HeightScale, 0) {
		return errors.Errorf("height scale must be finite, got %v", c.Gen.HeightScale)
	}
	return errors.Wrap(c.Gen.Terrain.Validate(), "terrain")
}

// envReader keeps the first parse failure so FromEnv can report it once.
type envReader struct {
	getenv func(string) string
	err    error
}

func (e *envReader) fail(key string, err error) {
	if e.err == nil {
		e.err = errors.Wrapf(err, "%s", key)
	}
}

func (e *envReader) getInt(key string, defaultVal int) int {
	v := e.getenv(key)
	if v == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		e.fail(key, err)
		return defaultVal
	}
	return n
}

func (e *envReader) getUint(key string, defaultVal uint64) uint64 {
	v := e.getenv(key)
	if v == "" {
		return defaultVal
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		e.fail(key, err)
		return defaultVal
	}
	return n
}

func (e *envReader) getFloat(key string, defaultVal float64) float64 {
	v := e.getenv(key)
	if v == "" {
		return defaultVal
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		e.fail(key, err)
		return defaultVal
	}
	return f
}

func (e *envReader) getBool(key string, defaultVal bool) bool {
	v := e.getenv(key)
	if v == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		e.fail(key, err)
		return defaultVal
	}
	return b
}
