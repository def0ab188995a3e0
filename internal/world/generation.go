// Board generation: lays out every tile within the radius and samples its height.
package world

import (
	"log/slog"
	"sort"

	"github.com/talgya/hexboard/internal/hex"
	"github.com/talgya/hexboard/internal/terrain"
)

// GenConfig holds board generation parameters.
type GenConfig struct {
	Radius      int            // Board radius in tiles (50 → 7651 tiles)
	InnerRadius float64        // Tile apothem in world units
	HeightScale float64        // World units per terrain height unit
	Terrain     terrain.Config // Height generator and its seed
}

// DefaultGenConfig returns a full-size board with Perlin terrain.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		Radius:      50,
		InnerRadius: hex.DefaultInnerRadius,
		HeightScale: 0.25,
		Terrain:     terrain.DefaultConfig(),
	}
}

// SmallTestConfig returns a tiny, fixed-seed board for rapid iteration.
func SmallTestConfig() GenConfig {
	cfg := DefaultGenConfig()
	cfg.Radius = 5
	cfg.Terrain.Seed = 42
	return cfg
}

// Generate builds a complete board. Panics on invalid geometry or generator
// parameters; config.Load rejects those before they get here.
func Generate(cfg GenConfig) *Map {
	layout := hex.NewLayout(cfg.InnerRadius)
	field := terrain.NewField(terrain.New(cfg.Terrain))

	m := NewMap(cfg.Radius, layout, field, cfg.HeightScale)
	for _, coord := range hex.WithinRadius(hex.Origin, cfg.Radius) {
		h := field.Height(coord)
		m.Set(&Tile{
			Coord:    coord,
			Height:   h,
			Position: m.position(coord, h),
		})
	}

	attrs := []any{
		"radius", m.Radius,
		"tiles", m.TileCount(),
		"generator", field.Generator().Name(),
		"circumradius", layout.Circumradius(),
	}
	if s, ok := field.Generator().(terrain.Seeded); ok {
		attrs = append(attrs, "seed", s.Seed())
	}
	slog.Info("board generated", attrs...)

	return m
}

// HeightCounts returns how many tiles sit at each height.
func HeightCounts(m *Map) map[int]int {
	counts := make(map[int]int)
	for _, t := range m.Tiles {
		counts[t.Height]++
	}
	return counts
}

// Heights returns the distinct heights on the board in ascending order.
func Heights(counts map[int]int) []int {
	hs := make([]int, 0, len(counts))
	for h := range counts {
		hs = append(hs, h)
	}
	sort.Ints(hs)
	return hs
}
