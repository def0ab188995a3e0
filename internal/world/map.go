// Package world provides the board: every tile within a radius of the origin,
// with its terrain height and render position precomputed.
// See DESIGN.md, "internal/world".
package world

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/talgya/hexboard/internal/hex"
	"github.com/talgya/hexboard/internal/movement"
	"github.com/talgya/hexboard/internal/terrain"
)

// Tile is a single board position.
type Tile struct {
	Coord    hex.HexCoord `json:"coord"`
	Height   int          `json:"height"`   // terrain units, >= 1
	Position mgl64.Vec3   `json:"position"` // world units, y up
}

// Map holds the board. It is read-only once Generate returns, so it can be
// shared between goroutines without locking.
type Map struct {
	Tiles       map[hex.HexCoord]*Tile `json:"-"` // All tiles keyed by coordinate
	Radius      int                    `json:"radius"`
	HeightScale float64                `json:"height_scale"` // world units per terrain unit
	Layout      hex.Layout             `json:"-"`
	Field       *terrain.Field         `json:"-"`
}

// NewMap creates an empty map. A board of radius R holds the tiles at most R
// steps from the origin.
func NewMap(radius int, layout hex.Layout, field *terrain.Field, heightScale float64) *Map {
	return &Map{
		Tiles:       make(map[hex.HexCoord]*Tile, 3*radius*radius+3*radius+1),
		Radius:      radius,
		HeightScale: heightScale,
		Layout:      layout,
		Field:       field,
	}
}

// Get returns the tile at the given coordinate, or nil if out of bounds.
func (m *Map) Get(coord hex.HexCoord) *Tile {
	return m.Tiles[coord]
}

// Set places a tile at its coordinate.
func (m *Map) Set(tile *Tile) {
	m.Tiles[tile.Coord] = tile
}

// InBounds returns true if the coordinate is within the map radius.
func (m *Map) InBounds(coord hex.HexCoord) bool {
	return hex.Distance(hex.Origin, coord) <= m.Radius
}

// Height returns the terrain height at coord. Off-board coordinates are
// evaluated straight from the field.
func (m *Map) Height(coord hex.HexCoord) int {
	if t := m.Get(coord); t != nil {
		return t.Height
	}
	return m.Field.Height(coord)
}

// Position returns where a piece stands on coord, height scaled to world units.
func (m *Map) Position(coord hex.HexCoord) mgl64.Vec3 {
	if t := m.Get(coord); t != nil {
		return t.Position
	}
	return m.position(coord, m.Field.Height(coord))
}

func (m *Map) position(coord hex.HexCoord, height int) mgl64.Vec3 {
	return m.Layout.ToWorld3(coord, float64(height)*m.HeightScale)
}

// Pick returns the tile under a 3-D world point, or nil if it is off the board.
func (m *Map) Pick(p mgl64.Vec3) *Tile {
	return m.Get(m.Layout.FromWorld3(p))
}

// PickPlanar is Pick for a 2-D point (x, z).
func (m *Map) PickPlanar(p mgl64.Vec2) *Tile {
	return m.Get(m.Layout.FromWorld(p))
}

// Line returns the tiles on a straight line between two coordinates, inclusive.
func (m *Map) Line(from, to hex.HexCoord) []hex.HexCoord {
	return m.Layout.LineBetween(from, to)
}

// Area returns the on-board tiles within radius of center.
func (m *Map) Area(center hex.HexCoord, radius int) []*Tile {
	var tiles []*Tile
	for _, c := range hex.WithinRadius(center, radius) {
		if t := m.Get(c); t != nil {
			tiles = append(tiles, t)
		}
	}
	return tiles
}

// Plan lays out a straight-line move from one tile to another at speed world
// units per second.
func (m *Map) Plan(from, to hex.HexCoord, speed float64) movement.Path {
	return movement.Plan(m, m.Line(from, to), speed)
}

// TileCount returns the total number of tiles on the board.
func (m *Map) TileCount() int {
	return len(m.Tiles)
}

// String returns a summary of the map.
func (m *Map) String() string {
	return fmt.Sprintf("Map(radius=%d, tiles=%d, generator=%s)", m.Radius, m.TileCount(), m.Field.Generator().Name())
}
