// Package hex provides the axial coordinate system for the board.
// Uses axial coordinates (q, r); the third cube coordinate s = -q - r is implicit.
// See DESIGN.md, "internal/hex".
package hex

import (
	"encoding/binary"
	"fmt"
	"math"
)

// HexCoord represents a position on the hex grid using axial coordinates.
// The third cube coordinate s is derived: s = -q - r.
type HexCoord struct {
	Q int `json:"q"`
	R int `json:"r"`
}

// Origin is the center tile of every board.
var Origin = HexCoord{}

// S returns the implicit third cube coordinate.
func (h HexCoord) S() int {
	return -h.Q - h.R
}

// Add returns h + o component-wise.
func (h HexCoord) Add(o HexCoord) HexCoord {
	return HexCoord{Q: h.Q + o.Q, R: h.R + o.R}
}

// Sub returns h - o component-wise.
func (h HexCoord) Sub(o HexCoord) HexCoord {
	return HexCoord{Q: h.Q - o.Q, R: h.R - o.R}
}

// Scale multiplies both components by k.
func (h HexCoord) Scale(k int) HexCoord {
	return HexCoord{Q: h.Q * k, R: h.R * k}
}

// Bytes returns the canonical 8-byte encoding: Q then R, each a little-endian int32.
// Hash-based height generators key on this encoding.
func (h HexCoord) Bytes() [8]byte {
	var b [8]byte
	binary.LittleEndian.PutUint32(b[0:4], uint32(int32(h.Q)))
	binary.LittleEndian.PutUint32(b[4:8], uint32(int32(h.R)))
	return b
}

func (h HexCoord) String() string {
	return fmt.Sprintf("(%d,%d)", h.Q, h.R)
}

// Directions defines the six neighbor offsets in axial coordinates.
var Directions = [6]HexCoord{
	{Q: 1, R: 0},
	{Q: 1, R: -1},
	{Q: 0, R: -1},
	{Q: -1, R: 0},
	{Q: -1, R: 1},
	{Q: 0, R: 1},
}

// Neighbors returns the six adjacent hex coordinates.
func (h HexCoord) Neighbors() [6]HexCoord {
	var result [6]HexCoord
	for i, dir := range Directions {
		result[i] = h.Add(dir)
	}
	return result
}

// DistanceTo is the method form of Distance.
func (h HexCoord) DistanceTo(o HexCoord) int {
	return Distance(h, o)
}

// WithinRadius is the method form of WithinRadius.
func (h HexCoord) WithinRadius(radius int) []HexCoord {
	return WithinRadius(h, radius)
}

// Distance returns the hex distance between two coordinates.
// Half the cube-coordinate Manhattan distance.
func Distance(a, b HexCoord) int {
	dq := a.Q - b.Q
	dr := a.R - b.R
	return (abs(dq) + abs(dq+dr) + abs(dr)) / 2
}

// WithinRadius returns every coordinate at most radius steps from center,
// 3*radius^2 + 3*radius + 1 of them, each exactly once. A negative radius yields none.
func WithinRadius(center HexCoord, radius int) []HexCoord {
	if radius < 0 {
		return nil
	}
	within := make([]HexCoord, 0, 3*radius*radius+3*radius+1)
	for dq := -radius; dq <= radius; dq++ {
		// ds = -dq-dr must stay within [-radius, radius] as well.
		lo := max(-radius, -dq-radius)
		hi := min(radius, -dq+radius)
		for dr := lo; dr <= hi; dr++ {
			within = append(within, HexCoord{Q: center.Q + dq, R: center.R + dr})
		}
	}
	return within
}

// Ring returns the 6*radius coordinates exactly radius steps from center,
// starting at the Directions[4] corner. Radius 0 yields the center.
func Ring(center HexCoord, radius int) []HexCoord {
	if radius < 0 {
		return nil
	}
	if radius == 0 {
		return []HexCoord{center}
	}
	ring := make([]HexCoord, 0, 6*radius)
	cur := center.Add(Directions[4].Scale(radius))
	for side := 0; side < 6; side++ {
		for step := 0; step < radius; step++ {
			ring = append(ring, cur)
			cur = cur.Add(Directions[side])
		}
	}
	return ring
}

// Round converts fractional axial coordinates to the nearest valid HexCoord.
// Whichever axis carries the larger rounding error is corrected using half the
// other's remainder, which keeps q + r + s == 0.
func Round(fx, fy float64) HexCoord {
	gx := math.Round(fx)
	gy := math.Round(fy)
	rx := fx - gx
	ry := fy - gy
	if math.Abs(rx) >= math.Abs(ry) {
		gx += math.Round(rx + 0.5*ry)
	} else {
		gy += math.Round(ry + 0.5*rx)
	}
	return HexCoord{Q: int(gx), R: int(gy)}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
