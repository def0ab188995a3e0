package hex

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

// DefaultInnerRadius is the apothem used when no configuration overrides it.
const DefaultInnerRadius = 0.88

var sqrt3 = math.Sqrt(3)

// Layout holds the grid geometry for one map instance. The inner radius is the
// single tunable; the other three are derived from it on construction and never
// set independently. The zero value is not usable; build one with NewLayout.
type Layout struct {
	innerRadius   float64
	circumradius  float64
	smallDiameter float64
	largeDiameter float64
}

// NewLayout derives the grid geometry from the apothem (inner radius).
// Panics if innerRadius is not a positive finite number.
func NewLayout(innerRadius float64) Layout {
	if !(innerRadius > 0) || math.IsInf(innerRadius, 1) {
		panic(errors.Errorf("hex: inner radius must be positive and finite, got %v", innerRadius))
	}
	circumradius := innerRadius * math.Sqrt(4.0/3.0)
	return Layout{
		innerRadius:   innerRadius,
		circumradius:  circumradius,
		smallDiameter: 2 * innerRadius,
		largeDiameter: 2 * circumradius,
	}
}

// WithInnerRadius returns a layout with every derived constant recomputed.
func (l Layout) WithInnerRadius(innerRadius float64) Layout {
	return NewLayout(innerRadius)
}

// InnerRadius returns the apothem: center to the middle of an edge.
func (l Layout) InnerRadius() float64 { return l.innerRadius }

// Circumradius returns the distance from center to a corner.
func (l Layout) Circumradius() float64 { return l.circumradius }

// SmallDiameter returns the edge-to-edge width.
func (l Layout) SmallDiameter() float64 { return l.smallDiameter }

// LargeDiameter returns the corner-to-corner width.
func (l Layout) LargeDiameter() float64 { return l.largeDiameter }

// planar projects an axial coordinate onto the ground plane.
func (l Layout) planar(c HexCoord) (x, z float64) {
	q := float64(c.Q)
	r := float64(c.R)
	x = l.circumradius * sqrt3 * (q + r/2)
	z = l.circumradius * 1.5 * r
	return x, z
}

// fromPlanar inverts planar into fractional axial space and rounds.
func (l Layout) fromPlanar(x, z float64) HexCoord {
	fx := (sqrt3*x - z) / 3 / l.circumradius
	fy := (2.0 / 3.0 * z) / l.circumradius
	return Round(fx, fy)
}

// ToWorld returns the 2-D center of a tile (x, y).
func (l Layout) ToWorld(c HexCoord) mgl64.Vec2 {
	x, y := l.planar(c)
	return mgl64.Vec2{x, y}
}

// ToWorld3 returns the 3-D center of a tile with y as the vertical axis.
// height is already in world units; scaling terrain heights is up to the caller.
func (l Layout) ToWorld3(c HexCoord, height float64) mgl64.Vec3 {
	x, z := l.planar(c)
	return mgl64.Vec3{x, height, z}
}

// FromWorld returns the tile containing a 2-D point.
func (l Layout) FromWorld(p mgl64.Vec2) HexCoord {
	return l.fromPlanar(p[0], p[1])
}

// FromWorld3 returns the tile under a 3-D point. Height (y) is ignored.
func (l Layout) FromWorld3(p mgl64.Vec3) HexCoord {
	return l.fromPlanar(p[0], p[2])
}

// LineBetween returns the tiles on a straight line from a to b, both inclusive,
// Distance(a, b)+1 of them. Points are interpolated between the two tile centers
// in world space and converted back with FromWorld.
func (l Layout) LineBetween(a, b HexCoord) []HexCoord {
	n := Distance(a, b)
	if n == 0 {
		return []HexCoord{a}
	}
	pa := l.ToWorld(a)
	pb := l.ToWorld(b)
	line := make([]HexCoord, 0, n+1)
	for i := 0; i <= n; i++ {
		t := float64(i) / float64(n)
		// a*(1-t) + b*t lands exactly on both endpoints.
		p := pa.Mul(1 - t).Add(pb.Mul(t))
		line = append(line, l.FromWorld(p))
	}
	return line
}
