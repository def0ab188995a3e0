// Package movement plans a piece's walk across tiles as a series of timed
// straight legs. Callers sample a Path with the time elapsed since the move
// started; nothing here reads a clock.
package movement

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"

	"github.com/talgya/hexboard/internal/hex"
)

// Positioner gives the render position of a tile, height included.
type Positioner interface {
	Position(c hex.HexCoord) mgl64.Vec3
}

// Waypoint is one tile on a path and where a piece stands on it.
type Waypoint struct {
	Coord    hex.HexCoord `json:"coord"`
	Position mgl64.Vec3   `json:"position"`
}

// Leg moves at constant speed from one waypoint to the next.
// Start and End are offsets from the beginning of the path.
type Leg struct {
	From  Waypoint      `json:"from"`
	To    Waypoint      `json:"to"`
	Start time.Duration `json:"start"`
	End   time.Duration `json:"end"`
}

// PositionAt interpolates along the leg, clamped to its endpoints.
func (l Leg) PositionAt(elapsed time.Duration) mgl64.Vec3 {
	if elapsed <= l.Start {
		return l.From.Position
	}
	if elapsed >= l.End {
		return l.To.Position
	}
	frac := float64(elapsed-l.Start) / float64(l.End-l.Start)
	return l.From.Position.Add(l.To.Position.Sub(l.From.Position).Mul(frac))
}

// Path is a planned multi-tile move.
type Path struct {
	Waypoints []Waypoint `json:"waypoints"`
	Legs      []Leg      `json:"legs"`
	Speed     float64    `json:"speed"` // world units per second
}

// Plan builds a path through line, one leg per consecutive pair, each leg
// starting when the previous one ends. Repeated tiles give zero-length legs.
// Panics unless speed is positive and finite.
func Plan(pos Positioner, line []hex.HexCoord, speed float64) Path {
	if !(speed > 0) || math.IsInf(speed, 1) {
		panic(errors.Errorf("movement: speed must be positive and finite, got %v", speed))
	}

	p := Path{
		Waypoints: make([]Waypoint, len(line)),
		Speed:     speed,
	}
	for i, c := range line {
		p.Waypoints[i] = Waypoint{Coord: c, Position: pos.Position(c)}
	}

	var at time.Duration
	for i := 1; i < len(p.Waypoints); i++ {
		from, to := p.Waypoints[i-1], p.Waypoints[i]
		length := to.Position.Sub(from.Position).Len()
		d := legDuration(length, speed, at)
		p.Legs = append(p.Legs, Leg{From: from, To: to, Start: at, End: at + d})
		at += d
	}
	return p
}

// maxDuration is the longest representable path. Paths that would take longer
// saturate here instead of wrapping negative.
const maxDuration = time.Duration(math.MaxInt64)

// legDuration converts a leg length into time, saturating so that at+d never
// exceeds maxDuration.
func legDuration(length, speed float64, at time.Duration) time.Duration {
	secs := length / speed * float64(time.Second)
	room := maxDuration - at
	if !(secs < float64(room)) {
		return room
	}
	return time.Duration(secs)
}

// Duration is how long the whole move takes.
func (p Path) Duration() time.Duration {
	if len(p.Legs) == 0 {
		return 0
	}
	return p.Legs[len(p.Legs)-1].End
}

// Finished reports whether the piece has arrived.
func (p Path) Finished(elapsed time.Duration) bool {
	return elapsed >= p.Duration()
}

// Destination returns the final waypoint. The zero Waypoint for an empty path.
func (p Path) Destination() Waypoint {
	if len(p.Waypoints) == 0 {
		return Waypoint{}
	}
	return p.Waypoints[len(p.Waypoints)-1]
}

// activeLeg returns the first leg not yet finished, or -1 once all are.
func (p Path) activeLeg(elapsed time.Duration) int {
	for i, l := range p.Legs {
		if elapsed < l.End {
			return i
		}
	}
	return -1
}

// PositionAt returns where the piece is after elapsed. Times past the end
// return the destination, negative times the start.
func (p Path) PositionAt(elapsed time.Duration) mgl64.Vec3 {
	if i := p.activeLeg(elapsed); i >= 0 {
		return p.Legs[i].PositionAt(elapsed)
	}
	return p.Destination().Position
}

// CoordAt returns the tile the piece counts as standing on after elapsed.
// It switches to the next tile halfway through each leg.
func (p Path) CoordAt(elapsed time.Duration) hex.HexCoord {
	i := p.activeLeg(elapsed)
	if i < 0 {
		return p.Destination().Coord
	}
	l := p.Legs[i]
	if elapsed-l.Start < (l.End-l.Start)/2 {
		return l.From.Coord
	}
	return l.To.Coord
}
