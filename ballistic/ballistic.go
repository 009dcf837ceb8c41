// Package ballistic solves minimum-energy jump trajectories under constant
// gravity and checks them against level geometry.
package ballistic

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/leap/geom"
	"github.com/pthm-cable/leap/level"
)

// DefaultSamples is the number of trajectory segments swept during validation.
const DefaultSamples = 10

// Solver evaluates launches for one gravity vector and speed budget.
type Solver struct {
	Gravity  r2.Vec  // constant acceleration, e.g. (0, -0.5)
	MaxSpeed float64 // launch speed budget
	Samples  int     // trajectory segments checked by Check (0 = DefaultSamples)
}

// Anchor is a trajectory endpoint together with the polygon edges it rests
// on. Those edges are ignored when sweeping for obstructions.
type Anchor struct {
	Position r2.Vec
	Polygon  int
	Lines    []int
}

// OnEdge reports whether the anchor lies on the given polygon edge.
func (a Anchor) OnEdge(poly, line int) bool {
	return a.Polygon == poly && slices.Contains(a.Lines, line)
}

// Discriminant returns (Δp·g + v²)² − (g·g)(Δp·Δp). A negative value means
// the target is out of reach with the speed budget.
func (s Solver) Discriminant(delta r2.Vec) float64 {
	b := r2.Dot(delta, s.Gravity) + s.MaxSpeed*s.MaxSpeed
	return b*b - r2.Norm2(s.Gravity)*r2.Norm2(delta)
}

// Feasible reports whether a launch within the speed budget can reach delta.
func (s Solver) Feasible(delta r2.Vec) bool {
	if r2.Norm2(s.Gravity) == 0 {
		return false
	}
	return s.Discriminant(delta) >= 0
}

// FlightTime returns the minimum-energy flight time (4|Δp|²/|g|²)^(1/4).
func (s Solver) FlightTime(delta r2.Vec) float64 {
	gg := r2.Norm2(s.Gravity)
	if gg == 0 {
		return 0
	}
	return math.Sqrt(math.Sqrt(4 * r2.Norm2(delta) / gg))
}

// LaunchVelocity returns the minimum-energy launch velocity from p0 to p1
// and the matching flight time. Coincident points give a zero velocity.
func (s Solver) LaunchVelocity(p0, p1 r2.Vec) (r2.Vec, float64) {
	delta := r2.Sub(p1, p0)
	t := s.FlightTime(delta)
	if t == 0 {
		return r2.Vec{}, 0
	}
	v := r2.Sub(r2.Scale(1/t, delta), r2.Scale(t/2, s.Gravity))
	return v, t
}

// PositionAt integrates the launch in closed form: p0 + v·t + g·t²/2.
func (s Solver) PositionAt(p0, v r2.Vec, t float64) r2.Vec {
	return r2.Add(r2.Add(p0, r2.Scale(t, v)), r2.Scale(t*t/2, s.Gravity))
}

func (s Solver) samples() int {
	if s.Samples <= 0 {
		return DefaultSamples
	}
	return s.Samples
}

// Trajectory returns the sampled arc from p0 to p1: the start, every interior
// sample and the exact goal point.
func (s Solver) Trajectory(p0, p1 r2.Vec) []r2.Vec {
	n := s.samples()
	v, t := s.LaunchVelocity(p0, p1)

	pts := make([]r2.Vec, 0, n+1)
	pts = append(pts, p0)
	if t == 0 {
		return append(pts, p1)
	}
	step := t / float64(n)
	for i := 1; i < n; i++ {
		pts = append(pts, s.PositionAt(p0, v, step*float64(i)))
	}
	return append(pts, p1)
}

// Check decides whether an agent of the given radius can jump from one
// anchor to the other. It returns the launch speed when the closed-form
// discriminant allows the jump and no sampled capsule sweep crosses a level
// edge other than the edges the anchors rest on.
func (s Solver) Check(from, to Anchor, lvl *level.Level, radius float64) (float64, bool) {
	delta := r2.Sub(to.Position, from.Position)
	if geom.IsZero(delta) || !s.Feasible(delta) {
		return 0, false
	}

	v, _ := s.LaunchVelocity(from.Position, to.Position)
	arc := s.Trajectory(from.Position, to.Position)

	blocked := false
	lvl.EachEdge(func(poly, line int, a, b r2.Vec) bool {
		if from.OnEdge(poly, line) || to.OnEdge(poly, line) {
			return true
		}
		for i := 1; i < len(arc); i++ {
			if SweepHits(arc[i-1], arc[i], a, b, radius) {
				blocked = true
				return false
			}
		}
		return true
	})
	if blocked {
		return 0, false
	}
	return r2.Norm(v), true
}

// SweepHits tests a capsule of the given radius moving from p to q against
// edge a-b, using the two sides of the capsule offset along the normal of
// the direction of travel.
func SweepHits(p, q, a, b r2.Vec, radius float64) bool {
	n := r2.Scale(radius, geom.Perp(geom.NormalizeOrZero(r2.Sub(q, p))))
	if geom.Intersects(r2.Add(p, n), r2.Add(q, n), a, b) {
		return true
	}
	return geom.Intersects(r2.Sub(p, n), r2.Sub(q, n), a, b)
}
