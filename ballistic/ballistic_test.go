package ballistic

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/leap/geom"
	"github.com/pthm-cable/leap/level"
)

func testSolver() Solver {
	return Solver{Gravity: r2.Vec{Y: -0.5}, MaxSpeed: 8}
}

// TestLaunchRoundTrip verifies the launch velocity lands on the target after
// the minimum-energy flight time.
func TestLaunchRoundTrip(t *testing.T) {
	s := testSolver()
	p0 := r2.Vec{X: 10, Y: -20}

	deltas := []r2.Vec{
		{X: 40},
		{X: -60, Y: 20},
		{X: 5, Y: 40},
		{X: 120},
		{X: 80, Y: -150},
	}

	for _, d := range deltas {
		if !s.Feasible(d) {
			t.Fatalf("delta %v should be feasible", d)
		}
		p1 := r2.Add(p0, d)
		v, tf := s.LaunchVelocity(p0, p1)
		got := s.PositionAt(p0, v, tf)
		if geom.Dist(got, p1) > 1e-9 {
			t.Errorf("delta %v: landed at %v, want %v", d, got, p1)
		}
		if speed := r2.Norm(v); speed > s.MaxSpeed+1e-9 {
			t.Errorf("delta %v: launch speed %f exceeds budget", d, speed)
		}
	}
}

func TestFeasibility(t *testing.T) {
	s := testSolver()
	tests := []struct {
		name  string
		delta r2.Vec
		want  bool
	}{
		{"short hop", r2.Vec{X: 40}, true},
		{"max horizontal reach", r2.Vec{X: 120}, true},
		{"beyond reach", r2.Vec{X: 130}, false},
		{"too high", r2.Vec{Y: 100}, false},
		{"long drop", r2.Vec{X: 100, Y: -300}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := s.Feasible(tc.delta); got != tc.want {
				t.Errorf("Feasible(%v) = %v, want %v (disc %f)", tc.delta, got, tc.want, s.Discriminant(tc.delta))
			}
		})
	}
}

func TestZeroGravityNeverFeasible(t *testing.T) {
	s := Solver{MaxSpeed: 8}
	if s.Feasible(r2.Vec{X: 1}) {
		t.Error("zero gravity should not be feasible")
	}
	if v, _ := s.LaunchVelocity(r2.Vec{}, r2.Vec{X: 1}); !geom.IsZero(v) {
		t.Errorf("LaunchVelocity = %v, want zero", v)
	}
}

func TestCheckOpenSpace(t *testing.T) {
	s := testSolver()
	from := Anchor{Position: r2.Vec{}, Polygon: 0}
	to := Anchor{Position: r2.Vec{X: 60, Y: 10}, Polygon: 1}

	speed, ok := s.Check(from, to, &level.Level{}, 0)
	if !ok {
		t.Fatal("expected jump in empty level to pass")
	}
	v, _ := s.LaunchVelocity(from.Position, to.Position)
	if math.Abs(speed-r2.Norm(v)) > 1e-12 {
		t.Errorf("speed = %f, want %f", speed, r2.Norm(v))
	}
}

// TestCheckBlockedByWall places a tall wall between the two anchors.
func TestCheckBlockedByWall(t *testing.T) {
	s := testSolver()
	lvl := &level.Level{Polygons: []level.Polygon{
		{Points: []r2.Vec{{X: 30, Y: -10}, {X: 30, Y: 200}}},
	}}
	from := Anchor{Position: r2.Vec{}, Polygon: 1}
	to := Anchor{Position: r2.Vec{X: 60}, Polygon: 2}

	if _, ok := s.Check(from, to, lvl, 0); ok {
		t.Error("expected wall to block the jump")
	}
}

// TestCheckRadiusClipsEdge verifies the capsule radius catches an edge the
// centre line misses.
func TestCheckRadiusClipsEdge(t *testing.T) {
	s := testSolver()
	from := Anchor{Position: r2.Vec{}, Polygon: 1}
	to := Anchor{Position: r2.Vec{X: 60}, Polygon: 2}

	apex := s.Trajectory(from.Position, to.Position)[5]
	lvl := &level.Level{Polygons: []level.Polygon{
		{Points: []r2.Vec{{X: apex.X - 20, Y: apex.Y + 4}, {X: apex.X + 20, Y: apex.Y + 4}}},
	}}

	if _, ok := s.Check(from, to, lvl, 0); !ok {
		t.Fatal("centre line should clear the ceiling")
	}
	if _, ok := s.Check(from, to, lvl, 8); ok {
		t.Error("capsule of radius 8 should hit the ceiling")
	}
}

func TestCheckIgnoresAnchorEdges(t *testing.T) {
	s := testSolver()
	// The start anchor rests on this edge, which touches the launch point.
	lvl := &level.Level{Polygons: []level.Polygon{
		{Points: []r2.Vec{{X: -20}, {X: 0}, {X: 0, Y: -20}}},
	}}
	to := Anchor{Position: r2.Vec{X: 60}, Polygon: 1}

	onEdge := Anchor{Position: r2.Vec{}, Polygon: 0, Lines: []int{0, 1}}
	if _, ok := s.Check(onEdge, to, lvl, 0); !ok {
		t.Error("edges under the start anchor should be ignored")
	}

	offEdge := Anchor{Position: r2.Vec{}, Polygon: 3}
	if _, ok := s.Check(offEdge, to, lvl, 0); ok {
		t.Error("touching a foreign edge should block")
	}
}

func TestTrajectoryEndpoints(t *testing.T) {
	s := testSolver()
	p0, p1 := r2.Vec{X: 1, Y: 2}, r2.Vec{X: 50, Y: 30}
	arc := s.Trajectory(p0, p1)
	if len(arc) != DefaultSamples+1 {
		t.Fatalf("got %d points, want %d", len(arc), DefaultSamples+1)
	}
	if arc[0] != p0 || arc[len(arc)-1] != p1 {
		t.Errorf("arc endpoints = %v..%v", arc[0], arc[len(arc)-1])
	}
}
