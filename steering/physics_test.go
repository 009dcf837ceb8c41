package steering

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/leap/geom"
)

func TestApplyMovement(t *testing.T) {
	p := DefaultParams()

	tests := []struct {
		name  string
		agent Agent
		dir   r2.Vec
		want  r2.Vec
	}{
		{"accelerate from rest", Agent{Normal: up}, r2.Vec{X: 1}, r2.Vec{X: 0.6}},
		{"decelerate without direction", Agent{Normal: up, Velocity: r2.Vec{X: 2}}, r2.Vec{}, r2.Vec{X: -0.8}},
		{"no steering while airborne", Agent{Velocity: r2.Vec{X: 2}}, r2.Vec{X: 1}, r2.Vec{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := tt.agent
			ApplyMovement(&a, tt.dir, p)
			if geom.Dist(a.Acceleration, tt.want) > 1e-9 {
				t.Errorf("acceleration = %v, want %v", a.Acceleration, tt.want)
			}
		})
	}
}

func TestApplyGravity(t *testing.T) {
	p := DefaultParams()

	floor := Agent{Normal: up, Acceleration: r2.Vec{X: 0.3}}
	ApplyGravity(&floor, p)
	if geom.Dist(floor.Acceleration, r2.Vec{X: 0.3, Y: -0.5}) > 1e-9 {
		t.Errorf("floor acceleration = %v", floor.Acceleration)
	}

	wall := Agent{Normal: r2.Vec{X: -1}, Walled: 1}
	ApplyGravity(&wall, p)
	if geom.Dist(wall.Acceleration, r2.Vec{X: 0.5}) > 1e-9 {
		t.Errorf("wall acceleration = %v, want pressed into the wall", wall.Acceleration)
	}

	air := Agent{Acceleration: r2.Vec{X: 0.3, Y: 2}}
	ApplyGravity(&air, p)
	if geom.Dist(air.Acceleration, r2.Vec{X: 0.3, Y: -0.5}) > 1e-9 {
		t.Errorf("airborne acceleration = %v", air.Acceleration)
	}
}

func TestTryJump(t *testing.T) {
	p := DefaultParams()
	cmd := Command{LaunchVelocity: r2.Vec{X: 2, Y: 6}}

	tests := []struct {
		name       string
		agent      Agent
		cmd        Command
		jumped     bool
		wallJumped bool
	}{
		{"from the ground", Agent{Normal: up, Grounded: true}, cmd, true, false},
		{"from a wall", Agent{Normal: r2.Vec{X: 1}, Walled: -1}, cmd, true, true},
		{"airborne", Agent{Grounded: true}, cmd, false, false},
		{"touching but not standing", Agent{Normal: up}, cmd, false, false},
		{"no launch velocity", Agent{Normal: up, Grounded: true}, Command{}, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := tt.agent
			if got := TryJump(&a, tt.cmd, p); got != tt.jumped {
				t.Fatalf("TryJump() = %v, want %v", got, tt.jumped)
			}
			if !tt.jumped {
				return
			}
			if a.Velocity != cmd.LaunchVelocity {
				t.Errorf("velocity = %v, want %v", a.Velocity, cmd.LaunchVelocity)
			}
			if a.Acceleration != (r2.Vec{Y: -p.Gravity}) {
				t.Errorf("acceleration = %v", a.Acceleration)
			}
			if a.Grounded || a.Walled != 0 {
				t.Error("contact flags should be cleared")
			}
			if a.WallJumped != tt.wallJumped {
				t.Errorf("WallJumped = %v, want %v", a.WallJumped, tt.wallJumped)
			}
		})
	}
}

func TestIntegrate(t *testing.T) {
	a := Agent{Position: r2.Vec{X: 1, Y: 1}, Velocity: r2.Vec{X: 1}, Acceleration: r2.Vec{Y: -0.5}}
	prev := Integrate(&a)
	if prev != (r2.Vec{X: 1, Y: 1}) {
		t.Errorf("prev = %v", prev)
	}
	if a.Velocity != (r2.Vec{X: 1, Y: -0.5}) || a.Position != (r2.Vec{X: 2, Y: 0.5}) {
		t.Errorf("after integrate: pos %v vel %v", a.Position, a.Velocity)
	}
}

// A launched agent with no contact follows the ballistic arc onto the target.
func TestJumpLandsOnTarget(t *testing.T) {
	p := DefaultParams()
	from, to := r2.Vec{}, r2.Vec{X: 60, Y: 30}
	v, tf := p.Solver().LaunchVelocity(from, to)

	a := Agent{Position: from, Velocity: v}
	pos := p.Solver().PositionAt(from, v, tf)
	if geom.Dist(pos, to) > 1e-6 {
		t.Fatalf("closed form lands at %v", pos)
	}

	// Discrete integration drifts from the closed form by at most half a
	// tick of velocity per tick.
	steps := int(math.Round(tf))
	for range steps {
		ApplyGravity(&a, p)
		Integrate(&a)
	}
	if d := geom.Dist(a.Position, to); d > float64(steps)*p.Gravity {
		t.Errorf("integrated landing %v is %.2f from target", a.Position, d)
	}
}
