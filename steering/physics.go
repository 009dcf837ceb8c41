package steering

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Agent is the physical state steering reads and writes.
type Agent struct {
	Position     r2.Vec
	Velocity     r2.Vec
	Acceleration r2.Vec
	Normal       r2.Vec // averaged contact normal, zero while airborne
	Radius       float64
	Grounded     bool
	Walled       int8 // -1 wall on the left, +1 on the right, 0 none
	WallJumped   bool
}

// Falling reports whether the agent has no surface contact.
func (a *Agent) Falling() bool {
	return r2.Norm2(a.Normal) == 0
}

// OnWall reports whether the agent is pressed against a wall.
func (a *Agent) OnWall() bool {
	return a.Walled != 0 || math.Abs(a.Normal.X) > math.Abs(a.Normal.Y)
}

// ApplyMovement blends acceleration toward dir at top speed. Airborne agents
// get no steering acceleration.
func ApplyMovement(a *Agent, dir r2.Vec, p Params) {
	if a.Falling() {
		a.Acceleration = r2.Vec{}
		return
	}

	scale := p.Accel
	if r2.Norm2(dir) == 0 {
		scale = p.Decel
	}
	a.Acceleration = r2.Scale(scale, r2.Sub(r2.Scale(p.MaxSpeed, dir), a.Velocity))
}

// ApplyGravity pulls the agent down while airborne and into the surface
// while in contact.
func ApplyGravity(a *Agent, p Params) {
	if a.Falling() {
		a.Acceleration.Y = -p.Gravity
		return
	}
	a.Acceleration = r2.Sub(a.Acceleration, r2.Scale(p.Gravity, a.Normal))
}

// TryJump launches the agent when the command carries a launch velocity and
// the agent stands on the ground or clings to a wall.
func TryJump(a *Agent, cmd Command, p Params) bool {
	if !cmd.WantsJump() || a.Falling() {
		return false
	}
	if !a.Grounded && a.Walled == 0 {
		return false
	}

	a.WallJumped = !a.Grounded
	a.Velocity = cmd.LaunchVelocity
	a.Acceleration = r2.Vec{Y: -p.Gravity}
	a.Grounded = false
	a.Walled = 0
	return true
}

// Integrate advances the agent one tick.
func Integrate(a *Agent) (prev r2.Vec) {
	prev = a.Position
	a.Velocity = r2.Add(a.Velocity, a.Acceleration)
	a.Position = r2.Add(a.Position, a.Velocity)
	return prev
}
