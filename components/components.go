// Package components defines ECS components for the simulation.
package components

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/leap/pathfind"
	"github.com/pthm-cable/leap/steering"
)

// Position represents an entity's world position. Y points up.
type Position struct {
	X, Y float64
}

// Vec returns the position as a vector.
func (p Position) Vec() r2.Vec { return r2.Vec{X: p.X, Y: p.Y} }

// Velocity represents an entity's velocity in units per tick.
type Velocity struct {
	X, Y float64
}

// Vec returns the velocity as a vector.
func (v Velocity) Vec() r2.Vec { return r2.Vec{X: v.X, Y: v.Y} }

// Body holds the physical contact state of an agent.
type Body struct {
	Radius       float64
	PrevPosition r2.Vec
	Acceleration r2.Vec
	Normal       r2.Vec // averaged contact normal, zero while airborne
	Grounded     bool
	Walled       int8 // -1 wall on the left, +1 on the right
	WallJumped   bool
}

// Navigator holds an agent's path-following state.
type Navigator struct {
	Path     pathfind.Path
	Command  steering.Command
	JumpFrom r2.Vec // offset endpoints of the last jump
	JumpTo   r2.Vec
	Jumps    int
}

// Agent gathers the components into the state steering works on.
func Agent(pos *Position, vel *Velocity, body *Body) steering.Agent {
	return steering.Agent{
		Position:     pos.Vec(),
		Velocity:     vel.Vec(),
		Acceleration: body.Acceleration,
		Normal:       body.Normal,
		Radius:       body.Radius,
		Grounded:     body.Grounded,
		Walled:       body.Walled,
		WallJumped:   body.WallJumped,
	}
}

// Store writes steering state back into the components.
func Store(a *steering.Agent, pos *Position, vel *Velocity, body *Body) {
	pos.X, pos.Y = a.Position.X, a.Position.Y
	vel.X, vel.Y = a.Velocity.X, a.Velocity.Y
	body.Acceleration = a.Acceleration
	body.Normal = a.Normal
	body.Grounded = a.Grounded
	body.Walled = a.Walled
	body.WallJumped = a.WallJumped
}
