package steering

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/leap/ballistic"
	"github.com/pthm-cable/leap/geom"
	"github.com/pthm-cable/leap/navmesh"
	"github.com/pthm-cable/leap/pathfind"
)

// Params configures movement and jumping.
type Params struct {
	Gravity           float64 // downward acceleration magnitude per tick
	MaxSpeed          float64 // top walking speed
	JumpForce         float64 // launch speed budget
	Accel             float64 // blend factor toward the desired velocity
	Decel             float64 // blend factor toward rest
	StationarySpeedSq float64 // squared speed under which the agent counts as at rest
}

// DefaultParams returns the standard platformer tuning.
func DefaultParams() Params {
	return Params{
		Gravity:           0.5,
		MaxSpeed:          3,
		JumpForce:         8,
		Accel:             0.2,
		Decel:             0.4,
		StationarySpeedSq: 0.1,
	}
}

// Solver returns the ballistic solver matching these params.
func (p Params) Solver() ballistic.Solver {
	return ballistic.Solver{
		Gravity:  r2.Vec{Y: -p.Gravity},
		MaxSpeed: p.JumpForce,
		Samples:  ballistic.DefaultSamples,
	}
}

// Command is the result of one steering decision.
type Command struct {
	Strategy       Strategy
	Target         r2.Vec
	MoveDir        r2.Vec // unit length or zero
	LaunchVelocity r2.Vec // zero unless a jump is due
	JumpFrom       r2.Vec // offset endpoints of the jump, when LaunchVelocity is set
	JumpTo         r2.Vec
}

// WantsJump reports whether the command carries a launch velocity.
func (c Command) WantsJump() bool {
	return !geom.IsZero(c.LaunchVelocity)
}

// Offset returns the point one radius out from a node along its normal.
func Offset(node *navmesh.Node, radius float64) r2.Vec {
	return r2.Add(node.Position, r2.Scale(radius, node.Normal))
}

// CrossesNode reports whether moving by vel takes pos to the other side of
// node along one axis. The Y axis is used on walls, X otherwise.
func CrossesNode(pos, vel, node r2.Vec, onWall bool) bool {
	next := r2.Add(pos, vel)
	if onWall {
		return geom.Sign(pos.Y-node.Y) != geom.Sign(next.Y-node.Y)
	}
	return geom.Sign(pos.X-node.X) != geom.Sign(next.X-node.X)
}

// Decide chooses where the agent steers this tick. A path of fewer than two
// nodes yields a zero command.
func Decide(nav *navmesh.Navmesh, path pathfind.Path, a Agent, p Params) Command {
	if len(path) <= 1 {
		return Command{Strategy: None}
	}

	current, next := path[0], path[1]
	offsetCurrent := Offset(&nav.Nodes[current.ID], a.Radius)
	offsetNext := Offset(&nav.Nodes[next.ID], a.Radius)

	onWall := a.OnWall()
	state := State{
		Falling:        a.Falling(),
		JumpConnection: nav.HasConnection(current.ID, next.ID, navmesh.Jumpable),
		Corner:         nav.Nodes[current.ID].Corner,
		CrossingNode:   onWall && CrossesNode(a.Position, a.Velocity, current.Position, onWall),
		Stationary:     r2.Norm2(a.Velocity) < p.StationarySpeedSq,
		NearNext:       geom.DistSq(a.Position, offsetNext) <= geom.DistSq(offsetCurrent, offsetNext),
	}

	cmd := Command{Strategy: Select(state)}
	switch cmd.Strategy {
	case AgentToCurrentOffset:
		cmd.Target = offsetCurrent
	case AgentToNextOffset:
		cmd.Target = offsetNext
	}
	cmd.MoveDir = geom.NormalizeOrZero(r2.Sub(cmd.Target, a.Position))

	if cmd.Strategy == AgentToNextOffset && state.JumpConnection {
		cmd.LaunchVelocity, _ = p.Solver().LaunchVelocity(current.Position, next.Position)
		cmd.JumpFrom = offsetCurrent
		cmd.JumpTo = offsetNext
	}
	return cmd
}
