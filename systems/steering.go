package systems

import (
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/leap/components"
	"github.com/pthm-cable/leap/navmesh"
	"github.com/pthm-cable/leap/pathfind"
	"github.com/pthm-cable/leap/steering"
)

// JumpEvent describes a launch triggered during a steering update.
type JumpEvent struct {
	Entity   ecs.Entity
	From, To pathfind.PathNode
	Command  steering.Command
	Wall     bool
}

// SteeringSystem plans a path for every navigating agent, turns it into a
// movement command and applies the resulting acceleration and jumps.
type SteeringSystem struct {
	filter ecs.Filter4[components.Position, components.Velocity, components.Body, components.Navigator]
	nav    *navmesh.Navmesh
	params steering.Params
	events []JumpEvent
}

// NewSteeringSystem creates a new steering system.
func NewSteeringSystem(w *ecs.World, nav *navmesh.Navmesh, params steering.Params) *SteeringSystem {
	return &SteeringSystem{
		filter: *ecs.NewFilter4[components.Position, components.Velocity, components.Body, components.Navigator](w),
		nav:    nav,
		params: params,
	}
}

// Update runs the steering system. The returned events are valid until the
// next call.
func (s *SteeringSystem) Update(w *ecs.World) []JumpEvent {
	s.events = s.events[:0]

	query := s.filter.Query()
	for query.Next() {
		pos, vel, body, navigator := query.Get()

		agent := components.Agent(pos, vel, body)
		path := pathfind.FindPath(s.nav, agent.Position)
		cmd := steering.Decide(s.nav, path, agent, s.params)

		steering.ApplyMovement(&agent, cmd.MoveDir, s.params)
		steering.ApplyGravity(&agent, s.params)

		if steering.TryJump(&agent, cmd, s.params) {
			navigator.Jumps++
			navigator.JumpFrom = cmd.JumpFrom
			navigator.JumpTo = cmd.JumpTo
			s.events = append(s.events, JumpEvent{
				Entity:  query.Entity(),
				From:    path[0],
				To:      path[1],
				Command: cmd,
				Wall:    agent.WallJumped,
			})
		}

		components.Store(&agent, pos, vel, body)
		navigator.Path = path
		navigator.Command = cmd
	}

	return s.events
}

// Target returns where the command points, or the agent's own position when
// it has nowhere to go.
func Target(cmd steering.Command, pos r2.Vec) r2.Vec {
	if cmd.Strategy == steering.None {
		return pos
	}
	return cmd.Target
}
