package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/leap/components"
	"github.com/pthm-cable/leap/steering"
)

// PhysicsSystem integrates acceleration into velocity and velocity into
// position, once per tick.
type PhysicsSystem struct {
	filter ecs.Filter3[components.Position, components.Velocity, components.Body]
}

// NewPhysicsSystem creates a new physics system.
func NewPhysicsSystem(w *ecs.World) *PhysicsSystem {
	return &PhysicsSystem{
		filter: *ecs.NewFilter3[components.Position, components.Velocity, components.Body](w),
	}
}

// Update runs the physics system.
func (s *PhysicsSystem) Update(w *ecs.World) {
	query := s.filter.Query()
	for query.Next() {
		pos, vel, body := query.Get()

		agent := components.Agent(pos, vel, body)
		body.PrevPosition = steering.Integrate(&agent)
		components.Store(&agent, pos, vel, body)
	}
}
