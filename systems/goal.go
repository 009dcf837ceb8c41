// Package systems contains ECS systems for the simulation.
package systems

import (
	"slices"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/leap/config"
	"github.com/pthm-cable/leap/navmesh"
)

// GoalSystem moves the goal point each tick and keeps the navmesh goal node
// in step with it. Motion comes from a tick-keyed script.
type GoalSystem struct {
	nav    *navmesh.Navmesh
	speed  float64
	script []config.GoalAction
	next   int
	dir    r2.Vec
}

// NewGoalSystem places the goal and applies its initial tracking state.
func NewGoalSystem(nav *navmesh.Navmesh, cfg config.GoalConfig) *GoalSystem {
	script := slices.Clone(cfg.Script)
	slices.SortStableFunc(script, func(a, b config.GoalAction) int { return a.Tick - b.Tick })

	nav.SetGoalPosition(cfg.Position.Vec())
	nav.SetActive(cfg.Active)

	return &GoalSystem{nav: nav, speed: cfg.Speed, script: script}
}

// Direction returns the goal's current direction of motion.
func (s *GoalSystem) Direction() r2.Vec {
	return s.dir
}

// Update applies script actions due at tick and moves the goal.
func (s *GoalSystem) Update(tick int) {
	for s.next < len(s.script) && s.script[s.next].Tick <= tick {
		action := s.script[s.next]
		s.dir = action.Direction.Vec()
		if action.Active != nil {
			s.nav.SetActive(*action.Active)
		}
		s.next++
	}

	if s.dir != (r2.Vec{}) {
		s.nav.MoveGoal(r2.Scale(s.speed, s.dir))
	}
}
