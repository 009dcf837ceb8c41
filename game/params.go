package game

import (
	"log/slog"

	"github.com/pthm-cable/leap/config"
	"github.com/pthm-cable/leap/level"
	"github.com/pthm-cable/leap/navmesh"
	"github.com/pthm-cable/leap/steering"
)

// SteeringParams maps the agent and physics config onto steering params.
func SteeringParams(cfg *config.Config) steering.Params {
	return steering.Params{
		Gravity:           cfg.Physics.Gravity,
		MaxSpeed:          cfg.Agent.MaxSpeed,
		JumpForce:         cfg.Agent.JumpForce,
		Accel:             cfg.Agent.Accel,
		Decel:             cfg.Agent.Decel,
		StationarySpeedSq: cfg.Agent.StationarySpeedSq,
	}
}

// BuildParams maps the navmesh config onto construction params. The jump
// solver shares gravity and launch budget with the agent.
func BuildParams(cfg *config.Config) navmesh.BuildParams {
	solver := SteeringParams(cfg).Solver()
	solver.Samples = cfg.Navmesh.JumpSamples
	return navmesh.BuildParams{
		NodeSpacing: cfg.Navmesh.NodeSpacing,
		WalkableDot: cfg.Navmesh.WalkableDot,
		AgentRadius: cfg.Agent.Radius,
		Solver:      solver,
	}
}

// BuildNavmesh builds the navmesh for lvl using cfg.
func BuildNavmesh(cfg *config.Config, lvl *level.Level, logger *slog.Logger) *navmesh.Navmesh {
	return navmesh.Build(lvl, BuildParams(cfg), logger)
}
