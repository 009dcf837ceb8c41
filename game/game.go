// Package game runs the headless platforming simulation: one agent chasing
// a goal across a level's navmesh.
package game

import (
	"log/slog"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/leap/components"
	"github.com/pthm-cable/leap/config"
	"github.com/pthm-cable/leap/level"
	"github.com/pthm-cable/leap/navmesh"
	"github.com/pthm-cable/leap/steering"
	"github.com/pthm-cable/leap/systems"
	"github.com/pthm-cable/leap/telemetry"
)

// Options configures a Game.
type Options struct {
	Logger        *slog.Logger                // nil = slog.Default()
	Output        *telemetry.OutputManager    // nil disables CSV output
	LogStats      bool                        // log window and perf stats on every flush
	StopOnArrival bool                        // Run returns once the agent reaches the goal
	StatsCallback func(telemetry.WindowStats) // called on every window flush
}

// Game holds the complete simulation state.
type Game struct {
	cfg *config.Config
	lvl *level.Level
	nav *navmesh.Navmesh

	world *ecs.World
	agent ecs.Entity

	agentMapper *ecs.Map4[
		components.Position,
		components.Velocity,
		components.Body,
		components.Navigator,
	]
	posMap  *ecs.Map1[components.Position]
	velMap  *ecs.Map1[components.Velocity]
	bodyMap *ecs.Map1[components.Body]
	navMap  *ecs.Map1[components.Navigator]

	// Systems
	goal     *systems.GoalSystem
	steering *systems.SteeringSystem
	physics  *systems.PhysicsSystem
	contact  *systems.ContactSystem

	// Telemetry
	logger        *slog.Logger
	output        *telemetry.OutputManager
	collector     *telemetry.Collector
	perfCollector *telemetry.PerfCollector
	logStats      bool
	statsCallback func(telemetry.WindowStats)
	stopOnArrival bool

	// State
	tick     int
	summary  telemetry.RunSummary
	lastNext int  // id of the path node after the start, -1 when none
	hadPath  bool // whether the previous tick found a path
}

// New builds the navmesh for lvl and spawns the agent at the configured
// spawn point.
func New(cfg *config.Config, lvl *level.Level, opts Options) *Game {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	world := ecs.NewWorld()
	nav := BuildNavmesh(cfg, lvl, logger)
	params := SteeringParams(cfg)

	g := &Game{
		cfg:   cfg,
		lvl:   lvl,
		nav:   nav,
		world: world,
		agentMapper: ecs.NewMap4[
			components.Position,
			components.Velocity,
			components.Body,
			components.Navigator,
		](world),
		posMap:  ecs.NewMap1[components.Position](world),
		velMap:  ecs.NewMap1[components.Velocity](world),
		bodyMap: ecs.NewMap1[components.Body](world),
		navMap:  ecs.NewMap1[components.Navigator](world),

		goal:     systems.NewGoalSystem(nav, cfg.Goal),
		steering: systems.NewSteeringSystem(world, nav, params),
		physics:  systems.NewPhysicsSystem(world),
		contact:  systems.NewContactSystem(world, lvl),

		logger:        logger,
		output:        opts.Output,
		collector:     telemetry.NewCollector(cfg.Telemetry.StatsWindow),
		perfCollector: telemetry.NewPerfCollector(cfg.Telemetry.StatsWindow),
		logStats:      opts.LogStats,
		statsCallback: opts.StatsCallback,
		stopOnArrival: opts.StopOnArrival,

		summary:  telemetry.RunSummary{ArrivalTick: -1},
		lastNext: -1,
	}

	g.agent = g.spawnAgent(cfg.Derived.Spawn)
	return g
}

// spawnAgent creates the agent entity at rest at p.
func (g *Game) spawnAgent(p r2.Vec) ecs.Entity {
	pos := components.Position{X: p.X, Y: p.Y}
	vel := components.Velocity{}
	body := components.Body{Radius: g.cfg.Agent.Radius, PrevPosition: p}
	navigator := components.Navigator{}
	return g.agentMapper.NewEntity(&pos, &vel, &body, &navigator)
}

// ResetAgent returns the agent to the spawn point at rest and clears its
// path state. Run totals are kept.
func (g *Game) ResetAgent() {
	p := g.cfg.Derived.Spawn
	pos := g.posMap.Get(g.agent)
	vel := g.velMap.Get(g.agent)
	body := g.bodyMap.Get(g.agent)
	navigator := g.navMap.Get(g.agent)

	*pos = components.Position{X: p.X, Y: p.Y}
	*vel = components.Velocity{}
	*body = components.Body{Radius: body.Radius, PrevPosition: p}
	*navigator = components.Navigator{}

	g.lastNext = -1
	g.hadPath = false
	g.logger.Info("agent_reset", "tick", g.tick, "x", p.X, "y", p.Y)
}

// Tick returns the number of completed simulation ticks.
func (g *Game) Tick() int {
	return g.tick
}

// Navmesh returns the navmesh the agent navigates.
func (g *Game) Navmesh() *navmesh.Navmesh {
	return g.nav
}

// Level returns the level geometry.
func (g *Game) Level() *level.Level {
	return g.lvl
}

// Agent returns a snapshot of the agent's physical state.
func (g *Game) Agent() steering.Agent {
	return components.Agent(g.posMap.Get(g.agent), g.velMap.Get(g.agent), g.bodyMap.Get(g.agent))
}

// Navigator returns a copy of the agent's path-following state.
func (g *Game) Navigator() components.Navigator {
	return *g.navMap.Get(g.agent)
}

// Summary returns the run totals so far.
func (g *Game) Summary() telemetry.RunSummary {
	s := g.summary
	s.Ticks = g.tick
	s.GoalDistance = g.goalDistance()
	return s
}

func (g *Game) goalDistance() float64 {
	return r2.Norm(r2.Sub(g.nav.GoalPosition, g.posMap.Get(g.agent).Vec()))
}
