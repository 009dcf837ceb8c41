package game

import (
	"github.com/pthm-cable/leap/telemetry"
)

// Step advances the simulation by one tick: the goal moves, the agent plans
// and steers, then integrates and resolves contacts.
func (g *Game) Step() {
	g.perfCollector.StartTick()

	g.perfCollector.StartPhase(telemetry.PhaseGoal)
	g.goal.Update(g.tick)

	g.perfCollector.StartPhase(telemetry.PhaseSteering)
	jumps := g.steering.Update(g.world)

	g.perfCollector.StartPhase(telemetry.PhasePhysics)
	g.physics.Update(g.world)

	g.perfCollector.StartPhase(telemetry.PhaseContact)
	g.contact.Update(g.world)

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.recordJumps(jumps)
	g.recordTick()

	g.perfCollector.EndTick()
	g.tick++
	g.flushTelemetry()
}

// Run steps until maxTicks more ticks have passed (0 = unlimited) or, with
// StopOnArrival, until the agent reaches the goal.
func (g *Game) Run(maxTicks int) telemetry.RunSummary {
	for i := 0; maxTicks <= 0 || i < maxTicks; i++ {
		g.Step()
		if g.stopOnArrival && g.summary.Arrived {
			break
		}
	}
	return g.Summary()
}
