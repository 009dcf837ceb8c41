package game

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/leap/systems"
	"github.com/pthm-cable/leap/telemetry"
)

// recordJumps counts, logs and writes the launches of the current tick.
func (g *Game) recordJumps(events []systems.JumpEvent) {
	for _, ev := range events {
		g.summary.Jumps++
		if ev.Wall {
			g.summary.WallJumps++
		}
		g.collector.RecordJump(ev.Wall)

		v := ev.Command.LaunchVelocity
		if g.cfg.Telemetry.LogJumps {
			g.logger.Info("jump",
				"tick", g.tick,
				"from", ev.From.ID,
				"to", ev.To.ID,
				"vx", v.X,
				"vy", v.Y,
				"wall", ev.Wall,
			)
		}

		err := g.output.WriteJump(telemetry.JumpRecord{
			Tick:     g.tick,
			FromNode: ev.From.ID,
			ToNode:   ev.To.ID,
			FromX:    ev.From.Position.X,
			FromY:    ev.From.Position.Y,
			ToX:      ev.To.Position.X,
			ToY:      ev.To.Position.Y,
			VX:       v.X,
			VY:       v.Y,
			Speed:    r2.Norm(v),
			Wall:     ev.Wall,
		})
		if err != nil {
			g.logger.Error("failed to write jump", "error", err)
		}
	}
}

// recordTick samples the agent after contacts are resolved.
func (g *Game) recordTick() {
	pos := g.posMap.Get(g.agent)
	vel := g.velMap.Get(g.agent)
	body := g.bodyMap.Get(g.agent)
	navigator := g.navMap.Get(g.agent)

	p := pos.Vec()
	g.summary.Travelled += r2.Norm(r2.Sub(p, body.PrevPosition))

	g.collector.RecordTick(telemetry.TickSample{
		Speed:    r2.Norm(vel.Vec()),
		Grounded: body.Grounded,
		Walled:   body.Walled != 0,
	})

	_, tracking := g.nav.GoalNode()
	hasPath := navigator.Path != nil
	if tracking && !hasPath {
		g.summary.NoPathTicks++
		g.collector.RecordNoPath()
	}
	if tracking && hasPath != g.hadPath {
		if hasPath {
			g.logger.Info("path_found", "tick", g.tick, "nodes", len(navigator.Path))
		} else {
			g.logger.Warn("path_lost", "tick", g.tick, "x", p.X, "y", p.Y)
		}
	}
	g.hadPath = hasPath

	next := -1
	if n, ok := navigator.Path.Next(); ok {
		next = n.ID
	}
	if next != g.lastNext && g.lastNext >= 0 && next >= 0 {
		g.collector.RecordReplan()
	}
	g.lastNext = next

	if tracking && !g.summary.Arrived && g.goalDistance() <= g.cfg.Telemetry.ArrivalRadius {
		g.summary.Arrived = true
		g.summary.ArrivalTick = g.tick
		g.logger.Info("arrived", "tick", g.tick, "travelled", g.summary.Travelled, "jumps", g.summary.Jumps)
	}

	interval := g.cfg.Telemetry.TraceInterval
	if interval > 0 && g.tick%interval == 0 {
		g.writeTrace()
	}
}

func (g *Game) writeTrace() {
	pos := g.posMap.Get(g.agent)
	vel := g.velMap.Get(g.agent)
	body := g.bodyMap.Get(g.agent)
	navigator := g.navMap.Get(g.agent)

	goalNode := -1
	if n, ok := g.nav.GoalNode(); ok {
		goalNode = n.ID
	}
	target := systems.Target(navigator.Command, pos.Vec())

	err := g.output.WriteTrace(telemetry.TraceRecord{
		Tick:      g.tick,
		X:         pos.X,
		Y:         pos.Y,
		VX:        vel.X,
		VY:        vel.Y,
		Grounded:  body.Grounded,
		Walled:    body.Walled,
		Strategy:  navigator.Command.Strategy.String(),
		TargetX:   target.X,
		TargetY:   target.Y,
		PathNodes: len(navigator.Path),
		GoalX:     g.nav.GoalPosition.X,
		GoalY:     g.nav.GoalPosition.Y,
		GoalNode:  goalNode,
	})
	if err != nil {
		g.logger.Error("failed to write trace", "error", err)
	}
}

// flushTelemetry closes the stats window once it is full.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	navigator := g.navMap.Get(g.agent)
	stats := g.collector.Flush(g.tick, g.goalDistance(), len(navigator.Path))
	perfStats := g.perfCollector.Stats()

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats(g.logger)
		perfStats.LogStats(g.logger)
	}

	if err := g.output.WriteTelemetry(stats); err != nil {
		g.logger.Error("failed to write telemetry", "error", err)
	}
	if err := g.output.WritePerf(perfStats, stats.WindowEndTick); err != nil {
		g.logger.Error("failed to write perf", "error", err)
	}
}
