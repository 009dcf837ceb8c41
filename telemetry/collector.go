package telemetry

// Collector accumulates per-tick navigation samples within windows of ticks
// and produces WindowStats.
type Collector struct {
	windowTicks     int
	windowStartTick int

	jumps         int
	wallJumps     int
	noPathTicks   int
	replans       int
	groundedTicks int
	walledTicks   int
	airborneTicks int
	speeds        []float64
}

// NewCollector creates a collector flushing every windowTicks ticks.
func NewCollector(windowTicks int) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{
		windowTicks: windowTicks,
		speeds:      make([]float64, 0, windowTicks),
	}
}

// RecordJump records a launch.
func (c *Collector) RecordJump(fromWall bool) {
	c.jumps++
	if fromWall {
		c.wallJumps++
	}
}

// RecordNoPath records a tick on which no path was found.
func (c *Collector) RecordNoPath() {
	c.noPathTicks++
}

// RecordReplan records a tick on which the path's next node changed.
func (c *Collector) RecordReplan() {
	c.replans++
}

// TickSample is the agent state sampled once per tick.
type TickSample struct {
	Speed    float64
	Grounded bool
	Walled   bool
}

// RecordTick records the per-tick sample.
func (c *Collector) RecordTick(s TickSample) {
	c.speeds = append(c.speeds, s.Speed)
	switch {
	case s.Grounded:
		c.groundedTicks++
	case s.Walled:
		c.walledTicks++
	default:
		c.airborneTicks++
	}
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int) bool {
	return currentTick-c.windowStartTick >= c.windowTicks
}

// Flush produces a WindowStats and resets counters for the next window.
// goalDistance and pathNodes describe the state at the end of the window.
func (c *Collector) Flush(currentTick int, goalDistance float64, pathNodes int) WindowStats {
	mean, p10, p50, p90 := ComputeSpeedStats(c.speeds)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,

		Jumps:       c.jumps,
		WallJumps:   c.wallJumps,
		NoPathTicks: c.noPathTicks,
		Replans:     c.replans,

		GroundedTicks: c.groundedTicks,
		WalledTicks:   c.walledTicks,
		AirborneTicks: c.airborneTicks,

		SpeedMean: mean,
		SpeedP10:  p10,
		SpeedP50:  p50,
		SpeedP90:  p90,

		GoalDistance: goalDistance,
		PathNodes:    pathNodes,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.jumps = 0
	c.wallJumps = 0
	c.noPathTicks = 0
	c.replans = 0
	c.groundedTicks = 0
	c.walledTicks = 0
	c.airborneTicks = 0
	c.speeds = c.speeds[:0]

	return stats
}

// WindowTicks returns the number of ticks per window.
func (c *Collector) WindowTicks() int {
	return c.windowTicks
}
