package telemetry

import "log/slog"

// RunSummary describes a finished or in-progress run.
type RunSummary struct {
	Ticks        int
	Arrived      bool
	ArrivalTick  int // -1 until the agent first reaches the goal
	Jumps        int
	WallJumps    int
	NoPathTicks  int
	Travelled    float64 // path length of the agent's motion
	GoalDistance float64 // agent to goal at the last tick
}

// LogValue implements slog.LogValuer for structured logging.
func (s RunSummary) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("ticks", s.Ticks),
		slog.Bool("arrived", s.Arrived),
		slog.Int("arrival_tick", s.ArrivalTick),
		slog.Int("jumps", s.Jumps),
		slog.Int("wall_jumps", s.WallJumps),
		slog.Int("no_path_ticks", s.NoPathTicks),
		slog.Float64("travelled", s.Travelled),
		slog.Float64("goal_distance", s.GoalDistance),
	)
}
