package telemetry

import (
	"log/slog"
	"sort"
)

// WindowStats holds aggregated navigation statistics for a window of ticks.
type WindowStats struct {
	WindowStartTick int `csv:"-"`
	WindowEndTick   int `csv:"window_end"`

	// Events during window
	Jumps       int `csv:"jumps"`
	WallJumps   int `csv:"wall_jumps"`
	NoPathTicks int `csv:"no_path_ticks"`
	Replans     int `csv:"replans"` // ticks whose next path node changed

	// Contact time during window
	GroundedTicks int `csv:"grounded_ticks"`
	WalledTicks   int `csv:"walled_ticks"`
	AirborneTicks int `csv:"airborne_ticks"`

	// Speed distribution (sampled every tick)
	SpeedMean float64 `csv:"speed_mean"`
	SpeedP10  float64 `csv:"speed_p10"`
	SpeedP50  float64 `csv:"speed_p50"`
	SpeedP90  float64 `csv:"speed_p90"`

	// State at window end
	GoalDistance float64 `csv:"goal_distance"`
	PathNodes    int     `csv:"path_nodes"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeSpeedStats calculates mean and percentiles from speed samples.
func ComputeSpeedStats(values []float64) (mean, p10, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	mean = sum / float64(n)

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return mean, p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", s.WindowStartTick),
		slog.Int("window_end", s.WindowEndTick),
		slog.Int("jumps", s.Jumps),
		slog.Int("wall_jumps", s.WallJumps),
		slog.Int("no_path_ticks", s.NoPathTicks),
		slog.Int("replans", s.Replans),
		slog.Int("grounded_ticks", s.GroundedTicks),
		slog.Int("walled_ticks", s.WalledTicks),
		slog.Int("airborne_ticks", s.AirborneTicks),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_p50", s.SpeedP50),
		slog.Float64("speed_p90", s.SpeedP90),
		slog.Float64("goal_distance", s.GoalDistance),
		slog.Int("path_nodes", s.PathNodes),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("stats", "window", s)
}
