package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/pthm-cable/leap/config"
	"github.com/pthm-cable/leap/game"
	"github.com/pthm-cable/leap/level"
	"github.com/pthm-cable/leap/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	levelPath := flag.String("level", "", "Path to level YAML (empty = level.path from config, then the demo level)")
	logStats := flag.Bool("log-stats", false, "Output window stats via slog")
	statsWindow := flag.Int("stats-window", 0, "Stats window size in ticks (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	maxTicks := flag.Int("max-ticks", 3000, "Stop after N ticks (0 = unlimited)")
	stopOnArrival := flag.Bool("stop-on-arrival", false, "Stop once the agent reaches the goal")
	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	if *statsWindow > 0 {
		cfg.Telemetry.StatsWindow = *statsWindow
	}
	if *levelPath != "" {
		cfg.Level.Path = *levelPath
	}

	lvl, err := loadLevel(cfg.Level.Path)
	if err != nil {
		slog.Error("failed to load level", "path", cfg.Level.Path, "error", err)
		os.Exit(1)
	}

	out, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		slog.Error("failed to create output directory", "error", err)
		os.Exit(1)
	}
	defer out.Close()

	if err := out.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config", "error", err)
	}

	g := game.New(cfg, lvl, game.Options{
		Logger:        logger,
		Output:        out,
		LogStats:      *logStats,
		StopOnArrival: *stopOnArrival,
	})

	if err := out.WriteNavmesh(g.Navmesh()); err != nil {
		slog.Error("failed to write navmesh", "error", err)
	}

	slog.Info("starting simulation",
		"level", cfg.Level.Path,
		"nodes", len(g.Navmesh().Nodes),
		"max_ticks", *maxTicks,
		"output_dir", out.Dir(),
	)

	summary := g.Run(*maxTicks)
	slog.Info("simulation finished", "summary", summary)
}

func loadLevel(path string) (*level.Level, error) {
	if path == "" {
		return level.Default()
	}
	return level.Load(path)
}
