// Command navdump builds the navmesh for a level, logs its statistics and
// optionally writes it to CSV or plans a single path across it.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/leap/config"
	"github.com/pthm-cable/leap/game"
	"github.com/pthm-cable/leap/level"
	"github.com/pthm-cable/leap/pathfind"
	"github.com/pthm-cable/leap/telemetry"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	levelPath := flag.String("level", "", "Path to level YAML (empty = demo level)")
	outputDir := flag.String("output", "", "Directory for nodes.csv and connections.csv (empty = no files)")
	from := flag.String("from", "", "Plan a path from x,y")
	to := flag.String("to", "", "Goal position x,y for -from (empty = config goal)")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	path := cfg.Level.Path
	if *levelPath != "" {
		path = *levelPath
	}
	lvl, err := level.Default()
	if path != "" {
		lvl, err = level.Load(path)
	}
	if err != nil {
		slog.Error("failed to load level", "path", path, "error", err)
		os.Exit(1)
	}

	nav := game.BuildNavmesh(cfg, lvl, logger)

	islands := nav.Islands()
	sizes := make([]int, len(islands))
	for i, island := range islands {
		sizes[i] = len(island)
	}
	slog.Info("islands", "count", len(islands), "sizes", sizes)

	if *outputDir != "" {
		if err := os.MkdirAll(*outputDir, 0755); err != nil {
			slog.Error("failed to create output directory", "error", err)
			os.Exit(1)
		}
		if err := telemetry.WriteNavmeshCSV(*outputDir, nav); err != nil {
			slog.Error("failed to write navmesh", "error", err)
			os.Exit(1)
		}
		slog.Info("navmesh written", "dir", *outputDir)
	}

	if *from == "" {
		return
	}
	start, err := parsePoint(*from)
	if err != nil {
		slog.Error("bad -from", "error", err)
		os.Exit(1)
	}
	goal := cfg.Goal.Position.Vec()
	if *to != "" {
		if goal, err = parsePoint(*to); err != nil {
			slog.Error("bad -to", "error", err)
			os.Exit(1)
		}
	}

	nav.SetGoalPosition(goal)
	nav.SetActive(true)

	p := pathfind.FindPath(nav, start)
	if p == nil {
		slog.Warn("no path", "from", *from, "to", goal)
		os.Exit(2)
	}
	ids := make([]int, len(p))
	for i, n := range p {
		ids[i] = n.ID
	}
	slog.Info("path", "nodes", ids, "distance", p.Distance(nav))
}

func parsePoint(s string) (r2.Vec, error) {
	var v r2.Vec
	if _, err := fmt.Sscanf(s, "%g,%g", &v.X, &v.Y); err != nil {
		return r2.Vec{}, fmt.Errorf("parsing point %q: %w", s, err)
	}
	return v, nil
}
