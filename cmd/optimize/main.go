// Package main provides CMA-ES optimization for finding agent movement
// tuning that reaches goals across a level fastest.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/leap/config"
	"github.com/pthm-cable/leap/level"
	"github.com/pthm-cable/leap/telemetry"
)

// defaultGoals sit on each ledge of the demo level.
var defaultGoals = []config.Point{
	{-200, -250},
	{-40, -200},
	{120, -150},
	{280, -100},
}

// evalRecord is one row of optimize_log.csv.
type evalRecord struct {
	Eval      int     `csv:"eval"`
	Fitness   float64 `csv:"fitness"`
	Arrived   int     `csv:"arrived"`
	MaxSpeed  float64 `csv:"max_speed"`
	Accel     float64 `csv:"accel"`
	Decel     float64 `csv:"decel"`
	JumpForce float64 `csv:"jump_force"`
}

// formatDuration formats a duration as HH:MM:SS or MM:SS for shorter durations.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

// validateFlags rejects run budgets that would never end a simulation or
// never evaluate a candidate.
func validateFlags(maxTicks, maxEvals, population int) error {
	if maxTicks <= 0 {
		return fmt.Errorf("--max-ticks must be positive, got %d", maxTicks)
	}
	if maxEvals <= 0 {
		return fmt.Errorf("--max-evals must be positive, got %d", maxEvals)
	}
	if population < 0 {
		return fmt.Errorf("--population must not be negative, got %d", population)
	}
	return nil
}

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	levelPath := flag.String("level", "", "Level YAML file (empty = demo level)")
	maxTicks := flag.Int("max-ticks", 2000, "Maximum ticks per run")
	maxEvals := flag.Int("max-evals", 200, "Maximum number of evaluations")
	population := flag.Int("population", 0, "CMA-ES population size (0 = auto)")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	if *outputDir == "" {
		log.Fatal("--output is required")
	}
	if err := validateFlags(*maxTicks, *maxEvals, *population); err != nil {
		log.Fatal(err)
	}

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	baseCfg := config.Cfg()

	lvl, err := level.Default()
	if *levelPath != "" {
		lvl, err = level.Load(*levelPath)
	}
	if err != nil {
		log.Fatalf("failed to load level: %v", err)
	}

	params := NewParamVector()
	evaluator := NewFitnessEvaluator(params, *maxTicks, defaultGoals, baseCfg, lvl)

	dim := params.Dim()
	initX := params.Normalize(params.ExtractFromConfig(baseCfg))

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			return evaluator.Evaluate(params.Denormalize(x))
		},
	}

	settings := &optimize.Settings{
		FuncEvaluations: *maxEvals,
		Concurrent:      0, // Sequential evaluation; goals already run in parallel
	}

	popSize := *population
	if popSize == 0 {
		popSize = 4 + int(3.0*float64(dim)/2.0)
	}

	method := &optimize.CmaEsChol{
		InitStepSize: 0.3,
		Population:   popSize,
	}

	logPath := filepath.Join(*outputDir, "optimize_log.csv")
	logFile, err := os.Create(logPath)
	if err != nil {
		log.Fatalf("failed to create log file: %v", err)
	}
	defer logFile.Close()

	evalCount := 0
	bestFitness := 1e9
	var bestParams []float64
	startTime := time.Now()

	// Wrap the function to log evaluations
	originalFunc := problem.Func
	problem.Func = func(x []float64) float64 {
		fitness := originalFunc(x)
		evalCount++

		clamped := params.Clamp(params.Denormalize(x))
		if fitness < bestFitness {
			bestFitness = fitness
			bestParams = clamped
		}

		arrived := evaluator.LastArrived()
		rec := []evalRecord{{
			Eval:      evalCount,
			Fitness:   fitness,
			Arrived:   arrived,
			MaxSpeed:  clamped[0],
			Accel:     clamped[1],
			Decel:     clamped[2],
			JumpForce: clamped[3],
		}}
		write := gocsv.MarshalWithoutHeaders
		if evalCount == 1 {
			write = gocsv.Marshal
		}
		if err := write(&rec, logFile); err != nil {
			log.Printf("failed to write log row: %v", err)
		}

		elapsed := time.Since(startTime)
		avgPerEval := elapsed / time.Duration(evalCount)
		remaining := time.Duration(*maxEvals-evalCount) * avgPerEval

		fmt.Printf("Eval %d/%d: fitness=%.1f arrived=%d/%d (best=%.1f) | elapsed: %s, ETA: %s\n",
			evalCount, *maxEvals, fitness, arrived, len(defaultGoals), bestFitness,
			formatDuration(elapsed), formatDuration(remaining))

		return fitness
	}

	fmt.Printf("Starting CMA-ES optimization with %d parameters, population=%d, max_evals=%d\n",
		dim, popSize, *maxEvals)
	fmt.Printf("Goals per evaluation: %d, ticks per run: %d\n", len(defaultGoals), *maxTicks)

	result, err := optimize.Minimize(problem, initX, settings, method)
	if err != nil {
		log.Printf("optimization ended: %v", err)
	}

	if bestParams == nil {
		bestParams = params.Clamp(params.Denormalize(result.X))
	}

	fmt.Printf("\nOptimization complete after %d evaluations in %s\n", evalCount, formatDuration(time.Since(startTime)))
	fmt.Printf("Best fitness: %.1f\n", bestFitness)

	fmt.Println("\nBest parameters:")
	for i, spec := range params.Specs {
		fmt.Printf("  %s: %.6f\n", spec.Name, bestParams[i])
	}

	bestCfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to reload config: %v", err)
	}
	params.ApplyToConfig(bestCfg, bestParams)

	configOutPath := filepath.Join(*outputDir, "best_config.yaml")
	if err := bestCfg.WriteYAML(configOutPath); err != nil {
		log.Printf("failed to write best config: %v", err)
	} else {
		fmt.Printf("\nBest config saved to: %s\n", configOutPath)
	}

	runsPath := filepath.Join(*outputDir, "best_runs.csv")
	if err := writeRuns(runsPath, evaluator.BestRuns()); err != nil {
		log.Printf("failed to write best runs: %v", err)
	} else {
		fmt.Printf("Best runs saved to: %s\n", runsPath)
	}
}

// runRecord is one row of best_runs.csv.
type runRecord struct {
	GoalX        float64 `csv:"goal_x"`
	GoalY        float64 `csv:"goal_y"`
	Arrived      bool    `csv:"arrived"`
	ArrivalTick  int     `csv:"arrival_tick"`
	Jumps        int     `csv:"jumps"`
	WallJumps    int     `csv:"wall_jumps"`
	Travelled    float64 `csv:"travelled"`
	GoalDistance float64 `csv:"goal_distance"`
}

func writeRuns(path string, runs []telemetry.RunSummary) error {
	if runs == nil {
		return fmt.Errorf("no evaluation completed")
	}
	records := make([]runRecord, len(runs))
	for i, r := range runs {
		records[i] = runRecord{
			GoalX:        defaultGoals[i][0],
			GoalY:        defaultGoals[i][1],
			Arrived:      r.Arrived,
			ArrivalTick:  r.ArrivalTick,
			Jumps:        r.Jumps,
			WallJumps:    r.WallJumps,
			Travelled:    r.Travelled,
			GoalDistance: r.GoalDistance,
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := gocsv.MarshalFile(&records, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
