package main

import (
	"log/slog"
	"math"
	"sync"

	"github.com/pthm-cable/leap/config"
	"github.com/pthm-cable/leap/game"
	"github.com/pthm-cable/leap/level"
	"github.com/pthm-cable/leap/telemetry"
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params     *ParamVector
	maxTicks   int
	goals      []config.Point
	baseConfig *config.Config
	lvl        *level.Level
	logger     *slog.Logger

	mu          sync.Mutex
	bestFitness float64
	bestRuns    []telemetry.RunSummary
	lastArrived int // arrivals in the most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator. Every evaluation runs one
// simulation per goal position.
func NewFitnessEvaluator(params *ParamVector, maxTicks int, goals []config.Point, baseCfg *config.Config, lvl *level.Level) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		goals:       goals,
		baseConfig:  baseCfg,
		lvl:         lvl,
		logger:      slog.New(slog.DiscardHandler),
		bestFitness: math.Inf(1),
	}
}

// BestRuns returns the run summaries of the best evaluation.
func (fe *FitnessEvaluator) BestRuns() []telemetry.RunSummary {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.bestRuns
}

// LastArrived returns how many goals the most recent evaluation reached.
func (fe *FitnessEvaluator) LastArrived() int {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastArrived
}

// Evaluate computes fitness for a parameter vector (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	runs := make([]telemetry.RunSummary, len(fe.goals))
	var wg sync.WaitGroup

	for i, goal := range fe.goals {
		wg.Add(1)
		go func(idx int, p config.Point) {
			defer wg.Done()
			runs[idx] = fe.runSimulation(x, p)
		}(i, goal)
	}
	wg.Wait()

	var total float64
	arrived := 0
	for _, r := range runs {
		total += fe.computeFitness(r)
		if r.Arrived {
			arrived++
		}
	}
	avg := total / float64(len(runs))

	fe.mu.Lock()
	if avg < fe.bestFitness {
		fe.bestFitness = avg
		fe.bestRuns = runs
	}
	fe.lastArrived = arrived
	fe.mu.Unlock()

	return avg
}

// runSimulation runs one headless simulation until arrival or maxTicks.
func (fe *FitnessEvaluator) runSimulation(x []float64, goal config.Point) telemetry.RunSummary {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)
	cfg.Goal = config.GoalConfig{Position: goal, Active: true}

	g := game.New(cfg, fe.lvl, game.Options{Logger: fe.logger, StopOnArrival: true})
	return g.Run(fe.maxTicks)
}

// copyConfig creates a copy of the base config the evaluation can modify.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	return &cfg
}

// computeFitness scores one run (lower = better). Arrivals score their
// arrival tick; misses score the full run plus the remaining distance, so
// getting closer still helps.
func (fe *FitnessEvaluator) computeFitness(r telemetry.RunSummary) float64 {
	if r.Arrived {
		return float64(r.ArrivalTick)
	}
	return float64(fe.maxTicks) + r.GoalDistance
}
