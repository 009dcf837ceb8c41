// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gonum.org/v1/gonum/spatial/r2"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Level     LevelConfig     `yaml:"level"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Agent     AgentConfig     `yaml:"agent"`
	Navmesh   NavmeshConfig   `yaml:"navmesh"`
	Goal      GoalConfig      `yaml:"goal"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// Point is a 2D coordinate written as [x, y].
type Point [2]float64

// Vec converts the point to a vector.
func (p Point) Vec() r2.Vec {
	return r2.Vec{X: p[0], Y: p[1]}
}

// LevelConfig selects the level geometry.
type LevelConfig struct {
	Path string `yaml:"path"` // empty = embedded demo level
}

// PhysicsConfig holds world physics parameters.
type PhysicsConfig struct {
	Gravity float64 `yaml:"gravity"` // downward acceleration per tick
}

// AgentConfig holds the platforming agent's body and movement tuning.
type AgentConfig struct {
	Radius            float64 `yaml:"radius"`
	JumpForce         float64 `yaml:"jump_force"` // launch speed budget
	MaxSpeed          float64 `yaml:"max_speed"`
	Accel             float64 `yaml:"accel"`               // blend toward desired velocity while steering
	Decel             float64 `yaml:"decel"`               // blend toward rest with no direction
	StationarySpeedSq float64 `yaml:"stationary_speed_sq"` // squared speed counted as at rest
	Spawn             Point   `yaml:"spawn"`
}

// NavmeshConfig holds navmesh construction parameters.
type NavmeshConfig struct {
	NodeSpacing float64 `yaml:"node_spacing"`
	WalkableDot float64 `yaml:"walkable_dot"` // edges with dir.x at or below this carry no nodes
	JumpSamples int     `yaml:"jump_samples"` // trajectory segments swept per jump check
}

// GoalConfig holds the goal tracker's starting state and script.
type GoalConfig struct {
	Position Point        `yaml:"position"`
	Active   bool         `yaml:"active"`
	Speed    float64      `yaml:"speed"` // distance moved per tick along the scripted direction
	Script   []GoalAction `yaml:"script"`
}

// GoalAction changes the goal's motion from a given tick on.
type GoalAction struct {
	Tick      int   `yaml:"tick"`
	Direction Point `yaml:"direction"`
	Active    *bool `yaml:"active,omitempty"` // nil leaves tracking unchanged
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	TraceInterval int     `yaml:"trace_interval"` // ticks between trace rows, 0 disables
	ArrivalRadius float64 `yaml:"arrival_radius"` // agent-to-goal distance counted as arrived
	LogJumps      bool    `yaml:"log_jumps"`
	StatsWindow   int     `yaml:"stats_window"` // ticks per telemetry window
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Gravity   r2.Vec // (0, -Physics.Gravity)
	Spawn     r2.Vec
	GoalStart r2.Vec
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.Physics.Gravity <= 0:
		return fmt.Errorf("physics.gravity must be positive, got %v", c.Physics.Gravity)
	case c.Agent.Radius < 0:
		return fmt.Errorf("agent.radius must not be negative, got %v", c.Agent.Radius)
	case c.Navmesh.NodeSpacing <= 0:
		return fmt.Errorf("navmesh.node_spacing must be positive, got %v", c.Navmesh.NodeSpacing)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.Gravity = r2.Vec{Y: -c.Physics.Gravity}
	c.Derived.Spawn = c.Agent.Spawn.Vec()
	c.Derived.GoalStart = c.Goal.Position.Vec()

	if c.Navmesh.JumpSamples <= 0 {
		c.Navmesh.JumpSamples = 10
	}
	if c.Telemetry.StatsWindow <= 0 {
		c.Telemetry.StatsWindow = 300
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
