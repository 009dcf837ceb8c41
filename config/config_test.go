package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Physics.Gravity != 0.5 {
		t.Errorf("gravity = %v, want 0.5", cfg.Physics.Gravity)
	}
	if cfg.Derived.Gravity != (r2.Vec{Y: -0.5}) {
		t.Errorf("derived gravity = %v", cfg.Derived.Gravity)
	}
	if cfg.Agent.Radius != 8 || cfg.Agent.JumpForce != 8 || cfg.Agent.MaxSpeed != 3 {
		t.Errorf("agent = %+v", cfg.Agent)
	}
	if cfg.Navmesh.NodeSpacing != 20 || cfg.Navmesh.WalkableDot != -0.1 {
		t.Errorf("navmesh = %+v", cfg.Navmesh)
	}
	if cfg.Derived.Spawn != cfg.Agent.Spawn.Vec() {
		t.Errorf("derived spawn = %v", cfg.Derived.Spawn)
	}
}

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadOverlay(t *testing.T) {
	path := writeFile(t, `
agent:
  max_speed: 5
goal:
  script:
    - tick: 30
      direction: [1, 0]
    - tick: 60
      direction: [0, 0]
      active: false
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Agent.MaxSpeed != 5 {
		t.Errorf("max_speed = %v, want 5", cfg.Agent.MaxSpeed)
	}
	if cfg.Agent.Radius != 8 {
		t.Errorf("radius = %v, want default 8 to survive overlay", cfg.Agent.Radius)
	}
	if len(cfg.Goal.Script) != 2 {
		t.Fatalf("script has %d actions, want 2", len(cfg.Goal.Script))
	}
	if cfg.Goal.Script[0].Active != nil {
		t.Error("first action should leave tracking unchanged")
	}
	if a := cfg.Goal.Script[1].Active; a == nil || *a {
		t.Error("second action should deactivate tracking")
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
		want string
	}{
		{"missing file", func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.yaml") }, "reading config file"},
		{"bad yaml", func(t *testing.T) string { return writeFile(t, "agent: [") }, "parsing config file"},
		{"zero gravity", func(t *testing.T) string { return writeFile(t, "physics:\n  gravity: 0\n") }, "physics.gravity"},
		{"zero spacing", func(t *testing.T) string { return writeFile(t, "navmesh:\n  node_spacing: 0\n") }, "navmesh.node_spacing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.path(t))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Load() error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestWriteYAMLReloads(t *testing.T) {
	cfg := Default()
	cfg.Agent.Accel = 0.35
	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}

	back, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if back.Agent.Accel != 0.35 {
		t.Errorf("accel = %v after reload, want 0.35", back.Agent.Accel)
	}
}

func TestInit(t *testing.T) {
	if err := Init(""); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if Cfg().Agent.Radius != 8 {
		t.Errorf("Cfg().Agent.Radius = %v", Cfg().Agent.Radius)
	}
}
