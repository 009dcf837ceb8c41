package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/leap/config"
	"github.com/pthm-cable/leap/navmesh"
)

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

func TestNewOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("NewOutputManager(\"\") = %v, %v; want nil, nil", om, err)
	}
	// A nil manager swallows every write.
	if err := om.WriteTrace(TraceRecord{}); err != nil {
		t.Errorf("WriteTrace on nil manager: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Errorf("Close on nil manager: %v", err)
	}
}

func TestOutputManagerStreams(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}

	for tick := range 3 {
		if err := om.WriteTrace(TraceRecord{Tick: tick, Strategy: "none", GoalNode: -1}); err != nil {
			t.Fatalf("WriteTrace: %v", err)
		}
	}
	if err := om.WriteJump(JumpRecord{Tick: 5, Speed: 6.5, Wall: true}); err != nil {
		t.Fatalf("WriteJump: %v", err)
	}
	if err := om.WriteTelemetry(WindowStats{WindowEndTick: 60, Jumps: 1}); err != nil {
		t.Fatalf("WriteTelemetry: %v", err)
	}
	if err := om.WriteConfig(config.Default()); err != nil {
		t.Fatalf("WriteConfig: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	trace := readLines(t, filepath.Join(dir, "trace.csv"))
	if len(trace) != 4 {
		t.Fatalf("trace.csv has %d lines, want header + 3", len(trace))
	}
	if !strings.HasPrefix(trace[0], "tick,x,y") {
		t.Errorf("trace header = %q", trace[0])
	}
	if strings.HasPrefix(trace[2], "tick") {
		t.Error("header repeated on later writes")
	}

	jumps := readLines(t, filepath.Join(dir, "jumps.csv"))
	if len(jumps) != 2 || !strings.HasSuffix(jumps[1], "true") {
		t.Errorf("jumps.csv = %q", jumps)
	}

	if _, err := config.Load(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("written config does not reload: %v", err)
	}
}

func TestWriteNavmesh(t *testing.T) {
	nav := &navmesh.Navmesh{Nodes: []navmesh.Node{
		{ID: 0, Position: r2.Vec{}, Lines: []int{0, 3}, Corner: true, External: true,
			Walkable: []navmesh.Connection{{Target: 1, Distance: 20}}},
		{ID: 1, Position: r2.Vec{X: 20}, Lines: []int{0},
			Walkable: []navmesh.Connection{{Target: 0, Distance: 20}},
			Jumpable: []navmesh.Connection{{Target: 0, Distance: 20, Kind: navmesh.Jumpable, Effort: 4}}},
	}}

	nodes, conns := NavmeshRecords(nav)
	if len(nodes) != 2 || len(conns) != 3 {
		t.Fatalf("got %d nodes and %d connections, want 2 and 3", len(nodes), len(conns))
	}
	if nodes[0].Corner != "external" || nodes[1].Corner != "" {
		t.Errorf("corner columns = %q, %q", nodes[0].Corner, nodes[1].Corner)
	}
	if conns[2].Kind != "jumpable" || conns[2].Effort != 4 {
		t.Errorf("jump row = %+v", conns[2])
	}

	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}
	defer om.Close()

	if err := om.WriteNavmesh(nav); err != nil {
		t.Fatalf("WriteNavmesh: %v", err)
	}
	if lines := readLines(t, filepath.Join(dir, "connections.csv")); len(lines) != 4 {
		t.Errorf("connections.csv has %d lines, want header + 3", len(lines))
	}
	if lines := readLines(t, filepath.Join(dir, "nodes.csv")); len(lines) != 3 {
		t.Errorf("nodes.csv has %d lines, want header + 2", len(lines))
	}
}
