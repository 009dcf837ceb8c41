package level

import (
	"errors"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func TestParseClosedPolygon(t *testing.T) {
	lvl, err := Parse([]byte(`
polygons:
  - closed: true
    points: [[0, 0], [10, 0], [10, -5]]
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(lvl.Polygons) != 1 {
		t.Fatalf("got %d polygons, want 1", len(lvl.Polygons))
	}
	poly := lvl.Polygons[0]
	if len(poly.Points) != 4 {
		t.Fatalf("closed polygon has %d points, want 4", len(poly.Points))
	}
	if poly.Points[3] != (r2.Vec{}) {
		t.Errorf("closing point = %v, want origin", poly.Points[3])
	}
	if lvl.EdgeCount() != 3 {
		t.Errorf("EdgeCount = %d, want 3", lvl.EdgeCount())
	}
}

func TestParseRejectsDegeneratePolygon(t *testing.T) {
	_, err := Parse([]byte(`
polygons:
  - points: [[0, 0]]
`))
	if !errors.Is(err, ErrTooFewPoints) {
		t.Errorf("err = %v, want ErrTooFewPoints", err)
	}
}

func TestEachEdgeStops(t *testing.T) {
	lvl := &Level{Polygons: []Polygon{
		{Points: []r2.Vec{{}, {X: 1}, {X: 2}}},
		{Points: []r2.Vec{{Y: 1}, {X: 1, Y: 1}}},
	}}

	var seen [][2]int
	lvl.EachEdge(func(poly, line int, a, b r2.Vec) bool {
		seen = append(seen, [2]int{poly, line})
		return len(seen) < 2
	})
	if len(seen) != 2 || seen[1] != [2]int{0, 1} {
		t.Errorf("visited %v, want [[0 0] [0 1]]", seen)
	}
}

func TestDefaultLevel(t *testing.T) {
	lvl, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	if !lvl.Polygons[0].Container || !lvl.Polygons[1].Container {
		t.Error("demo level should open with a container pair")
	}
	minP, maxP := lvl.Bounds()
	if minP.X != -420 || maxP.Y != 320 {
		t.Errorf("Bounds = %v..%v", minP, maxP)
	}
}
