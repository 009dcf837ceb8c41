// Package level holds the immutable polygon geometry a navmesh is built from.
package level

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"

	"gonum.org/v1/gonum/spatial/r2"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// Validation errors returned (wrapped with the polygon index) by Parse and Load.
var (
	ErrTooFewPoints = errors.New("polygon needs at least two points")
	ErrNonFinite    = errors.New("polygon point is not finite")
)

// Polygon is an ordered point list. Consecutive points form edges; the
// traversal direction decides which side of an edge is its outward normal.
type Polygon struct {
	Points    []r2.Vec
	Container bool
}

// EdgeCount returns the number of edges in the polygon.
func (p *Polygon) EdgeCount() int {
	if len(p.Points) < 2 {
		return 0
	}
	return len(p.Points) - 1
}

// Level is the full set of polygons. It is read-only once loaded.
type Level struct {
	Polygons []Polygon
}

// Edge returns the endpoints of edge line of polygon poly.
func (l *Level) Edge(poly, line int) (r2.Vec, r2.Vec) {
	pts := l.Polygons[poly].Points
	return pts[line], pts[line+1]
}

// EachEdge calls fn for every edge in polygon order. Iteration stops when fn
// returns false.
func (l *Level) EachEdge(fn func(poly, line int, a, b r2.Vec) bool) {
	for pi := range l.Polygons {
		pts := l.Polygons[pi].Points
		for li := 1; li < len(pts); li++ {
			if !fn(pi, li-1, pts[li-1], pts[li]) {
				return
			}
		}
	}
}

// EdgeCount returns the total number of edges across all polygons.
func (l *Level) EdgeCount() int {
	n := 0
	for i := range l.Polygons {
		n += l.Polygons[i].EdgeCount()
	}
	return n
}

// Bounds returns the axis-aligned box enclosing every point.
func (l *Level) Bounds() (minP, maxP r2.Vec) {
	minP = r2.Vec{X: math.Inf(1), Y: math.Inf(1)}
	maxP = r2.Vec{X: math.Inf(-1), Y: math.Inf(-1)}
	for _, poly := range l.Polygons {
		for _, p := range poly.Points {
			minP.X = math.Min(minP.X, p.X)
			minP.Y = math.Min(minP.Y, p.Y)
			maxP.X = math.Max(maxP.X, p.X)
			maxP.Y = math.Max(maxP.Y, p.Y)
		}
	}
	return minP, maxP
}

// fileFormat is the on-disk YAML layout.
type fileFormat struct {
	Polygons []polygonFormat `yaml:"polygons"`
}

type polygonFormat struct {
	Container bool         `yaml:"container"`
	Closed    bool         `yaml:"closed"` // repeat the first point at the end
	Points    [][2]float64 `yaml:"points"`
}

// Parse decodes a YAML level description.
func Parse(data []byte) (*Level, error) {
	var f fileFormat
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing level: %w", err)
	}

	lvl := &Level{Polygons: make([]Polygon, 0, len(f.Polygons))}
	for i, pf := range f.Polygons {
		if len(pf.Points) < 2 {
			return nil, fmt.Errorf("polygon %d: %w", i, ErrTooFewPoints)
		}

		pts := make([]r2.Vec, 0, len(pf.Points)+1)
		for _, p := range pf.Points {
			if !finite(p[0]) || !finite(p[1]) {
				return nil, fmt.Errorf("polygon %d: %w", i, ErrNonFinite)
			}
			pts = append(pts, r2.Vec{X: p[0], Y: p[1]})
		}
		if pf.Closed && pts[0] != pts[len(pts)-1] {
			pts = append(pts, pts[0])
		}

		lvl.Polygons = append(lvl.Polygons, Polygon{Points: pts, Container: pf.Container})
	}
	return lvl, nil
}

// Load reads a YAML level file. An empty path yields the embedded demo level.
func Load(path string) (*Level, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading level file: %w", err)
	}
	return Parse(data)
}

// Default returns the embedded demo level.
func Default() (*Level, error) {
	return Parse(defaultYAML)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
