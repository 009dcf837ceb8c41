package navmesh

import (
	"log/slog"
	"slices"
	"time"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// Stats summarises a built navmesh.
type Stats struct {
	Nodes           int
	WalkableLinks   int // directed, so twice the number of surface segments
	JumpableLinks   int
	Corners         int
	ExternalCorners int
	Islands         int // connected walkable components
	BuildTime       time.Duration
}

// LogValue implements slog.LogValuer for structured logging.
func (s Stats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("nodes", s.Nodes),
		slog.Int("walkable_links", s.WalkableLinks),
		slog.Int("jumpable_links", s.JumpableLinks),
		slog.Int("corners", s.Corners),
		slog.Int("external_corners", s.ExternalCorners),
		slog.Int("islands", s.Islands),
		slog.Int64("build_ms", s.BuildTime.Milliseconds()),
	)
}

// Stats returns the statistics recorded when the navmesh was built.
func (n *Navmesh) Stats() Stats {
	return n.stats
}

func (n *Navmesh) computeStats(elapsed time.Duration) Stats {
	s := Stats{Nodes: len(n.Nodes), BuildTime: elapsed}
	for i := range n.Nodes {
		node := &n.Nodes[i]
		s.WalkableLinks += len(node.Walkable)
		s.JumpableLinks += len(node.Jumpable)
		if node.Corner {
			s.Corners++
			if node.External {
				s.ExternalCorners++
			}
		}
	}
	s.Islands = len(n.Islands())
	return s
}

// Islands groups node indices into surfaces connected by walking alone.
// Each island is sorted, and islands are ordered by their first index.
func (n *Navmesh) Islands() [][]int {
	g := simple.NewUndirectedGraph()
	for i := range n.Nodes {
		g.AddNode(simple.Node(i))
	}
	for i := range n.Nodes {
		for _, c := range n.Nodes[i].Walkable {
			if c.Target == i {
				continue
			}
			g.SetEdge(g.NewEdge(simple.Node(i), simple.Node(c.Target)))
		}
	}

	components := topo.ConnectedComponents(g)
	islands := make([][]int, 0, len(components))
	for _, comp := range components {
		ids := make([]int, len(comp))
		for k, node := range comp {
			ids[k] = int(node.ID())
		}
		slices.Sort(ids)
		islands = append(islands, ids)
	}
	slices.SortFunc(islands, func(a, b []int) int { return a[0] - b[0] })
	return islands
}

// Graph returns the navmesh as a weighted directed graph over walkable and
// jumpable connections. Where both exist the shorter weight is kept.
func (n *Navmesh) Graph() *simple.WeightedDirectedGraph {
	g := simple.NewWeightedDirectedGraph(0, 0)
	for i := range n.Nodes {
		g.AddNode(simple.Node(i))
	}
	for i := range n.Nodes {
		for _, conns := range [][]Connection{n.Nodes[i].Walkable, n.Nodes[i].Jumpable} {
			for _, c := range conns {
				if c.Target == i {
					continue
				}
				if e := g.WeightedEdge(int64(i), int64(c.Target)); e != nil && e.Weight() <= c.Distance {
					continue
				}
				g.SetWeightedEdge(g.NewWeightedEdge(simple.Node(i), simple.Node(c.Target), c.Distance))
			}
		}
	}
	return g
}
