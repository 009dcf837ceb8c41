package navmesh

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/leap/geom"
	"github.com/pthm-cable/leap/level"
)

// connectJumps adds a one-way jumpable connection between every ordered pair
// of nodes on different polygons that has a clear line of sight and passes
// the ballistic check.
func (n *Navmesh) connectJumps(lvl *level.Level, params BuildParams) {
	jumps := make([][]Connection, len(n.Nodes))

	for i := range n.Nodes {
		from := &n.Nodes[i]
		for j := range n.Nodes {
			if i == j {
				continue
			}
			to := &n.Nodes[j]
			if from.Polygon == to.Polygon {
				continue
			}
			if !n.lineOfSight(lvl, from, to) {
				continue
			}

			speed, ok := params.Solver.Check(from.Anchor(), to.Anchor(), lvl, params.AgentRadius)
			if !ok {
				continue
			}
			jumps[i] = append(jumps[i], Connection{
				Target:   j,
				Distance: geom.Dist(from.Position, to.Position),
				Kind:     Jumpable,
				Effort:   speed,
			})
		}
	}

	for i := range n.Nodes {
		n.Nodes[i].Jumpable = jumps[i]
	}
}

// lineOfSight reports whether the straight line between two nodes crosses
// no level edge besides the ones the nodes rest on.
func (n *Navmesh) lineOfSight(lvl *level.Level, from, to *Node) bool {
	visible := true
	lvl.EachEdge(func(poly, line int, a, b r2.Vec) bool {
		if from.OnEdge(poly, line) || to.OnEdge(poly, line) {
			return true
		}
		if geom.Intersects(a, b, from.Position, to.Position) {
			visible = false
			return false
		}
		return true
	})
	return visible
}
