package navmesh

import (
	"log/slog"
	"math"
	"time"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/leap/ballistic"
	"github.com/pthm-cable/leap/geom"
	"github.com/pthm-cable/leap/level"
)

// mergeDistSq is the squared distance below which two nodes are merged.
const mergeDistSq = 1.0

// BuildParams holds the tunables of navmesh construction.
type BuildParams struct {
	NodeSpacing float64 // maximum gap between nodes along an edge
	WalkableDot float64 // edges with dir·x at or below this carry no nodes
	AgentRadius float64 // capsule radius for jump validation
	Solver      ballistic.Solver
}

// DefaultBuildParams returns the construction settings of the demo agent.
func DefaultBuildParams() BuildParams {
	return BuildParams{
		NodeSpacing: 20,
		WalkableDot: -0.1,
		AgentRadius: 8,
		Solver: ballistic.Solver{
			Gravity:  r2.Vec{Y: -0.5},
			MaxSpeed: 8,
			Samples:  ballistic.DefaultSamples,
		},
	}
}

// Build constructs the navmesh for a level. The stages run strictly in
// order; each depends on the output of the previous one. A nil logger falls
// back to slog.Default().
func Build(lvl *level.Level, params BuildParams, logger *slog.Logger) *Navmesh {
	if logger == nil {
		logger = slog.Default()
	}
	start := time.Now()

	n := &Navmesh{}
	n.placeNodes(lvl, params)
	n.symmetrizeWalkable()
	n.removeDuplicates()
	n.renumber()
	n.connectJumps(lvl, params)
	n.computeNormals(lvl)
	n.classifyCorners()

	n.stats = n.computeStats(time.Since(start))
	logger.Info("navmesh_built", "stats", n.stats)
	return n
}

// placeNodes spreads nodes along every walkable edge and links consecutive
// nodes one way. Node IDs are placement order until renumber runs.
func (n *Navmesh) placeNodes(lvl *level.Level, params BuildParams) {
	outerContainerSeen := false

	for pi := range lvl.Polygons {
		poly := &lvl.Polygons[pi]
		if poly.Container {
			outerContainerSeen = !outerContainerSeen
		}
		if outerContainerSeen && poly.Container {
			continue
		}

		for li := 1; li < len(poly.Points); li++ {
			start, end := poly.Points[li-1], poly.Points[li]
			edge := r2.Sub(end, start)
			length := r2.Norm(edge)

			count := math.Ceil(length / params.NodeSpacing)
			if count < 1 {
				count = 1
			}
			spacing := length / count

			dir := geom.NormalizeOrZero(edge)
			if r2.Dot(dir, geom.UnitX) <= params.WalkableDot {
				continue
			}

			for j := 0; j < int(count); j++ {
				node := Node{
					ID:       len(n.Nodes),
					Position: r2.Add(start, r2.Scale(float64(j)*spacing, dir)),
					Polygon:  pi,
					Lines:    []int{li - 1},
				}
				if j > 0 {
					node.Walkable = append(node.Walkable, walk(len(n.Nodes)-1, spacing))
				}
				n.Nodes = append(n.Nodes, node)
			}
			n.Nodes = append(n.Nodes, Node{
				ID:       len(n.Nodes),
				Position: end,
				Polygon:  pi,
				Lines:    []int{li - 1},
				Walkable: []Connection{walk(len(n.Nodes)-1, spacing)},
			})
		}
	}
}

func walk(target int, dist float64) Connection {
	return Connection{Target: target, Distance: dist, Kind: Walkable}
}

// symmetrizeWalkable mirrors every placement link. It runs before any node
// is removed, so IDs and indices still agree.
func (n *Navmesh) symmetrizeWalkable() {
	count := len(n.Nodes)
	for i := 0; i < count; i++ {
		placed := len(n.Nodes[i].Walkable)
		for c := 0; c < placed; c++ {
			conn := n.Nodes[i].Walkable[c]
			n.Nodes[conn.Target].Walkable = append(n.Nodes[conn.Target].Walkable, walk(i, conn.Distance))
		}
	}
}

// removeDuplicates merges nodes closer than mergeDistSq. The later node's
// connections and edges move onto the earlier one, references to it are
// redirected, and it is removed. Connections still hold placement IDs here.
func (n *Navmesh) removeDuplicates() {
	for i := 0; i < len(n.Nodes); i++ {
		j := i + 1
		for j < len(n.Nodes) {
			if geom.DistSq(n.Nodes[i].Position, n.Nodes[j].Position) >= mergeDistSq {
				j++
				continue
			}

			keep, drop := n.Nodes[i].ID, n.Nodes[j].ID
			n.Nodes[i].Walkable = append(n.Nodes[i].Walkable, n.Nodes[j].Walkable...)
			n.Nodes[i].Lines = append(n.Nodes[i].Lines, n.Nodes[j].Lines...)
			n.Nodes = append(n.Nodes[:j], n.Nodes[j+1:]...)

			for k := range n.Nodes {
				conns := n.Nodes[k].Walkable[:0]
				for _, c := range n.Nodes[k].Walkable {
					if c.Target == drop {
						c.Target = keep
					}
					if c.Target == n.Nodes[k].ID {
						continue // merged a zero-length edge into a self loop
					}
					conns = append(conns, c)
				}
				n.Nodes[k].Walkable = conns
			}
		}
	}
}

// renumber makes every ID equal its index and rewrites connection targets
// from placement IDs to indices.
func (n *Navmesh) renumber() {
	index := make(map[int]int, len(n.Nodes))
	for i := range n.Nodes {
		index[n.Nodes[i].ID] = i
	}

	for i := range n.Nodes {
		n.Nodes[i].ID = i
		for c := range n.Nodes[i].Walkable {
			n.Nodes[i].Walkable[c].Target = index[n.Nodes[i].Walkable[c].Target]
		}
	}
}

// computeNormals sets each node's normal to the re-normalised sum of the
// normals of the edges it lies on.
func (n *Navmesh) computeNormals(lvl *level.Level) {
	for i := range n.Nodes {
		node := &n.Nodes[i]
		var sum r2.Vec
		for _, line := range node.Lines {
			a, b := lvl.Edge(node.Polygon, line)
			sum = r2.Add(sum, geom.Perp(geom.NormalizeOrZero(r2.Sub(b, a))))
		}
		node.Normal = geom.NormalizeOrZero(sum)
	}
}

// classifyCorners marks nodes on more than one edge as corners. A corner is
// external when its walkable neighbours lie, on balance, behind its normal.
func (n *Navmesh) classifyCorners() {
	for i := range n.Nodes {
		node := &n.Nodes[i]
		node.Corner = len(node.Lines) > 1
		if !node.Corner {
			continue
		}

		var toNeighbours r2.Vec
		for _, c := range node.Walkable {
			toNeighbours = r2.Add(toNeighbours, r2.Sub(n.Nodes[c.Target].Position, node.Position))
		}
		node.External = r2.Dot(toNeighbours, node.Normal) < 0
	}
}
