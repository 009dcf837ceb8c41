// Package navmesh builds the traversal graph an agent navigates and tracks
// the goal it is steering toward.
//
// Nodes reference each other by index into Navmesh.Nodes. After Build the
// node slice is read-only; only the goal fields change from tick to tick.
package navmesh

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/leap/ballistic"
	"github.com/pthm-cable/leap/geom"
)

// ConnectionKind is the way an agent traverses a connection.
type ConnectionKind uint8

const (
	Walkable  ConnectionKind = iota // along a surface, always two-way
	Jumpable                        // ballistic jump, one-way
	Droppable                       // reserved, never produced by Build
)

func (k ConnectionKind) String() string {
	switch k {
	case Walkable:
		return "walkable"
	case Jumpable:
		return "jumpable"
	case Droppable:
		return "droppable"
	default:
		return "unknown"
	}
}

// Connection is a directed edge to another node.
type Connection struct {
	Target   int     // index of the target node
	Distance float64 // straight-line length
	Kind     ConnectionKind
	Effort   float64 // launch speed for jumps, 0 for walking
}

// Node is a traversal point on a polygon surface.
type Node struct {
	ID       int
	Position r2.Vec
	Polygon  int
	Lines    []int  // edges of Polygon the node lies on, more than one for corners
	Normal   r2.Vec // outward unit normal, zero when degenerate

	Corner   bool
	External bool // convex corner; only meaningful when Corner is set

	Walkable  []Connection
	Jumpable  []Connection
	Droppable []Connection
}

// CornerType reports whether the node is an external corner. ok is false for
// nodes that are not corners.
func (n *Node) CornerType() (external, ok bool) {
	if !n.Corner {
		return false, false
	}
	return n.External, true
}

// Anchor returns the node as a ballistic endpoint.
func (n *Node) Anchor() ballistic.Anchor {
	return ballistic.Anchor{Position: n.Position, Polygon: n.Polygon, Lines: n.Lines}
}

// OnEdge reports whether the node lies on the given polygon edge.
func (n *Node) OnEdge(poly, line int) bool {
	return n.Polygon == poly && slices.Contains(n.Lines, line)
}

// Navmesh owns every node and the goal the agent is heading for.
type Navmesh struct {
	Nodes []Node

	GoalPosition r2.Vec
	Active       bool

	goal    Node
	hasGoal bool
	stats   Stats
}

// GoalNode returns the snapshot of the node nearest the goal. ok is false
// while goal tracking is inactive or the mesh is empty.
func (n *Navmesh) GoalNode() (Node, bool) {
	return n.goal, n.hasGoal
}

// Nearest returns the index of the node closest to p. The first of several
// equally close nodes wins.
func (n *Navmesh) Nearest(p r2.Vec) (int, bool) {
	best := -1
	bestDist := math.MaxFloat64
	for i := range n.Nodes {
		d := geom.DistSq(p, n.Nodes[i].Position)
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best, best >= 0
}

// NodeAt returns the first node within radius of p.
func (n *Navmesh) NodeAt(p r2.Vec, radius float64) (int, bool) {
	for i := range n.Nodes {
		if geom.DistSq(p, n.Nodes[i].Position) < radius*radius {
			return i, true
		}
	}
	return -1, false
}

// TrackGoal refreshes the goal node snapshot from GoalPosition, or clears it
// when tracking is inactive.
func (n *Navmesh) TrackGoal() {
	if !n.Active {
		n.goal, n.hasGoal = Node{}, false
		return
	}
	idx, ok := n.Nearest(n.GoalPosition)
	if !ok {
		n.goal, n.hasGoal = Node{}, false
		return
	}
	n.goal, n.hasGoal = n.Nodes[idx], true
}

// SetActive turns goal tracking on or off.
func (n *Navmesh) SetActive(active bool) {
	n.Active = active
	n.TrackGoal()
}

// SetGoalPosition moves the goal and, when active, re-selects the goal node.
func (n *Navmesh) SetGoalPosition(p r2.Vec) {
	n.GoalPosition = p
	if n.Active {
		n.TrackGoal()
	}
}

// MoveGoal shifts the goal by delta.
func (n *Navmesh) MoveGoal(delta r2.Vec) {
	n.SetGoalPosition(r2.Add(n.GoalPosition, delta))
}

// HasConnection reports whether from has a connection of the given kind to to.
func (n *Navmesh) HasConnection(from, to int, kind ConnectionKind) bool {
	if from < 0 || from >= len(n.Nodes) {
		return false
	}
	var conns []Connection
	switch kind {
	case Walkable:
		conns = n.Nodes[from].Walkable
	case Jumpable:
		conns = n.Nodes[from].Jumpable
	case Droppable:
		conns = n.Nodes[from].Droppable
	}
	for _, c := range conns {
		if c.Target == to {
			return true
		}
	}
	return false
}

// Connection returns the first connection from one node to another,
// preferring walking over jumping.
func (n *Navmesh) Connection(from, to int) (Connection, bool) {
	if from < 0 || from >= len(n.Nodes) {
		return Connection{}, false
	}
	node := &n.Nodes[from]
	for _, conns := range [][]Connection{node.Walkable, node.Jumpable, node.Droppable} {
		for _, c := range conns {
			if c.Target == to {
				return c, true
			}
		}
	}
	return Connection{}, false
}
