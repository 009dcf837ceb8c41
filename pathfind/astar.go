// Package pathfind searches a navmesh for a route from the agent to the goal
// node.
package pathfind

import (
	"container/heap"
	"math"
	"slices"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/leap/geom"
	"github.com/pthm-cable/leap/navmesh"
)

// PathNode is one step of a path.
type PathNode struct {
	ID       int
	Position r2.Vec
}

// Path runs from the node nearest the agent up to, but not including, the
// goal node. An empty non-nil path means the agent is at the goal node.
type Path []PathNode

// Distance sums the connection distances along the path. Steps with no
// connection between them count as straight lines.
func (p Path) Distance(nav *navmesh.Navmesh) float64 {
	total := 0.0
	for i := 1; i < len(p); i++ {
		if c, ok := nav.Connection(p[i-1].ID, p[i].ID); ok {
			total += c.Distance
			continue
		}
		total += geom.Dist(p[i-1].Position, p[i].Position)
	}
	return total
}

// Next returns the node after the first one, if any.
func (p Path) Next() (PathNode, bool) {
	if len(p) < 2 {
		return PathNode{}, false
	}
	return p[1], true
}

// searchNode is a node in the A* search.
type searchNode struct {
	id     int
	g, h   float64
	parent int // -1 for the start node
	index  int // heap index
}

func (s *searchNode) f() float64 { return s.g + s.h }

// nodeHeap implements heap.Interface for the A* open set.
type nodeHeap []*searchNode

func (h nodeHeap) Len() int           { return len(h) }
func (h nodeHeap) Less(i, j int) bool { return h[i].f() < h[j].f() }
func (h nodeHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *nodeHeap) Push(x any) {
	n := x.(*searchNode)
	n.index = len(*h)
	*h = append(*h, n)
}

func (h *nodeHeap) Pop() any {
	old := *h
	n := len(old)
	node := old[n-1]
	old[n-1] = nil
	node.index = -1
	*h = old[0 : n-1]
	return node
}

// FindPath runs A* from the node nearest start to the navmesh goal node and
// returns the nodes leading up to it. Returns nil when no goal is set or the
// goal cannot be reached.
//
// Nodes are not finalised on first push. A node can sit in the open set more
// than once and stale entries are dropped when popped after it closed. The
// goal node is pushed with zero cost so it is expanded as soon as any
// neighbour reaches it.
func FindPath(nav *navmesh.Navmesh, start r2.Vec) Path {
	goal, ok := nav.GoalNode()
	if !ok {
		return nil
	}
	startID, ok := StartNode(nav, start)
	if !ok {
		return nil
	}

	open := &nodeHeap{}
	closed := make(map[int]*searchNode, len(nav.Nodes))

	heap.Push(open, &searchNode{
		id:     startID,
		h:      geom.Dist(nav.GoalPosition, nav.Nodes[startID].Position),
		parent: -1,
	})

	for open.Len() > 0 {
		current := heap.Pop(open).(*searchNode)

		if current.id == goal.ID {
			return reconstruct(nav, closed, current)
		}
		if _, done := closed[current.id]; done {
			continue
		}
		closed[current.id] = current

		node := &nav.Nodes[current.id]
		for _, conns := range [][]navmesh.Connection{node.Walkable, node.Jumpable} {
			for _, c := range conns {
				next := &searchNode{id: c.Target, parent: current.id}
				if c.Target != goal.ID {
					next.g = current.g + c.Distance
					next.h = geom.Dist(nav.GoalPosition, nav.Nodes[c.Target].Position)
				}
				heap.Push(open, next)
			}
		}
	}

	return nil
}

// StartNode returns the node nearest p. Equally near nodes are separated by
// their distance to the goal position.
func StartNode(nav *navmesh.Navmesh, p r2.Vec) (int, bool) {
	best := -1
	bestDist, bestGoal := math.MaxFloat64, math.MaxFloat64
	for i := range nav.Nodes {
		pos := nav.Nodes[i].Position
		d := geom.DistSq(p, pos)
		if d > bestDist {
			continue
		}
		g := geom.DistSq(nav.GoalPosition, pos)
		if d == bestDist && g >= bestGoal {
			continue
		}
		best, bestDist, bestGoal = i, d, g
	}
	return best, best >= 0
}

// reconstruct walks parent links back from the goal through the closed set.
// The goal node itself is left out, so a start that is already the goal node
// yields an empty, non-nil path.
func reconstruct(nav *navmesh.Navmesh, closed map[int]*searchNode, goal *searchNode) Path {
	path := Path{}
	for parent := goal.parent; parent >= 0; {
		n := closed[parent]
		path = append(path, PathNode{ID: n.id, Position: nav.Nodes[n.id].Position})
		parent = n.parent
	}

	slices.Reverse(path)
	return path
}
