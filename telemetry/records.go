package telemetry

import (
	"github.com/pthm-cable/leap/navmesh"
)

// NodeRecord is one navmesh node in nodes.csv.
type NodeRecord struct {
	ID       int     `csv:"id"`
	X        float64 `csv:"x"`
	Y        float64 `csv:"y"`
	Polygon  int     `csv:"polygon"`
	Lines    int     `csv:"lines"`
	NormalX  float64 `csv:"normal_x"`
	NormalY  float64 `csv:"normal_y"`
	Corner   string  `csv:"corner"` // "", "internal" or "external"
	Walkable int     `csv:"walkable"`
	Jumpable int     `csv:"jumpable"`
}

// ConnectionRecord is one directed connection in connections.csv.
type ConnectionRecord struct {
	From     int     `csv:"from"`
	To       int     `csv:"to"`
	Kind     string  `csv:"kind"`
	Distance float64 `csv:"distance"`
	Effort   float64 `csv:"effort"`
}

// TraceRecord is one agent sample in trace.csv.
type TraceRecord struct {
	Tick      int     `csv:"tick"`
	X         float64 `csv:"x"`
	Y         float64 `csv:"y"`
	VX        float64 `csv:"vx"`
	VY        float64 `csv:"vy"`
	Grounded  bool    `csv:"grounded"`
	Walled    int8    `csv:"walled"`
	Strategy  string  `csv:"strategy"`
	TargetX   float64 `csv:"target_x"`
	TargetY   float64 `csv:"target_y"`
	PathNodes int     `csv:"path_nodes"`
	GoalX     float64 `csv:"goal_x"`
	GoalY     float64 `csv:"goal_y"`
	GoalNode  int     `csv:"goal_node"` // -1 when tracking is off
}

// JumpRecord is one launch in jumps.csv.
type JumpRecord struct {
	Tick     int     `csv:"tick"`
	FromNode int     `csv:"from_node"`
	ToNode   int     `csv:"to_node"`
	FromX    float64 `csv:"from_x"`
	FromY    float64 `csv:"from_y"`
	ToX      float64 `csv:"to_x"`
	ToY      float64 `csv:"to_y"`
	VX       float64 `csv:"vx"`
	VY       float64 `csv:"vy"`
	Speed    float64 `csv:"speed"`
	Wall     bool    `csv:"wall"`
}

// NavmeshRecords flattens a navmesh into node and connection rows.
func NavmeshRecords(nav *navmesh.Navmesh) ([]NodeRecord, []ConnectionRecord) {
	nodes := make([]NodeRecord, 0, len(nav.Nodes))
	var conns []ConnectionRecord

	for i := range nav.Nodes {
		n := &nav.Nodes[i]
		corner := ""
		if external, ok := n.CornerType(); ok {
			corner = "internal"
			if external {
				corner = "external"
			}
		}
		nodes = append(nodes, NodeRecord{
			ID:       n.ID,
			X:        n.Position.X,
			Y:        n.Position.Y,
			Polygon:  n.Polygon,
			Lines:    len(n.Lines),
			NormalX:  n.Normal.X,
			NormalY:  n.Normal.Y,
			Corner:   corner,
			Walkable: len(n.Walkable),
			Jumpable: len(n.Jumpable),
		})

		for _, list := range [][]navmesh.Connection{n.Walkable, n.Jumpable, n.Droppable} {
			for _, c := range list {
				conns = append(conns, ConnectionRecord{
					From:     n.ID,
					To:       c.Target,
					Kind:     c.Kind.String(),
					Distance: c.Distance,
					Effort:   c.Effort,
				})
			}
		}
	}
	return nodes, conns
}
