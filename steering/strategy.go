// Package steering turns a path into a per-tick movement direction and, when
// the next step is a jump, a launch velocity.
package steering

// Strategy names the point the agent steers toward.
type Strategy uint8

const (
	None                 Strategy = iota // no path or already arrived
	AgentToCurrentOffset                 // approach the current node
	AgentToNextOffset                    // head past the current node
)

func (s Strategy) String() string {
	switch s {
	case None:
		return "none"
	case AgentToCurrentOffset:
		return "agent_to_current_offset"
	case AgentToNextOffset:
		return "agent_to_next_offset"
	default:
		return "unknown"
	}
}

// State is what strategy selection looks at.
type State struct {
	Falling        bool // no contact normal
	JumpConnection bool // the first path step is a jump
	Corner         bool // the current node lies on more than one edge
	CrossingNode   bool // the agent is on a wall and passes the current node next tick
	Stationary     bool // the agent is nearly at rest
	NearNext       bool // agent to next offset is no longer than the offset segment
}

// Select picks the strategy for a state. The first matching rule wins.
func Select(s State) Strategy {
	switch {
	case s.Falling:
		return AgentToNextOffset
	case s.JumpConnection:
		if s.CrossingNode || s.Stationary {
			return AgentToNextOffset
		}
		return AgentToCurrentOffset
	case s.Corner:
		return AgentToNextOffset
	case s.NearNext:
		return AgentToNextOffset
	default:
		return AgentToCurrentOffset
	}
}
