package navigator

import (
	"fmt"

	"skidqi-be/internal/category"
)

type State int

const (
	StateRoot State = iota
	StateAtNode
)

func (s State) String() string {
	if s == StateAtNode {
		return "at_node"
	}
	return "root"
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *State) UnmarshalText(b []byte) error {
	switch string(b) {
	case "root":
		*s = StateRoot
	case "at_node":
		*s = StateAtNode
	default:
		return fmt.Errorf("unknown navigator state %q", string(b))
	}
	return nil
}

// View is a snapshot of what the navigator currently displays.
type View struct {
	State    State                `json:"state"`
	Path     []*category.Category `json:"path"`
	Items    []*category.Category `json:"items"`
	Step     int                  `json:"step"`
	Loading  bool                 `json:"loading"`
	Err      string               `json:"error,omitempty"`
	CanRetry bool                 `json:"can_retry"`
}

// Outcome is the result of selecting a node: either a drill-down (View
// shows the node's children) or a terminal choice of a leaf category.
type Outcome struct {
	Chosen     bool   `json:"chosen"`
	CategoryID string `json:"category_id,omitempty"`
	View       View   `json:"view"`
}

type transitionKind int

const (
	transitionInit transitionKind = iota
	transitionSelect
	transitionBack
)

// transition remembers a failed action so Retry can replay it.
type transition struct {
	kind    transitionKind
	nodeID  string
	toIndex int
}
