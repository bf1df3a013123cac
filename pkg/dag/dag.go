package dag

import (
	"encoding/json"
	"fmt"

	"github.com/matzehuels/flowgraph/pkg/workflow"
)

// NodeKind classifies a node of the workflow graph.
type NodeKind int

const (
	KindStart NodeKind = iota
	KindEnd
	KindTask
	KindBranch
	KindSubWorkflow
	KindPrimary
	KindNestedStart
	KindNestedEnd
	// KindNestedMaxDepth marks a container collapsed by a renderer.
	// Builders never produce it.
	KindNestedMaxDepth
)

var kindNames = [...]string{
	KindStart:          "start",
	KindEnd:            "end",
	KindTask:           "task",
	KindBranch:         "branch",
	KindSubWorkflow:    "subworkflow",
	KindPrimary:        "primary",
	KindNestedStart:    "nestedStart",
	KindNestedEnd:      "nestedEnd",
	KindNestedMaxDepth: "nestedMaxDepth",
}

// Kinds lists every node kind in declaration order.
func Kinds() []NodeKind {
	return []NodeKind{
		KindStart, KindEnd, KindTask, KindBranch, KindSubWorkflow,
		KindPrimary, KindNestedStart, KindNestedEnd, KindNestedMaxDepth,
	}
}

// Valid reports whether k is a declared kind.
func (k NodeKind) Valid() bool {
	return k >= KindStart && k <= KindNestedMaxDepth
}

func (k NodeKind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("NodeKind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind returns the kind with the given name.
func ParseKind(s string) (NodeKind, bool) {
	for k, name := range kindNames {
		if name == s {
			return NodeKind(k), true
		}
	}
	return 0, false
}

// MarshalJSON encodes the kind by name.
func (k NodeKind) MarshalJSON() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("unknown node kind %d", int(k))
	}
	return json.Marshal(k.String())
}

// UnmarshalJSON decodes a kind name.
func (k *NodeKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, ok := ParseKind(s)
	if !ok {
		return fmt.Errorf("unknown node kind %q", s)
	}
	*k = parsed
	return nil
}

// Value is the payload a node carries: the original entity and, for task
// nodes, the merged task template.
type Value struct {
	Entity workflow.Entity
	Task   *workflow.CompiledTask
}

// TaskType returns the merged task template type, or "" when the node has no
// resolved task.
func (v Value) TaskType() string {
	if v.Task == nil {
		return ""
	}
	return v.Task.Template.Type
}

// Node is a vertex of the workflow graph. Containers carry Nodes and Edges;
// leaves leave both empty.
type Node struct {
	ID    string
	Name  string
	Kind  NodeKind
	Value Value
	Nodes []*Node
	Edges []Edge
}

// IsContainer reports whether the node has children.
func (n *Node) IsContainer() bool { return len(n.Nodes) > 0 }

// Child returns the direct child with the given id.
func (n *Node) Child(id string) (*Node, bool) {
	for _, c := range n.Nodes {
		if c.ID == id {
			return c, true
		}
	}
	return nil, false
}

// Edge connects two children of the same container.
type Edge struct {
	SourceID string `json:"sourceId"`
	TargetID string `json:"targetId"`
}
