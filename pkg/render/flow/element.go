package flow

import (
	"github.com/matzehuels/flowgraph/pkg/dag"
)

// Position is the top-left corner of a node in pixels.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Dimensions is the rendered size of a node in pixels.
type Dimensions struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// NodeData is the payload of a node element.
type NodeData struct {
	Text     string       `json:"text"`
	Handles  []string     `json:"handles"`
	NodeType dag.NodeKind `json:"nodeType"`
	// DAG holds the flattened children of an expanded container.
	DAG      []Element `json:"dag"`
	TaskType string    `json:"taskType,omitempty"`
}

// Element is either a node or an edge of the widget graph. Edges set Source
// and Target; nodes set Data and Position.
type Element struct {
	ID             string      `json:"id"`
	Type           string      `json:"type"`
	Data           *NodeData   `json:"data,omitempty"`
	Position       *Position   `json:"position,omitempty"`
	SourcePosition string      `json:"sourcePosition,omitempty"`
	TargetPosition string      `json:"targetPosition,omitempty"`
	Source         string      `json:"source,omitempty"`
	Target         string      `json:"target,omitempty"`
	SourceHandle   string      `json:"sourceHandle,omitempty"`
	ArrowHeadType  string      `json:"arrowHeadType,omitempty"`
	Measured       *Dimensions `json:"measured,omitempty"`
}

// IsEdge reports whether e is an edge element.
func (e Element) IsEdge() bool { return e.Source != "" || e.Target != "" }

// IsNode reports whether e is a node element.
func (e Element) IsNode() bool { return !e.IsEdge() }

// Nodes returns the node elements of elems in order.
func Nodes(elems []Element) []Element {
	var out []Element
	for _, e := range elems {
		if e.IsNode() {
			out = append(out, e)
		}
	}
	return out
}

// Edges returns the edge elements of elems in order.
func Edges(elems []Element) []Element {
	var out []Element
	for _, e := range elems {
		if e.IsEdge() {
			out = append(out, e)
		}
	}
	return out
}

// Clone returns a deep copy of elems, nested element lists included.
func Clone(elems []Element) []Element {
	if elems == nil {
		return nil
	}
	out := make([]Element, len(elems))
	for i, e := range elems {
		out[i] = e
		if e.Position != nil {
			p := *e.Position
			out[i].Position = &p
		}
		if e.Measured != nil {
			m := *e.Measured
			out[i].Measured = &m
		}
		if e.Data != nil {
			d := *e.Data
			d.Handles = append([]string{}, e.Data.Handles...)
			d.DAG = Clone(e.Data.DAG)
			if d.DAG == nil {
				d.DAG = []Element{}
			}
			out[i].Data = &d
		}
	}
	return out
}
