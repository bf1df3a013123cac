package graph

import (
	"fmt"

	"github.com/matzehuels/flowgraph/pkg/dag"
	"github.com/matzehuels/flowgraph/pkg/workflow"
)

// =============================================================================
// Tree - Workflow Graph Serialization
// =============================================================================

// Tree is the serialization format for workflow graphs.
type Tree struct {
	// Workflow identifies the primary workflow the tree was built from.
	Workflow *workflow.Identifier `json:"workflow,omitempty"`
	Root     Node                 `json:"root"`
}

// Node is one serialized graph node.
type Node struct {
	ID       string               `json:"id"`
	Name     string               `json:"name"`
	Kind     dag.NodeKind         `json:"kind"`
	TaskType string               `json:"taskType,omitempty"`
	Task     *workflow.Identifier `json:"task,omitempty"`
	Nodes    []Node               `json:"nodes,omitempty"`
	Edges    []Edge               `json:"edges,omitempty"`
}

// Edge is a serialized container edge.
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// FromDAG converts a workflow graph to its serialization format.
func FromDAG(root *dag.Node) Tree {
	var t Tree
	if wf, ok := root.Value.Entity.(*workflow.CompiledWorkflow); ok && wf.Template != nil {
		id := wf.Template.ID
		t.Workflow = &id
	}
	t.Root = fromNode(root)
	return t
}

func fromNode(n *dag.Node) Node {
	out := Node{
		ID:       n.ID,
		Name:     n.Name,
		Kind:     n.Kind,
		TaskType: n.Value.TaskType(),
	}
	if n.Value.Task != nil {
		id := n.Value.Task.Template.ID
		out.Task = &id
	}
	for _, c := range n.Nodes {
		out.Nodes = append(out.Nodes, fromNode(c))
	}
	for _, e := range n.Edges {
		out.Edges = append(out.Edges, Edge{Source: e.SourceID, Target: e.TargetID})
	}
	return out
}

// ToDAG converts a serialized tree back to a workflow graph and validates
// it.
func ToDAG(t Tree) (*dag.Node, error) {
	root := toNode(t.Root)
	if t.Workflow != nil {
		root.Value.Entity = &workflow.CompiledWorkflow{Template: &workflow.WorkflowTemplate{ID: *t.Workflow}}
	}
	if err := dag.Validate(root); err != nil {
		return nil, fmt.Errorf("invalid tree: %w", err)
	}
	return root, nil
}

func toNode(n Node) *dag.Node {
	out := &dag.Node{ID: n.ID, Name: n.Name, Kind: n.Kind}
	if n.Task != nil || n.TaskType != "" {
		task := &workflow.CompiledTask{Template: workflow.TaskTemplate{Type: n.TaskType}}
		if n.Task != nil {
			task.Template.ID = *n.Task
		}
		out.Value.Task = task
	}
	for _, c := range n.Nodes {
		out.Nodes = append(out.Nodes, toNode(c))
	}
	for _, e := range n.Edges {
		out.Edges = append(out.Edges, dag.Edge{SourceID: e.Source, TargetID: e.Target})
	}
	return out
}
