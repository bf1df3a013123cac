package build

import (
	"strings"

	"github.com/matzehuels/flowgraph/pkg/dag"
	"github.com/matzehuels/flowgraph/pkg/workflow"
)

// Display names of the reserved start and end nodes.
const (
	DisplayNameStart = "start"
	DisplayNameEnd   = "end"
)

// Classify returns the kind of a compiled node. Reserved ids win over node
// payloads; branch wins over workflow; anything else is a task.
func Classify(n *workflow.CompiledNode) dag.NodeKind {
	switch {
	case n.ID == workflow.StartNodeID:
		return dag.KindStart
	case n.ID == workflow.EndNodeID:
		return dag.KindEnd
	case n.BranchNode != nil:
		return dag.KindBranch
	case n.WorkflowNode != nil:
		return dag.KindSubWorkflow
	default:
		return dag.KindTask
	}
}

// DisplayName returns the label of a compiled node or workflow.
//
// The full name is the node's metadata name, else the node id, else the
// workflow template name. A full name equal to a reserved start or end id
// maps to "start" or "end"; dotted names keep only the segment after the
// last dot.
func DisplayName(e workflow.Entity) string {
	var full string
	switch v := e.(type) {
	case *workflow.CompiledNode:
		if v == nil {
			return ""
		}
		full = v.ID
		if v.Metadata != nil && v.Metadata.Name != "" {
			full = v.Metadata.Name
		}
	case *workflow.CompiledWorkflow:
		if v == nil || v.Template == nil {
			return ""
		}
		full = v.Template.ID.Name
	default:
		return ""
	}

	switch full {
	case workflow.StartNodeID:
		return DisplayNameStart
	case workflow.EndNodeID:
		return DisplayNameEnd
	}
	if i := strings.LastIndex(full, "."); i >= 0 {
		return full[i+1:]
	}
	return full
}

// CreateID returns the graph id of a node inside the given workflow
// template: <name>_<version>_<nodeID>.
func CreateID(templateID workflow.Identifier, nodeID string) string {
	return templateID.Name + "_" + templateID.Version + "_" + nodeID
}
