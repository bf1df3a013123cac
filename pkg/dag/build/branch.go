package build

import (
	"github.com/matzehuels/flowgraph/pkg/dag"
	"github.com/matzehuels/flowgraph/pkg/workflow"
)

// arms returns the branch's arm nodes in evaluation order: the case arm,
// every other arm, then the else node.
func arms(ie *workflow.IfElseBlock) []*workflow.CompiledNode {
	var out []*workflow.CompiledNode
	if ie.Case != nil && ie.Case.ThenNode != nil {
		out = append(out, ie.Case.ThenNode)
	}
	for i := range ie.Other {
		if ie.Other[i].ThenNode != nil {
			out = append(out, ie.Other[i].ThenNode)
		}
	}
	if ie.ElseNode != nil {
		out = append(out, ie.ElseNode)
	}
	return out
}

// branch fills n with one child per arm, followed by a nested start and
// nested end node, and wires start -> arm -> end for every arm.
func (b *builder) branch(scopeID workflow.Identifier, n *dag.Node, cn *workflow.CompiledNode) error {
	armNodes := arms(&cn.BranchNode.IfElse)
	if len(armNodes) == 0 {
		b.logger.Warn("branch has no arms", "node", n.ID)
	}

	start := &dag.Node{ID: n.ID + "-" + workflow.StartNodeID, Name: DisplayNameStart, Kind: dag.KindNestedStart}
	end := &dag.Node{ID: n.ID + "-" + workflow.EndNodeID, Name: DisplayNameEnd, Kind: dag.KindNestedEnd}

	nodes := make([]*dag.Node, 0, len(armNodes)+2)
	edges := make([]dag.Edge, 0, 2*len(armNodes))
	for _, arm := range armNodes {
		an, err := b.expand(scopeID, arm, false)
		if err != nil {
			return err
		}
		nodes = append(nodes, an)
		edges = append(edges,
			dag.Edge{SourceID: start.ID, TargetID: an.ID},
			dag.Edge{SourceID: an.ID, TargetID: end.ID},
		)
	}

	n.Nodes = append(nodes, start, end)
	n.Edges = edges
	return nil
}
