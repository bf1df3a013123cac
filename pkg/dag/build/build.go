package build

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/flowgraph/pkg/dag"
	"github.com/matzehuels/flowgraph/pkg/errors"
	"github.com/matzehuels/flowgraph/pkg/workflow"
)

// Option configures [Build].
type Option func(*builder)

// WithLogger sets the logger used for warnings about unresolved references.
func WithLogger(l *log.Logger) Option {
	return func(b *builder) {
		if l != nil {
			b.logger = l
		}
	}
}

type builder struct {
	closure *workflow.CompiledWorkflowClosure
	logger  *log.Logger
	// active holds the sub-workflows currently being expanded, keyed by
	// template id, so self-referencing closures fail instead of recursing.
	active map[workflow.Identifier]bool
}

// Build constructs the workflow graph of closure.
//
// The root has kind primary, the id of the primary start node and the
// primary workflow's display name; its children are the primary template's
// nodes in template order and its edges follow the connection set from the
// start node.
func Build(closure *workflow.CompiledWorkflowClosure, opts ...Option) (*dag.Node, error) {
	b := &builder{
		closure: closure,
		logger:  log.New(io.Discard),
		active:  make(map[workflow.Identifier]bool),
	}
	for _, opt := range opts {
		opt(b)
	}

	if closure == nil || closure.Primary == nil {
		return nil, errors.New(errors.ErrCodeInvalidClosure, "closure has no primary workflow")
	}
	primary := closure.Primary
	if primary.Template == nil {
		return nil, errors.New(errors.ErrCodeMissingTemplate, "primary workflow has no template")
	}
	tmplID := primary.Template.ID
	if err := errors.ValidateIdentifier(tmplID.Name, tmplID.Version); err != nil {
		return nil, err
	}

	nodes, edges, err := b.scope(primary, false)
	if err != nil {
		return nil, err
	}

	root := &dag.Node{
		ID:    CreateID(tmplID, workflow.StartNodeID),
		Name:  DisplayName(primary),
		Kind:  dag.KindPrimary,
		Value: dag.Value{Entity: primary},
		Nodes: nodes,
		Edges: edges,
	}
	if err := dag.Validate(root); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidClosure, err, "workflow %s", tmplID.Name)
	}

	b.logger.Debug("built workflow graph", "workflow", tmplID.Name, "nodes", len(nodes), "edges", len(edges))
	return root, nil
}

// scope builds the children and edges of one workflow. Nested scopes retag
// their own start and end nodes.
func (b *builder) scope(wf *workflow.CompiledWorkflow, nested bool) ([]*dag.Node, []dag.Edge, error) {
	tmpl := wf.Template
	if tmpl == nil {
		return nil, nil, errors.New(errors.ErrCodeMissingTemplate, "workflow has no template")
	}
	if tmpl.Node(workflow.StartNodeID) == nil {
		return nil, nil, errors.New(errors.ErrCodeMissingStartNode, "workflow %s has no %s", tmpl.ID.Name, workflow.StartNodeID)
	}
	if wf.Connections == nil {
		return nil, nil, errors.New(errors.ErrCodeMissingConnections, "workflow %s has no connections", tmpl.ID.Name)
	}

	nodes := make([]*dag.Node, 0, len(tmpl.Nodes))
	for i := range tmpl.Nodes {
		n, err := b.expand(tmpl.ID, &tmpl.Nodes[i], nested)
		if err != nil {
			return nil, nil, err
		}
		nodes = append(nodes, n)
	}

	edges, err := scopeEdges(tmpl, wf.Connections)
	if err != nil {
		return nil, nil, err
	}
	return nodes, edges, nil
}

// expand builds the graph node for one compiled node: scope members and
// branch arms alike.
func (b *builder) expand(scopeID workflow.Identifier, cn *workflow.CompiledNode, nested bool) (*dag.Node, error) {
	if err := errors.ValidateNodeID(cn.ID); err != nil {
		return nil, err
	}

	kind := Classify(cn)
	if nested {
		switch kind {
		case dag.KindStart:
			kind = dag.KindNestedStart
		case dag.KindEnd:
			kind = dag.KindNestedEnd
		}
	}

	n := &dag.Node{
		ID:    CreateID(scopeID, cn.ID),
		Name:  DisplayName(cn),
		Kind:  kind,
		Value: dag.Value{Entity: cn},
	}

	switch kind {
	case dag.KindBranch:
		if err := b.branch(scopeID, n, cn); err != nil {
			return nil, err
		}
	case dag.KindSubWorkflow:
		if err := b.subWorkflow(n, cn); err != nil {
			return nil, err
		}
	case dag.KindTask:
		b.mergeTask(n, cn)
	}
	return n, nil
}

func (b *builder) subWorkflow(n *dag.Node, cn *workflow.CompiledNode) error {
	ref := cn.WorkflowNode.SubWorkflowRef
	if ref == nil {
		// Launch plans are rendered as leaves.
		return nil
	}
	sub, ok := ResolveSubWorkflow(*ref, b.closure)
	if !ok {
		b.logger.Warn("unresolved sub-workflow reference", "node", n.ID, "ref", ref.Name, "version", ref.Version)
		return nil
	}
	key := sub.Template.ID
	if b.active[key] {
		return errors.New(errors.ErrCodeCycleDetected, "sub-workflow %s references itself", key.Name)
	}
	b.active[key] = true
	defer delete(b.active, key)

	nodes, edges, err := b.scope(sub, true)
	if err != nil {
		return errors.Wrap(errors.GetCode(err), err, "sub-workflow %s", key.Name)
	}
	n.Nodes, n.Edges = nodes, edges
	return nil
}

func (b *builder) mergeTask(n *dag.Node, cn *workflow.CompiledNode) {
	if cn.TaskNode == nil {
		return
	}
	task, ok := ResolveTask(cn.TaskNode.ReferenceID, b.closure.Tasks)
	if !ok {
		b.logger.Warn("unresolved task reference", "node", n.ID, "ref", cn.TaskNode.ReferenceID.Name)
		return
	}
	n.Value.Task = task
}

// scopeEdges walks the downstream connections depth-first from the start
// node. Each node's downstream list is expanded once; reaching a node that
// is still on the current path is a cycle.
func scopeEdges(tmpl *workflow.WorkflowTemplate, conns *workflow.ConnectionSet) ([]dag.Edge, error) {
	const (
		white = iota
		gray
		black
	)

	known := make(map[string]bool, len(tmpl.Nodes))
	for _, n := range tmpl.Nodes {
		known[n.ID] = true
	}

	color := make(map[string]int)
	var edges []dag.Edge

	var dfs func(id string) error
	dfs = func(id string) error {
		color[id] = gray
		for _, next := range conns.Downstream[id].IDs {
			if !known[next] {
				return errors.New(errors.ErrCodeUnknownNodeReference,
					"workflow %s: connection %s -> %s references unknown node", tmpl.ID.Name, id, next)
			}
			if color[next] == gray {
				return errors.New(errors.ErrCodeCycleDetected,
					"workflow %s: connection %s -> %s closes a cycle", tmpl.ID.Name, id, next)
			}
			edges = append(edges, dag.Edge{
				SourceID: CreateID(tmpl.ID, id),
				TargetID: CreateID(tmpl.ID, next),
			})
			if color[next] == white {
				if err := dfs(next); err != nil {
					return err
				}
			}
		}
		color[id] = black
		return nil
	}

	if err := dfs(workflow.StartNodeID); err != nil {
		return nil, err
	}
	return edges, nil
}
