package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/flowgraph/pkg/dag"
	"github.com/matzehuels/flowgraph/pkg/dag/build"
	"github.com/matzehuels/flowgraph/pkg/errors"
	"github.com/matzehuels/flowgraph/pkg/observability"
	"github.com/matzehuels/flowgraph/pkg/render/flow"
	"github.com/matzehuels/flowgraph/pkg/workflow"
)

// Build converts a closure into its workflow graph.
func (r *Runner) Build(ctx context.Context, closure *workflow.CompiledWorkflowClosure, opts Options) (*dag.Node, error) {
	if err := r.prepare(&opts); err != nil {
		return nil, err
	}
	if closure == nil {
		return nil, errors.New(errors.ErrCodeInvalidClosure, "closure is nil")
	}

	name := ""
	if closure.Primary != nil && closure.Primary.Template != nil {
		name = closure.Primary.Template.ID.Name
	}

	hooks := observability.Pipeline()
	hooks.OnBuildStart(ctx, name)
	start := time.Now()

	root, err := build.Build(closure, build.WithLogger(opts.Logger))

	nodes := 0
	if root != nil {
		nodes = dag.Count(root).Nodes
	}
	hooks.OnBuildComplete(ctx, name, nodes, time.Since(start), err)
	return root, err
}

// Flatten converts a workflow graph into widget elements.
func (r *Runner) Flatten(ctx context.Context, root *dag.Node, opts Options) []flow.Element {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	opts.SetDefaults()

	start := time.Now()
	elems := flow.Flatten(root, opts.FlowOptions()...)
	observability.Pipeline().OnFlattenComplete(ctx, opts.Depth(), len(elems), time.Since(start))
	return elems
}
