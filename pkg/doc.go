// Package pkg provides the core libraries for flowgraph workflow graphs.
//
// # Overview
//
// Flowgraph turns a compiled workflow closure (the primary workflow, its
// sub-workflows and task templates) into a nested graph of typed nodes,
// flattens that graph into the element lists the console's graph widget
// draws, and lays the elements out with Graphviz. The pkg directory is
// organized into these areas:
//
//  1. [workflow] - The closure model, JSON/YAML decoding and schema checks
//  2. [dag] - The nested graph, its validation and the [dag/build] builder
//  3. [render] - Flattening and layout ([render/flow]) and node-link
//     diagrams ([render/nodelink])
//  4. [pipeline] - Orchestration (build → flatten → layout → render)
//  5. [graph] - Serialization types for trees, elements and layouts
//  6. [cache], [observability], [errors], [buildinfo] - Supporting packages
//
// # Architecture
//
// The typical data flow through flowgraph:
//
//	Compiled closure (JSON/YAML)
//	         ↓
//	    [workflow] package (decode + validate)
//	         ↓
//	    [dag/build] package (classify, expand branches and sub-workflows)
//	         ↓
//	    [render/flow] package (flatten to a depth, measure, lay out)
//	         ↓
//	    positioned elements, or DOT/SVG via [render/nodelink]
//
// # Quick Start
//
// Build and lay out a closure:
//
//	import (
//	    "context"
//
//	    "github.com/matzehuels/flowgraph/pkg/dag/build"
//	    "github.com/matzehuels/flowgraph/pkg/render/flow"
//	    "github.com/matzehuels/flowgraph/pkg/workflow"
//	)
//
//	closure, _ := workflow.ReadClosureFile("closure.json")
//	root, _ := build.Build(closure)
//	elems := flow.Flatten(root, flow.WithMaxDepth(1))
//	laid, _ := flow.LayoutNested(context.Background(), elems, flow.DefaultTextMeasurer)
//
// Or run every stage with caching through a [pipeline.Runner].
//
// [workflow]: https://pkg.go.dev/github.com/matzehuels/flowgraph/pkg/workflow
// [dag]: https://pkg.go.dev/github.com/matzehuels/flowgraph/pkg/dag
// [dag/build]: https://pkg.go.dev/github.com/matzehuels/flowgraph/pkg/dag/build
// [render]: https://pkg.go.dev/github.com/matzehuels/flowgraph/pkg/render
// [render/flow]: https://pkg.go.dev/github.com/matzehuels/flowgraph/pkg/render/flow
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/flowgraph/pkg/render/nodelink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/flowgraph/pkg/pipeline
// [pipeline.Runner]: https://pkg.go.dev/github.com/matzehuels/flowgraph/pkg/pipeline#Runner
// [graph]: https://pkg.go.dev/github.com/matzehuels/flowgraph/pkg/graph
// [cache]: https://pkg.go.dev/github.com/matzehuels/flowgraph/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/flowgraph/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/flowgraph/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/flowgraph/pkg/buildinfo
package pkg
