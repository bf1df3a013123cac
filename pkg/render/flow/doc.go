// Package flow converts workflow graphs into the flat element lists drawn by
// the console's graph widget, and positions them.
//
// # Flattening
//
// [Flatten] walks the children of a [dag.Node] root and emits one node
// element per child followed by one edge element per container edge.
// Containers within the depth limit carry their own flattened children in
// NodeData.DAG; deeper containers collapse into a single nestedMaxDepth node:
//
//	elems := flow.Flatten(root, flow.WithMaxDepth(1))
//
// # Layout
//
// [Layout] positions measured node elements with Graphviz dot. Every node
// must carry its rendered size in Measured; the widget measures itself, or
// callers use [LayoutNested] with a [Measurer] to run the whole
// measure-layout-resize loop headlessly:
//
//	laid, err := flow.LayoutNested(ctx, elems, flow.DefaultTextMeasurer, flow.WithDirection(flow.LR))
//
// Both return new slices and never modify their input.
//
// [dag.Node]: github.com/matzehuels/flowgraph/pkg/dag.Node
package flow
