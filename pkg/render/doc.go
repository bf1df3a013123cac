// Package render provides the rendering backends shared by flowgraph's
// renderers.
//
// # Overview
//
// Two renderers sit on top of this package:
//
//   - [flow]: the flat element lists consumed by the console's graph widget,
//     positioned with Graphviz dot
//   - [nodelink]: static node-link diagrams (DOT, SVG, PNG, PDF) of the
//     hierarchical workflow graph
//
// Both produce Graphviz DOT source and hand it to [RenderDOT], which runs
// the dot layout in an embedded Graphviz and returns the requested [Format].
//
//	out, err := render.RenderDOT(ctx, dot, render.FormatSVG)
//
// PDF output is converted from SVG with the external rsvg-convert tool, see
// [ToPDF].
//
// [flow]: github.com/matzehuels/flowgraph/pkg/render/flow
// [nodelink]: github.com/matzehuels/flowgraph/pkg/render/nodelink
package render
