// Package nodelink renders workflow graphs as static node-link diagrams.
//
// # Overview
//
// This package produces Graphviz diagrams of a [dag.Node] tree. It is the
// static counterpart of the interactive widget: the same tree, the same
// depth limit, drawn as boxes and arrows for docs, reviews and CI
// artifacts.
//
// # Usage
//
// Convert a tree to DOT, then render to SVG:
//
//	dot := nodelink.ToDOT(root, nodelink.Options{MaxDepth: 1, Direction: "LR"})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PNG or PDF output use [RenderPNG] or [RenderPDF].
//
// # Containers
//
// Branches and expanded sub-workflows within MaxDepth are drawn as
// cluster_ subgraphs containing their children; edges into and out of a
// cluster attach to its nested start and end points. Containers past
// MaxDepth are drawn as a single filled box.
//
// # Styles
//
// [StyleFor] returns the default style of a node kind. A [Theme] loaded
// from TOML with [LoadTheme] overrides individual style fields per kind:
//
//	accent = "#0f766e"
//
//	[styles.task]
//	fill_color = "#ecfeff"
//	border_color = "#0f766e"
//
// [dag.Node]: github.com/matzehuels/flowgraph/pkg/dag.Node
package nodelink
