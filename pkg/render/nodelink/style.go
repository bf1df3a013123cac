package nodelink

import "github.com/matzehuels/flowgraph/pkg/dag"

// DefaultAccent is the console's primary graph color.
const DefaultAccent = "#6c5bd2"

// Style describes how one node kind is drawn.
type Style struct {
	Shape       string
	FillColor   string
	FontColor   string
	BorderColor string
	Dashed      bool
	// Point draws the node as a tiny dot without a label.
	Point bool
}

// StyleFor returns the default style of kind.
func StyleFor(kind dag.NodeKind) Style {
	base := Style{Shape: "box", FillColor: "#ffffff", FontColor: "#323232", BorderColor: "#555555"}

	switch kind {
	case dag.KindStart, dag.KindEnd:
		base.BorderColor = "#dddddd"
	case dag.KindNestedStart, dag.KindNestedEnd:
		base.Shape = "point"
		base.Point = true
		base.BorderColor = DefaultAccent
		base.FillColor = DefaultAccent
	case dag.KindNestedMaxDepth:
		base.FillColor = DefaultAccent
		base.FontColor = "#ffffff"
		base.BorderColor = DefaultAccent
	case dag.KindBranch:
		base.FillColor = DefaultAccent
		base.FontColor = "#efefef"
		base.BorderColor = DefaultAccent
		base.Dashed = true
	case dag.KindSubWorkflow:
		base.BorderColor = DefaultAccent
		base.Dashed = true
	case dag.KindTask:
		base.BorderColor = DefaultAccent
	}
	return base
}
