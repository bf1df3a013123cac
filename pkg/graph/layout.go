package graph

import (
	"github.com/matzehuels/flowgraph/pkg/render/flow"
)

// =============================================================================
// Layout - Positioned Widget Graph
// =============================================================================

// Layout is a laid-out element list as returned by the layout endpoint and
// the CLI layout command.
type Layout struct {
	Direction flow.Direction    `json:"direction"`
	Width     float64           `json:"width"`
	Height    float64           `json:"height"`
	Config    flow.LayoutConfig `json:"config"`
	Elements  []flow.Element    `json:"elements"`
}

// NewLayout wraps laid-out elements with their extent.
func NewLayout(dir flow.Direction, cfg flow.LayoutConfig, elems []flow.Element) Layout {
	b := flow.Bounds(elems)
	if elems == nil {
		elems = []flow.Element{}
	}
	return Layout{
		Direction: dir,
		Width:     b.Width,
		Height:    b.Height,
		Config:    cfg,
		Elements:  elems,
	}
}
