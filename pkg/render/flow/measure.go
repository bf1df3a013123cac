package flow

import (
	"context"
	"math"
	"unicode/utf8"

	"github.com/matzehuels/flowgraph/pkg/dag"
)

// Measurer reports the rendered size of a node element.
type Measurer interface {
	Measure(e Element) Dimensions
}

// MeasureFunc adapts a function to [Measurer].
type MeasureFunc func(e Element) Dimensions

func (f MeasureFunc) Measure(e Element) Dimensions { return f(e) }

// TextMeasurer estimates node sizes from label length, approximating the
// widget's default node style.
type TextMeasurer struct {
	CharWidth float64
	Padding   float64
	Height    float64
}

// DefaultTextMeasurer matches the widget's small monospace labels.
var DefaultTextMeasurer = TextMeasurer{CharWidth: 7, Padding: 24, Height: 24}

// Measure implements [Measurer]. Nested start and end points are 1x1.
func (m TextMeasurer) Measure(e Element) Dimensions {
	if e.Data == nil {
		return Dimensions{}
	}
	switch e.Data.NodeType {
	case dag.KindNestedStart, dag.KindNestedEnd:
		return Dimensions{Width: 1, Height: 1}
	}
	return Dimensions{
		Width:  float64(utf8.RuneCountInString(e.Data.Text))*m.CharWidth + m.Padding,
		Height: m.Height,
	}
}

// Container framing added around a nested layout when sizing its container.
const (
	ContainerPadding = 16
	ContainerLabel   = 24
)

// Measure returns a copy of elems where every node without a size is
// measured with m. Existing sizes are kept.
func Measure(elems []Element, m Measurer) []Element {
	out := Clone(elems)
	for i, e := range out {
		if e.IsNode() && e.Measured == nil {
			d := m.Measure(e)
			out[i].Measured = &d
		}
	}
	return out
}

// LayoutNested runs the measure-layout-resize loop without a widget: each
// container's nested elements are laid out first, the container is sized to
// the nested bounds plus framing, then the outer list is laid out.
func LayoutNested(ctx context.Context, elems []Element, m Measurer, opts ...Option) ([]Element, error) {
	out := Clone(elems)
	for i, e := range out {
		if !e.IsNode() {
			continue
		}
		if e.Data != nil && len(e.Data.DAG) > 0 {
			inner, err := LayoutNested(ctx, e.Data.DAG, m, opts...)
			if err != nil {
				return nil, err
			}
			out[i].Data.DAG = inner
			b := Bounds(inner)
			out[i].Measured = &Dimensions{
				Width:  b.Width + 2*ContainerPadding,
				Height: b.Height + 2*ContainerPadding + ContainerLabel,
			}
			continue
		}
		if e.Measured == nil {
			d := m.Measure(e)
			out[i].Measured = &d
		}
	}
	return Layout(ctx, out, opts...)
}

// Bounds returns the size of the box enclosing every positioned, measured
// node of elems.
func Bounds(elems []Element) Dimensions {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, e := range elems {
		if !e.IsNode() || e.Position == nil || e.Measured == nil {
			continue
		}
		minX = math.Min(minX, e.Position.X)
		minY = math.Min(minY, e.Position.Y)
		maxX = math.Max(maxX, e.Position.X+e.Measured.Width)
		maxY = math.Max(maxY, e.Position.Y+e.Measured.Height)
	}
	if math.IsInf(minX, 1) {
		return Dimensions{}
	}
	return Dimensions{Width: maxX - minX, Height: maxY - minY}
}
