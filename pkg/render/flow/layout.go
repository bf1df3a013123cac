package flow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/flowgraph/pkg/errors"
	"github.com/matzehuels/flowgraph/pkg/render"
)

// Direction is the rank direction of a layout.
type Direction string

const (
	LR Direction = "LR" // left to right
	TB Direction = "TB" // top to bottom
)

// Handle positions written to laid-out nodes.
const (
	PortLeft   = "left"
	PortRight  = "right"
	PortTop    = "top"
	PortBottom = "bottom"
)

// pointsPerInch converts between widget pixels and Graphviz inches; Graphviz
// positions are reported in points, one point per pixel.
const pointsPerInch = 72.0

// LayoutConfig holds the layered layout parameters, in pixels.
//
// Only NodeSep and RankSep reach Graphviz, as dot's nodesep and ranksep.
// EdgeSep, Ranker and Acyclicer are informational: they are written into
// layout files so that a widget can reproduce the same settings, and
// changing them does not change the positions Layout computes.
type LayoutConfig struct {
	EdgeSep   float64 `json:"edgeSep"` // informational
	NodeSep   float64 `json:"nodeSep"`
	RankSep   float64 `json:"rankSep"`
	Ranker    string  `json:"ranker"`    // informational, dot ranks by network simplex
	Acyclicer string  `json:"acyclicer"` // informational, dot reverses back edges itself
}

// DefaultLayoutConfig is the layout used when no config is given.
var DefaultLayoutConfig = LayoutConfig{
	EdgeSep:   20,
	NodeSep:   40,
	RankSep:   50,
	Ranker:    "longest-path",
	Acyclicer: "greedy",
}

// WithDirection sets the rank direction (default LR).
func WithDirection(d Direction) Option {
	return func(s *settings) { s.direction = d }
}

// WithConfig replaces the layout config.
func WithConfig(c LayoutConfig) Option {
	return func(s *settings) { s.config = c }
}

// Layout positions the node elements of elems with Graphviz dot and returns
// a laid-out copy.
//
// Every node must carry Measured; edges whose endpoints are not node
// elements of the list are skipped. Nested element lists in NodeData.DAG are
// copied as they are.
func Layout(ctx context.Context, elems []Element, opts ...Option) ([]Element, error) {
	s := newSettings(opts)
	if err := errors.ValidateDirection(string(s.direction)); err != nil {
		return nil, err
	}

	out := Clone(elems)
	nodes := make(map[string]int)
	for i, e := range out {
		if !e.IsNode() {
			continue
		}
		if e.Measured == nil {
			return nil, errors.New(errors.ErrCodeNotMeasured, "node %s has no measured size", e.ID)
		}
		nodes[e.ID] = i
	}
	if len(nodes) == 0 {
		return out, nil
	}

	dot := s.layoutDOT(out, nodes)
	raw, err := render.RenderDOT(ctx, dot, render.FormatJSON)
	if err != nil {
		return nil, err
	}
	centers, err := parseCenters(raw)
	if err != nil {
		return nil, err
	}

	target, source := PortLeft, PortRight
	if s.direction == TB {
		target, source = PortTop, PortBottom
	}
	for id, i := range nodes {
		c, ok := centers[dotName(i)]
		if !ok {
			return nil, errors.New(errors.ErrCodeLayoutFailed, "graphviz returned no position for %s", id)
		}
		m := out[i].Measured
		out[i].Position = &Position{X: c.X - m.Width/2, Y: c.Y - m.Height/2}
		out[i].TargetPosition = target
		out[i].SourcePosition = source
	}
	return out, nil
}

// layoutDOT writes the graph as DOT: fixed-size unlabeled boxes in element
// order, then the edges between known nodes. Nodes are named by element
// index so that any element id survives the round trip through Graphviz.
func (s *settings) layoutDOT(elems []Element, nodes map[string]int) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", s.direction)
	fmt.Fprintf(&buf, "  nodesep=%s;\n", inches(s.config.NodeSep))
	fmt.Fprintf(&buf, "  ranksep=%s;\n", inches(s.config.RankSep))
	buf.WriteString("  node [shape=box, fixedsize=true, label=\"\", margin=0];\n")

	for _, e := range elems {
		if e.IsNode() {
			fmt.Fprintf(&buf, "  %s [width=%s, height=%s];\n",
				dotName(nodes[e.ID]), inches(e.Measured.Width), inches(e.Measured.Height))
		}
	}
	for _, e := range elems {
		if !e.IsEdge() {
			continue
		}
		src, okS := nodes[e.Source]
		dst, okT := nodes[e.Target]
		if !okS || !okT {
			s.logger.Warn("skipping edge with unknown endpoint", "edge", e.ID)
			continue
		}
		fmt.Fprintf(&buf, "  %s -> %s;\n", dotName(src), dotName(dst))
	}
	buf.WriteString("}\n")
	return buf.String()
}

func dotName(i int) string {
	return "n" + strconv.Itoa(i)
}

func inches(px float64) string {
	return strconv.FormatFloat(px/pointsPerInch, 'f', 4, 64)
}

// gvOutput is the part of Graphviz's json output the layout reads.
type gvOutput struct {
	BB      string `json:"bb"`
	Objects []struct {
		Name string `json:"name"`
		Pos  string `json:"pos"`
	} `json:"objects"`
}

// parseCenters returns node centers keyed by name with a top-left origin.
func parseCenters(raw []byte) (map[string]Position, error) {
	var out gvOutput
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, errors.Wrap(errors.ErrCodeLayoutFailed, err, "decode graphviz json")
	}
	bb, err := parseFloats(out.BB, 4)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeLayoutFailed, err, "bounding box %q", out.BB)
	}
	top := bb[3]

	centers := make(map[string]Position, len(out.Objects))
	for _, o := range out.Objects {
		if o.Pos == "" {
			continue // subgraphs
		}
		p, err := parseFloats(o.Pos, 2)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeLayoutFailed, err, "position of %s", o.Name)
		}
		centers[o.Name] = Position{X: p[0], Y: top - p[1]}
	}
	return centers, nil
}

func parseFloats(s string, n int) ([]float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("want %d values, got %d", n, len(parts))
	}
	out := make([]float64, n)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
