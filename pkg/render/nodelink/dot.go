package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/matzehuels/flowgraph/pkg/dag"
	"github.com/matzehuels/flowgraph/pkg/render"
)

// Options configures node-link diagram rendering.
type Options struct {
	// MaxDepth is the number of container levels drawn as clusters; deeper
	// containers collapse into a single box.
	MaxDepth int
	// Direction is the rank direction, "LR" (default) or "TB".
	Direction string
	// Theme overrides the default styles. May be nil.
	Theme *Theme
	// Detailed adds the node id, kind and task type to labels.
	// When false, only the display name is shown.
	Detailed bool
}

// ToDOT converts a workflow graph to Graphviz DOT source. The root itself
// is not drawn; its children and edges form the top level of the diagram.
func ToDOT(root *dag.Node, opts Options) string {
	dir := opts.Direction
	if dir == "" {
		dir = "LR"
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", dir)
	buf.WriteString("  compound=true;\n")
	fmt.Fprintf(&buf, "  bgcolor=%q;\n", opts.Theme.background())
	fmt.Fprintf(&buf, "  node [shape=box, style=\"rounded,filled\", fontname=%q, fontsize=12, margin=\"0.2,0.1\"];\n", opts.Theme.fontName())
	fmt.Fprintf(&buf, "  edge [color=%q, arrowsize=0.7];\n", "#555555")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.4;\n")

	if root != nil {
		w := dotWriter{buf: &buf, opts: opts}
		w.scope(root, 0, "  ")
	}

	buf.WriteString("}\n")
	return buf.String()
}

type dotWriter struct {
	buf  *bytes.Buffer
	opts Options
}

func (w dotWriter) expanded(n *dag.Node, depth int) bool {
	return n.IsContainer() && depth < w.opts.MaxDepth
}

func (w dotWriter) scope(parent *dag.Node, depth int, indent string) {
	clusters := make(map[string]*dag.Node)

	for _, n := range parent.Nodes {
		if !n.Kind.Valid() {
			continue
		}
		if w.expanded(n, depth) {
			clusters[n.ID] = n
			fmt.Fprintf(w.buf, "\n%ssubgraph %s {\n", indent, render.Quote("cluster_"+n.ID))
			inner := indent + "  "
			fmt.Fprintf(w.buf, "%slabel=%q;\n", inner, n.Name)
			fmt.Fprintf(w.buf, "%sstyle=\"rounded,dashed\";\n", inner)
			fmt.Fprintf(w.buf, "%scolor=%q;\n", inner, w.opts.Theme.accent())
			fmt.Fprintf(w.buf, "%sfontcolor=%q;\n", inner, w.opts.Theme.accent())
			w.scope(n, depth+1, inner)
			fmt.Fprintf(w.buf, "%s}\n", indent)
			continue
		}

		kind := n.Kind
		if n.IsContainer() {
			kind = dag.KindNestedMaxDepth
		}
		fmt.Fprintf(w.buf, "%s%s [%s];\n", indent, render.Quote(n.ID), strings.Join(w.attrs(n, kind), ", "))
	}

	for _, e := range parent.Edges {
		src, dst := e.SourceID, e.TargetID
		var extra []string
		if c, ok := clusters[src]; ok {
			src = anchor(c, dag.KindNestedEnd)
			extra = append(extra, fmt.Sprintf("ltail=%s", render.Quote("cluster_"+c.ID)))
		}
		if c, ok := clusters[dst]; ok {
			dst = anchor(c, dag.KindNestedStart)
			extra = append(extra, fmt.Sprintf("lhead=%s", render.Quote("cluster_"+c.ID)))
		}
		if len(extra) > 0 {
			fmt.Fprintf(w.buf, "%s%s -> %s [%s];\n", indent, render.Quote(src), render.Quote(dst), strings.Join(extra, ", "))
			continue
		}
		fmt.Fprintf(w.buf, "%s%s -> %s;\n", indent, render.Quote(src), render.Quote(dst))
	}
}

// anchor picks the node inside a cluster that edges attach to: its nested
// start or end point when present, else its first or last child.
func anchor(c *dag.Node, kind dag.NodeKind) string {
	for _, n := range c.Nodes {
		if n.Kind == kind {
			return n.ID
		}
	}
	if kind == dag.KindNestedStart {
		return c.Nodes[0].ID
	}
	return c.Nodes[len(c.Nodes)-1].ID
}

func fmtLabel(n *dag.Node, kind dag.NodeKind, detailed bool) string {
	if !detailed {
		return n.Name
	}
	parts := []string{n.Name, "id: " + n.ID, "kind: " + kind.String()}
	if tt := n.Value.TaskType(); tt != "" {
		parts = append(parts, "task: "+tt)
	}
	return strings.Join(parts, "\n")
}

func (w dotWriter) attrs(n *dag.Node, kind dag.NodeKind) []string {
	s := w.opts.Theme.StyleFor(kind)
	if s.Point {
		return []string{
			"shape=point", "width=0.08", "label=\"\"",
			fmt.Sprintf("color=%q", s.BorderColor), fmt.Sprintf("fillcolor=%q", s.FillColor),
		}
	}

	style := "rounded,filled"
	if s.Dashed {
		style += ",dashed"
	}
	return []string{
		fmt.Sprintf("label=%q", fmtLabel(n, kind, w.opts.Detailed)),
		fmt.Sprintf("shape=%s", s.Shape),
		fmt.Sprintf("style=%q", style),
		fmt.Sprintf("fillcolor=%q", s.FillColor),
		fmt.Sprintf("fontcolor=%q", s.FontColor),
		fmt.Sprintf("color=%q", s.BorderColor),
	}
}

// RenderSVG renders DOT source to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	svg, err := render.RenderDOT(ctx, dot, render.FormatSVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(svg), nil
}

// RenderPNG renders DOT source to PNG using Graphviz.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return render.RenderDOT(ctx, dot, render.FormatPNG)
}

// RenderPDF renders DOT source as PDF via SVG conversion.
// Requires librsvg, see [render.ToPDF].
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(svg)
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized svg tag with a pixel-sized
// one anchored at the origin, so the diagram scales in browsers.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
