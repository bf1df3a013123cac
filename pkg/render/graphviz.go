package render

import (
	"bytes"
	"context"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/flowgraph/pkg/errors"
)

// RenderDOT lays out DOT source with the dot engine and renders it.
//
// Each call creates and closes its own Graphviz instance, so RenderDOT is
// safe for concurrent use. [FormatDOT] returns the source unchanged;
// [FormatPDF] is not produced by Graphviz, use [ToPDF].
func RenderDOT(ctx context.Context, dot string, format Format) ([]byte, error) {
	var gvFormat graphviz.Format
	switch format {
	case FormatDOT:
		return []byte(dot), nil
	case FormatSVG:
		gvFormat = graphviz.SVG
	case FormatPNG:
		gvFormat = graphviz.PNG
	case FormatJSON:
		gvFormat = graphviz.Format("json")
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "graphviz cannot render %q", format)
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeLayoutFailed, err, "init graphviz")
	}
	defer gv.Close()
	gv.SetLayout(graphviz.DOT)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeLayoutFailed, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, gvFormat, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeLayoutFailed, err, "render %s", format)
	}
	if buf.Len() == 0 {
		return nil, errors.New(errors.ErrCodeLayoutFailed, "graphviz produced no %s output", format)
	}
	return buf.Bytes(), nil
}

// Quote returns s as a double-quoted DOT identifier. Inside a DOT quoted
// string only \" is an escape, so every other byte is written as is. A
// trailing backslash cannot be expressed and is dropped.
func Quote(s string) string {
	s = strings.TrimRight(s, `\`)
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}
