package render

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/matzehuels/flowgraph/pkg/errors"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"svg", FormatSVG, false},
		{" PNG ", FormatPNG, false},
		{"Dot", FormatDOT, false},
		{"json", FormatJSON, false},
		{"pdf", FormatPDF, false},
		{"gif", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatContentType(t *testing.T) {
	if got := FormatSVG.ContentType(); got != "image/svg+xml" {
		t.Errorf("ContentType(svg) = %q", got)
	}
	if got := FormatDOT.Ext(); got != ".dot" {
		t.Errorf("Ext(dot) = %q", got)
	}
}

func TestQuote(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"wf_v1_n0", `"wf_v1_n0"`},
		{`a"b`, `"a\"b"`},
		{`a\b`, `"a\b"`},
		{`a\"b`, `"a\\"b"`},
		{`trailing\`, `"trailing"`},
		{"日本", `"日本"`},
		{"", `""`},
	}

	for _, tt := range tests {
		if got := Quote(tt.in); got != tt.want {
			t.Errorf("Quote(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestQuoteRoundTrip(t *testing.T) {
	ids := []string{`wf_v1_a\b`, `wf_v1_"q"`, `wf_v1_a\"b`, "wf_v1_/x", "wf_v1_日本"}

	var b strings.Builder
	b.WriteString("digraph G {\n")
	for _, id := range ids {
		b.WriteString("  " + Quote(id) + ";\n")
	}
	b.WriteString("}\n")

	out, err := RenderDOT(context.Background(), b.String(), FormatJSON)
	if err != nil {
		t.Fatal(err)
	}
	var doc struct {
		Objects []struct {
			Name string `json:"name"`
		} `json:"objects"`
	}
	if err := json.Unmarshal(out, &doc); err != nil {
		t.Fatal(err)
	}
	names := make(map[string]bool)
	for _, o := range doc.Objects {
		names[o.Name] = true
	}
	for _, id := range ids {
		if !names[id] {
			t.Errorf("graphviz name for %q not found in %v", id, names)
		}
	}
}

func TestRenderDOTPassthrough(t *testing.T) {
	dot := "digraph G { a -> b; }"
	out, err := RenderDOT(context.Background(), dot, FormatDOT)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != dot {
		t.Errorf("RenderDOT(dot) = %q, want input unchanged", out)
	}
}

func TestRenderDOTRejectsPDF(t *testing.T) {
	_, err := RenderDOT(context.Background(), "digraph G {}", FormatPDF)
	if !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("RenderDOT(pdf) code = %v, want %v", errors.GetCode(err), errors.ErrCodeUnsupported)
	}
}

func TestRenderDOTSVG(t *testing.T) {
	out, err := RenderDOT(context.Background(), `digraph G { "a" -> "b"; }`, FormatSVG)
	if err != nil {
		t.Fatalf("RenderDOT(svg): %v", err)
	}
	if !strings.Contains(string(out), "<svg") {
		t.Errorf("RenderDOT(svg) = %q, want svg document", out)
	}
}
