package render

import (
	"strings"

	"github.com/matzehuels/flowgraph/pkg/errors"
)

// Format is an output format produced by [RenderDOT] or [ToPDF].
type Format string

const (
	FormatDOT  Format = "dot"
	FormatSVG  Format = "svg"
	FormatPNG  Format = "png"
	FormatPDF  Format = "pdf"
	FormatJSON Format = "json"
)

// Formats lists the formats accepted by [ParseFormat].
func Formats() []Format {
	return []Format{FormatSVG, FormatPNG, FormatPDF, FormatDOT, FormatJSON}
}

// ParseFormat parses a case-insensitive format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats() {
		if f == known {
			return f, nil
		}
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unknown output format %q", s)
}

// Ext returns the file extension for the format, including the dot.
func (f Format) Ext() string { return "." + string(f) }

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatSVG:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	case FormatPDF:
		return "application/pdf"
	case FormatJSON:
		return "application/json"
	default:
		return "text/vnd.graphviz"
	}
}
