package nodelink

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/flowgraph/pkg/dag"
	"github.com/matzehuels/flowgraph/pkg/errors"
)

// StyleOverride holds the style fields a theme sets for one kind. Unset
// fields keep the default.
type StyleOverride struct {
	Shape       *string `toml:"shape"`
	FillColor   *string `toml:"fill_color"`
	FontColor   *string `toml:"font_color"`
	BorderColor *string `toml:"border_color"`
	Dashed      *bool   `toml:"dashed"`
}

// Theme customizes diagram colors.
type Theme struct {
	Name string `toml:"name"`
	// Accent replaces DefaultAccent wherever a default style uses it.
	Accent     string                   `toml:"accent"`
	Background string                   `toml:"background"`
	FontName   string                   `toml:"font_name"`
	Styles     map[string]StyleOverride `toml:"styles"`
}

// LoadTheme reads a TOML theme file.
func LoadTheme(path string) (*Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "theme %s", path)
		}
		return nil, fmt.Errorf("read theme %s: %w", path, err)
	}
	return ParseTheme(data)
}

// ParseTheme decodes a TOML theme. Style keys must be node kind names.
func ParseTheme(data []byte) (*Theme, error) {
	var t Theme
	if err := toml.Unmarshal(data, &t); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse theme")
	}
	for k := range t.Styles {
		if _, ok := dag.ParseKind(k); !ok {
			return nil, errors.New(errors.ErrCodeInvalidInput, "theme styles unknown node kind %q", k)
		}
	}
	return &t, nil
}

// StyleFor returns the themed style of kind. A nil theme yields the default.
func (t *Theme) StyleFor(kind dag.NodeKind) Style {
	s := StyleFor(kind)
	if t == nil {
		return s
	}
	if t.Accent != "" {
		for _, c := range []*string{&s.FillColor, &s.BorderColor} {
			if *c == DefaultAccent {
				*c = t.Accent
			}
		}
	}
	o, ok := t.Styles[kind.String()]
	if !ok {
		return s
	}
	if o.Shape != nil {
		s.Shape = *o.Shape
		s.Point = *o.Shape == "point"
	}
	if o.FillColor != nil {
		s.FillColor = *o.FillColor
	}
	if o.FontColor != nil {
		s.FontColor = *o.FontColor
	}
	if o.BorderColor != nil {
		s.BorderColor = *o.BorderColor
	}
	if o.Dashed != nil {
		s.Dashed = *o.Dashed
	}
	return s
}

func (t *Theme) accent() string {
	if t == nil || t.Accent == "" {
		return DefaultAccent
	}
	return t.Accent
}

func (t *Theme) background() string {
	if t == nil || t.Background == "" {
		return "transparent"
	}
	return t.Background
}

func (t *Theme) fontName() string {
	if t == nil || t.FontName == "" {
		return "Helvetica"
	}
	return t.FontName
}
