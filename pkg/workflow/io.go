package workflow

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/flowgraph/pkg/errors"
)

// Format is the encoding of a closure document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath infers the document format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported closure file extension %q (want .json, .yaml or .yml)", filepath.Ext(path))
	}
}

// ReadClosureFile reads a closure from a .json, .yaml or .yml file.
func ReadClosureFile(path string) (*CompiledWorkflowClosure, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "closure file %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	c, err := ReadClosure(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// ReadClosure decodes and validates a closure document from r.
//
// YAML documents are normalized to JSON first, so both formats go through
// the same schema check and the same field mapping. ReadClosure does not
// close r.
func ReadClosure(r io.Reader, format Format) (*CompiledWorkflowClosure, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	var doc []byte
	switch format {
	case FormatJSON:
		doc = raw
	case FormatYAML:
		if doc, err = yamlToJSON(raw); err != nil {
			return nil, err
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported closure format %q", format)
	}

	if err := ValidateDocument(doc); err != nil {
		return nil, err
	}

	var c CompiledWorkflowClosure
	if err := json.Unmarshal(doc, &c); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode closure")
	}
	return &c, nil
}

// MarshalClosure encodes a closure as indented JSON.
func MarshalClosure(c *CompiledWorkflowClosure) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(c); err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return buf.Bytes(), nil
}

func yamlToJSON(raw []byte) ([]byte, error) {
	var v any
	if err := yaml.Unmarshal(raw, &v); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse yaml")
	}
	out, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "convert yaml to json")
	}
	return out, nil
}
