package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/flowgraph/pkg/dag"
	"github.com/matzehuels/flowgraph/pkg/render/flow"
)

// =============================================================================
// Tree Serialization API
// =============================================================================

// MarshalTree converts a workflow graph to JSON bytes.
func MarshalTree(root *dag.Node) ([]byte, error) {
	return marshal(FromDAG(root))
}

// WriteTree writes a workflow graph as JSON to an io.Writer.
func WriteTree(root *dag.Node, w io.Writer) error {
	return encodeTo(FromDAG(root), w)
}

// WriteTreeFile writes a workflow graph to a JSON file.
// The file is created with 0644 permissions.
func WriteTreeFile(root *dag.Node, path string) error {
	return writeFile(FromDAG(root), path)
}

// ReadTree decodes a JSON tree from an io.Reader.
func ReadTree(r io.Reader) (*dag.Node, error) {
	var t Tree
	if err := json.NewDecoder(r).Decode(&t); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return ToDAG(t)
}

// ReadTreeFile reads a JSON tree file.
func ReadTreeFile(path string) (*dag.Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadTree(f)
}

// =============================================================================
// Element Serialization API
// =============================================================================

// MarshalElements converts a widget element list to JSON bytes.
func MarshalElements(elems []flow.Element) ([]byte, error) {
	if elems == nil {
		elems = []flow.Element{}
	}
	return marshal(elems)
}

// WriteElements writes a widget element list as JSON to an io.Writer.
func WriteElements(elems []flow.Element, w io.Writer) error {
	if elems == nil {
		elems = []flow.Element{}
	}
	return encodeTo(elems, w)
}

// WriteElementsFile writes a widget element list to a JSON file.
func WriteElementsFile(elems []flow.Element, path string) error {
	if elems == nil {
		elems = []flow.Element{}
	}
	return writeFile(elems, path)
}

// ReadElements decodes a JSON element list. A [Layout] document is accepted
// too; its elements are returned.
func ReadElements(r io.Reader) ([]flow.Element, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var l Layout
		if err := json.Unmarshal(trimmed, &l); err != nil {
			return nil, fmt.Errorf("decode layout: %w", err)
		}
		return l.Elements, nil
	}
	var elems []flow.Element
	if err := json.Unmarshal(trimmed, &elems); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return elems, nil
}

// ReadElementsFile reads a JSON element list or layout file.
func ReadElementsFile(path string) ([]flow.Element, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadElements(f)
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout converts a layout to JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return marshal(l)
}

// WriteLayoutFile writes a layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	return writeFile(l, path)
}

// =============================================================================
// Internal Implementation
// =============================================================================

func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeTo(v, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeTo(v any, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func writeFile(v any, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return encodeTo(v, f)
}
