package dag

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidNodeID is returned by [Validate] when a node has an empty id.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Validate] when two children of the
	// same container share an id.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrInvalidEdgeEndpoint is returned by [Validate] when an edge references
	// a node that is not a child of the edge's container.
	ErrInvalidEdgeEndpoint = errors.New("invalid edge endpoint")

	// ErrLeafHasEdges is returned by [Validate] when a node without children
	// carries edges.
	ErrLeafHasEdges = errors.New("leaf node carries edges")

	// ErrUnknownKind is returned by [Validate] for an undeclared node kind.
	ErrUnknownKind = errors.New("unknown node kind")
)

// Validate checks the structural invariants of the tree rooted at n.
// Errors are wrapped with the path of the offending container.
func Validate(n *Node) error {
	return validate(n, n.ID)
}

func validate(n *Node, path string) error {
	if n.ID == "" {
		return fmt.Errorf("%s: %w", path, ErrInvalidNodeID)
	}
	if !n.Kind.Valid() {
		return fmt.Errorf("%s: %w: %d", path, ErrUnknownKind, int(n.Kind))
	}
	if len(n.Nodes) == 0 {
		if len(n.Edges) > 0 {
			return fmt.Errorf("%s: %w", path, ErrLeafHasEdges)
		}
		return nil
	}

	ids := make(map[string]struct{}, len(n.Nodes))
	for _, c := range n.Nodes {
		if c.ID == "" {
			return fmt.Errorf("%s: %w", path, ErrInvalidNodeID)
		}
		if _, dup := ids[c.ID]; dup {
			return fmt.Errorf("%s: %w: %s", path, ErrDuplicateNodeID, c.ID)
		}
		ids[c.ID] = struct{}{}
	}
	for _, e := range n.Edges {
		if _, ok := ids[e.SourceID]; !ok {
			return fmt.Errorf("%s: %w: source %s", path, ErrInvalidEdgeEndpoint, e.SourceID)
		}
		if _, ok := ids[e.TargetID]; !ok {
			return fmt.Errorf("%s: %w: target %s", path, ErrInvalidEdgeEndpoint, e.TargetID)
		}
	}
	for _, c := range n.Nodes {
		if err := validate(c, path+"/"+c.ID); err != nil {
			return err
		}
	}
	return nil
}
