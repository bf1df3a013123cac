package flow

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/flowgraph/pkg/dag"
)

// Flatten defaults and the fixed edge attributes understood by the widget.
const (
	DefaultMaxDepth   = 1
	DefaultNodePrefix = "FlyteNode"

	EdgeSourceHandle  = "left-handle"
	EdgeArrowHeadType = "arrowClosed"
	EdgeType          = "default"
)

// Option configures [Flatten], [Layout] and [LayoutNested].
type Option func(*settings)

type settings struct {
	maxDepth  int
	prefix    string
	direction Direction
	config    LayoutConfig
	logger    *log.Logger
}

func newSettings(opts []Option) settings {
	s := settings{
		maxDepth:  DefaultMaxDepth,
		prefix:    DefaultNodePrefix,
		direction: LR,
		config:    DefaultLayoutConfig,
		logger:    log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// WithMaxDepth sets how many container levels are expanded before
// containers collapse into nestedMaxDepth nodes. Negative values count as 0.
func WithMaxDepth(d int) Option {
	return func(s *settings) {
		if d < 0 {
			d = 0
		}
		s.maxDepth = d
	}
}

// WithNodePrefix sets the prefix of node type strings.
func WithNodePrefix(p string) Option {
	return func(s *settings) {
		if p != "" {
			s.prefix = p
		}
	}
}

// WithLogger sets the logger for skipped elements.
func WithLogger(l *log.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}

// NodeType returns the widget node type for a kind, e.g. "FlyteNode_task".
func NodeType(prefix string, kind dag.NodeKind) string {
	return prefix + "_" + kind.String()
}

// EdgeID returns the element id of an edge: "[source]->[target]".
func EdgeID(source, target string) string {
	return "[" + source + "]->[" + target + "]"
}

// Flatten converts the children of root into widget elements: node elements
// in container order, then edge elements in edge order.
func Flatten(root *dag.Node, opts ...Option) []Element {
	s := newSettings(opts)
	if root == nil {
		return []Element{}
	}
	return s.flatten(root, 0)
}

func (s *settings) flatten(parent *dag.Node, depth int) []Element {
	out := make([]Element, 0, len(parent.Nodes)+len(parent.Edges))
	seen := make(map[string]bool, len(parent.Nodes))

	for _, n := range parent.Nodes {
		if !n.Kind.Valid() {
			s.logger.Warn("skipping node of unknown kind", "node", n.ID, "kind", int(n.Kind))
			continue
		}
		if seen[n.ID] {
			s.logger.Warn("skipping duplicate node", "node", n.ID, "container", parent.ID)
			continue
		}
		seen[n.ID] = true

		switch {
		case !n.IsContainer():
			out = append(out, s.node(n, n.Kind, nil))
		case depth < s.maxDepth:
			out = append(out, s.node(n, n.Kind, s.flatten(n, depth+1)))
		default:
			out = append(out, s.node(n, dag.KindNestedMaxDepth, nil))
		}
	}

	for _, e := range parent.Edges {
		out = append(out, Element{
			ID:            EdgeID(e.SourceID, e.TargetID),
			Type:          EdgeType,
			Source:        e.SourceID,
			Target:        e.TargetID,
			SourceHandle:  EdgeSourceHandle,
			ArrowHeadType: EdgeArrowHeadType,
		})
	}
	return out
}

func (s *settings) node(n *dag.Node, kind dag.NodeKind, children []Element) Element {
	if children == nil {
		children = []Element{}
	}
	return Element{
		ID:   n.ID,
		Type: NodeType(s.prefix, kind),
		Data: &NodeData{
			Text:     n.Name,
			Handles:  []string{},
			NodeType: kind,
			DAG:      children,
			TaskType: n.Value.TaskType(),
		},
		Position: &Position{},
	}
}
