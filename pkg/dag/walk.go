package dag

// WalkFunc is called for every node visited by [Walk]. depth is 0 for the
// root. Returning false skips the node's children.
type WalkFunc func(n *Node, depth int) bool

// Walk visits the tree rooted at n in pre-order.
func Walk(n *Node, fn WalkFunc) {
	walk(n, 0, fn)
}

func walk(n *Node, depth int, fn WalkFunc) {
	if n == nil || !fn(n, depth) {
		return
	}
	for _, c := range n.Nodes {
		walk(c, depth+1, fn)
	}
}

// Stats summarizes a tree.
type Stats struct {
	Nodes      int // all nodes, root included
	Edges      int
	Containers int
	MaxDepth   int // deepest container nesting below the root
	ByKind     map[NodeKind]int
}

// Count computes [Stats] for the tree rooted at n.
func Count(n *Node) Stats {
	s := Stats{ByKind: make(map[NodeKind]int)}
	Walk(n, func(v *Node, depth int) bool {
		s.Nodes++
		s.Edges += len(v.Edges)
		s.ByKind[v.Kind]++
		if v.IsContainer() {
			s.Containers++
			if depth > s.MaxDepth {
				s.MaxDepth = depth
			}
		}
		return true
	})
	return s
}

// Find returns the first node in pre-order with the given id. Ids are only
// unique per container, so the path through the tree matters; use it for
// lookups where ids are known to be globally distinct.
func Find(n *Node, id string) (*Node, bool) {
	var found *Node
	Walk(n, func(v *Node, _ int) bool {
		if found != nil {
			return false
		}
		if v.ID == id {
			found = v
			return false
		}
		return true
	})
	return found, found != nil
}
