package serpwall

// HiddenSet is the side table of nodes currently carrying the marker
// attribute. It is decoupled from the tree so clearing is a set operation.
// The zero value is ready to use. HiddenSet is not safe for concurrent use.
type HiddenSet struct {
	order []Node
	index map[Node]struct{}
}

// Add records a node. It returns false if the node was already present.
func (s *HiddenSet) Add(n Node) bool {
	if s.index == nil {
		s.index = make(map[Node]struct{})
	}
	if _, ok := s.index[n]; ok {
		return false
	}
	s.index[n] = struct{}{}
	s.order = append(s.order, n)
	return true
}

// Has reports whether n is in the set.
func (s *HiddenSet) Has(n Node) bool {
	_, ok := s.index[n]
	return ok
}

// Len returns the number of nodes in the set.
func (s *HiddenSet) Len() int {
	return len(s.order)
}

// Nodes returns the members in insertion order.
func (s *HiddenSet) Nodes() []Node {
	out := make([]Node, len(s.order))
	copy(out, s.order)
	return out
}

// Reset empties the set and returns the former members in insertion order.
func (s *HiddenSet) Reset() []Node {
	out := s.order
	s.order = nil
	s.index = nil
	return out
}
