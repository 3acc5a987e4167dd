package serpwall

// Climb walks the ancestor chain from start looking for a module root. It
// knows nothing about the tree beyond the parent function, so it works over
// any node type.
//
// At each step, with cur starting at start:
//   - if boundary is set and cur's parent is boundary, cur is returned;
//   - else if match(cur) is true, cur is returned;
//   - otherwise the walk moves to the parent.
//
// At most maxDepth nodes are inspected. Climb returns false when the depth is
// exhausted or the chain ends without a match. The zero value of N means
// "no boundary".
func Climb[N comparable](start N, parent func(N) (N, bool), match func(N) bool, maxDepth int, boundary N) (N, bool) {
	var zero N
	cur := start
	for steps := 0; steps < maxDepth; steps++ {
		p, hasParent := parent(cur)
		if boundary != zero && hasParent && p == boundary {
			return cur, true
		}
		if match(cur) {
			return cur, true
		}
		if !hasParent {
			break
		}
		cur = p
	}
	return zero, false
}
