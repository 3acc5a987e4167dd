package engine

import "github.com/fwojciec/serpwall"

// Locate climbs from a matched header to the root of its module.
//
// When boundary is non-nil, the ancestor whose parent is boundary is the
// module. Otherwise the first ancestor carrying a structural boundary
// attribute is. The header itself counts as the first ancestor. Locate gives
// up after cfg.MaxClimbDepth nodes, leaving the header untouched.
func Locate(header, boundary serpwall.Node, cfg *serpwall.Config) (serpwall.Node, bool) {
	if header == nil {
		return nil, false
	}
	return serpwall.Climb(header, serpwall.Node.Parent, cfg.IsBoundary, cfg.MaxClimbDepth, boundary)
}
