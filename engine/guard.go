package engine

import "github.com/fwojciec/serpwall"

// Unsafe reports whether a candidate module must not be hidden: it is the
// document root or body, carries a protected identifier, or is or contains
// the organic results list.
func Unsafe(n serpwall.Node, cfg *serpwall.Config) bool {
	if n == nil {
		return true
	}
	if cfg.IsProtectedID(n.ID()) {
		return true
	}
	return holdsPrimary(n, cfg)
}

// holdsPrimary reports whether hiding n would hide the document itself or
// the organic results list. The structural rule checks it even when the
// guard is off.
func holdsPrimary(n serpwall.Node, cfg *serpwall.Config) bool {
	switch n.Tag() {
	case "html", "body":
		return true
	}
	if _, hasParent := n.Parent(); !hasParent {
		return true
	}
	return cfg.OrganicList != "" && (n.Matches(cfg.OrganicList) || n.Has(cfg.OrganicList))
}
