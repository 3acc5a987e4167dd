package serpwall

import "strings"

// DefaultMaxClimbDepth bounds the ancestor climb from a header to its module.
const DefaultMaxClimbDepth = 18

// DefaultMarkerAttr is the attribute that records "currently hidden".
const DefaultMarkerAttr = "data-serpwall-hide"

// DefaultOverlayID identifies the injected style overlay.
const DefaultOverlayID = "serpwall-style"

// DefaultSessionKey is the session store key holding the toggle state.
const DefaultSessionKey = "serpwall_enabled"

// Config is the static configuration surface. It is loaded once at startup
// and treated as immutable afterwards.
type Config struct {
	// Rules is the phrase table, applied in order.
	Rules []Rule

	// PrimaryZones are tried in order; the first present element is the
	// primary results zone.
	PrimaryZones []string

	// TailZones are footer-adjacent zones scanned by tail-scoped rules in
	// addition to the primary zone.
	TailZones []string

	// ObserverRoots are tried in order for the watcher root; the body is
	// the fallback.
	ObserverRoots []string

	// ProtectedIDs are identifiers of containers that are never hidden.
	// Comparison is case-insensitive.
	ProtectedIDs []string

	// OrganicList selects the canonical organic-results container. A module
	// that is or contains it is never hidden.
	OrganicList string

	// BoundaryAttrs mark structural component roots.
	BoundaryAttrs []string

	// HeaderSelector selects text-bearing header candidates.
	HeaderSelector string

	// MaxClimbDepth bounds the number of ancestors inspected per header.
	MaxClimbDepth int

	// PromoContainers select promotional containers whose links never count
	// as the first organic anchor.
	PromoContainers []string

	// RedirectPaths are host-relative paths whose q/url parameter carries
	// the real destination of a result link.
	RedirectPaths []string

	// GuardStructural also runs the safety guard on blocks hidden by the
	// structural position rule.
	GuardStructural bool

	MarkerAttr string
	OverlayID  string
	// OverlayCSS is injected while filtering is active. It must contain the
	// marker rule.
	OverlayCSS string

	SessionKey string
}

// DefaultConfig returns the built-in tables (English and French variants).
func DefaultConfig() *Config {
	return &Config{
		Rules: []Rule{
			{
				Category: CategoryPeopleAlsoAsk,
				Phrases:  []string{"People also ask", "Autres questions posées"},
				Mode:     MatchPrefix,
				Scope:    ScopePrimary,
			},
			{
				Category: CategoryPopularProducts,
				Phrases:  []string{"Popular products", "Produits populaires"},
				Mode:     MatchPrefix,
				Scope:    ScopePrimary,
			},
			{
				Category: CategoryInStoresNearby,
				Phrases:  []string{"In stores nearby", "En magasin à proximité", "En magasins à proximité"},
				Mode:     MatchPrefix,
				Scope:    ScopePrimary,
			},
			{
				Category: CategoryVideos,
				Phrases:  []string{"Videos", "Vidéos"},
				Mode:     MatchPrefix,
				Scope:    ScopePrimary,
			},
			{
				Category: CategoryRelatedProductsServices,
				Phrases: []string{
					"Find related products & services",
					"Find related products and services",
					"Trouver des produits et services associés",
				},
				Mode:  MatchPrefix,
				Scope: ScopePrimary,
			},
			{
				Category: CategoryPeopleAlsoSearchFor,
				Phrases: []string{
					"People also search for",
					"People also searched for",
					"Related searches",
					"Searches related to",
					"Recherches associées",
					"Autres recherches associées",
					"Recherches liées à",
				},
				Mode:  MatchPrefix,
				Scope: ScopeTail,
			},
		},
		PrimaryZones:    []string{"#search", "#center_col", "#main", "main"},
		TailZones:       []string{"#botstuff", "#bres", "#foot"},
		ObserverRoots:   []string{"#search"},
		ProtectedIDs:    []string{"search", "main", "center_col"},
		OrganicList:     "#rso",
		BoundaryAttrs:   []string{"jscontroller", "data-hveid"},
		HeaderSelector:  "span, div, h2, h3",
		MaxClimbDepth:   DefaultMaxClimbDepth,
		PromoContainers: []string{"#tads", "#tadsb", "#bottomads", "[data-text-ad]"},
		RedirectPaths:   []string{"/url"},
		MarkerAttr:      DefaultMarkerAttr,
		OverlayID:       DefaultOverlayID,
		OverlayCSS:      DefaultOverlayCSS(DefaultMarkerAttr),
		SessionKey:      DefaultSessionKey,
	}
}

// DefaultOverlayCSS returns the overlay stylesheet for a marker attribute:
// the marker rule plus conservative id-based rules for the filter bar,
// right rail and ad containers.
func DefaultOverlayCSS(markerAttr string) string {
	return `/* marker */
[` + markerAttr + `] { display: none !important; }

/* top nav / filter chips */
#hdtb,
#appbar { display: none !important; }

/* right rail */
#rhs,
#rhscol { display: none !important; }

/* ads */
#tads,
#tadsb,
#bottomads { display: none !important; }
`
}

// Validate returns an error if the configuration cannot drive the engine.
func (c *Config) Validate() error {
	if len(c.Rules) == 0 {
		return Errorf(EINVALID, "at least one rule required")
	}
	for _, r := range c.Rules {
		if err := r.Validate(); err != nil {
			return err
		}
	}
	if len(c.PrimaryZones) == 0 {
		return Errorf(EINVALID, "at least one primary zone required")
	}
	if c.MaxClimbDepth <= 0 {
		return Errorf(EINVALID, "max climb depth must be positive")
	}
	if strings.TrimSpace(c.HeaderSelector) == "" {
		return Errorf(EINVALID, "header selector required")
	}
	if c.MarkerAttr == "" {
		return Errorf(EINVALID, "marker attribute required")
	}
	if c.OverlayID == "" {
		return Errorf(EINVALID, "overlay id required")
	}
	if c.SessionKey == "" {
		return Errorf(EINVALID, "session key required")
	}
	return nil
}

// RulesFor returns the rules with the given scope, preserving order.
func (c *Config) RulesFor(scope Scope) []Rule {
	var out []Rule
	for _, r := range c.Rules {
		if r.Scope == scope {
			out = append(out, r)
		}
	}
	return out
}

// IsProtectedID reports whether id names a protected container.
func (c *Config) IsProtectedID(id string) bool {
	if id == "" {
		return false
	}
	for _, p := range c.ProtectedIDs {
		if strings.EqualFold(p, id) {
			return true
		}
	}
	return false
}

// IsBoundary reports whether a node carries a structural boundary attribute.
func (c *Config) IsBoundary(n Node) bool {
	for _, attr := range c.BoundaryAttrs {
		if _, ok := n.Attr(attr); ok {
			return true
		}
	}
	return false
}
