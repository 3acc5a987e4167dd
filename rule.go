package serpwall

import "strings"

// Category names a kind of non-primary page module.
type Category string

// Known module categories.
const (
	CategoryPeopleAlsoAsk           Category = "peopleAlsoAsk"
	CategoryPopularProducts         Category = "popularProducts"
	CategoryInStoresNearby          Category = "inStoresNearby"
	CategoryVideos                  Category = "videos"
	CategoryPeopleAlsoSearchFor     Category = "peopleAlsoSearchFor"
	CategoryRelatedProductsServices Category = "relatedProductsServices"
)

// MatchMode selects how header text is compared to phrase variants.
type MatchMode string

// Match modes. Prefix also accepts exact equality.
const (
	MatchExact  MatchMode = "exact"
	MatchPrefix MatchMode = "prefix"
)

// Scope selects the zones a rule is applied in.
type Scope string

const (
	// ScopePrimary rules run only inside the primary results zone and climb
	// no higher than its direct children.
	ScopePrimary Scope = "primary"

	// ScopeTail rules run in the footer-adjacent zones and the primary zone,
	// climbing only to structural boundary attributes.
	ScopeTail Scope = "tail"
)

// Rule maps a category to the header phrases that identify it.
// Phrase variants are explicit, case-sensitive entries; language variants are
// listed, never fuzzy-matched.
type Rule struct {
	Category Category
	Phrases  []string
	Mode     MatchMode
	Scope    Scope
}

// Match reports whether header text identifies this rule's category.
// The text is trimmed before comparison.
func (r Rule) Match(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}
	for _, phrase := range r.Phrases {
		if phrase == "" {
			continue
		}
		if text == phrase {
			return true
		}
		if r.Mode != MatchExact && strings.HasPrefix(text, phrase) {
			return true
		}
	}
	return false
}

// Validate returns an error if the rule cannot match anything.
func (r Rule) Validate() error {
	if r.Category == "" {
		return Errorf(EINVALID, "rule category required")
	}
	if len(r.Phrases) == 0 {
		return Errorf(EINVALID, "rule %q has no phrases", r.Category)
	}
	switch r.Mode {
	case MatchExact, MatchPrefix:
	default:
		return Errorf(EINVALID, "rule %q has unknown match mode %q", r.Category, r.Mode)
	}
	switch r.Scope {
	case ScopePrimary, ScopeTail:
	default:
		return Errorf(EINVALID, "rule %q has unknown scope %q", r.Category, r.Scope)
	}
	return nil
}
