package engine

import "github.com/fwojciec/serpwall"

// FindHeaders returns the header candidates inside zone whose trimmed text
// matches rule, in document order. Candidates are the descendants matching
// selector; nodes with empty text are skipped.
func FindHeaders(zone serpwall.Node, rule serpwall.Rule, selector string) []serpwall.Node {
	if zone == nil {
		return nil
	}

	var out []serpwall.Node
	for _, n := range zone.FindAll(selector) {
		if rule.Match(n.Text()) {
			out = append(out, n)
		}
	}
	return out
}
