package serpwall

// Report is the diagnostic outcome of one filtering pass.
type Report struct {
	// Zones is the number of zone roots found.
	Zones int
	// Headers is the number of header nodes matching a rule.
	Headers int
	// Hidden is the number of modules marked by phrase rules in this pass,
	// including ones already marked by an earlier pass.
	Hidden int
	// Unlocated counts headers whose module boundary was not found.
	Unlocated int
	// Rejected counts modules refused by the safety guard.
	Rejected int
	// Structural is the number of blocks marked by the structural rule.
	Structural int
}

// Total returns the number of nodes marked in the pass.
func (r Report) Total() int {
	return r.Hidden + r.Structural
}

// Add returns the field-wise sum of two reports.
func (r Report) Add(o Report) Report {
	return Report{
		Zones:      r.Zones + o.Zones,
		Headers:    r.Headers + o.Headers,
		Hidden:     r.Hidden + o.Hidden,
		Unlocated:  r.Unlocated + o.Unlocated,
		Rejected:   r.Rejected + o.Rejected,
		Structural: r.Structural + o.Structural,
	}
}

// Filter applies and reverses hiding on one document. Both operations are
// idempotent and never fail; misses are silent.
type Filter interface {
	// Run applies the phrase rules and the structural position rule.
	Run() Report

	// Clear removes the overlay and every marker set by the filter.
	Clear()
}

// Watcher re-runs a Filter whenever the host document changes structurally.
type Watcher interface {
	// Start subscribes to mutations, replacing any existing subscription.
	Start()

	// Stop unsubscribes. When Stop returns no further runs happen.
	Stop()
}
