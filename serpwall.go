// Package serpwall provides a reversible, subtractive filter for rendered
// search-result pages. It hides promotional panels, interstitial modules and
// branching-question blocks while never touching the primary result stream.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, sqlite/, rod/).
package serpwall
