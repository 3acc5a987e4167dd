package serpwall

import "context"

// Format selects the output representation of a filtered page.
type Format string

// Output formats.
const (
	FormatHTML     Format = "html"
	FormatMarkdown Format = "markdown"
)

// Page is a search-result page after filtering.
type Page struct {
	// Source is the file path or URL the page came from.
	Source  string
	Title   string
	Format  Format
	Content string
	Report  Report
	// Before and After are structural fingerprints of the document before
	// and after filtering.
	Before string
	After  string
}

// Validate returns an error if the page cannot be stored.
func (p *Page) Validate() error {
	if p.Source == "" {
		return Errorf(EINVALID, "page source required")
	}
	switch p.Format {
	case FormatHTML, FormatMarkdown:
	default:
		return Errorf(EINVALID, "unknown page format %q", p.Format)
	}
	return nil
}

// PageStore persists filtered pages with atomic semantics.
// Save writes to a temporary location; Commit makes changes permanent;
// Abort discards pending changes.
type PageStore interface {
	Save(ctx context.Context, page *Page) error
	Commit() error
	Abort() error
}

// PageProgress reports progress while a batch of pages is processed.
type PageProgress struct {
	Source    string
	Completed int
	Total     int
	Error     error
}

// PageProgressFunc is called as pages are processed.
type PageProgressFunc func(PageProgress)
