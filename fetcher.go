package serpwall

import "context"

// Fetcher retrieves the HTML of a search-result page.
// Implementations may render the page in a browser so late-injected modules
// are present in the returned markup.
type Fetcher interface {
	// Fetch returns the HTML for url. The context controls timeout and
	// cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases resources held by the fetcher.
	Close() error
}
