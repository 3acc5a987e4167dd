// Package rod renders search-result pages in a headless Chrome so modules
// injected after load are part of the fetched markup.
package rod

import (
	"context"
	"fmt"
	"time"

	"github.com/fwojciec/serpwall"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultFetchTimeout bounds a single page render.
const DefaultFetchTimeout = 10 * time.Second

// DefaultSettle is how long the DOM must stay unchanged before the page is
// considered complete.
const DefaultSettle = 500 * time.Millisecond

// Ensure Fetcher implements serpwall.Fetcher at compile time.
var _ serpwall.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML from URLs using Chrome browser automation.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	manager *BrowserManager
	timeout time.Duration
	settle  time.Duration
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*fetcherConfig)

type fetcherConfig struct {
	timeout  time.Duration
	settle   time.Duration
	managers []ManagerOption
}

// WithFetchTimeout bounds a single page render.
// Defaults to DefaultFetchTimeout.
func WithFetchTimeout(d time.Duration) FetcherOption {
	return func(c *fetcherConfig) {
		c.timeout = d
	}
}

// WithSettle sets how long the DOM must stay unchanged after load before the
// HTML is read. Zero reads the HTML right after the load event.
func WithSettle(d time.Duration) FetcherOption {
	return func(c *fetcherConfig) {
		c.settle = d
	}
}

// WithManagerOptions passes options to the underlying BrowserManager.
func WithManagerOptions(opts ...ManagerOption) FetcherOption {
	return func(c *fetcherConfig) {
		c.managers = append(c.managers, opts...)
	}
}

// NewFetcher creates a new Fetcher that launches a headless Chrome browser.
// Close must be called when the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...FetcherOption) (*Fetcher, error) {
	cfg := fetcherConfig{
		timeout: DefaultFetchTimeout,
		settle:  DefaultSettle,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	manager, err := NewBrowserManager(cfg.managers...)
	if err != nil {
		return nil, err
	}

	return &Fetcher{
		manager: manager,
		timeout: cfg.timeout,
		settle:  cfg.settle,
	}, nil
}

// Fetch navigates to the URL, waits for the page to load and settle, and
// returns the rendered HTML.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if f.manager.closed.Load() {
		return "", serpwall.Errorf(serpwall.EINVALID, "fetcher is closed")
	}
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	page, err := f.manager.Browser().Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", fmt.Errorf("opening page: %w", err)
	}
	defer page.Close()

	page = page.Context(ctx)

	if err := page.Navigate(url); err != nil {
		return "", fmt.Errorf("navigating to %s: %w", url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return "", fmt.Errorf("waiting for %s: %w", url, err)
	}
	if f.settle > 0 {
		if err := page.WaitDOMStable(f.settle, 0); err != nil {
			return "", fmt.Errorf("waiting for %s to settle: %w", url, err)
		}
	}

	html, err := page.HTML()
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", url, err)
	}

	f.manager.IncrementPageCount()
	return html, nil
}

// LauncherPID returns the process ID of the browser launcher.
func (f *Fetcher) LauncherPID() int {
	return f.manager.LauncherPID()
}

// Close releases browser resources.
func (f *Fetcher) Close() error {
	return f.manager.Close()
}
