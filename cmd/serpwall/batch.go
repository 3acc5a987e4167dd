package main

import (
	"fmt"
	"net/url"

	"github.com/fwojciec/serpwall"
	"github.com/fwojciec/serpwall/batch"
)

// Run executes the batch command.
func (c *BatchCmd) Run(deps *Dependencies) error {
	if deps.Store == nil {
		return serpwall.Errorf(serpwall.EINVALID, "no output store configured")
	}

	cleaner, err := c.cleaner(deps)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", serpwall.ErrorMessage(err))
		return err
	}

	runner := &batch.Runner{
		Cleaner:     cleaner,
		Fetcher:     deps.Fetcher,
		Store:       deps.Store,
		Concurrency: c.Concurrency,
		Logger:      deps.Logger,
	}
	if c.RPS > 0 {
		runner.RateLimiter = batch.NewDomainLimiter(c.RPS)
	}

	progress := func(p serpwall.PageProgress) {
		if p.Error != nil {
			fmt.Fprintf(deps.Stderr, "skip %s: %v\n", p.Source, p.Error)
		}
		fmt.Fprintf(deps.Stdout, "\r[%d/%d] %s", p.Completed, p.Total, truncateSource(p.Source, 40))
	}

	result, err := runner.Run(deps.Ctx, c.Sources, progress)

	// Clear progress line
	fmt.Fprintf(deps.Stdout, "\r%80s\r", "")

	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", serpwall.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Saved %d pages (%s) to %s\n", result.Saved, batch.FormatBytes(result.Bytes), c.Out)
	if result.Failed > 0 {
		fmt.Fprintf(deps.Stdout, "Failed: %d\n", result.Failed)
	}
	fmt.Fprintf(deps.Stdout, "Hidden: %d modules, %d leading blocks\n", result.Hidden, result.Structural)
	return nil
}

// truncateSource shortens a source for display. URLs keep their path and
// query, which is what tells results pages on one host apart.
func truncateSource(source string, maxLen int) string {
	display := source
	if u, err := url.Parse(source); err == nil && u.Host != "" {
		display = u.RequestURI()
	}
	if len(display) <= maxLen {
		return display
	}
	return "..." + display[len(display)-maxLen+3:]
}
