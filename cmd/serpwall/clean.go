package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fwojciec/serpwall"
	"github.com/fwojciec/serpwall/batch"
)

// Run executes the clean command.
func (c *CleanCmd) Run(deps *Dependencies) error {
	cleaner, err := c.cleaner(deps)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", serpwall.ErrorMessage(err))
		return err
	}

	html, err := c.read(deps)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", serpwall.ErrorMessage(err))
		return err
	}

	page, err := cleaner.Clean(deps.Ctx, c.Source, html)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", serpwall.ErrorMessage(err))
		return err
	}

	fmt.Fprint(deps.Stdout, page.Content)
	if c.Stats {
		printReport(deps.Stderr, page.Report)
	}
	return nil
}

func (c *CleanCmd) read(deps *Dependencies) (string, error) {
	switch {
	case c.Source == "-":
		if deps.Stdin == nil {
			return "", serpwall.Errorf(serpwall.EINVALID, "no input on stdin")
		}
		b, err := io.ReadAll(deps.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(b), nil

	case batch.IsURL(c.Source):
		if deps.Fetcher == nil {
			return "", serpwall.Errorf(serpwall.EINVALID, "no fetcher configured for %s", c.Source)
		}
		return batch.FetchWithRetry(deps.Ctx, deps.Fetcher, c.Source, batch.DefaultRetryDelays(), deps.Logger)

	default:
		b, err := os.ReadFile(c.Source)
		if os.IsNotExist(err) {
			return "", serpwall.Errorf(serpwall.ENOTFOUND, "no such file: %s", c.Source)
		} else if err != nil {
			return "", serpwall.Errorf(serpwall.EINVALID, "cannot read %s: %v", c.Source, err)
		}
		return string(b), nil
	}
}

func printReport(w io.Writer, r serpwall.Report) {
	fmt.Fprintf(w, "zones: %d\n", r.Zones)
	fmt.Fprintf(w, "headers: %d\n", r.Headers)
	fmt.Fprintf(w, "hidden: %d\n", r.Hidden)
	fmt.Fprintf(w, "structural: %d\n", r.Structural)
	fmt.Fprintf(w, "unlocated: %d\n", r.Unlocated)
	fmt.Fprintf(w, "rejected: %d\n", r.Rejected)
}
