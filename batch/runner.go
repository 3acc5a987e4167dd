package batch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"sync/atomic"
	"time"

	"github.com/fwojciec/serpwall"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of sources processed at once.
const DefaultConcurrency = 4

// Runner cleans many sources concurrently and saves the results to a
// PageStore. Pages are saved in source order once every source has been
// processed; the store is committed only if at least one page was saved.
type Runner struct {
	Cleaner *Cleaner

	// Fetcher loads URL sources. Sources that are not URLs are read from
	// disk.
	Fetcher serpwall.Fetcher

	Store serpwall.PageStore

	// RateLimiter, if set, spaces out fetches per host.
	RateLimiter *DomainLimiter

	Concurrency int

	// RetryDelays overrides DefaultRetryDelays. An empty non-nil slice
	// disables retries.
	RetryDelays []time.Duration

	Logger *slog.Logger
}

// Result holds the outcome of a batch.
type Result struct {
	Saved  int
	Failed int
	// Hidden and Structural sum the per-page reports of saved pages.
	Hidden     int
	Structural int
	Bytes      int
}

type sourceResult struct {
	position int
	source   string
	page     *serpwall.Page
	err      error
}

// Run processes sources and reports each completion to progress, which may
// be nil. Per-source failures are counted, not returned; Run fails when the
// context is canceled, when no source could be saved, or when the store
// cannot commit.
func (r *Runner) Run(ctx context.Context, sources []string, progress serpwall.PageProgressFunc) (*Result, error) {
	if len(sources) == 0 {
		return nil, serpwall.Errorf(serpwall.EINVALID, "no sources")
	}
	if r.Cleaner == nil || r.Store == nil {
		return nil, serpwall.Errorf(serpwall.EINVALID, "runner requires a cleaner and a store")
	}

	concurrency := r.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	resultCh := make(chan sourceResult, len(sources))
	var completed atomic.Int64
	total := len(sources)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	go func() {
		for i, source := range sources {
			g.Go(func() error {
				resultCh <- r.process(gctx, i, source)
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	results := make([]sourceResult, len(sources))
	for res := range resultCh {
		results[res.position] = res
		n := completed.Add(1)
		if res.err != nil {
			r.logger().Warn("clean failed", "source", res.source, "err", res.err)
		}
		if progress != nil {
			progress(serpwall.PageProgress{
				Source:    res.source,
				Completed: int(n),
				Total:     total,
				Error:     res.err,
			})
		}
	}

	if err := ctx.Err(); err != nil {
		_ = r.Store.Abort()
		return nil, err
	}

	var result Result
	for _, res := range results {
		if res.err != nil {
			result.Failed++
			continue
		}
		if err := r.Store.Save(ctx, res.page); err != nil {
			r.logger().Warn("save failed", "source", res.source, "err", err)
			result.Failed++
			continue
		}
		result.Saved++
		result.Hidden += res.page.Report.Hidden
		result.Structural += res.page.Report.Structural
		result.Bytes += len(res.page.Content)
	}

	if result.Saved == 0 {
		_ = r.Store.Abort()
		return &result, serpwall.Errorf(serpwall.EINVALID, "all %d sources failed", result.Failed)
	}
	if err := r.Store.Commit(); err != nil {
		return &result, fmt.Errorf("commit pages: %w", err)
	}
	return &result, nil
}

func (r *Runner) process(ctx context.Context, position int, source string) sourceResult {
	res := sourceResult{position: position, source: source}

	html, err := r.load(ctx, source)
	if err != nil {
		res.err = err
		return res
	}
	res.page, res.err = r.Cleaner.Clean(ctx, source, html)
	return res
}

func (r *Runner) load(ctx context.Context, source string) (string, error) {
	if !IsURL(source) {
		b, err := os.ReadFile(source)
		if err != nil {
			if os.IsNotExist(err) {
				return "", serpwall.Errorf(serpwall.ENOTFOUND, "no such file: %s", source)
			}
			return "", fmt.Errorf("read %s: %w", source, err)
		}
		return string(b), nil
	}

	if r.Fetcher == nil {
		return "", serpwall.Errorf(serpwall.EINVALID, "no fetcher configured for %s", source)
	}
	if r.RateLimiter != nil {
		u, _ := url.Parse(source)
		if err := r.RateLimiter.Wait(ctx, u.Host); err != nil {
			return "", err
		}
	}

	delays := r.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	return FetchWithRetry(ctx, r.Fetcher, source, delays, r.logger())
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return r.Logger
}
