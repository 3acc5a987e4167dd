package batch

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/serpwall"
)

// DefaultRetryDelays returns the backoff delays for fetch retries: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// FetchWithRetry fetches url, retrying once per entry in delays after
// waiting that long. Not-found and invalid-input errors are not retried.
func FetchWithRetry(ctx context.Context, f serpwall.Fetcher, url string, delays []time.Duration, logger *slog.Logger) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= len(delays); attempt++ {
		html, err := f.Fetch(ctx, url)
		if err == nil {
			return html, nil
		}
		lastErr = err

		if attempt == len(delays) || !retryable(err) {
			break
		}
		if logger != nil {
			logger.Warn("retry fetch", "url", url, "attempt", attempt+2, "err", err)
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}
	return "", lastErr
}

func retryable(err error) bool {
	switch serpwall.ErrorCode(err) {
	case serpwall.ENOTFOUND, serpwall.EINVALID:
		return false
	}
	return true
}
