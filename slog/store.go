package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/serpwall"
)

var (
	_ serpwall.SessionStore = (*LoggingSessionStore)(nil)
	_ serpwall.PageStore    = (*LoggingPageStore)(nil)
)

// LoggingSessionStore wraps a SessionStore with debug logging.
type LoggingSessionStore struct {
	next   serpwall.SessionStore
	logger *slog.Logger
}

// NewLoggingSessionStore creates a new LoggingSessionStore.
func NewLoggingSessionStore(next serpwall.SessionStore, logger *slog.Logger) *LoggingSessionStore {
	return &LoggingSessionStore{next: next, logger: logger}
}

// Get delegates to the wrapped store. A missing key is not logged as an
// error.
func (s *LoggingSessionStore) Get(ctx context.Context, key string) (value string, err error) {
	defer func(begin time.Time) {
		attrs := []any{"key", key, "duration", time.Since(begin)}
		if err != nil && serpwall.ErrorCode(err) != serpwall.ENOTFOUND {
			attrs = append(attrs, "err", err)
		} else {
			attrs = append(attrs, "found", err == nil)
		}
		s.logger.Debug("session get", attrs...)
	}(time.Now())
	return s.next.Get(ctx, key)
}

// Set delegates to the wrapped store.
func (s *LoggingSessionStore) Set(ctx context.Context, key, value string) (err error) {
	defer func(begin time.Time) {
		s.logger.Debug("session set",
			"key", key,
			"value", value,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Set(ctx, key, value)
}

// LoggingPageStore wraps a PageStore with logging.
type LoggingPageStore struct {
	next   serpwall.PageStore
	logger *slog.Logger
}

// NewLoggingPageStore creates a new LoggingPageStore.
func NewLoggingPageStore(next serpwall.PageStore, logger *slog.Logger) *LoggingPageStore {
	return &LoggingPageStore{next: next, logger: logger}
}

// Save delegates to the wrapped store.
func (s *LoggingPageStore) Save(ctx context.Context, page *serpwall.Page) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("save page",
			"source", page.Source,
			"format", string(page.Format),
			"bytes", len(page.Content),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Save(ctx, page)
}

// Commit delegates to the wrapped store.
func (s *LoggingPageStore) Commit() (err error) {
	defer func() {
		s.logger.Info("commit pages", "err", err)
	}()
	return s.next.Commit()
}

// Abort delegates to the wrapped store.
func (s *LoggingPageStore) Abort() (err error) {
	defer func() {
		s.logger.Info("abort pages", "err", err)
	}()
	return s.next.Abort()
}
