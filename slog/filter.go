package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/serpwall"
)

// Ensure LoggingFilter implements serpwall.Filter.
var _ serpwall.Filter = (*LoggingFilter)(nil)

// LoggingFilter wraps a Filter and logs every pass at debug level.
type LoggingFilter struct {
	next   serpwall.Filter
	logger *slog.Logger
}

// NewLoggingFilter creates a new LoggingFilter.
func NewLoggingFilter(next serpwall.Filter, logger *slog.Logger) *LoggingFilter {
	return &LoggingFilter{next: next, logger: logger}
}

// Run delegates to the wrapped filter and logs the report.
func (f *LoggingFilter) Run() (rep serpwall.Report) {
	defer func(begin time.Time) {
		f.logger.Debug("filter run",
			"zones", rep.Zones,
			"headers", rep.Headers,
			"hidden", rep.Hidden,
			"structural", rep.Structural,
			"unlocated", rep.Unlocated,
			"rejected", rep.Rejected,
			"duration", time.Since(begin),
		)
	}(time.Now())
	return f.next.Run()
}

// Clear delegates to the wrapped filter.
func (f *LoggingFilter) Clear() {
	defer func(begin time.Time) {
		f.logger.Debug("filter clear", "duration", time.Since(begin))
	}(time.Now())
	f.next.Clear()
}
