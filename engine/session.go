package engine

import (
	"io"
	"log/slog"

	"github.com/fwojciec/serpwall"
)

// Session wires an Engine, its Watcher and a Toggle for one document.
type Session struct {
	Engine  *Engine
	Watcher *Watcher
	Toggle  *Toggle
}

// SessionOption configures a Session.
type SessionOption func(*sessionOptions)

type sessionOptions struct {
	logger   *slog.Logger
	decorate func(serpwall.Filter) serpwall.Filter
	onRun    func(serpwall.Report)
}

// WithSessionLogger sets the logger shared by every component.
func WithSessionLogger(logger *slog.Logger) SessionOption {
	return func(o *sessionOptions) {
		o.logger = logger
	}
}

// WithFilterDecorator wraps the engine before it is handed to the watcher
// and the toggle, e.g. with a logging decorator.
func WithFilterDecorator(fn func(serpwall.Filter) serpwall.Filter) SessionOption {
	return func(o *sessionOptions) {
		o.decorate = fn
	}
}

// WithSessionRunHook forwards watcher-triggered reports to fn.
func WithSessionRunHook(fn func(serpwall.Report)) SessionOption {
	return func(o *sessionOptions) {
		o.onRun = fn
	}
}

// NewSession creates the components for doc. A nil cfg uses
// serpwall.DefaultConfig. The toggle starts OFF; call Toggle.Init to restore
// the persisted state.
func NewSession(doc serpwall.Document, cfg *serpwall.Config, store serpwall.SessionStore, opts ...SessionOption) *Session {
	if cfg == nil {
		cfg = serpwall.DefaultConfig()
	}
	o := sessionOptions{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(&o)
	}

	eng := New(doc, cfg, WithLogger(o.logger))
	var filter serpwall.Filter = eng
	if o.decorate != nil {
		filter = o.decorate(eng)
	}

	wopts := []WatcherOption{WithWatcherLogger(o.logger)}
	if o.onRun != nil {
		wopts = append(wopts, WithRunHook(o.onRun))
	}
	w := NewWatcher(doc, filter, cfg.ObserverRoots, wopts...)
	t := NewToggle(filter, w, store, WithToggleLogger(o.logger), WithSessionKey(cfg.SessionKey))

	return &Session{Engine: eng, Watcher: w, Toggle: t}
}
