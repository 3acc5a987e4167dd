package engine

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/fwojciec/serpwall"
)

// Toggle is the user-facing on/off switch. ON runs the filter and starts the
// watcher; OFF stops the watcher before clearing. The state is persisted to
// a session store. Store failures are logged and never block a transition.
type Toggle struct {
	filter  serpwall.Filter
	watcher serpwall.Watcher
	store   serpwall.SessionStore
	key     string
	logger  *slog.Logger

	mu    sync.Mutex
	state serpwall.ToggleState
}

// ToggleOption configures a Toggle.
type ToggleOption func(*Toggle)

// WithToggleLogger sets the logger.
func WithToggleLogger(logger *slog.Logger) ToggleOption {
	return func(t *Toggle) {
		t.logger = logger
	}
}

// WithSessionKey overrides serpwall.DefaultSessionKey.
func WithSessionKey(key string) ToggleOption {
	return func(t *Toggle) {
		t.key = key
	}
}

// NewToggle creates a Toggle in the OFF state. Call Init to restore the
// persisted state.
func NewToggle(filter serpwall.Filter, watcher serpwall.Watcher, store serpwall.SessionStore, opts ...ToggleOption) *Toggle {
	t := &Toggle{
		filter:  filter,
		watcher: watcher,
		store:   store,
		key:     serpwall.DefaultSessionKey,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Init reads the persisted state and brings the document in line with it.
// A missing or unreadable value means OFF, and OFF clears unconditionally.
func (t *Toggle) Init(ctx context.Context) serpwall.ToggleState {
	v, err := t.store.Get(ctx, t.key)
	if err != nil && serpwall.ErrorCode(err) != serpwall.ENOTFOUND {
		t.logger.Warn("toggle: reading state", "key", t.key, "err", err)
	}
	state := serpwall.ParseToggleState(v)

	t.mu.Lock()
	defer t.mu.Unlock()
	t.apply(state)
	return t.state
}

// Set moves to state and persists it. Setting the current state is a no-op.
func (t *Toggle) Set(ctx context.Context, state serpwall.ToggleState) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if state == t.state {
		return
	}
	t.apply(state)
	t.persist(ctx)
}

// Flip inverts the state, persists it and returns the new state.
func (t *Toggle) Flip(ctx context.Context) serpwall.ToggleState {
	t.mu.Lock()
	defer t.mu.Unlock()

	next := serpwall.On
	if t.state == serpwall.On {
		next = serpwall.Off
	}
	t.apply(next)
	t.persist(ctx)
	return t.state
}

// State returns the current state.
func (t *Toggle) State() serpwall.ToggleState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Detach stops the watcher without touching the document or the stored
// state, for when the page is being torn down.
func (t *Toggle) Detach() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.watcher.Stop()
}

func (t *Toggle) apply(state serpwall.ToggleState) {
	if state == serpwall.On {
		t.filter.Run()
		t.watcher.Start()
	} else {
		t.watcher.Stop()
		t.filter.Clear()
	}
	t.state = state
}

func (t *Toggle) persist(ctx context.Context) {
	if err := t.store.Set(ctx, t.key, t.state.StoreValue()); err != nil {
		t.logger.Warn("toggle: persisting state", "key", t.key, "state", t.state.String(), "err", err)
	}
}
