package engine

import (
	"io"
	"log/slog"
	"sync"

	"github.com/fwojciec/serpwall"
)

// Ensure Watcher implements serpwall.Watcher at compile time.
var _ serpwall.Watcher = (*Watcher)(nil)

// Watcher re-runs a filter after every structural change below the observer
// root. A single worker consumes notifications, so runs never overlap.
// Attribute changes are not observed, which keeps the filter's own marker
// writes from re-triggering it.
type Watcher struct {
	doc    serpwall.Document
	filter serpwall.Filter
	roots  []string
	logger *slog.Logger
	onRun  func(serpwall.Report)

	mu   sync.Mutex
	sub  serpwall.Subscription
	stop chan struct{}
	done chan struct{}
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithWatcherLogger sets the logger.
func WithWatcherLogger(logger *slog.Logger) WatcherOption {
	return func(w *Watcher) {
		w.logger = logger
	}
}

// WithRunHook registers fn to receive the report of every triggered run.
// fn runs on the worker goroutine.
func WithRunHook(fn func(serpwall.Report)) WatcherOption {
	return func(w *Watcher) {
		w.onRun = fn
	}
}

// NewWatcher creates a Watcher that observes the first element matching one
// of roots, falling back to the body.
func NewWatcher(doc serpwall.Document, filter serpwall.Filter, roots []string, opts ...WatcherOption) *Watcher {
	w := &Watcher{
		doc:    doc,
		filter: filter,
		roots:  roots,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start subscribes to the observer root. An existing subscription is torn
// down first, so repeated calls never stack observers. When neither a root
// nor a body exists, Start does nothing.
func (w *Watcher) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.stopLocked()

	root, ok := w.root()
	if !ok {
		w.logger.Debug("watcher: no observer root")
		return
	}

	sub := w.doc.Observe(root, serpwall.ObserveOptions{ChildList: true, Subtree: true})
	stop := make(chan struct{})
	done := make(chan struct{})
	w.sub, w.stop, w.done = sub, stop, done

	go w.loop(sub, stop, done)
}

// Stop unsubscribes and waits for an in-flight run to finish. After Stop
// returns no further runs happen. Stop must not be called while holding the
// document lock.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stopLocked()
}

// Running reports whether a subscription is active.
func (w *Watcher) Running() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.sub != nil
}

func (w *Watcher) stopLocked() {
	if w.sub == nil {
		return
	}
	close(w.stop)
	w.sub.Close()
	<-w.done
	w.sub, w.stop, w.done = nil, nil, nil
}

func (w *Watcher) root() (serpwall.Node, bool) {
	w.doc.Lock()
	defer w.doc.Unlock()

	for _, sel := range w.roots {
		if n, ok := w.doc.QueryFirst(sel); ok {
			return n, true
		}
	}
	return w.doc.Body()
}

func (w *Watcher) loop(sub serpwall.Subscription, stop, done chan struct{}) {
	defer close(done)
	for {
		select {
		case <-stop:
			return
		case <-sub.Done():
			return
		case m := <-sub.C():
			// A stop racing with a queued notification wins.
			select {
			case <-stop:
				return
			default:
			}
			w.logger.Debug("watcher: mutation", "kind", m.Kind.String())
			rep := w.filter.Run()
			if w.onRun != nil {
				w.onRun(rep)
			}
		}
	}
}
