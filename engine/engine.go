// Package engine applies and reverses the serpwall hiding rules on a
// serpwall.Document.
package engine

import (
	"io"
	"log/slog"

	"github.com/fwojciec/serpwall"
)

// Ensure Engine implements serpwall.Filter at compile time.
var _ serpwall.Filter = (*Engine)(nil)

// Engine hides non-primary modules of one document by setting a marker
// attribute, and restores them by removing it. It never detaches, reorders or
// edits content. Every exported method takes the document lock once, so a
// pass is atomic with respect to other writers.
type Engine struct {
	doc    serpwall.Document
	cfg    *serpwall.Config
	logger *slog.Logger

	// guarded by the document lock
	hidden serpwall.HiddenSet
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger for per-pass diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New creates an Engine for doc. A nil cfg uses serpwall.DefaultConfig.
func New(doc serpwall.Document, cfg *serpwall.Config, opts ...Option) *Engine {
	if cfg == nil {
		cfg = serpwall.DefaultConfig()
	}
	e := &Engine{
		doc:    doc,
		cfg:    cfg,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Apply runs the phrase rules. When no zone resolves it makes no change at
// all, the overlay included.
func (e *Engine) Apply() serpwall.Report {
	e.doc.Lock()
	defer e.doc.Unlock()

	z := e.resolveZones()
	if z.empty() {
		return serpwall.Report{}
	}
	e.doc.EnsureOverlay(e.cfg.OverlayID, e.cfg.OverlayCSS)
	return e.applyRules(z)
}

// ApplyStructural hides every block preceding the first organic result in
// the primary zone and returns how many blocks were marked.
func (e *Engine) ApplyStructural() int {
	e.doc.Lock()
	defer e.doc.Unlock()

	n := e.applyStructural(e.resolveZones().primary)
	if n > 0 {
		e.doc.EnsureOverlay(e.cfg.OverlayID, e.cfg.OverlayCSS)
	}
	return n
}

// Run applies the phrase rules and then the structural rule in one step.
func (e *Engine) Run() serpwall.Report {
	e.doc.Lock()
	defer e.doc.Unlock()

	z := e.resolveZones()
	if z.empty() {
		e.logger.Debug("no zone found")
		return serpwall.Report{}
	}
	e.doc.EnsureOverlay(e.cfg.OverlayID, e.cfg.OverlayCSS)

	rep := e.applyRules(z)
	rep.Structural = e.applyStructural(z.primary)
	e.logger.Debug("pass",
		"zones", rep.Zones,
		"headers", rep.Headers,
		"hidden", rep.Hidden,
		"structural", rep.Structural,
		"unlocated", rep.Unlocated,
		"rejected", rep.Rejected,
	)
	return rep
}

// Clear removes the overlay and the marker from every node this engine
// hid, then forgets them.
func (e *Engine) Clear() {
	e.doc.Lock()
	defer e.doc.Unlock()

	e.doc.RemoveOverlay(e.cfg.OverlayID)
	for _, n := range e.hidden.Reset() {
		e.doc.RemoveAttr(n, e.cfg.MarkerAttr)
	}
}

// Hidden returns the nodes currently marked, in the order they were hidden.
func (e *Engine) Hidden() []serpwall.Node {
	e.doc.Lock()
	defer e.doc.Unlock()
	return e.hidden.Nodes()
}

// IsHidden reports whether n is currently marked by this engine.
func (e *Engine) IsHidden(n serpwall.Node) bool {
	e.doc.Lock()
	defer e.doc.Unlock()
	return e.hidden.Has(n)
}

type zones struct {
	primary serpwall.Node
	// tail holds the footer zones followed by the primary zone.
	tail []serpwall.Node
}

func (z zones) empty() bool {
	return z.primary == nil && len(z.tail) == 0
}

func (z zones) count() int {
	return len(z.tail)
}

func (e *Engine) resolveZones() zones {
	var z zones
	for _, sel := range e.cfg.PrimaryZones {
		if n, ok := e.doc.QueryFirst(sel); ok {
			z.primary = n
			break
		}
	}
	for _, sel := range e.cfg.TailZones {
		n, ok := e.doc.QueryFirst(sel)
		if !ok || n == z.primary {
			continue
		}
		z.tail = append(z.tail, n)
	}
	if z.primary != nil {
		z.tail = append(z.tail, z.primary)
	}
	return z
}

func (e *Engine) applyRules(z zones) serpwall.Report {
	rep := serpwall.Report{Zones: z.count()}
	marked := make(map[serpwall.Node]struct{})

	for _, rule := range e.cfg.Rules {
		switch rule.Scope {
		case serpwall.ScopePrimary:
			if z.primary != nil {
				e.hideWithin(&rep, marked, z.primary, rule, z.primary)
			}
		case serpwall.ScopeTail:
			for _, zone := range z.tail {
				e.hideWithin(&rep, marked, zone, rule, nil)
			}
		}
	}
	return rep
}

// hideWithin marks the module of every header in zone matching rule. A nil
// boundary makes the climb stop at structural boundary attributes only.
func (e *Engine) hideWithin(rep *serpwall.Report, marked map[serpwall.Node]struct{}, zone serpwall.Node, rule serpwall.Rule, boundary serpwall.Node) {
	for _, h := range FindHeaders(zone, rule, e.cfg.HeaderSelector) {
		rep.Headers++

		module, ok := Locate(h, boundary, e.cfg)
		if !ok {
			rep.Unlocated++
			e.logger.Debug("module not located", "category", rule.Category, "tag", h.Tag())
			continue
		}
		if Unsafe(module, e.cfg) {
			rep.Rejected++
			e.logger.Debug("module rejected", "category", rule.Category, "tag", module.Tag(), "id", module.ID())
			continue
		}
		if _, seen := marked[module]; seen {
			continue
		}
		marked[module] = struct{}{}
		e.mark(module)
		rep.Hidden++
	}
}

func (e *Engine) applyStructural(primary serpwall.Node) int {
	if primary == nil {
		return 0
	}
	block, ok := FirstOrganicBlock(primary, e.doc.BaseURL(), e.cfg)
	if !ok {
		return 0
	}

	n := 0
	for sib, ok := block.PrevSibling(); ok; sib, ok = sib.PrevSibling() {
		if holdsPrimary(sib, e.cfg) {
			continue
		}
		if e.cfg.GuardStructural && Unsafe(sib, e.cfg) {
			continue
		}
		e.mark(sib)
		n++
	}
	return n
}

func (e *Engine) mark(n serpwall.Node) {
	e.doc.SetAttr(n, e.cfg.MarkerAttr, "")
	e.hidden.Add(n)
}
