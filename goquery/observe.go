package goquery

import (
	"sync"

	"github.com/fwojciec/serpwall"
	"golang.org/x/net/html"
)

// Ensure subscription implements serpwall.Subscription at compile time.
var _ serpwall.Subscription = (*subscription)(nil)

type delivery struct {
	sub *subscription
	m   serpwall.Mutation
}

type subscription struct {
	doc  *Document
	root *html.Node
	opts serpwall.ObserveOptions
	ch   chan serpwall.Mutation
	done chan struct{}
	once sync.Once
}

// Observe subscribes to changes at or below root. Notifications for a step
// are delivered when the step releases the document lock; delivery blocks
// while the buffer is full until the subscriber drains it or closes.
func (d *Document) Observe(root serpwall.Node, opts serpwall.ObserveOptions) serpwall.Subscription {
	h, _ := HTMLNode(root)
	s := &subscription{
		doc:  d,
		root: h,
		opts: opts,
		ch:   make(chan serpwall.Mutation, d.buffer),
		done: make(chan struct{}),
	}

	d.subsMu.Lock()
	d.subs[s] = struct{}{}
	d.subsMu.Unlock()
	return s
}

func (s *subscription) C() <-chan serpwall.Mutation {
	return s.ch
}

func (s *subscription) Done() <-chan struct{} {
	return s.done
}

func (s *subscription) Close() {
	s.once.Do(func() {
		close(s.done)
		s.doc.subsMu.Lock()
		delete(s.doc.subs, s)
		s.doc.subsMu.Unlock()
	})
}

func (s *subscription) deliver(m serpwall.Mutation) {
	select {
	case <-s.done:
		return
	default:
	}
	select {
	case s.ch <- m:
	case <-s.done:
	}
}

// covers reports whether a mutation on target falls inside the observed
// region. It walks the tree, so it must run under the document lock.
func (s *subscription) covers(target *html.Node) bool {
	if s.root == nil || target == nil {
		return false
	}
	if target == s.root {
		return true
	}
	if !s.opts.Subtree {
		return false
	}
	for p := target.Parent; p != nil; p = p.Parent {
		if p == s.root {
			return true
		}
	}
	return false
}

// record queues a mutation for every subscription that accepts it. The
// caller must hold the document lock.
func (d *Document) record(m serpwall.Mutation) {
	target, ok := HTMLNode(m.Target)
	if !ok {
		return
	}

	d.subsMu.Lock()
	defer d.subsMu.Unlock()
	for s := range d.subs {
		if !s.opts.Accepts(m.Kind) || !s.covers(target) {
			continue
		}
		d.pending = append(d.pending, delivery{sub: s, m: m})
	}
}
