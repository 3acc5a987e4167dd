// Package goquery implements the serpwall document adapter over
// golang.org/x/net/html trees, using goquery selectors for queries.
package goquery

import (
	"bytes"
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/serpwall"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// DefaultBufferSize is the per-subscription notification buffer.
const DefaultBufferSize = 64

// Ensure Document implements serpwall.Document at compile time.
var _ serpwall.Document = (*Document)(nil)

// Document is an in-memory host document. It stands in for a rendered page:
// the host side changes it with AppendHTML, Remove and Detach, the engine
// reads it through serpwall.Node handles and writes only marker attributes
// and the style overlay.
//
// Document is safe for concurrent use as long as every step runs between
// Lock and Unlock. Host mutation methods lock internally; the write
// primitives of serpwall.Document expect the caller to hold the lock.
type Document struct {
	mu   sync.Mutex
	root *html.Node
	base *url.URL

	// deliveries queued while the lock is held, sent on Unlock.
	pending []delivery

	subsMu sync.Mutex
	subs   map[*subscription]struct{}
	buffer int
}

// Option configures a Document.
type Option func(*Document)

// WithBaseURL sets the address the page was loaded from. It is used to tell
// links to the host site apart from external ones.
func WithBaseURL(u *url.URL) Option {
	return func(d *Document) {
		d.base = u
	}
}

// WithBufferSize sets the notification buffer of each subscription.
// Defaults to DefaultBufferSize.
func WithBufferSize(n int) Option {
	return func(d *Document) {
		d.buffer = n
	}
}

// NewDocument parses HTML into a Document.
func NewDocument(r io.Reader, opts ...Option) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, serpwall.Errorf(serpwall.EINVALID, "failed to parse HTML: %v", err)
	}

	d := &Document{
		root:   root,
		subs:   make(map[*subscription]struct{}),
		buffer: DefaultBufferSize,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.buffer <= 0 {
		d.buffer = DefaultBufferSize
	}
	return d, nil
}

// NewDocumentFromString parses an HTML string into a Document.
func NewDocumentFromString(s string, opts ...Option) (*Document, error) {
	return NewDocument(strings.NewReader(s), opts...)
}

// Lock acquires exclusive access to the tree.
func (d *Document) Lock() {
	d.mu.Lock()
}

// Unlock releases the tree and delivers notifications produced while it was
// held.
func (d *Document) Unlock() {
	pending := d.pending
	d.pending = nil
	d.mu.Unlock()

	for _, dv := range pending {
		dv.sub.deliver(dv.m)
	}
}

// Root returns the <html> element.
func (d *Document) Root() serpwall.Node {
	for c := d.root.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return wrap(c)
		}
	}
	// html.Parse always synthesises an <html> element.
	return wrap(d.root)
}

// Body returns the <body> element.
func (d *Document) Body() (serpwall.Node, bool) {
	return d.QueryFirst("body")
}

// QueryFirst returns the first element matching selector in document order.
func (d *Document) QueryFirst(selector string) (serpwall.Node, bool) {
	found := d.selection().Find(selector)
	if found.Length() == 0 {
		return nil, false
	}
	return wrap(found.Nodes[0]), true
}

// BaseURL returns the address the page was loaded from, or nil.
func (d *Document) BaseURL() *url.URL {
	return d.base
}

// SetAttr sets an attribute. The caller must hold the lock.
func (d *Document) SetAttr(n serpwall.Node, name, value string) {
	h, ok := HTMLNode(n)
	if !ok {
		return
	}
	for i, a := range h.Attr {
		if a.Namespace == "" && a.Key == name {
			if a.Val == value {
				return
			}
			h.Attr[i].Val = value
			d.record(serpwall.Mutation{Kind: serpwall.MutationAttributes, Target: n, Attribute: name})
			return
		}
	}
	h.Attr = append(h.Attr, html.Attribute{Key: name, Val: value})
	d.record(serpwall.Mutation{Kind: serpwall.MutationAttributes, Target: n, Attribute: name})
}

// RemoveAttr removes an attribute if present. The caller must hold the lock.
func (d *Document) RemoveAttr(n serpwall.Node, name string) {
	h, ok := HTMLNode(n)
	if !ok {
		return
	}
	for i, a := range h.Attr {
		if a.Namespace == "" && a.Key == name {
			h.Attr = append(h.Attr[:i], h.Attr[i+1:]...)
			d.record(serpwall.Mutation{Kind: serpwall.MutationAttributes, Target: n, Attribute: name})
			return
		}
	}
}

// EnsureOverlay appends a <style> element to <head> unless one with the same
// id exists. The caller must hold the lock.
func (d *Document) EnsureOverlay(id, css string) {
	if d.HasOverlay(id) {
		return
	}

	parent, ok := d.QueryFirst("head")
	if !ok {
		parent = d.Root()
	}
	p, _ := HTMLNode(parent)

	style := &html.Node{
		Type:     html.ElementNode,
		Data:     "style",
		DataAtom: atom.Style,
		Attr: []html.Attribute{
			{Key: "id", Val: id},
			{Key: "type", Val: "text/css"},
		},
	}
	style.AppendChild(&html.Node{Type: html.TextNode, Data: css})
	p.AppendChild(style)
	d.record(serpwall.Mutation{Kind: serpwall.MutationChildList, Target: parent})
}

// RemoveOverlay removes the <style> element with the given id. The caller
// must hold the lock.
func (d *Document) RemoveOverlay(id string) {
	found, ok := d.QueryFirst(overlaySelector(id))
	if !ok {
		return
	}
	h, _ := HTMLNode(found)
	parent, hasParent := found.Parent()
	if h.Parent != nil {
		h.Parent.RemoveChild(h)
	}
	if hasParent {
		d.record(serpwall.Mutation{Kind: serpwall.MutationChildList, Target: parent})
	}
}

// HasOverlay reports whether the overlay exists.
func (d *Document) HasOverlay(id string) bool {
	_, ok := d.QueryFirst(overlaySelector(id))
	return ok
}

// AppendHTML parses fragment in the context of the first element matching
// selector and appends the result to it, the way a page injects late
// content. Returns ENOTFOUND if nothing matches.
func (d *Document) AppendHTML(selector, fragment string) error {
	d.Lock()
	defer d.Unlock()

	target, ok := d.QueryFirst(selector)
	if !ok {
		return serpwall.Errorf(serpwall.ENOTFOUND, "no element matches %q", selector)
	}
	t, _ := HTMLNode(target)

	nodes, err := html.ParseFragment(strings.NewReader(fragment), t)
	if err != nil {
		return serpwall.Errorf(serpwall.EINVALID, "failed to parse fragment: %v", err)
	}
	for _, n := range nodes {
		t.AppendChild(n)
	}
	d.record(serpwall.Mutation{Kind: serpwall.MutationChildList, Target: target})
	return nil
}

// Remove detaches every element matching selector and returns how many were
// removed.
func (d *Document) Remove(selector string) int {
	d.Lock()
	defer d.Unlock()

	found := d.selection().Find(selector)
	removed := 0
	for _, n := range found.Nodes {
		if d.detach(n) {
			removed++
		}
	}
	return removed
}

// Detach removes a single element from the tree.
func (d *Document) Detach(n serpwall.Node) bool {
	h, ok := HTMLNode(n)
	if !ok {
		return false
	}

	d.Lock()
	defer d.Unlock()
	return d.detach(h)
}

func (d *Document) detach(h *html.Node) bool {
	p := h.Parent
	if p == nil {
		return false
	}
	p.RemoveChild(h)
	if p.Type == html.ElementNode {
		d.record(serpwall.Mutation{Kind: serpwall.MutationChildList, Target: wrap(p)})
	}
	return true
}

// Render writes the document as HTML.
func (d *Document) Render(w io.Writer) error {
	d.Lock()
	defer d.Unlock()

	if err := html.Render(w, d.root); err != nil {
		return fmt.Errorf("rendering document: %w", err)
	}
	return nil
}

// HTML returns the document as an HTML string.
func (d *Document) HTML() (string, error) {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Fingerprint returns a hash of the rendered tree. Two documents with the
// same structure, attributes and text have the same fingerprint.
func (d *Document) Fingerprint() (string, error) {
	s, err := d.HTML()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%016x", xxhash.Sum64String(s)), nil
}

func (d *Document) selection() *goquery.Selection {
	return goquery.NewDocumentFromNode(d.root).Selection
}

func overlaySelector(id string) string {
	return fmt.Sprintf("style[id=%q]", id)
}
