package goquery

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/serpwall"
	"golang.org/x/net/html"
)

// Ensure node implements serpwall.Node at compile time.
var _ serpwall.Node = node{}

// node is a handle to an element. It is a value type wrapping the element
// pointer, so two handles for the same element compare equal.
type node struct {
	n *html.Node
}

// wrap returns a handle for an element node.
func wrap(n *html.Node) serpwall.Node {
	return node{n: n}
}

// HTMLNode returns the underlying element for a handle created by a Document.
func HTMLNode(n serpwall.Node) (*html.Node, bool) {
	h, ok := n.(node)
	if !ok || h.n == nil {
		return nil, false
	}
	return h.n, true
}

func (h node) Tag() string {
	return h.n.Data
}

func (h node) ID() string {
	v, _ := h.Attr("id")
	return v
}

func (h node) Attr(name string) (string, bool) {
	for _, a := range h.n.Attr {
		if a.Namespace == "" && a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

func (h node) Text() string {
	return h.sel().Text()
}

func (h node) Parent() (serpwall.Node, bool) {
	p := h.n.Parent
	if p == nil || p.Type != html.ElementNode {
		return nil, false
	}
	return wrap(p), true
}

func (h node) PrevSibling() (serpwall.Node, bool) {
	for s := h.n.PrevSibling; s != nil; s = s.PrevSibling {
		if s.Type == html.ElementNode {
			return wrap(s), true
		}
	}
	return nil, false
}

func (h node) NextSibling() (serpwall.Node, bool) {
	for s := h.n.NextSibling; s != nil; s = s.NextSibling {
		if s.Type == html.ElementNode {
			return wrap(s), true
		}
	}
	return nil, false
}

func (h node) Children() []serpwall.Node {
	var out []serpwall.Node
	for c := h.n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, wrap(c))
		}
	}
	return out
}

func (h node) FindAll(selector string) []serpwall.Node {
	found := h.sel().Find(selector)
	out := make([]serpwall.Node, 0, found.Length())
	for _, n := range found.Nodes {
		out = append(out, wrap(n))
	}
	return out
}

func (h node) Has(selector string) bool {
	return h.sel().Find(selector).Length() > 0
}

func (h node) Matches(selector string) bool {
	return h.sel().Is(selector)
}

// sel returns a selection rooted at the element. Find on it searches
// descendants only.
func (h node) sel() *goquery.Selection {
	return goquery.NewDocumentFromNode(h.n).Selection
}
