package serpwall

import (
	"net/url"
	"sync"
)

// Node is a transient handle to an element in the host document. The host
// owns the tree; handles are never copies of it. Two handles referring to the
// same element compare equal with ==, so Node values may be used as map keys.
type Node interface {
	// Tag returns the lower-case tag name (e.g. "div", "h3").
	Tag() string

	// ID returns the element's id attribute, or "" when absent.
	ID() string

	// Attr returns the value of the named attribute and whether it is present.
	Attr(name string) (string, bool)

	// Text returns the element's text content, including all descendants.
	Text() string

	// Parent returns the parent element. It returns false at the document
	// root element.
	Parent() (Node, bool)

	// PrevSibling returns the preceding element sibling.
	PrevSibling() (Node, bool)

	// NextSibling returns the following element sibling.
	NextSibling() (Node, bool)

	// Children returns the element children in document order.
	Children() []Node

	// FindAll returns descendants matching a CSS selector, in document order.
	// The node itself is never included.
	FindAll(selector string) []Node

	// Has reports whether any descendant matches the selector.
	Has(selector string) bool

	// Matches reports whether the node itself matches the selector.
	Matches(selector string) bool
}

// MutationKind classifies a change to the host document.
type MutationKind int

// Mutation kinds, mirroring the host's notification categories.
const (
	MutationChildList MutationKind = iota + 1
	MutationAttributes
)

// String returns a short name for the kind.
func (k MutationKind) String() string {
	switch k {
	case MutationChildList:
		return "childList"
	case MutationAttributes:
		return "attributes"
	default:
		return "unknown"
	}
}

// Mutation is a single change notification delivered to a subscription.
type Mutation struct {
	Kind   MutationKind
	Target Node
	// Attribute is the attribute name for MutationAttributes.
	Attribute string
}

// ObserveOptions selects which notifications a subscription receives.
type ObserveOptions struct {
	ChildList  bool
	Attributes bool
	// Subtree extends observation from the root to all its descendants.
	Subtree bool
}

// Accepts reports whether the options admit a mutation of the given kind.
func (o ObserveOptions) Accepts(kind MutationKind) bool {
	switch kind {
	case MutationChildList:
		return o.ChildList
	case MutationAttributes:
		return o.Attributes
	default:
		return false
	}
}

// Subscription is a live mutation-notification stream scoped to one root.
type Subscription interface {
	// C returns the channel notifications are delivered on. The channel is
	// never closed; use Done to detect the end of the subscription.
	C() <-chan Mutation

	// Done is closed once Close has been called.
	Done() <-chan struct{}

	// Close stops delivery. Close is safe to call multiple times.
	Close()
}

// Document is the host document adapter: read-only tree queries plus the
// narrow write primitives the engine needs (one marker attribute per node
// and one style overlay).
//
// The document is the only shared mutable resource. Callers hold the lock
// for the duration of a whole step (an apply pass or a host mutation) so no
// two writers interleave. Notifications produced while the lock is held are
// delivered after Unlock.
type Document interface {
	sync.Locker

	// Root returns the document element (<html>).
	Root() Node

	// Body returns the body element when present.
	Body() (Node, bool)

	// QueryFirst returns the first element in the document matching the selector.
	QueryFirst(selector string) (Node, bool)

	// BaseURL returns the address the document was loaded from, or nil.
	BaseURL() *url.URL

	// SetAttr sets an attribute on a node. Setting an identical value is a no-op.
	SetAttr(n Node, name, value string)

	// RemoveAttr removes an attribute from a node if present.
	RemoveAttr(n Node, name string)

	// EnsureOverlay inserts a style resource with the given id unless one
	// already exists.
	EnsureOverlay(id, css string)

	// RemoveOverlay removes the style resource with the given id if present.
	RemoveOverlay(id string)

	// HasOverlay reports whether the style resource with the given id exists.
	HasOverlay(id string) bool

	// Observe subscribes to notifications for changes at or below root.
	// Callers must not hold the document lock while draining the channel.
	Observe(root Node, opts ObserveOptions) Subscription
}
