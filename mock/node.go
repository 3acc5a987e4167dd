package mock

import "github.com/fwojciec/serpwall"

var _ serpwall.Node = (*Node)(nil)

// Node is a mock implementation of serpwall.Node.
type Node struct {
	TagFn         func() string
	IDFn          func() string
	AttrFn        func(name string) (string, bool)
	TextFn        func() string
	ParentFn      func() (serpwall.Node, bool)
	PrevSiblingFn func() (serpwall.Node, bool)
	NextSiblingFn func() (serpwall.Node, bool)
	ChildrenFn    func() []serpwall.Node
	FindAllFn     func(selector string) []serpwall.Node
	HasFn         func(selector string) bool
	MatchesFn     func(selector string) bool
}

func (n *Node) Tag() string {
	return n.TagFn()
}

func (n *Node) ID() string {
	return n.IDFn()
}

func (n *Node) Attr(name string) (string, bool) {
	return n.AttrFn(name)
}

func (n *Node) Text() string {
	return n.TextFn()
}

func (n *Node) Parent() (serpwall.Node, bool) {
	return n.ParentFn()
}

func (n *Node) PrevSibling() (serpwall.Node, bool) {
	return n.PrevSiblingFn()
}

func (n *Node) NextSibling() (serpwall.Node, bool) {
	return n.NextSiblingFn()
}

func (n *Node) Children() []serpwall.Node {
	return n.ChildrenFn()
}

func (n *Node) FindAll(selector string) []serpwall.Node {
	return n.FindAllFn(selector)
}

func (n *Node) Has(selector string) bool {
	return n.HasFn(selector)
}

func (n *Node) Matches(selector string) bool {
	return n.MatchesFn(selector)
}
