// Package tree is an in-memory syntax.Node implementation. Front ends without
// a native tree (properties files) build on it, and tests use it to describe
// exact tree shapes.
package tree

import (
	"strings"

	"github.com/phobologic/caretctx/internal/syntax"
)

// Node is a mutable-until-rooted tree node. Once passed to Root it must be
// treated as read-only.
type Node struct {
	kind     string
	text     string
	grammar  syntax.Grammar
	sem      syntax.Semantics
	parent   *Node
	children []*Node
	index    int
}

var _ syntax.Node = (*Node)(nil)

// Leaf returns a node without children.
func Leaf(kind, text string) *Node {
	return &Node{kind: kind, text: text}
}

// New returns an interior node. Its text is the concatenation of its
// children's text.
func New(kind string, children ...*Node) *Node {
	return &Node{kind: kind, children: children}
}

// Root links parents and siblings under n and stamps every node with the
// grammar and semantics oracle. It returns n.
func Root(g syntax.Grammar, sem syntax.Semantics, n *Node) *Node {
	n.parent = nil
	n.index = 0
	link(n, g, sem)
	return n
}

func link(n *Node, g syntax.Grammar, sem syntax.Semantics) {
	n.grammar = g
	n.sem = sem
	for i, c := range n.children {
		c.parent = n
		c.index = i
		link(c, g, sem)
	}
}

func (n *Node) Kind() string            { return n.kind }
func (n *Node) Grammar() syntax.Grammar { return n.grammar }

func (n *Node) Text() string {
	if len(n.children) == 0 {
		return n.text
	}
	var b strings.Builder
	for _, c := range n.children {
		b.WriteString(c.Text())
	}
	return b.String()
}

func (n *Node) Parent() syntax.Node {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

func (n *Node) Children() []syntax.Node {
	out := make([]syntax.Node, len(n.children))
	for i, c := range n.children {
		out[i] = c
	}
	return out
}

func (n *Node) PrevSibling() syntax.Node {
	if n.parent == nil || n.index == 0 {
		return nil
	}
	return n.parent.children[n.index-1]
}

func (n *Node) NextSibling() syntax.Node {
	if n.parent == nil || n.index+1 >= len(n.parent.children) {
		return nil
	}
	return n.parent.children[n.index+1]
}

func (n *Node) Semantics() syntax.Semantics { return n.sem }

// Find returns the first node under n (n included) with the given kind and,
// when text is non-empty, the given text.
func (n *Node) Find(kind, text string) *Node {
	if n.kind == kind && (text == "" || n.Text() == text) {
		return n
	}
	for _, c := range n.children {
		if f := c.Find(kind, text); f != nil {
			return f
		}
	}
	return nil
}
