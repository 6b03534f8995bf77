package syntax

import "strings"

// Enclosing returns the nearest strict ancestor of n satisfying pred, or nil.
func Enclosing(n Node, pred func(Node) bool) Node {
	if n == nil {
		return nil
	}
	for cur := n.Parent(); cur != nil; cur = cur.Parent() {
		if pred(cur) {
			return cur
		}
	}
	return nil
}

// EnclosingClass returns the nearest strict ancestor classified as one of
// classes.
func EnclosingClass(n Node, classes ...Class) Node {
	return Enclosing(n, func(a Node) bool {
		c := Classify(a)
		for _, want := range classes {
			if c == want {
				return true
			}
		}
		return false
	})
}

// Walk visits n and its descendants depth-first in source order. Returning
// false from fn skips the node's children.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children() {
		Walk(c, fn)
	}
}

// Find returns the first node in depth-first order satisfying pred.
func Find(root Node, pred func(Node) bool) Node {
	var found Node
	Walk(root, func(n Node) bool {
		if found != nil {
			return false
		}
		if pred(n) {
			found = n
			return false
		}
		return true
	})
	return found
}

// IsLeaf reports whether n has no children.
func IsLeaf(n Node) bool {
	return n != nil && len(n.Children()) == 0
}

// FirstChild returns n's first child or nil.
func FirstChild(n Node) Node {
	if n == nil {
		return nil
	}
	children := n.Children()
	if len(children) == 0 {
		return nil
	}
	return children[0]
}

// LastChild returns n's last child or nil.
func LastChild(n Node) Node {
	if n == nil {
		return nil
	}
	children := n.Children()
	if len(children) == 0 {
		return nil
	}
	return children[len(children)-1]
}

// Step is a single positional hop over tree links.
type Step int

const (
	ToParent Step = iota
	ToFirstChild
	ToLastChild
	ToPrevSibling
)

func (s Step) String() string {
	switch s {
	case ToParent:
		return "parent"
	case ToFirstChild:
		return "first"
	case ToLastChild:
		return "last"
	case ToPrevSibling:
		return "prev"
	default:
		return "?"
	}
}

// Apply performs one hop. It returns nil when the link does not exist.
func (s Step) Apply(n Node) Node {
	if n == nil {
		return nil
	}
	switch s {
	case ToParent:
		return n.Parent()
	case ToFirstChild:
		return FirstChild(n)
	case ToLastChild:
		return LastChild(n)
	case ToPrevSibling:
		return n.PrevSibling()
	}
	return nil
}

// Path is a fixed sequence of hops.
type Path []Step

// Follow applies every hop of p starting at n. The result is nil as soon as
// a hop falls off the tree.
func (p Path) Follow(n Node) Node {
	cur := n
	for _, s := range p {
		cur = s.Apply(cur)
		if cur == nil {
			return nil
		}
	}
	return cur
}

func (p Path) String() string {
	parts := make([]string, len(p))
	for i, s := range p {
		parts[i] = s.String()
	}
	return strings.Join(parts, ">")
}
