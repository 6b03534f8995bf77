package lang

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/phobologic/caretctx/internal/config"
	"github.com/phobologic/caretctx/internal/syntax"
	"github.com/phobologic/caretctx/internal/syntax/tree"
)

// Document is a parsed source file. Nodes obtained from it are valid until
// Close is called. A Document must not be shared between goroutines.
type Document struct {
	Language *Language
	Source   []byte
	Root     syntax.Node

	tree *sitter.Tree
	sem  syntax.Semantics
}

// ParseOption configures Parse.
type ParseOption func(*parseOptions)

type parseOptions struct {
	types []config.TypeStub
}

// WithTypes supplies library type stubs to the Java resolver.
func WithTypes(types []config.TypeStub) ParseOption {
	return func(o *parseOptions) {
		o.types = types
	}
}

// Parse parses source with l and returns the document.
func Parse(ctx context.Context, l *Language, source []byte, opts ...ParseOption) (*Document, error) {
	if l == nil {
		return nil, ErrUnsupported
	}
	var o parseOptions
	for _, opt := range opts {
		opt(&o)
	}

	doc := &Document{Language: l, Source: source}
	if l.build != nil {
		doc.Root = tree.Root(l.Grammar, nil, l.build(source))
		return doc, nil
	}

	parser := l.NewParser()
	defer parser.Close()
	t, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", l.Name, err)
	}
	doc.tree = t
	if l.Grammar.Family == syntax.TypedExpression {
		doc.sem = newJavaSemantics(t.RootNode(), source, o.types)
	}
	doc.Root = doc.wrap(t.RootNode())
	return doc, nil
}

// Close releases the tree-sitter tree.
func (d *Document) Close() {
	if d.tree != nil {
		d.tree.Close()
		d.tree = nil
	}
}

func (d *Document) wrap(n *sitter.Node) syntax.Node {
	if n == nil || n.IsNull() {
		return nil
	}
	return &node{n: n, doc: d}
}

// NodeAt returns the smallest node whose byte range contains offset.
func (d *Document) NodeAt(offset int) syntax.Node {
	if offset < 0 || offset > len(d.Source) || d.Root == nil {
		return nil
	}
	if d.tree == nil {
		return textNodeAt(d.Root, offset)
	}
	cur := d.tree.RootNode()
	for {
		next := childAt(cur, uint32(offset))
		if next == nil {
			return d.wrap(cur)
		}
		cur = next
	}
}

func childAt(n *sitter.Node, offset uint32) *sitter.Node {
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c.StartByte() <= offset && offset < c.EndByte() {
			return c
		}
	}
	return nil
}

// textNodeAt descends trees whose text is the concatenation of their
// children, as built by the hand-written front ends.
func textNodeAt(root syntax.Node, offset int) syntax.Node {
	cur := root
	for {
		var next syntax.Node
		pos := 0
		for _, c := range cur.Children() {
			end := pos + len(c.Text())
			if pos <= offset && offset < end {
				next = c
				offset -= pos
				break
			}
			pos = end
		}
		if next == nil {
			return cur
		}
		cur = next
	}
}

// Offset returns the byte offset of n in the document source.
func (d *Document) Offset(n syntax.Node) int {
	if tn, ok := n.(*node); ok {
		return int(tn.n.StartByte())
	}
	off := 0
	for cur := n; cur != nil; cur = cur.Parent() {
		for s := cur.PrevSibling(); s != nil; s = s.PrevSibling() {
			off += len(s.Text())
		}
	}
	return off
}

// Position converts a byte offset into a 1-based line and column.
func (d *Document) Position(offset int) (line, col int) {
	if offset > len(d.Source) {
		offset = len(d.Source)
	}
	line, col = 1, 1
	for _, b := range d.Source[:offset] {
		if b == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return line, col
}

// node adapts a tree-sitter node to syntax.Node.
type node struct {
	n   *sitter.Node
	doc *Document
}

var _ syntax.Node = (*node)(nil)

func (n *node) Kind() string            { return n.n.Type() }
func (n *node) Grammar() syntax.Grammar { return n.doc.Language.Grammar }
func (n *node) Text() string            { return NodeText(n.n, n.doc.Source) }
func (n *node) Parent() syntax.Node     { return n.doc.wrap(n.n.Parent()) }
func (n *node) PrevSibling() syntax.Node {
	return n.doc.wrap(n.n.PrevSibling())
}
func (n *node) NextSibling() syntax.Node {
	return n.doc.wrap(n.n.NextSibling())
}
func (n *node) Semantics() syntax.Semantics { return n.doc.sem }

func (n *node) Children() []syntax.Node {
	count := int(n.n.ChildCount())
	out := make([]syntax.Node, 0, count)
	for i := 0; i < count; i++ {
		if c := n.doc.wrap(n.n.Child(i)); c != nil {
			out = append(out, c)
		}
	}
	return out
}
