package tree

import (
	"testing"

	"github.com/phobologic/caretctx/internal/syntax"
)

func TestLinks(t *testing.T) {
	t.Parallel()

	a := Leaf("identifier", "a")
	plus := Leaf("+", " + ")
	b := Leaf("identifier", "b")
	root := Root(syntax.Java, nil, New("binary_expression", a, plus, b))

	if got := root.Text(); got != "a + b" {
		t.Errorf("Text = %q, want %q", got, "a + b")
	}
	if a.PrevSibling() != nil {
		t.Error("first child has no previous sibling")
	}
	if b.NextSibling() != nil {
		t.Error("last child has no next sibling")
	}
	if plus.PrevSibling() != syntax.Node(a) || plus.NextSibling() != syntax.Node(b) {
		t.Error("sibling links broken")
	}
	if b.Parent() != syntax.Node(root) {
		t.Error("parent link broken")
	}
	if root.Parent() != nil {
		t.Error("root has no parent")
	}
	if root.Semantics() != nil {
		t.Error("no oracle was attached")
	}
	if b.Grammar() != syntax.Java {
		t.Errorf("Grammar = %v, want java", b.Grammar())
	}
	if got := root.Find("identifier", "b"); got != b {
		t.Errorf("Find = %v", got)
	}
	if root.Find("identifier", "c") != nil {
		t.Error("Find of missing node")
	}
}
