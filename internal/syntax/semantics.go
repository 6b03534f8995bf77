package syntax

// Semantics is the resolution oracle of a typed grammar. The matcher and
// extractor call it; they never resolve identifiers themselves.
type Semantics interface {
	// LiteralValue returns the value of a literal node. ok is false for a
	// null literal.
	LiteralValue(literal Node) (value string, ok bool)
	// ResolveCall resolves the target of a call node.
	ResolveCall(call Node) (Method, bool)
	// ResolveConstructor resolves the constructor invoked by a
	// constructor-call node.
	ResolveConstructor(call Node) (Method, bool)
	// AnnotationName returns the fully qualified name of an annotation node.
	AnnotationName(annotation Node) (string, bool)
}

// Type is a resolved type. Super is nil at the top of the hierarchy.
type Type struct {
	QualifiedName string
	Super         *Type
}

// Method is a resolved call or constructor target.
type Method struct {
	Name      string
	Declaring *Type
}

// Ancestors returns t followed by its supertypes, nearest first. The walk
// stops at a type without a supertype or at the first type already visited,
// so a malformed cyclic hierarchy still terminates.
func (t *Type) Ancestors() []*Type {
	var chain []*Type
	visited := make(map[*Type]struct{})
	for cur := t; cur != nil; cur = cur.Super {
		if _, seen := visited[cur]; seen {
			break
		}
		visited[cur] = struct{}{}
		chain = append(chain, cur)
	}
	return chain
}

// IsOrExtendsAny reports whether t or any of its supertypes has a qualified
// name in names.
func (t *Type) IsOrExtendsAny(names []string) bool {
	if t == nil || len(names) == 0 {
		return false
	}
	want := make(map[string]struct{}, len(names))
	for _, n := range names {
		want[n] = struct{}{}
	}
	for _, a := range t.Ancestors() {
		if _, ok := want[a.QualifiedName]; ok {
			return true
		}
	}
	return false
}
