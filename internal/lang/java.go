package lang

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"

	"github.com/phobologic/caretctx/internal/config"
	"github.com/phobologic/caretctx/internal/syntax"
)

func init() {
	Languages["java"] = &Language{
		Name:       "java",
		Extensions: []string{".java"},
		Grammar:    syntax.Java,
		lang:       java.GetLanguage(),
	}
}

var typeDeclarations = map[string]bool{
	"class_declaration":     true,
	"interface_declaration": true,
	"enum_declaration":      true,
	"record_declaration":    true,
}

// javaSemantics resolves calls against the classes declared in the file and
// the configured library stubs. Everything is indexed at construction so
// lookups never mutate state.
type javaSemantics struct {
	source  []byte
	pkg     string
	imports map[string]string // simple name -> qualified name
	local   map[string]*sitter.Node
	stubs   map[string]config.TypeStub
	simple  map[string]string // stub simple name -> qualified name
	types   map[string]*syntax.Type
}

var _ syntax.Semantics = (*javaSemantics)(nil)

func newJavaSemantics(root *sitter.Node, source []byte, stubs []config.TypeStub) *javaSemantics {
	s := &javaSemantics{
		source:  source,
		imports: make(map[string]string),
		local:   make(map[string]*sitter.Node),
		stubs:   make(map[string]config.TypeStub),
		simple:  make(map[string]string),
		types:   make(map[string]*syntax.Type),
	}
	for _, st := range stubs {
		s.stubs[st.Name] = st
		s.simple[simpleName(st.Name)] = st.Name
	}
	s.index(root)

	for q := range s.stubs {
		s.typeFor(q)
	}
	for q := range s.local {
		s.typeFor(q)
	}
	for q, st := range s.stubs {
		if st.Super != "" {
			s.types[q].Super = s.typeFor(st.Super)
		}
	}
	for q, decl := range s.local {
		if sup := s.superclass(decl); sup != "" {
			s.types[q].Super = s.typeFor(sup)
		}
	}
	return s
}

func (s *javaSemantics) text(n *sitter.Node) string {
	return NodeText(n, s.source)
}

func (s *javaSemantics) index(root *sitter.Node) {
	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		switch child.Type() {
		case "package_declaration":
			if id := firstNamed(child, "scoped_identifier", "identifier"); id != nil {
				s.pkg = s.text(id)
			}
		case "import_declaration":
			s.addImport(child)
		}
	}
	var visit func(n *sitter.Node, outer string)
	visit = func(n *sitter.Node, outer string) {
		for i := 0; i < int(n.NamedChildCount()); i++ {
			child := n.NamedChild(i)
			prefix := outer
			if typeDeclarations[child.Type()] {
				if name := child.ChildByFieldName("name"); name != nil {
					prefix = s.qualifyLocal(outer, s.text(name))
					s.local[prefix] = child
				}
			}
			if child.Type() == "object_creation_expression" {
				continue
			}
			visit(child, prefix)
		}
	}
	visit(root, "")
}

func (s *javaSemantics) addImport(decl *sitter.Node) {
	var path string
	for i := 0; i < int(decl.ChildCount()); i++ {
		c := decl.Child(i)
		switch c.Type() {
		case "static", "asterisk":
			return
		case "scoped_identifier", "identifier":
			path = s.text(c)
		}
	}
	if path != "" {
		s.imports[simpleName(path)] = path
	}
}

func (s *javaSemantics) qualifyLocal(outer, name string) string {
	switch {
	case outer != "":
		return outer + "." + name
	case s.pkg != "":
		return s.pkg + "." + name
	}
	return name
}

// typeFor returns the indexed type for a qualified name, creating an opaque
// one during construction.
func (s *javaSemantics) typeFor(q string) *syntax.Type {
	if t, ok := s.types[q]; ok {
		return t
	}
	t := &syntax.Type{QualifiedName: q}
	s.types[q] = t
	return t
}

func (s *javaSemantics) superclass(decl *sitter.Node) string {
	sc := decl.ChildByFieldName("superclass")
	if sc == nil {
		return ""
	}
	if sc.NamedChildCount() == 0 {
		return ""
	}
	return s.qualify(s.text(sc.NamedChild(0)))
}

// qualify maps a type name as written to a qualified name. Unknown simple
// names are returned unchanged.
func (s *javaSemantics) qualify(name string) string {
	name = stripGenerics(name)
	if q, ok := s.imports[name]; ok {
		return q
	}
	if strings.Contains(name, ".") {
		return name
	}
	for q := range s.local {
		if simpleName(q) == name {
			return q
		}
	}
	if q, ok := s.simple[name]; ok {
		return q
	}
	return name
}

// lookup finds the type declaring method name on t or its ancestors, along
// with the qualified return type.
func (s *javaSemantics) lookup(t *syntax.Type, name string) (*syntax.Type, string, bool) {
	for _, a := range t.Ancestors() {
		if st, ok := s.stubs[a.QualifiedName]; ok {
			if ret, ok := st.Methods[name]; ok {
				return a, s.qualify(ret), true
			}
		}
		decl, ok := s.local[a.QualifiedName]
		if !ok {
			continue
		}
		if m := s.localMethod(decl, name); m != nil {
			ret := ""
			if rt := m.ChildByFieldName("type"); rt != nil && rt.Type() != "void_type" {
				ret = s.qualify(s.text(rt))
			}
			return a, ret, true
		}
	}
	return nil, "", false
}

func (s *javaSemantics) localMethod(decl *sitter.Node, name string) *sitter.Node {
	body := decl.ChildByFieldName("body")
	if body == nil {
		return nil
	}
	for i := 0; i < int(body.NamedChildCount()); i++ {
		m := body.NamedChild(i)
		if m.Type() != "method_declaration" {
			continue
		}
		if id := m.ChildByFieldName("name"); id != nil && s.text(id) == name {
			return m
		}
	}
	return nil
}

// enclosingType returns the type whose body contains n. An anonymous class
// body resolves to the instantiated type.
func (s *javaSemantics) enclosingType(n *sitter.Node) *syntax.Type {
	for cur := n.Parent(); cur != nil; cur = cur.Parent() {
		if cur.Type() == "class_body" {
			if p := cur.Parent(); p != nil && p.Type() == "object_creation_expression" {
				return s.known(p.ChildByFieldName("type"))
			}
			continue
		}
		if !typeDeclarations[cur.Type()] {
			continue
		}
		for q, decl := range s.local {
			if decl.StartByte() == cur.StartByte() && decl.Type() == cur.Type() {
				return s.types[q]
			}
		}
	}
	return nil
}

func (s *javaSemantics) known(typeNode *sitter.Node) *syntax.Type {
	if typeNode == nil {
		return nil
	}
	return s.types[s.qualify(s.text(typeNode))]
}

func (s *javaSemantics) receiver(inv *sitter.Node) *syntax.Type {
	obj := inv.ChildByFieldName("object")
	if obj == nil {
		return s.enclosingType(inv)
	}
	switch obj.Type() {
	case "this":
		return s.enclosingType(inv)
	case "super":
		if t := s.enclosingType(inv); t != nil {
			return t.Super
		}
	case "method_invocation":
		if _, ret, ok := s.resolve(obj); ok {
			return s.types[ret]
		}
	case "object_creation_expression":
		return s.known(obj.ChildByFieldName("type"))
	case "identifier", "scoped_identifier", "field_access":
		return s.known(obj)
	}
	return nil
}

func (s *javaSemantics) resolve(inv *sitter.Node) (syntax.Method, string, bool) {
	name := inv.ChildByFieldName("name")
	if name == nil {
		return syntax.Method{}, "", false
	}
	recv := s.receiver(inv)
	if recv == nil {
		return syntax.Method{}, "", false
	}
	decl, ret, ok := s.lookup(recv, s.text(name))
	if !ok {
		return syntax.Method{}, "", false
	}
	return syntax.Method{Name: s.text(name), Declaring: decl}, ret, true
}

func unwrap(n syntax.Node, kind string) *sitter.Node {
	tn, ok := n.(*node)
	if !ok || tn.n.Type() != kind {
		return nil
	}
	return tn.n
}

func (s *javaSemantics) ResolveCall(call syntax.Node) (syntax.Method, bool) {
	inv := unwrap(call, "method_invocation")
	if inv == nil {
		return syntax.Method{}, false
	}
	m, _, ok := s.resolve(inv)
	return m, ok
}

func (s *javaSemantics) ResolveConstructor(call syntax.Node) (syntax.Method, bool) {
	oc := unwrap(call, "object_creation_expression")
	if oc == nil {
		return syntax.Method{}, false
	}
	typeNode := oc.ChildByFieldName("type")
	if typeNode == nil {
		return syntax.Method{}, false
	}
	written := stripGenerics(s.text(typeNode))
	q := s.qualify(written)
	t, ok := s.types[q]
	if !ok {
		if q == written && !strings.Contains(q, ".") {
			return syntax.Method{}, false
		}
		t = &syntax.Type{QualifiedName: q}
	}
	return syntax.Method{Name: simpleName(q), Declaring: t}, true
}

func (s *javaSemantics) AnnotationName(ann syntax.Node) (string, bool) {
	tn, ok := ann.(*node)
	if !ok {
		return "", false
	}
	name := tn.n.ChildByFieldName("name")
	if name == nil {
		return "", false
	}
	return s.qualify(s.text(name)), true
}

func (s *javaSemantics) LiteralValue(lit syntax.Node) (string, bool) {
	tn, ok := lit.(*node)
	if !ok {
		return "", false
	}
	text := s.text(tn.n)
	switch tn.n.Type() {
	case "null_literal":
		return "", false
	case "string_literal":
		return decodeString(text), true
	case "character_literal":
		if len(text) >= 2 {
			return unescapeJava(text[1 : len(text)-1]), true
		}
	}
	return text, true
}

func firstNamed(n *sitter.Node, kinds ...string) *sitter.Node {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		for _, k := range kinds {
			if c.Type() == k {
				return c
			}
		}
	}
	return nil
}

func simpleName(q string) string {
	if i := strings.LastIndexByte(q, '.'); i >= 0 {
		return q[i+1:]
	}
	return q
}

func stripGenerics(name string) string {
	if i := strings.IndexByte(name, '<'); i >= 0 {
		name = name[:i]
	}
	return strings.TrimSpace(name)
}
