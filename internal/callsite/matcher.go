// Package callsite decides whether a node is used inside a call, setter,
// annotation or constructor with a given name.
package callsite

import (
	"slices"
	"unicode"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/phobologic/caretctx/internal/syntax"
)

// Option configures a Matcher.
type Option func(*Matcher)

// WithProfile registers (or replaces) the hop profile of a tagged-token
// variant.
func WithProfile(p Profile) Option {
	return func(m *Matcher) {
		m.profiles[p.Variant] = p
	}
}

// WithLogger sets the logger used for resolution diagnostics.
func WithLogger(log zerolog.Logger) Option {
	return func(m *Matcher) {
		m.log = log
	}
}

// Matcher matches nodes against call-site requests. It holds no per-call
// state and is safe for concurrent use.
type Matcher struct {
	profiles map[string]Profile
	log      zerolog.Logger
}

// NewMatcher returns a Matcher using DefaultProfiles.
func NewMatcher(opts ...Option) *Matcher {
	m := &Matcher{
		profiles: make(map[string]Profile, len(DefaultProfiles)),
		log:      zerolog.Nop(),
	}
	for k, p := range DefaultProfiles {
		m.profiles[k] = p
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Match reports whether n sits inside a construct matching req. It is false
// when no construct of the requested kind encloses n.
func (m *Matcher) Match(n syntax.Node, req Request) bool {
	if n == nil {
		return false
	}
	switch r := req.(type) {
	case MethodCall:
		return m.methodCall(n, r)
	case SetterProperty:
		return m.setterProperty(n, r)
	case Annotation:
		return annotation(n, r)
	case Constructor:
		return constructor(n, r)
	}
	return false
}

func (m *Matcher) methodCall(n syntax.Node, r MethodCall) bool {
	switch n.Grammar().Family {
	case syntax.TypedExpression:
		return m.typedCall(n, r)
	case syntax.TaggedToken:
		return m.taggedCall(n, r.Names)
	}
	return false
}

func (m *Matcher) typedCall(n syntax.Node, r MethodCall) bool {
	call := syntax.EnclosingClass(n, syntax.TypedCall)
	if call == nil {
		return false
	}
	if sem := call.Semantics(); sem != nil {
		if method, ok := sem.ResolveCall(call); ok {
			if method.Declaring == nil {
				return false
			}
			if len(r.RequireAncestorIn) > 0 && !method.Declaring.IsOrExtendsAny(r.RequireAncestorIn) {
				return false
			}
			return slices.Contains(r.Names, method.Name)
		}
	}

	// Incomplete trees (placeholder expressions inserted by the host while
	// editing) do not resolve; match on the call's own identifier instead.
	name, ok := callName(call)
	m.log.Debug().Str("call", name).Bool("found", ok).Msg("call target unresolved, matching identifier")
	return ok && slices.Contains(r.Names, name)
}

// callName returns the identifier naming a typed call: the identifier just
// before the argument list, else the first child or that child's last child.
func callName(call syntax.Node) (string, bool) {
	for _, c := range call.Children() {
		if syntax.Classify(c) != syntax.TypedArguments {
			continue
		}
		if id := c.PrevSibling(); isTypedIdentifier(id) {
			return id.Text(), true
		}
	}
	child := syntax.FirstChild(call)
	if !isTypedIdentifier(child) {
		child = syntax.LastChild(child)
	}
	if isTypedIdentifier(child) {
		return child.Text(), true
	}
	return "", false
}

func isTypedIdentifier(n syntax.Node) bool {
	return syntax.Classify(n) == syntax.TypedIdentifier && syntax.IsLeaf(n)
}

func (m *Matcher) taggedCall(n syntax.Node, names []string) bool {
	if syntax.Classify(n) != syntax.TaggedString {
		return false
	}
	p, ok := m.profiles[n.Grammar().Variant]
	if !ok {
		return false
	}
	id := p.Locate(n)
	if id == nil {
		m.log.Debug().Str("variant", p.Variant).Msg("no call identifier reachable from string token")
		return false
	}
	return slices.Contains(names, id.Text())
}

func (m *Matcher) setterProperty(n syntax.Node, r SetterProperty) bool {
	if r.PropertyName == "" {
		return false
	}
	if call := syntax.EnclosingClass(n, syntax.TypedCall); call != nil {
		sem := call.Semantics()
		if sem == nil {
			return false
		}
		method, ok := sem.ResolveCall(call)
		return ok && method.Name == SetterName(r.PropertyName)
	}
	if tag := syntax.EnclosingTag(n); tag != nil {
		if !syntax.IsFromTag(tag, "property") || !syntax.HasParentTag(tag, "bean") {
			return false
		}
		name, ok := syntax.AttributeValue(tag, "name")
		return ok && name == r.PropertyName
	}
	return false
}

// SetterName returns the JavaBean setter for a property: "brokerURL" gives
// "setBrokerURL".
func SetterName(property string) string {
	r, size := utf8.DecodeRuneInString(property)
	if r == utf8.RuneError {
		return "set" + property
	}
	return "set" + string(unicode.ToUpper(r)) + property[size:]
}

// annotation climbs from n itself, stopping at the first declaration.
func annotation(n syntax.Node, r Annotation) bool {
	for cur := n; cur != nil; cur = cur.Parent() {
		switch syntax.Classify(cur) {
		case syntax.TypedAnnotation:
			sem := cur.Semantics()
			if sem == nil {
				return false
			}
			name, ok := sem.AnnotationName(cur)
			return ok && name == r.QualifiedName
		case syntax.TypedDeclaration:
			return false
		}
	}
	return false
}

func constructor(n syntax.Node, r Constructor) bool {
	call := syntax.EnclosingClass(n, syntax.TypedConstructorCall)
	if call == nil {
		return false
	}
	sem := call.Semantics()
	if sem == nil {
		return false
	}
	method, ok := sem.ResolveConstructor(call)
	return ok && method.Name == r.Name
}
