// Package syntax defines the read-only view over host syntax trees that the
// extractor, matcher and cursor parser operate on.
package syntax

import "strings"

// Node is a read-only handle into a caller-owned syntax tree snapshot.
// Implementations must return a nil interface (not a typed nil) when a link
// does not exist.
type Node interface {
	Kind() string
	Grammar() Grammar
	Text() string
	Parent() Node
	Children() []Node
	PrevSibling() Node
	NextSibling() Node
	// Semantics returns the resolution oracle for the node's tree, or nil
	// when the grammar has none.
	Semantics() Semantics
}

// Family groups grammars by the shape of tree they expose.
type Family int

const (
	UnknownFamily Family = iota
	TypedExpression
	Markup
	Properties
	TaggedToken
)

func (f Family) String() string {
	switch f {
	case TypedExpression:
		return "typed"
	case Markup:
		return "markup"
	case Properties:
		return "properties"
	case TaggedToken:
		return "tagged"
	default:
		return "unknown"
	}
}

// Grammar identifies the grammar a node was produced by. Variant carries the
// tag language for TaggedToken grammars and the host identifier otherwise.
type Grammar struct {
	Family  Family
	Variant string
}

// Tagged-token variants.
const (
	VariantYAML   = "yaml"
	VariantGroovy = "groovy"
	VariantScala  = "scala"
	VariantKotlin = "kotlin"
)

var (
	Java       = Grammar{Family: TypedExpression, Variant: "java"}
	XML        = Grammar{Family: Markup, Variant: "xml"}
	HTML       = Grammar{Family: Markup, Variant: "html"}
	Props      = Grammar{Family: Properties, Variant: "properties"}
	YAML       = Grammar{Family: TaggedToken, Variant: VariantYAML}
	Groovy     = Grammar{Family: TaggedToken, Variant: VariantGroovy}
	Scala      = Grammar{Family: TaggedToken, Variant: VariantScala}
	Kotlin     = Grammar{Family: TaggedToken, Variant: VariantKotlin}
	NoGrammar  = Grammar{}
	taggedTags = []string{VariantYAML, VariantGroovy, VariantScala, VariantKotlin}
)

// ParseGrammar classifies a host grammar identifier. Matching is by equality
// for the typed and properties grammars and by substring for the markup and
// tagged-token families, ignoring case.
func ParseGrammar(id string) Grammar {
	s := strings.ToLower(strings.TrimSpace(id))
	switch {
	case s == "java":
		return Java
	case s == "properties":
		return Props
	case strings.Contains(s, "xml"), strings.Contains(s, "xhtml"):
		return XML
	case strings.Contains(s, "html"):
		return HTML
	}
	for _, tag := range taggedTags {
		if strings.Contains(s, tag) {
			return Grammar{Family: TaggedToken, Variant: tag}
		}
	}
	return NoGrammar
}

func (g Grammar) String() string {
	if g.Variant == "" {
		return g.Family.String()
	}
	return g.Family.String() + ":" + g.Variant
}

// DataSerialization reports whether g is a tagged-token grammar whose tokens
// carry no quote semantics.
func (g Grammar) DataSerialization() bool {
	return g.Family == TaggedToken && g.Variant == VariantYAML
}

// StringBearing reports whether g is a tagged-token grammar whose string
// tokens are quoted literals.
func (g Grammar) StringBearing() bool {
	if g.Family != TaggedToken {
		return false
	}
	switch g.Variant {
	case VariantGroovy, VariantScala, VariantKotlin:
		return true
	}
	return false
}

func IsJava(n Node) bool   { return n != nil && n.Grammar().Family == TypedExpression }
func IsXML(n Node) bool    { return n != nil && n.Grammar().Family == Markup }
func IsGroovy(n Node) bool { return n != nil && n.Grammar() == Groovy }
func IsScala(n Node) bool  { return n != nil && n.Grammar() == Scala }
func IsKotlin(n Node) bool { return n != nil && n.Grammar() == Kotlin }
func IsYAML(n Node) bool   { return n != nil && n.Grammar() == YAML }
