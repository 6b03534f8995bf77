package callsite

import "github.com/phobologic/caretctx/internal/syntax"

// Profile locates the leading identifier of the call a string token belongs
// to in one tagged-token grammar. The paths mirror that grammar's tree
// shapes and are tried in order: Subject paths (the token is an argument of
// the call being named), then Argument paths (the token sits deeper, inside a
// later argument), then a bounded climb to the grammar's call-expression
// marker.
type Profile struct {
	Variant   string
	Subject   []syntax.Path
	Argument  []syntax.Path
	CallClimb int
}

const (
	up    = syntax.ToParent
	first = syntax.ToFirstChild
	last  = syntax.ToLastChild
	prev  = syntax.ToPrevSibling
)

// DefaultProfiles holds the hop tables for the string-bearing tagged-token
// grammars, keyed by variant.
var DefaultProfiles = map[string]Profile{
	// string_content < string < argument_list ; identifier before the list,
	// or a dotted_identifier ending in one when the call is chained.
	// Argument paths cover a string nested in a list or map argument.
	syntax.VariantGroovy: {
		Variant: syntax.VariantGroovy,
		Subject: []syntax.Path{
			{up, prev},
			{up, prev, last},
			{up, up, prev},
			{up, up, prev, last},
		},
		Argument: []syntax.Path{
			{up, up, up, prev},
			{up, up, up, prev, last},
			{up, up, up, up, prev},
			{up, up, up, up, prev, last},
		},
	},
	// string < arguments < call_expression ; function is an identifier or
	// a field_expression ending in one.
	syntax.VariantScala: {
		Variant: syntax.VariantScala,
		Subject: []syntax.Path{
			{up, prev},
			{up, prev, last},
		},
		Argument: []syntax.Path{
			{up, up, prev},
			{up, up, prev, last},
		},
		CallClimb: 5,
	},
	// string_content < string_literal < value_argument < value_arguments <
	// call_suffix ; simple_identifier or navigation_expression before it.
	syntax.VariantKotlin: {
		Variant: syntax.VariantKotlin,
		Subject: []syntax.Path{
			{up, up, up, up, prev},
			{up, up, up, up, prev, last, last},
		},
		CallClimb: 7,
	},
}

// Locate returns the identifier token the profile reaches from n, or nil.
// The first hop target that is an identifier token wins; composite nodes
// whose kind names an identifier (a chained call's dotted_identifier) do not.
func (p Profile) Locate(n syntax.Node) syntax.Node {
	for _, paths := range [][]syntax.Path{p.Subject, p.Argument} {
		for _, path := range paths {
			if t := path.Follow(n); isIdentifierToken(t) {
				return t
			}
		}
	}
	return p.climbToCall(n)
}

func (p Profile) climbToCall(n syntax.Node) syntax.Node {
	cur := n
	for i := 0; i < p.CallClimb && cur != nil; i++ {
		if syntax.Classify(cur) == syntax.TaggedCall {
			return leadingIdentifier(cur)
		}
		cur = cur.Parent()
	}
	return nil
}

// leadingIdentifier descends from the call's first child through last
// children until it reaches an identifier.
func leadingIdentifier(call syntax.Node) syntax.Node {
	for cur := syntax.FirstChild(call); cur != nil; cur = syntax.LastChild(cur) {
		if isIdentifierToken(cur) {
			return cur
		}
	}
	return nil
}

func isIdentifierToken(n syntax.Node) bool {
	return syntax.IsLeaf(n) && syntax.Classify(n) == syntax.TaggedIdentifier
}
