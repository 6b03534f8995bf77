// Package literal extracts the logical string value a syntax node
// represents, across every supported grammar.
package literal

import (
	"html"
	"strings"

	"github.com/phobologic/caretctx/internal/syntax"
)

// AmpersandEntity is the markup escape for '&'. Markup trees split a value
// into separate tokens around it.
const AmpersandEntity = "&amp;"

// Options controls extraction.
type Options struct {
	// FallbackToGeneric extracts the raw text of nodes no grammar rule
	// recognizes instead of reporting no value.
	FallbackToGeneric bool
	// ConcatenateAdjacentLiterals rejoins a literal with the fragments it is
	// concatenated with.
	ConcatenateAdjacentLiterals bool
	// StripWhitespace removes join artifacts (see InnerText) instead of only
	// unquoting.
	StripWhitespace bool
}

// Defaults are the options used by the cursor parser.
var Defaults = Options{FallbackToGeneric: true, StripWhitespace: true}

// Extract returns the logical string value of n. ok is false when n holds no
// extractable text; an empty literal yields ("", true).
func Extract(n syntax.Node, opts Options) (string, bool) {
	if n == nil {
		return "", false
	}

	switch syntax.Classify(n) {
	case syntax.TypedLiteralPart:
		if lit := syntax.EnclosingClass(n, syntax.TypedLiteral); lit != nil {
			return typedLiteral(lit, opts), true
		}
	case syntax.TypedLiteral:
		return typedLiteral(n, opts), true
	case syntax.MarkupAttributeValue:
		return syntax.QuotedValue(n), true
	case syntax.MarkupText:
		return html.UnescapeString(n.Text()), true
	case syntax.MarkupToken:
		if v, ok := markupToken(n, opts); ok {
			return v, true
		}
	case syntax.PropertiesValue:
		return n.Text(), true
	case syntax.TaggedString, syntax.TaggedIdentifier, syntax.TaggedLeaf:
		if syntax.IsScalar(n) {
			return n.Text(), true
		}
		if syntax.IsLeaf(n) {
			if n.Grammar().DataSerialization() {
				return n.Text(), true
			}
			if n.Grammar().StringBearing() {
				return InnerText(n.Text()), true
			}
		}
	case syntax.Unclassified, syntax.TypedPolyadic, syntax.TypedCall, syntax.TypedArguments,
		syntax.TypedConstructorCall, syntax.TypedAnnotation, syntax.TypedDeclaration,
		syntax.TypedIdentifier, syntax.TypedOther, syntax.MarkupTag, syntax.MarkupTagHead,
		syntax.MarkupOther, syntax.PropertiesOther, syntax.TaggedCall, syntax.TaggedOther:
	}

	if opts.FallbackToGeneric {
		return finish(concatenated(n, n.Text(), opts), opts), true
	}
	return "", false
}

func typedLiteral(lit syntax.Node, opts Options) string {
	text := lit.Text()
	if sem := lit.Semantics(); sem != nil {
		v, ok := sem.LiteralValue(lit)
		if !ok {
			return ""
		}
		text = v
	}
	return finish(concatenated(lit, text, opts), opts)
}

// concatenated returns the source of the outermost contiguous polyadic
// expression enclosing n when concatenation is requested, text otherwise.
func concatenated(n syntax.Node, text string, opts Options) string {
	if !opts.ConcatenateAdjacentLiterals {
		return text
	}
	poly := syntax.EnclosingClass(n, syntax.TypedPolyadic)
	if poly == nil {
		return text
	}
	for p := poly.Parent(); p != nil && syntax.Classify(p) == syntax.TypedPolyadic; p = p.Parent() {
		poly = p
	}
	return poly.Text()
}

func finish(text string, opts Options) string {
	if opts.StripWhitespace {
		return InnerText(text)
	}
	return Unquote(strings.ReplaceAll(text, QuoteEntity, `"`))
}

// markupToken rejoins a token split around an ampersand entity. With
// concatenation requested it yields the whole enclosing attribute value, and
// nothing when the token sits outside one.
func markupToken(n syntax.Node, opts Options) (string, bool) {
	if opts.ConcatenateAdjacentLiterals {
		v := syntax.EnclosingClass(n, syntax.MarkupAttributeValue)
		if v == nil {
			return "", false
		}
		return InnerText(syntax.QuotedValue(v)), true
	}
	text := n.Text()
	if prev := n.PrevSibling(); prev != nil && strings.EqualFold(prev.Text(), AmpersandEntity) {
		text = prev.Text() + text
	}
	return InnerText(text), true
}
