package syntax

import "strings"

// Class is the classification of a node over {grammar × kind}. Every
// combination the extractor and matcher understand has its own value; the
// rest map to Unclassified or to the family's Other value.
type Class int

const (
	Unclassified Class = iota

	TypedLiteral
	TypedLiteralPart
	TypedPolyadic
	TypedCall
	TypedArguments
	TypedConstructorCall
	TypedAnnotation
	TypedDeclaration
	TypedIdentifier
	TypedOther

	MarkupAttributeValue
	MarkupText
	MarkupToken
	MarkupTag
	MarkupTagHead
	MarkupOther

	PropertiesValue
	PropertiesOther

	TaggedString
	TaggedIdentifier
	TaggedCall
	TaggedLeaf
	TaggedOther
)

var classNames = [...]string{
	Unclassified:         "unclassified",
	TypedLiteral:         "typed-literal",
	TypedLiteralPart:     "typed-literal-part",
	TypedPolyadic:        "typed-polyadic",
	TypedCall:            "typed-call",
	TypedArguments:       "typed-arguments",
	TypedConstructorCall: "typed-constructor-call",
	TypedAnnotation:      "typed-annotation",
	TypedDeclaration:     "typed-declaration",
	TypedIdentifier:      "typed-identifier",
	TypedOther:           "typed-other",
	MarkupAttributeValue: "markup-attribute-value",
	MarkupText:           "markup-text",
	MarkupToken:          "markup-token",
	MarkupTag:            "markup-tag",
	MarkupTagHead:        "markup-tag-head",
	MarkupOther:          "markup-other",
	PropertiesValue:      "properties-value",
	PropertiesOther:      "properties-other",
	TaggedString:         "tagged-string",
	TaggedIdentifier:     "tagged-identifier",
	TaggedCall:           "tagged-call",
	TaggedLeaf:           "tagged-leaf",
	TaggedOther:          "tagged-other",
}

func (c Class) String() string {
	if c < 0 || int(c) >= len(classNames) {
		return "unclassified"
	}
	return classNames[c]
}

// Kind vocabulary of the typed expression grammar (tree-sitter-java).
var typedKinds = map[string]Class{
	"string_literal":                 TypedLiteral,
	"character_literal":              TypedLiteral,
	"decimal_integer_literal":        TypedLiteral,
	"hex_integer_literal":            TypedLiteral,
	"octal_integer_literal":          TypedLiteral,
	"binary_integer_literal":         TypedLiteral,
	"decimal_floating_point_literal": TypedLiteral,
	"hex_floating_point_literal":     TypedLiteral,
	"true":                           TypedLiteral,
	"false":                          TypedLiteral,
	"null_literal":                   TypedLiteral,
	"string_fragment":                TypedLiteralPart,
	"multiline_string_fragment":      TypedLiteralPart,
	"escape_sequence":                TypedLiteralPart,
	"binary_expression":              TypedPolyadic,
	"method_invocation":              TypedCall,
	"argument_list":                  TypedArguments,
	"object_creation_expression":     TypedConstructorCall,
	"annotation":                     TypedAnnotation,
	"marker_annotation":              TypedAnnotation,
	"class_declaration":              TypedDeclaration,
	"interface_declaration":          TypedDeclaration,
	"enum_declaration":               TypedDeclaration,
	"record_declaration":             TypedDeclaration,
	"annotation_type_declaration":    TypedDeclaration,
	"method_declaration":             TypedDeclaration,
	"constructor_declaration":        TypedDeclaration,
	"field_declaration":              TypedDeclaration,
	"local_variable_declaration":     TypedDeclaration,
	"identifier":                     TypedIdentifier,
}

// Kind vocabulary of the markup grammar (tree-sitter-html, also used for XML).
var markupKinds = map[string]Class{
	"quoted_attribute_value": MarkupAttributeValue,
	"text":                   MarkupText,
	"attribute_value":        MarkupToken,
	"entity":                 MarkupToken,
	"element":                MarkupTag,
	"start_tag":              MarkupTagHead,
	"self_closing_tag":       MarkupTagHead,
}

// Call-expression markers of the tagged-token grammars that expose one.
var taggedCallKinds = map[string]string{
	VariantKotlin: "call_expression",
	VariantScala:  "call_expression",
}

// Classify maps a node to its Class. A nil node is Unclassified.
func Classify(n Node) Class {
	if n == nil {
		return Unclassified
	}
	g := n.Grammar()
	kind := n.Kind()
	switch g.Family {
	case TypedExpression:
		if c, ok := typedKinds[kind]; ok {
			return c
		}
		return TypedOther
	case Markup:
		if c, ok := markupKinds[kind]; ok {
			return c
		}
		return MarkupOther
	case Properties:
		if kind == "value" {
			return PropertiesValue
		}
		return PropertiesOther
	case TaggedToken:
		return classifyTagged(g, kind, len(n.Children()) == 0)
	default:
		return Unclassified
	}
}

func classifyTagged(g Grammar, kind string, leaf bool) Class {
	if marker, ok := taggedCallKinds[g.Variant]; ok && kind == marker {
		return TaggedCall
	}
	lower := strings.ToLower(kind)
	switch {
	case strings.Contains(lower, "identifier"):
		return TaggedIdentifier
	case g.StringBearing() && strings.Contains(lower, "string"):
		return TaggedString
	case leaf, g.DataSerialization() && isScalarKind(lower):
		return TaggedLeaf
	default:
		return TaggedOther
	}
}

// IsScalar reports whether n is a value token of a data-serialization
// grammar. Quoted scalars keep their quote tokens as children.
func IsScalar(n Node) bool {
	return n != nil && n.Grammar().DataSerialization() && isScalarKind(strings.ToLower(n.Kind()))
}

func isScalarKind(kind string) bool {
	return strings.HasSuffix(kind, "_scalar")
}

// CallKind returns the call-expression marker of a tagged-token variant, or
// "" when the grammar has none.
func CallKind(variant string) string {
	return taggedCallKinds[variant]
}
