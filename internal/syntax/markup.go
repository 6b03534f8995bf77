package syntax

import "strings"

// EnclosingTag returns the nearest markup element strictly enclosing n.
func EnclosingTag(n Node) Node {
	return EnclosingClass(n, MarkupTag)
}

// ParentTag returns the element enclosing tag, or nil at the document root.
func ParentTag(tag Node) Node {
	return EnclosingTag(tag)
}

func tagHead(tag Node) Node {
	if tag == nil {
		return nil
	}
	for _, c := range tag.Children() {
		if Classify(c) == MarkupTagHead {
			return c
		}
	}
	return nil
}

// TagLocalName returns the element name of tag without its namespace prefix.
func TagLocalName(tag Node) string {
	head := tagHead(tag)
	if head == nil {
		return ""
	}
	for _, c := range head.Children() {
		if c.Kind() == "tag_name" {
			name := c.Text()
			if i := strings.LastIndexByte(name, ':'); i >= 0 {
				name = name[i+1:]
			}
			return name
		}
	}
	return ""
}

// AttributeValue returns the raw value of the attribute called name on tag.
func AttributeValue(tag Node, name string) (string, bool) {
	head := tagHead(tag)
	if head == nil {
		return "", false
	}
	for _, attr := range head.Children() {
		if attr.Kind() != "attribute" {
			continue
		}
		var (
			matched bool
			value   string
		)
		for _, c := range attr.Children() {
			switch c.Kind() {
			case "attribute_name":
				matched = c.Text() == name
			case "quoted_attribute_value":
				value = QuotedValue(c)
			case "attribute_value":
				value = c.Text()
			}
		}
		if matched {
			return value, true
		}
	}
	return "", false
}

// AttributeName returns the name of the attribute whose value contains n.
func AttributeName(n Node) (string, bool) {
	attr := Enclosing(n, func(a Node) bool { return a.Grammar().Family == Markup && a.Kind() == "attribute" })
	if attr == nil {
		return "", false
	}
	for _, c := range attr.Children() {
		if c.Kind() == "attribute_name" {
			return c.Text(), true
		}
	}
	return "", false
}

// QuotedValue returns the text of a quoted attribute value without its
// surrounding quotes.
func QuotedValue(n Node) string {
	text := n.Text()
	if len(text) >= 2 && (text[0] == '"' || text[0] == '\'') && text[len(text)-1] == text[0] {
		return text[1 : len(text)-1]
	}
	return text
}

// IsFromTag reports whether tag's local name is one of names.
func IsFromTag(tag Node, names ...string) bool {
	local := TagLocalName(tag)
	for _, n := range names {
		if local == n {
			return true
		}
	}
	return false
}

// HasParentTag reports whether the element enclosing tag is called name.
func HasParentTag(tag Node, name string) bool {
	parent := ParentTag(tag)
	return parent != nil && TagLocalName(parent) == name
}
