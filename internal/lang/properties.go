package lang

import (
	"strings"

	"github.com/phobologic/caretctx/internal/syntax"
	"github.com/phobologic/caretctx/internal/syntax/tree"
)

func init() {
	Languages["properties"] = &Language{
		Name:       "properties",
		Extensions: []string{".properties"},
		Grammar:    syntax.Props,
		build:      parseProperties,
	}
}

// parseProperties builds a file > property > key/separator/value tree.
// Every byte of source lands in exactly one leaf, so node text offsets
// match the source.
func parseProperties(source []byte) *tree.Node {
	var children []*tree.Node
	rest := string(source)
	for rest != "" {
		line, eol := logicalLine(rest)
		rest = rest[len(line)+len(eol):]

		body := strings.TrimLeft(line, " \t\f")
		switch {
		case body == "":
			children = append(children, tree.Leaf("blank", line))
		case body[0] == '#' || body[0] == '!':
			children = append(children, tree.Leaf("comment", line))
		default:
			if indent := line[:len(line)-len(body)]; indent != "" {
				children = append(children, tree.Leaf("whitespace", indent))
			}
			children = append(children, property(body))
		}
		if eol != "" {
			children = append(children, tree.Leaf("eol", eol))
		}
	}
	return tree.New("file", children...)
}

// logicalLine returns the next line of s, joined with its backslash
// continuations, and its terminator.
func logicalLine(s string) (line, eol string) {
	end := 0
	for {
		i := strings.IndexByte(s[end:], '\n')
		if i < 0 {
			return s, ""
		}
		i += end
		content := strings.TrimSuffix(s[:i], "\r")
		if !continues(content) {
			return content, s[len(content) : i+1]
		}
		end = i + 1
	}
}

// continues reports whether line ends in an odd number of backslashes.
func continues(line string) bool {
	n := 0
	for i := len(line) - 1; i >= 0 && line[i] == '\\'; i-- {
		n++
	}
	return n%2 == 1
}

func property(body string) *tree.Node {
	keyEnd := len(body)
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c == '\\' {
			i++
			continue
		}
		if c == '=' || c == ':' || c == ' ' || c == '\t' || c == '\f' {
			keyEnd = i
			break
		}
	}
	sepEnd := keyEnd
	for sepEnd < len(body) && isPropertySpace(body[sepEnd]) {
		sepEnd++
	}
	if sepEnd < len(body) && (body[sepEnd] == '=' || body[sepEnd] == ':') {
		sepEnd++
		for sepEnd < len(body) && isPropertySpace(body[sepEnd]) {
			sepEnd++
		}
	}

	parts := []*tree.Node{tree.Leaf("key", body[:keyEnd])}
	if sepEnd > keyEnd {
		parts = append(parts, tree.Leaf("separator", body[keyEnd:sepEnd]))
	}
	parts = append(parts, tree.Leaf("value", body[sepEnd:]))
	return tree.New("property", parts...)
}

func isPropertySpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\f'
}
