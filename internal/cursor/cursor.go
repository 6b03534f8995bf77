// Package cursor splits the text around a completion caret into a
// query-parameter key and value.
package cursor

import (
	"errors"
	"regexp"
	"strings"

	"github.com/phobologic/caretctx/internal/literal"
	"github.com/phobologic/caretctx/internal/syntax"
)

// DefaultMarker is the placeholder the host inserts at the caret. Hosts may
// insert it with or without the trailing space.
const DefaultMarker = "CaretHere "

var (
	// ErrNoCursorMarker reports text without any cursor-marker spelling.
	ErrNoCursorMarker = errors.New("cursor marker not found")
	// ErrNoText reports a node no text could be extracted from.
	ErrNoText = errors.New("no text at node")
)

// Result is the query parameter surrounding the caret. Key keeps its
// leading separator ('&', '?', ':', '.'). HasValue is false when no '='
// precedes the caret within the parameter; Value is then empty.
type Result struct {
	Key      string
	Value    string
	HasValue bool
}

// Parser locates the cursor marker. Markers are matched case-insensitively
// and in order.
type Parser struct {
	markers []*regexp.Regexp
	suffix  []string
}

// New returns a Parser recognizing the given marker spellings. With no
// arguments it recognizes DefaultMarker and its trimmed form.
func New(markers ...string) *Parser {
	if len(markers) == 0 {
		markers = []string{DefaultMarker, strings.TrimSpace(DefaultMarker)}
	}
	p := &Parser{}
	for _, m := range markers {
		if m == "" {
			continue
		}
		p.markers = append(p.markers, regexp.MustCompile("(?i)"+regexp.QuoteMeta(m)))
		p.suffix = append(p.suffix, strings.ToLower(m))
	}
	return p
}

// MarkerIndex returns the byte index of the first marker spelling found in
// text, or -1.
func (p *Parser) MarkerIndex(text string) int {
	for _, m := range p.markers {
		if loc := m.FindStringIndex(text); loc != nil {
			return loc[0]
		}
	}
	return -1
}

// QueryParameterAt extracts the text at n and parses the query parameter
// the caret is in.
func (p *Parser) QueryParameterAt(n syntax.Node) (Result, error) {
	text, ok := literal.Extract(n, literal.Defaults)
	if !ok {
		return Result{}, ErrNoText
	}
	return p.ParseQuery(text)
}

// ParseQuery parses the query parameter at the marker in text:
//
//	timer:trigger?repeatCount=0&de<caret>      → {Key: "&de"}
//	timer:trigger?repeatCount=0&delay=<caret>  → {Key: "&delay", Value: "", HasValue: true}
//	jms:qu<caret>                              → {Key: ":qu"}
func (p *Parser) ParseQuery(text string) (Result, error) {
	text = strings.ReplaceAll(text, literal.AmpersandEntity, "&")

	cut := p.MarkerIndex(text)
	if cut < 0 {
		return Result{}, ErrNoCursorMarker
	}
	head := text[:cut]

	start := max(strings.LastIndexAny(head, ".=&?:"), 0)
	if head != "" && head[start] == '=' {
		boundary := max(strings.LastIndexAny(head[:start], "&?:"), 0)
		return Result{
			Key:      head[boundary:start],
			Value:    head[start+1:],
			HasValue: true,
		}, nil
	}
	return Result{Key: head[start:]}, nil
}

// IsCaretAtEndOfLine reports whether the text at n ends with the marker.
func (p *Parser) IsCaretAtEndOfLine(n syntax.Node) (bool, error) {
	text, ok := literal.Extract(n, literal.Defaults)
	if !ok {
		return false, ErrNoText
	}
	if p.MarkerIndex(text) < 0 {
		return false, ErrNoCursorMarker
	}
	value := strings.ToLower(strings.TrimSpace(text))
	for _, m := range p.suffix {
		if strings.HasSuffix(value, m) {
			return true, nil
		}
	}
	return false, nil
}
