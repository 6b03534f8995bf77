// Package scan finds endpoint URIs in parsed documents and describes the
// context of a caret position.
package scan

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"slices"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/phobologic/caretctx/internal/callsite"
	"github.com/phobologic/caretctx/internal/config"
	"github.com/phobologic/caretctx/internal/cursor"
	"github.com/phobologic/caretctx/internal/discover"
	"github.com/phobologic/caretctx/internal/lang"
	"github.com/phobologic/caretctx/internal/literal"
	"github.com/phobologic/caretctx/internal/model"
	"github.com/phobologic/caretctx/internal/syntax"
)

// ErrTooLarge is returned for files over the configured size limit.
var ErrTooLarge = errors.New("file too large")

// uriPattern matches a scheme of two or more characters followed by a
// non-empty remainder without whitespace.
var uriPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.-]+:\S+$`)

// continuation matches a properties line continuation and the indent of the
// continued line.
var continuation = regexp.MustCompile(`\\\r?\n[ \t\f]*`)

// Option configures a Scanner.
type Option func(*Scanner)

// WithLogger sets the logger for skipped files and resolution diagnostics.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Scanner) {
		s.log = log
	}
}

// WithWorkers bounds the number of files parsed concurrently.
func WithWorkers(n int) Option {
	return func(s *Scanner) {
		if n > 0 {
			s.workers = n
		}
	}
}

// Scanner finds endpoint URIs. It is safe for concurrent use; every file is
// parsed with its own tree-sitter parser.
type Scanner struct {
	cfg     *config.Config
	matcher *callsite.Matcher
	cursor  *cursor.Parser
	log     zerolog.Logger
	workers int
}

// New returns a Scanner for cfg.
func New(cfg *config.Config, opts ...Option) *Scanner {
	s := &Scanner{
		cfg:     cfg,
		log:     zerolog.Nop(),
		workers: runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.matcher = callsite.NewMatcher(callsite.WithLogger(s.log))
	s.cursor = cursor.New(cfg.CursorMarkers...)
	return s
}

// Files scans files under root concurrently. Files that cannot be read or
// parsed are logged and skipped. Results keep the input order.
func (s *Scanner) Files(ctx context.Context, root string, files []discover.FileEntry) ([]model.FileInfo, error) {
	results := make([]*model.FileInfo, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, f := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			info, err := s.File(ctx, root, f)
			if err != nil {
				s.log.Warn().Err(err).Str("file", f.Path).Msg("skipped")
				return nil
			}
			results[i] = info
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var infos []model.FileInfo
	for _, r := range results {
		if r != nil {
			infos = append(infos, *r)
		}
	}
	return infos, nil
}

// File reads, parses and scans one discovered file.
func (s *Scanner) File(ctx context.Context, root string, f discover.FileEntry) (*model.FileInfo, error) {
	l, ok := lang.Languages[f.Language]
	if !ok {
		return nil, lang.ErrUnsupported
	}
	source, err := os.ReadFile(filepath.Join(root, f.Path))
	if err != nil {
		return nil, fmt.Errorf("reading: %w", err)
	}
	if limit := s.cfg.MaxFileSizeOrDefault(); len(source) > limit {
		return nil, fmt.Errorf("%d bytes over %d: %w", len(source), limit, ErrTooLarge)
	}
	doc, err := lang.Parse(ctx, l, source, lang.WithTypes(s.cfg.Types))
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	return &model.FileInfo{
		Path:     f.Path,
		Language: f.Language,
		Findings: s.Document(doc, f.Path),
	}, nil
}

// Document returns the endpoint findings of doc in source order.
func (s *Scanner) Document(doc *lang.Document, path string) []model.Finding {
	var findings []model.Finding
	add := func(n syntax.Node, value string) {
		kind, call, ok := s.endpoint(doc, n)
		if !ok || (kind == model.Value && !uriPattern.MatchString(value)) {
			return
		}
		line, col := doc.Position(doc.Offset(n))
		findings = append(findings, model.Finding{
			File:   path,
			Line:   line,
			Column: col,
			Kind:   kind,
			Call:   call,
			Value:  value,
		})
	}

	seen := make(map[int]bool)
	syntax.Walk(doc.Root, func(n syntax.Node) bool {
		switch syntax.Classify(n) {
		case syntax.TypedLiteral:
			if n.Kind() != "string_literal" {
				return false
			}
			opts := literal.Options{StripWhitespace: true}
			if concat := concatenation(n); concat != nil {
				off := doc.Offset(concat)
				if seen[off] {
					return false
				}
				seen[off] = true
				opts.ConcatenateAdjacentLiterals = true
			}
			if v, ok := literal.Extract(n, opts); ok {
				add(n, v)
			}
			return false
		case syntax.MarkupAttributeValue:
			v, _ := literal.Extract(n, literal.Options{})
			add(n, strings.ReplaceAll(v, literal.AmpersandEntity, "&"))
			return false
		case syntax.PropertiesValue:
			add(n, strings.TrimSpace(continuation.ReplaceAllString(n.Text(), "")))
			return false
		case syntax.TaggedString:
			if hasChild(n, syntax.TaggedString) {
				return true
			}
			add(n, literal.InnerText(outermost(n, syntax.TaggedString).Text()))
			return false
		case syntax.TaggedLeaf:
			if syntax.IsScalar(n) {
				v, _ := literal.Extract(n, literal.Options{})
				add(n, literal.Unquote(v))
			}
			return false
		}
		return true
	})
	return findings
}

// endpoint reports how n is used as an endpoint URI: the finding kind and
// the method, tag, annotation or key it belongs to.
func (s *Scanner) endpoint(doc *lang.Document, n syntax.Node) (model.FindingKind, string, bool) {
	switch n.Grammar().Family {
	case syntax.TypedExpression:
		if name, ok := s.endpointCall(n); ok {
			return model.Call, name, true
		}
		for _, q := range s.cfg.EndpointAnnotations {
			if s.matcher.Match(n, callsite.Annotation{QualifiedName: q}) {
				return model.Annotation, simpleName(q), true
			}
		}
		if name, ok := s.endpointSetter(n); ok {
			return model.Setter, name, true
		}
	case syntax.Markup:
		attr, ok := syntax.AttributeName(n)
		if !ok {
			return "", "", false
		}
		if slices.Contains(s.cfg.EndpointAttributes, attr) {
			return model.Attribute, syntax.TagLocalName(syntax.EnclosingTag(n)), true
		}
		if attr == "value" {
			if name, ok := s.endpointSetter(n); ok {
				return model.Setter, name, true
			}
		}
	case syntax.Properties:
		if prop := n.Parent(); prop != nil {
			if key := syntax.FirstChild(prop); key != nil && key.Kind() == "key" {
				return model.Value, key.Text(), true
			}
		}
	case syntax.TaggedToken:
		if n.Grammar().DataSerialization() {
			return s.yamlEndpoint(doc, n)
		}
		for cur := n; syntax.Classify(cur) == syntax.TaggedString; cur = cur.Parent() {
			if name, ok := s.endpointCall(cur); ok {
				return model.Call, name, true
			}
		}
	}
	return "", "", false
}

func (s *Scanner) endpointCall(n syntax.Node) (string, bool) {
	for _, name := range s.cfg.EndpointMethods {
		req := callsite.MethodCall{Names: []string{name}, RequireAncestorIn: s.cfg.RouteBuilderTypes}
		if s.matcher.Match(n, req) {
			return name, true
		}
	}
	return "", false
}

func (s *Scanner) endpointSetter(n syntax.Node) (string, bool) {
	for _, prop := range s.cfg.EndpointAttributes {
		if s.matcher.Match(n, callsite.SetterProperty{PropertyName: prop}) {
			if syntax.IsXML(n) {
				return prop, true
			}
			return callsite.SetterName(prop), true
		}
	}
	return "", false
}

// yamlEndpoint classifies a YAML scalar by the keys above it. Keys naming an
// endpoint method make a call; endpoint attribute keys ("uri") take the name
// of the step they configure.
func (s *Scanner) yamlEndpoint(doc *lang.Document, n syntax.Node) (model.FindingKind, string, bool) {
	keys, ok := yamlKeys(doc, n)
	if !ok || len(keys) == 0 {
		return "", "", false
	}
	switch {
	case slices.Contains(s.cfg.EndpointMethods, keys[0]):
		return model.Call, keys[0], true
	case slices.Contains(s.cfg.EndpointAttributes, keys[0]) && len(keys) > 1:
		return model.Attribute, keys[1], true
	}
	return model.Value, keys[0], true
}

// yamlKeys returns the keys of the mapping pairs enclosing n, innermost
// first. ok is false when n is itself part of a key.
func yamlKeys(doc *lang.Document, n syntax.Node) ([]string, bool) {
	var keys []string
	below := n
	for p := n.Parent(); p != nil; below, p = p, p.Parent() {
		if !strings.HasSuffix(p.Kind(), "pair") {
			continue
		}
		key := syntax.FirstChild(p)
		if key == nil {
			continue
		}
		if doc.Offset(below) == doc.Offset(key) && below.Kind() == key.Kind() {
			if len(keys) == 0 {
				return nil, false
			}
			continue
		}
		keys = append(keys, literal.Unquote(strings.TrimSpace(key.Text())))
	}
	return keys, true
}

// concatenation returns the outermost polyadic expression n is a direct
// operand of, or nil.
func concatenation(n syntax.Node) syntax.Node {
	var outer syntax.Node
	for p := n.Parent(); p != nil && syntax.Classify(p) == syntax.TypedPolyadic; p = p.Parent() {
		outer = p
	}
	return outer
}

func outermost(n syntax.Node, class syntax.Class) syntax.Node {
	for p := n.Parent(); p != nil && syntax.Classify(p) == class; p = p.Parent() {
		n = p
	}
	return n
}

func hasChild(n syntax.Node, class syntax.Class) bool {
	for _, c := range n.Children() {
		if syntax.Classify(c) == class {
			return true
		}
	}
	return false
}

func simpleName(q string) string {
	if i := strings.LastIndexByte(q, '.'); i >= 0 {
		return q[i+1:]
	}
	return q
}
