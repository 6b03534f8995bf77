// Package lang provides a language registry mapping file extensions to
// tree-sitter grammars, and parses source files into syntax.Node trees.
package lang

import (
	"errors"
	"path/filepath"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/phobologic/caretctx/internal/syntax"
	"github.com/phobologic/caretctx/internal/syntax/tree"
)

// ErrUnsupported is returned when no language handles a file.
var ErrUnsupported = errors.New("unsupported language")

// Language holds the front-end configuration for a supported language.
// Exactly one of lang and build is set.
type Language struct {
	Name       string
	Extensions []string
	Grammar    syntax.Grammar
	lang       *sitter.Language

	// build parses source for languages without a tree-sitter grammar.
	build func(source []byte) *tree.Node
}

// GetLanguage returns the tree-sitter Language pointer, or nil for
// hand-parsed languages.
func (l *Language) GetLanguage() *sitter.Language {
	return l.lang
}

// NewParser creates a fresh tree-sitter parser for this language.
// Each goroutine must use its own parser (not thread-safe).
func (l *Language) NewParser() *sitter.Parser {
	p := sitter.NewParser()
	p.SetLanguage(l.lang)
	return p
}

// Languages maps language names to their configuration.
// Populated by init() functions in per-language files.
var Languages = map[string]*Language{}

// extensionMap is built lazily after all init() functions have run.
var extensionMap map[string]string
var extensionOnce sync.Once

func getExtensionMap() map[string]string {
	extensionOnce.Do(func() {
		extensionMap = make(map[string]string)
		for _, l := range Languages {
			for _, ext := range l.Extensions {
				extensionMap[ext] = l.Name
			}
		}
	})
	return extensionMap
}

// ForExtension returns the language name for a file extension, or "" if unsupported.
func ForExtension(ext string) string {
	return getExtensionMap()[strings.ToLower(ext)]
}

// ForPath returns the language for a file path.
func ForPath(path string) (*Language, error) {
	name := ForExtension(filepath.Ext(path))
	if name == "" {
		return nil, ErrUnsupported
	}
	return Languages[name], nil
}

// IsFromFileType reports whether path has one of the given extensions.
// Extensions may be written with or without the leading dot.
func IsFromFileType(path string, exts ...string) bool {
	ext := filepath.Ext(path)
	if ext == "" {
		return false
	}
	for _, e := range exts {
		if strings.EqualFold(ext, "."+strings.TrimPrefix(e, ".")) {
			return true
		}
	}
	return false
}

// NodeText returns the source text of a tree-sitter node.
func NodeText(node *sitter.Node, source []byte) string {
	return string(source[node.StartByte():node.EndByte()])
}
