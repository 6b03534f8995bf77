package lang

import (
	"github.com/smacker/go-tree-sitter/html"

	"github.com/phobologic/caretctx/internal/syntax"
)

// XML route and bean definitions are read with the HTML grammar, which
// tolerates the prolog and namespaced tags.
func init() {
	Languages["xml"] = &Language{
		Name:       "xml",
		Extensions: []string{".xml"},
		Grammar:    syntax.XML,
		lang:       html.GetLanguage(),
	}
}
