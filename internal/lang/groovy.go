package lang

import (
	"github.com/smacker/go-tree-sitter/groovy"

	"github.com/phobologic/caretctx/internal/syntax"
)

func init() {
	Languages["groovy"] = &Language{
		Name:       "groovy",
		Extensions: []string{".groovy"},
		Grammar:    syntax.Groovy,
		lang:       groovy.GetLanguage(),
	}
}
