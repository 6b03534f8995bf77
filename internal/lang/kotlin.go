package lang

import (
	"github.com/smacker/go-tree-sitter/kotlin"

	"github.com/phobologic/caretctx/internal/syntax"
)

func init() {
	Languages["kotlin"] = &Language{
		Name:       "kotlin",
		Extensions: []string{".kt", ".kts"},
		Grammar:    syntax.Kotlin,
		lang:       kotlin.GetLanguage(),
	}
}
