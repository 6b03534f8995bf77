package lang

import (
	"github.com/smacker/go-tree-sitter/scala"

	"github.com/phobologic/caretctx/internal/syntax"
)

func init() {
	Languages["scala"] = &Language{
		Name:       "scala",
		Extensions: []string{".scala"},
		Grammar:    syntax.Scala,
		lang:       scala.GetLanguage(),
	}
}
