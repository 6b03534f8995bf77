package lang

import (
	"github.com/smacker/go-tree-sitter/yaml"

	"github.com/phobologic/caretctx/internal/syntax"
)

func init() {
	Languages["yaml"] = &Language{
		Name:       "yaml",
		Extensions: []string{".yaml", ".yml"},
		Grammar:    syntax.YAML,
		lang:       yaml.GetLanguage(),
	}
}
