package literal

import (
	"regexp"
	"strings"
)

// QuoteEntity is the markup escape for a double quote.
const QuoteEntity = "&quot;"

// joinArtifacts matches what concatenating literal fragments across lines
// leaves behind: newline+indent runs, `" + "` joins and `" +\n  "` joins.
var joinArtifacts = regexp.MustCompile(`(^\n\s+|\n\s+$|\n\s+)|("\s*\+\s*")|("\s*\+\s*\n\s*"*)`)

// InnerText returns the logical value of a quoted literal, rejoining
// fragments of a split string concatenation into one continuous value.
func InnerText(text string) string {
	if text == `"` {
		return ""
	}
	return joinArtifacts.ReplaceAllString(Unquote(strings.ReplaceAll(text, QuoteEntity, `"`)), "")
}

// Unquote strips one layer of matching single or double quotes.
func Unquote(s string) string {
	if len(s) > 1 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}
