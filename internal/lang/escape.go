package lang

import (
	"strconv"
	"strings"
)

const textBlockQuote = `"""`

// decodeString returns the value of a Java string literal, text blocks
// included.
func decodeString(lit string) string {
	if strings.HasPrefix(lit, textBlockQuote) && strings.HasSuffix(lit, textBlockQuote) && len(lit) >= 6 {
		return unescapeJava(textBlock(lit[3 : len(lit)-3]))
	}
	if len(lit) >= 2 && lit[0] == '"' && lit[len(lit)-1] == '"' {
		return unescapeJava(lit[1 : len(lit)-1])
	}
	return lit
}

// textBlock drops the opening line terminator and strips incidental
// indentation and trailing spaces.
func textBlock(body string) string {
	if i := strings.IndexByte(body, '\n'); i >= 0 {
		body = body[i+1:]
	}
	lines := strings.Split(body, "\n")
	indent := -1
	for i, line := range lines {
		trimmed := strings.TrimLeft(line, " \t")
		// The closing delimiter line counts even when blank.
		if trimmed == "" && i != len(lines)-1 {
			continue
		}
		if n := len(line) - len(trimmed); indent < 0 || n < indent {
			indent = n
		}
	}
	if indent < 0 {
		indent = 0
	}
	for i, line := range lines {
		if len(line) >= indent {
			line = line[indent:]
		} else {
			line = ""
		}
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}

// unescapeJava decodes Java escape sequences. Malformed escapes are kept
// verbatim.
func unescapeJava(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 >= len(s) {
			b.WriteByte(c)
			continue
		}
		i++
		switch e := s[i]; e {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 's':
			b.WriteByte(' ')
		case '"', '\'', '\\':
			b.WriteByte(e)
		case '\n':
			// line continuation
		case 'u':
			j := i
			for j < len(s) && s[j] == 'u' {
				j++
			}
			if j+4 <= len(s) {
				if v, err := strconv.ParseUint(s[j:j+4], 16, 32); err == nil {
					b.WriteRune(rune(v))
					i = j + 3
					continue
				}
			}
			b.WriteString(`\u`)
		case '0', '1', '2', '3', '4', '5', '6', '7':
			limit := 2
			if e <= '3' {
				limit = 3
			}
			j := i
			for j < len(s) && j-i < limit && s[j] >= '0' && s[j] <= '7' {
				j++
			}
			v, _ := strconv.ParseUint(s[i:j], 8, 8)
			b.WriteRune(rune(v))
			i = j - 1
		default:
			b.WriteByte('\\')
			b.WriteByte(e)
		}
	}
	return b.String()
}
