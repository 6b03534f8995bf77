// Package toon implements TOON (Token-Oriented Object Notation) encoding.
package toon

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/phobologic/caretctx/internal/model"
)

var (
	needsQuoting = regexp.MustCompile(`[,:"\\{}\[\]]`)
	looksNumeric = regexp.MustCompile(`^-?(?:0|[1-9]\d*)(?:\.\d+)?$`)
	keywords     = map[string]struct{}{
		"true":  {},
		"false": {},
		"null":  {},
	}
)

// EncodeScan converts a ScanReport into TOON format.
func EncodeScan(r *model.ScanReport) string {
	var parts []string

	parts = append(parts, fmt.Sprintf("repo: %s", encodeValue(r.RepoName)))
	parts = append(parts, fmt.Sprintf("root: %s", encodeValue(r.Root)))

	var fileRows [][]string
	for i := range r.Files {
		fi := &r.Files[i]
		fileRows = append(fileRows, []string{
			fi.Path,
			fi.Language,
			fmt.Sprintf("%d", len(fi.Findings)),
			fmt.Sprintf("%.4f", fi.Rank),
		})
	}
	parts = append(parts, formatTabular("files", []string{"path", "language", "endpoints", "rank"}, fileRows))

	var endpointRows [][]string
	for i := range r.Files {
		fi := &r.Files[i]
		for j := range fi.Findings {
			f := &fi.Findings[j]
			endpointRows = append(endpointRows, []string{
				fi.Path,
				fmt.Sprintf("%d", f.Line),
				fmt.Sprintf("%d", f.Column),
				string(f.Kind),
				f.Call,
				f.Value,
			})
		}
	}
	parts = append(parts, formatTabular("endpoints", []string{"file", "line", "column", "kind", "call", "value"}, endpointRows))

	if len(r.Links) > 0 {
		var linkRows [][]string
		for i := range r.Links {
			l := &r.Links[i]
			linkRows = append(linkRows, []string{
				l.Source,
				l.Target,
				strings.Join(l.Endpoints, " "),
			})
		}
		parts = append(parts, formatTabular("links", []string{"source", "target", "endpoints"}, linkRows))
	}

	return strings.Join(parts, "\n")
}

// EncodeCaret converts a CaretReport into TOON format, one field per line.
func EncodeCaret(r *model.CaretReport) string {
	var lines []string
	str := func(key, value string) {
		lines = append(lines, fmt.Sprintf("%s: %s", key, encodeValue(value)))
	}
	raw := func(key string, value any) {
		lines = append(lines, fmt.Sprintf("%s: %v", key, value))
	}

	str("file", r.File)
	raw("offset", r.Offset)
	raw("line", r.Line)
	raw("column", r.Column)
	str("language", r.Language)
	str("node", r.Node)
	str("class", r.Class)
	str("text", r.Text)
	raw("has_text", r.HasText)
	str("key", r.Key)
	str("value", r.Value)
	raw("has_value", r.HasValue)
	raw("at_end_of_line", r.AtEnd)
	str("call", r.Call)
	if r.Error != "" {
		str("error", r.Error)
	}
	return strings.Join(lines, "\n")
}

func formatTabular(name string, columns []string, rows [][]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s[%d]{%s}:", name, len(rows), strings.Join(columns, ","))
	for _, row := range rows {
		encoded := make([]string, len(row))
		for i, cell := range row {
			encoded[i] = encodeValue(cell)
		}
		fmt.Fprintf(&b, "\n  %s", strings.Join(encoded, ","))
	}
	return b.String()
}

func encodeValue(value string) string {
	if value == "" {
		return `""`
	}

	if value != strings.TrimSpace(value) {
		return quote(value)
	}

	if strings.ContainsAny(value, "\n\r\t") {
		return quote(value)
	}

	if _, ok := keywords[strings.ToLower(value)]; ok {
		return quote(value)
	}

	if looksNumeric.MatchString(value) {
		return value
	}

	if needsQuoting.MatchString(value) {
		return quote(value)
	}

	if strings.HasPrefix(value, "-") {
		return quote(value)
	}

	return value
}

func quote(value string) string {
	escaped := strings.ReplaceAll(value, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	escaped = strings.ReplaceAll(escaped, "\n", `\n`)
	escaped = strings.ReplaceAll(escaped, "\r", `\r`)
	escaped = strings.ReplaceAll(escaped, "\t", `\t`)
	return `"` + escaped + `"`
}
