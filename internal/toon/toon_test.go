package toon

import (
	"strings"
	"testing"

	"github.com/phobologic/caretctx/internal/model"
)

func TestEncodeValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", `""`},
		{"simple", "hello", "hello"},
		{"leading space", " hello", `" hello"`},
		{"trailing space", "hello ", `"hello "`},
		{"newline", "a\nb", `"a\nb"`},
		{"tab", "a\tb", `"a\tb"`},
		{"carriage return", "a\rb", `"a\rb"`},
		{"true keyword", "true", `"true"`},
		{"True keyword", "True", `"True"`},
		{"false keyword", "false", `"false"`},
		{"null keyword", "null", `"null"`},
		{"integer", "42", "42"},
		{"negative integer", "-1", "-1"},
		{"float", "3.14", "3.14"},
		{"zero", "0", "0"},
		{"leading zero invalid", "01", "01"},
		{"comma", "a,b", `"a,b"`},
		{"colon", "a:b", `"a:b"`},
		{"quote", `a"b`, `"a\"b"`},
		{"backslash", `a\b`, `"a\\b"`},
		{"bracket", "a[b", `"a[b"`},
		{"brace", "a{b", `"a{b"`},
		{"dash prefix", "-foo", `"-foo"`},
		{"path", "src/main/java/Route.java", "src/main/java/Route.java"},
		{"dotted name", "org.apache.camel.builder.RouteBuilder", "org.apache.camel.builder.RouteBuilder"},
		{"uri", "direct:start", `"direct:start"`},
		{"query", "timer:tick?period=1000", `"timer:tick?period=1000"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := encodeValue(tt.in)
			if got != tt.want {
				t.Errorf("encodeValue(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestEncodeScan(t *testing.T) {
	t.Parallel()

	r := &model.ScanReport{
		RepoName: "shop",
		Root:     "shop",
		Files: []model.FileInfo{
			{
				Path:     "src/Orders.java",
				Language: "java",
				Rank:     0.75,
				Findings: []model.Finding{
					{Line: 12, Column: 14, Kind: model.Call, Call: "from", Value: "direct:orders"},
					{Line: 13, Column: 17, Kind: model.Call, Call: "to", Value: "seda:billing"},
				},
			},
			{
				Path:     "src/Billing.java",
				Language: "java",
				Rank:     0.25,
				Findings: []model.Finding{
					{Line: 9, Column: 14, Kind: model.Call, Call: "from", Value: "seda:billing?size=10"},
				},
			},
		},
		Links: []model.Link{
			{Source: "src/Orders.java", Target: "src/Billing.java", Endpoints: []string{"seda:billing"}},
		},
	}

	got := EncodeScan(r)

	want := []string{
		"repo: shop",
		"root: shop",
		"files[2]{path,language,endpoints,rank}:",
		"  src/Orders.java,java,2,0.7500",
		"  src/Billing.java,java,1,0.2500",
		"endpoints[3]{file,line,column,kind,call,value}:",
		`  src/Orders.java,12,14,call,from,"direct:orders"`,
		`  src/Orders.java,13,17,call,to,"seda:billing"`,
		`  src/Billing.java,9,14,call,from,"seda:billing?size=10"`,
		"links[1]{source,target,endpoints}:",
		`  src/Orders.java,src/Billing.java,"seda:billing"`,
	}
	lines := strings.Split(got, "\n")
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%s", len(lines), len(want), got)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d: got %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestEncodeScanEmpty(t *testing.T) {
	t.Parallel()

	r := &model.ScanReport{
		RepoName: "empty",
		Root:     "empty",
	}

	got := EncodeScan(r)
	if !strings.Contains(got, "files[0]{path,language,endpoints,rank}:") {
		t.Errorf("expected empty files section, got:\n%s", got)
	}
	if !strings.Contains(got, "endpoints[0]{file,line,column,kind,call,value}:") {
		t.Errorf("expected empty endpoints section, got:\n%s", got)
	}
	if strings.Contains(got, "links") {
		t.Errorf("links section should be omitted when empty, got:\n%s", got)
	}
}

func TestEncodeCaret(t *testing.T) {
	t.Parallel()

	r := &model.CaretReport{
		File:     "R.java",
		Offset:   84,
		Line:     3,
		Column:   28,
		Language: "java",
		Node:     "string_fragment",
		Class:    "TypedLiteralPart",
		Text:     "timer:tick?perCaretHere ",
		HasText:  true,
		Key:      "?per",
		AtEnd:    true,
		Call:     "from",
	}

	got := EncodeCaret(r)
	for _, line := range []string{
		"file: R.java",
		"offset: 84",
		"line: 3",
		"text: \"timer:tick?perCaretHere \"",
		"has_text: true",
		"key: ?per",
		`value: ""`,
		"has_value: false",
		"at_end_of_line: true",
		"call: from",
	} {
		if !strings.Contains(got, line+"\n") && !strings.HasSuffix(got, line) {
			t.Errorf("missing %q in:\n%s", line, got)
		}
	}
	if strings.Contains(got, "error:") {
		t.Errorf("error line should be omitted, got:\n%s", got)
	}

	r.Error = "cursor marker not found"
	if got := EncodeCaret(r); !strings.HasSuffix(got, "error: cursor marker not found") {
		t.Errorf("expected trailing error line, got:\n%s", got)
	}
}
