package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

func writeTestFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func javaRoute(class, body string) string {
	return `package shop;

import org.apache.camel.builder.RouteBuilder;

public class ` + class + ` extends RouteBuilder {
    @Override
    public void configure() {
        ` + body + `
    }
}
`
}

func createSampleRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeTestFile(t, dir, "src/main/java/shop/Orders.java",
		javaRoute("Orders", `from("direct:orders").to("seda:billing");`))
	writeTestFile(t, dir, "src/main/java/shop/Billing.java",
		javaRoute("Billing", `from("seda:billing").to("log:done");`))
	writeTestFile(t, dir, "src/test/java/shop/OrdersTest.java",
		javaRoute("OrdersTest", `from("direct:test").to("direct:orders");`))
	writeTestFile(t, dir, "src/main/resources/camel.xml", `<routes>
  <route>
    <from uri="timer:tick"/>
    <to uri="direct:orders"/>
  </route>
</routes>
`)
	return dir
}

func TestRunBasic(t *testing.T) {
	t.Parallel()
	dir := createSampleRepo(t)

	var stdout, stderr bytes.Buffer
	err := run([]string{dir}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("run: %v\nstderr: %s", err, stderr.String())
	}

	out := stdout.String()
	if !strings.HasPrefix(out, "repo:") {
		t.Errorf("output should start with repo:, got:\n%s", out)
	}
	if !strings.Contains(out, "files[4]") {
		t.Errorf("expected 4 files, got:\n%s", out)
	}
	if !strings.Contains(out, "endpoints[8]") {
		t.Errorf("expected 8 endpoints, got:\n%s", out)
	}
	for _, want := range []string{
		`call,from,"direct:orders"`,
		`call,to,"seda:billing"`,
		`attribute,to,"direct:orders"`,
		`src/main/java/shop/Orders.java,src/main/java/shop/Billing.java,"seda:billing"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestRunScanSubcommand(t *testing.T) {
	t.Parallel()
	dir := createSampleRepo(t)

	var a, b, stderr bytes.Buffer
	if err := run([]string{dir}, &a, &stderr); err != nil {
		t.Fatalf("run: %v", err)
	}
	if err := run([]string{"scan", dir}, &b, &stderr); err != nil {
		t.Fatalf("run scan: %v", err)
	}
	if a.String() != b.String() {
		t.Errorf("scan subcommand differs from default:\n%s\n---\n%s", a.String(), b.String())
	}
}

func TestRunNoTests(t *testing.T) {
	t.Parallel()
	dir := createSampleRepo(t)

	var stdout, stderr bytes.Buffer
	if err := run([]string{"-no-tests", dir}, &stdout, &stderr); err != nil {
		t.Fatalf("run: %v", err)
	}

	out := stdout.String()
	if !strings.Contains(out, "files[3]") {
		t.Errorf("expected 3 files, got:\n%s", out)
	}
	if strings.Contains(out, "OrdersTest.java") {
		t.Error("test source should be skipped")
	}
}

func TestRunMaxFiles(t *testing.T) {
	t.Parallel()
	dir := createSampleRepo(t)

	var stdout, stderr bytes.Buffer
	err := run([]string{"-n", "1", dir}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	out := stdout.String()
	if !strings.Contains(out, "files[1]") {
		t.Errorf("expected 1 file, got:\n%s", out)
	}
}

func TestRunLanguageFilter(t *testing.T) {
	t.Parallel()
	dir := createSampleRepo(t)

	var stdout, stderr bytes.Buffer
	if err := run([]string{"-l", "xml", dir}, &stdout, &stderr); err != nil {
		t.Fatalf("run: %v", err)
	}

	out := stdout.String()
	if !strings.Contains(out, "files[1]") || !strings.Contains(out, "camel.xml") {
		t.Errorf("expected only camel.xml, got:\n%s", out)
	}
	if strings.Contains(out, "links[") {
		t.Errorf("a single file cannot link, got:\n%s", out)
	}
}

func TestRunMatchFilter(t *testing.T) {
	t.Parallel()
	dir := createSampleRepo(t)

	var stdout, stderr bytes.Buffer
	if err := run([]string{"-match", "billing", dir}, &stdout, &stderr); err != nil {
		t.Fatalf("run: %v", err)
	}

	out := stdout.String()
	if !strings.Contains(out, "files[2]") {
		t.Errorf("expected 2 files, got:\n%s", out)
	}
	if !strings.Contains(out, "endpoints[2]") {
		t.Errorf("expected 2 endpoints, got:\n%s", out)
	}
	if strings.Contains(out, "camel.xml") {
		t.Errorf("camel.xml has no billing endpoint:\n%s", out)
	}
}

func TestRunFileFilter(t *testing.T) {
	t.Parallel()
	dir := createSampleRepo(t)

	var stdout, stderr bytes.Buffer
	if err := run([]string{"-file", "Billing", dir}, &stdout, &stderr); err != nil {
		t.Fatalf("run: %v", err)
	}

	out := stdout.String()
	if !strings.Contains(out, "files[1]") {
		t.Errorf("expected 1 file, got:\n%s", out)
	}
	// The link from Orders survives because it touches Billing.
	if !strings.Contains(out, "links[1]") {
		t.Errorf("expected the incoming link, got:\n%s", out)
	}
}

func TestRunYAML(t *testing.T) {
	t.Parallel()
	dir := createSampleRepo(t)

	var stdout, stderr bytes.Buffer
	if err := run([]string{"-format", "yaml", "-no-tests", dir}, &stdout, &stderr); err != nil {
		t.Fatalf("run: %v", err)
	}

	out := stdout.String()
	for _, want := range []string{"repo: ", "files:", "findings:", "kind: call", "value: direct:orders", "links:"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestRunConfigOverride(t *testing.T) {
	t.Parallel()
	dir := createSampleRepo(t)
	writeTestFile(t, dir, ".caretctx.toml", "endpoint_methods = [\"from\"]\n")

	var stdout, stderr bytes.Buffer
	if err := run([]string{"-l", "java", dir}, &stdout, &stderr); err != nil {
		t.Fatalf("run: %v", err)
	}

	out := stdout.String()
	if strings.Contains(out, "call,to,") {
		t.Errorf("to() is no longer an endpoint method:\n%s", out)
	}
	if !strings.Contains(out, "endpoints[3]") {
		t.Errorf("expected 3 from() endpoints, got:\n%s", out)
	}
}

func TestRunBadConfig(t *testing.T) {
	t.Parallel()
	dir := createSampleRepo(t)
	writeTestFile(t, dir, "broken.toml", "endpoint_methods = [\n")

	var stdout, stderr bytes.Buffer
	err := run([]string{"-config", filepath.Join(dir, "broken.toml"), dir}, &stdout, &stderr)
	if err == nil || !strings.Contains(err.Error(), "reading config") {
		t.Errorf("expected config error, got %v", err)
	}
}

func TestRunBadFormat(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	err := run([]string{"-format", "json", t.TempDir()}, &stdout, &stderr)
	if err == nil || !strings.Contains(err.Error(), "unsupported format") {
		t.Errorf("expected format error, got %v", err)
	}
}

func TestRunVersion(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	err := run([]string{"-V"}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(stdout.String(), "caretctx") {
		t.Errorf("version output: %q", stdout.String())
	}
}

func TestRunNoFiles(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeTestFile(t, dir, "readme.txt", "nothing here")

	var stdout, stderr bytes.Buffer
	err := run([]string{dir}, &stdout, &stderr)
	if err == nil {
		t.Fatal("expected error for no parseable files")
	}
	if !strings.Contains(err.Error(), "no parseable files") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestRunUnsupportedLanguage(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	err := run([]string{"-l", "rust", t.TempDir()}, &stdout, &stderr)
	if err == nil {
		t.Fatal("expected error for unsupported language")
	}
	if !strings.Contains(err.Error(), "unsupported language") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestRunNotADirectory(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeTestFile(t, dir, "file.java", "class A {}")

	var stdout, stderr bytes.Buffer
	err := run([]string{filepath.Join(dir, "file.java")}, &stdout, &stderr)
	if err == nil || !strings.Contains(err.Error(), "not a directory") {
		t.Errorf("expected not a directory error, got %v", err)
	}
}

func TestRunVerboseLogs(t *testing.T) {
	t.Parallel()
	dir := createSampleRepo(t)

	var stdout, stderr bytes.Buffer
	if err := run([]string{"-v", dir}, &stdout, &stderr); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(stderr.String(), "discovered") {
		t.Errorf("expected debug log on stderr, got:\n%s", stderr.String())
	}
}

func TestRunAt(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	src := javaRoute("Tick", `from("timer:tick?per");`)
	writeTestFile(t, dir, "Tick.java", src)
	offset := strings.Index(src, `per"`) + len("per")

	var stdout, stderr bytes.Buffer
	err := run([]string{"at", "-offset", strconv.Itoa(offset), filepath.Join(dir, "Tick.java")}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("run at: %v\nstderr: %s", err, stderr.String())
	}

	out := stdout.String()
	for _, want := range []string{"language: java", "key: ?per", "has_value: false", "at_end_of_line: true", "call: from"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestRunAtYAML(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	src := "orders.uri=jms:queue:orders?concurrentConsumers=\n"
	writeTestFile(t, dir, "app.properties", src)
	offset := strings.Index(src, "=\n") + 1

	var stdout, stderr bytes.Buffer
	err := run([]string{"at", filepath.Join(dir, "app.properties"), "-offset", strconv.Itoa(offset), "-format", "yaml"}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("run at: %v", err)
	}

	out := stdout.String()
	for _, want := range []string{"language: properties", "concurrentConsumers", "has_value: true", "call: orders.uri"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestRunAtErrors(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeTestFile(t, dir, "a.properties", "a=b\n")
	path := filepath.Join(dir, "a.properties")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no file", []string{"at", "-offset", "0"}, "exactly one file"},
		{"no offset", []string{"at", path}, "-offset is required"},
		{"out of range", []string{"at", "-offset", "99", path}, "out of range"},
		{"missing file", []string{"at", "-offset", "0", filepath.Join(dir, "nope.properties")}, "reading"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var stdout, stderr bytes.Buffer
			err := run(tt.args, &stdout, &stderr)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("got %v, want error containing %q", err, tt.want)
			}
		})
	}
}

func TestReorderArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"flags first", []string{"-n", "5", "."}, []string{"-n", "5", "."}},
		{"positional first", []string{".", "-n", "5"}, []string{"-n", "5", "."}},
		{"mixed", []string{"-l", "java", ".", "-n", "5"}, []string{"-l", "java", "-n", "5", "."}},
		{"multi-lang", []string{"-l", "java,xml", "."}, []string{"-l", "java,xml", "."}},
		{"offset after file", []string{"R.java", "-offset", "12"}, []string{"-offset", "12", "R.java"}},
		{"format", []string{".", "-format", "yaml", "-v"}, []string{"-format", "yaml", "-v", "."}},
		{"no flags", []string{"."}, []string{"."}},
		{"no args", nil, nil},
		{"bool flag", []string{"-V"}, []string{"-V"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := reorderArgs(tt.in)
			if len(got) != len(tt.want) {
				t.Fatalf("len: got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("index %d: got %q, want %q (full: %v)", i, got[i], tt.want[i], got)
					break
				}
			}
		})
	}
}
