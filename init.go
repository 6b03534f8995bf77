package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/phobologic/caretctx/internal/config"
)

const (
	sentinelStart = "# caretctx:start"
	sentinelEnd   = "# caretctx:end"
)

// runInit implements the `caretctx init` subcommand, which writes (or
// updates) the generated default settings in a caretctx config file.
func runInit(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("caretctx init", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var dryRun bool
	fs.BoolVar(&dryRun, "dry-run", false, "print what would be written without modifying the file")

	fs.Usage = func() {
		fmt.Fprintf(stderr, `Usage: caretctx init [flags] [path-to-config]

Write the built-in caretctx settings, commented out, to a TOML config file as a
starting point for overrides. The block is wrapped in sentinel comments so it
can be regenerated in place on subsequent runs without touching surrounding
content. Creates the file if it does not exist.

path-to-config defaults to ./%s.

Flags:
`, config.DefaultPath)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	section, err := generateSection()
	if err != nil {
		return err
	}

	// --dry-run with no path: just print the section itself.
	if dryRun && fs.NArg() == 0 {
		_, _ = fmt.Fprintln(stdout, section)
		return nil
	}

	path := config.DefaultPath
	if fs.NArg() > 0 {
		path = fs.Arg(0)
	}

	existing, _ := os.ReadFile(path)
	updated := applySection(string(existing), section)

	if dryRun {
		_, _ = fmt.Fprint(stdout, updated)
		return nil
	}

	if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	_, _ = fmt.Fprintf(stderr, "wrote caretctx settings to %s\n", path)
	return nil
}

// generateSection returns the sentinel-wrapped default configuration,
// commented out so that settings copied below the block do not clash with it.
func generateSection() (string, error) {
	var b bytes.Buffer
	if err := config.Encode(&b, config.Default()); err != nil {
		return "", err
	}
	lines := []string{sentinelStart, "# Built-in defaults, regenerated by \"caretctx init\"."}
	for _, line := range strings.Split(strings.TrimRight(b.String(), "\n"), "\n") {
		lines = append(lines, strings.TrimRight("# "+line, " "))
	}
	lines = append(lines, sentinelEnd)
	return strings.Join(lines, "\n"), nil
}

// applySection inserts section into content, replacing an existing sentinel
// block if present or appending if not. It is a pure function for easy testing.
func applySection(content, section string) string {
	start := strings.Index(content, sentinelStart)
	end := strings.Index(content, sentinelEnd)

	if start >= 0 && end > start {
		return content[:start] + section + content[end+len(sentinelEnd):]
	}

	// Append, ensuring a blank line separator.
	if len(content) > 0 && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	return content + "\n" + section + "\n"
}
