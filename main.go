// caretctx reports endpoint URIs in Camel route sources and the completion
// context at a caret position.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/phobologic/caretctx/internal/config"
	"github.com/phobologic/caretctx/internal/discover"
	"github.com/phobologic/caretctx/internal/graph"
	"github.com/phobologic/caretctx/internal/lang"
	"github.com/phobologic/caretctx/internal/model"
	"github.com/phobologic/caretctx/internal/ranking"
	"github.com/phobologic/caretctx/internal/scan"
	"github.com/phobologic/caretctx/internal/toon"
)

var version = "dev"

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	if len(args) > 0 {
		switch args[0] {
		case "init":
			return runInit(args[1:], stdout, stderr)
		case "at":
			return runAt(args[1:], stdout, stderr)
		case "scan":
			args = args[1:]
		}
	}
	return runScan(args, stdout, stderr)
}

// common holds the flags shared by the scan and at subcommands.
type common struct {
	configPath string
	format     string
	verbose    bool
}

func (c *common) register(fs *flag.FlagSet) {
	fs.StringVar(&c.configPath, "config", "", "config file (default <root>/"+config.DefaultPath+")")
	fs.StringVar(&c.format, "format", "toon", "output format: toon or yaml")
	fs.BoolVar(&c.verbose, "v", false, "log debug output to stderr")
}

func (c *common) validate() error {
	switch c.format {
	case "toon", "yaml":
		return nil
	}
	return fmt.Errorf("unsupported format %q", c.format)
}

func (c *common) logger(stderr io.Writer) zerolog.Logger {
	level := zerolog.InfoLevel
	if c.verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: stderr, NoColor: true}).
		Level(level).With().Timestamp().Logger()
}

func (c *common) load(root string) (*config.Config, error) {
	path := c.configPath
	if path == "" {
		path = filepath.Join(root, config.DefaultPath)
	}
	return config.Load(path)
}

func runScan(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("caretctx", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		c           common
		maxFiles    int
		langs       string
		fileFilter  string
		valueFilter string
		noTests     bool
		workers     int
		showVersion bool
	)

	c.register(fs)
	fs.IntVar(&maxFiles, "n", 0, "maximum number of files to include")
	fs.IntVar(&maxFiles, "max-files", 0, "maximum number of files to include")
	fs.StringVar(&langs, "l", "", "comma-separated languages to include")
	fs.StringVar(&langs, "langs", "", "comma-separated languages to include")
	fs.StringVar(&fileFilter, "file", "", "only include files whose path contains this substring")
	fs.StringVar(&valueFilter, "match", "", "only include endpoints containing this substring")
	fs.BoolVar(&noTests, "no-tests", false, "skip test sources")
	fs.IntVar(&workers, "j", 0, "files parsed concurrently (default GOMAXPROCS)")
	fs.BoolVar(&showVersion, "V", false, "show version and exit")
	fs.BoolVar(&showVersion, "version", false, "show version and exit")

	if err := fs.Parse(reorderArgs(args)); err != nil {
		return err
	}

	if showVersion {
		_, _ = fmt.Fprintf(stdout, "caretctx %s\n", version)
		return nil
	}
	if err := c.validate(); err != nil {
		return err
	}

	root := "."
	if fs.NArg() > 0 {
		root = fs.Arg(0)
	}

	root, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolving root: %w", err)
	}

	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("root path: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s: not a directory", root)
	}

	langFilter, err := parseLangs(langs)
	if err != nil {
		return err
	}

	cfg, err := c.load(root)
	if err != nil {
		return err
	}
	log := c.logger(stderr)

	var discoverOpts []discover.Option
	if noTests {
		discoverOpts = append(discoverOpts, discover.WithoutTests())
	}
	files, err := discover.Files(root, langFilter, discoverOpts...)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no parseable files found")
	}
	log.Debug().Int("files", len(files)).Str("root", root).Msg("discovered")

	s := scan.New(cfg, scan.WithLogger(log), scan.WithWorkers(workers))
	fileInfos, err := s.Files(context.Background(), root, files)
	if err != nil {
		return fmt.Errorf("scanning: %w", err)
	}
	if len(fileInfos) == 0 {
		return fmt.Errorf("no files could be parsed")
	}

	links := graph.BuildGraph(fileInfos, cfg.ConsumerMethods)
	graph.Rank(fileInfos, links)

	r := &model.ScanReport{
		RepoName: filepath.Base(root),
		Root:     filepath.Base(root),
		Files:    fileInfos,
		Links:    links,
	}

	if fileFilter != "" {
		r = ranking.FilterByFile(r, fileFilter)
	}
	if valueFilter != "" {
		r = ranking.FilterByValue(r, valueFilter)
	}
	if maxFiles > 0 {
		r = ranking.SelectFiles(r, maxFiles)
	}

	return write(stdout, c.format, r, func() string { return toon.EncodeScan(r) })
}

func runAt(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("caretctx at", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		c      common
		offset int
	)
	c.register(fs)
	fs.IntVar(&offset, "offset", -1, "byte offset of the caret")

	fs.Usage = func() {
		fmt.Fprintf(stderr, `Usage: caretctx at [flags] FILE

Insert the cursor marker at -offset, reparse FILE and describe the node under
the caret: its extracted text, the query parameter being edited and the
endpoint call it belongs to.

Flags:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(reorderArgs(args)); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return errors.New("at: expected exactly one file")
	}
	if offset < 0 {
		return errors.New("at: -offset is required")
	}
	if err := c.validate(); err != nil {
		return err
	}

	path := fs.Arg(0)
	source, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	cfg, err := c.load(filepath.Dir(path))
	if err != nil {
		return err
	}

	s := scan.New(cfg, scan.WithLogger(c.logger(stderr)))
	r, err := s.Caret(context.Background(), path, source, offset)
	if err != nil {
		return err
	}
	return write(stdout, c.format, r, func() string { return toon.EncodeCaret(r) })
}

func write(w io.Writer, format string, v any, encodeTOON func() string) error {
	if format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	}
	_, _ = fmt.Fprintln(w, encodeTOON())
	return nil
}

func parseLangs(langs string) ([]string, error) {
	if langs == "" {
		return nil, nil
	}
	var filter []string
	for _, name := range strings.Split(langs, ",") {
		name = strings.TrimSpace(name)
		if _, ok := lang.Languages[name]; !ok {
			return nil, fmt.Errorf("unsupported language %q", name)
		}
		filter = append(filter, name)
	}
	return filter, nil
}

// flagsWithValue lists flags that take a value argument.
var flagsWithValue = map[string]bool{
	"-n": true, "--n": true,
	"-max-files": true, "--max-files": true,
	"-l": true, "--l": true,
	"-langs": true, "--langs": true,
	"-file": true, "--file": true,
	"-match": true, "--match": true,
	"-j": true, "--j": true,
	"-config": true, "--config": true,
	"-format": true, "--format": true,
	"-offset": true, "--offset": true,
}

// reorderArgs moves positional arguments after all flags so Go's flag package
// can parse them correctly (it stops at the first non-flag arg).
func reorderArgs(args []string) []string {
	var flags, positional []string
	for i := 0; i < len(args); i++ {
		if args[i] == "--" {
			positional = append(positional, args[i+1:]...)
			break
		}
		if len(args[i]) > 0 && args[i][0] == '-' {
			flags = append(flags, args[i])
			if flagsWithValue[args[i]] && i+1 < len(args) {
				i++
				flags = append(flags, args[i])
			}
		} else {
			positional = append(positional, args[i])
		}
	}
	return append(flags, positional...)
}
