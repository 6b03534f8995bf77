// Package discover finds route sources (Java, XML, YAML, properties and the
// JVM scripting languages) in a repository.
package discover

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/phobologic/caretctx/internal/lang"
)

// FileEntry represents a discovered source file.
type FileEntry struct {
	Path     string // Relative to repo root
	Language string
}

// skipDirs are build outputs and tool caches of JVM projects.
var skipDirs = map[string]struct{}{
	"node_modules": {},
	".git":         {},
	".hg":          {},
	".svn":         {},
	".gradle":      {},
	".idea":        {},
	".mvn":         {},
	"target":       {},
	"build":        {},
	"out":          {},
	"bin":          {},
	"dist":         {},
}

// Option adjusts which files Files returns.
type Option func(*options)

type options struct {
	skipTests bool
}

// WithoutTests drops test sources (see IsTestFile).
func WithoutTests() Option {
	return func(o *options) {
		o.skipTests = true
	}
}

// Files discovers parseable source files under root.
// If languages is non-empty, only files matching one of the listed languages are returned.
func Files(root string, languages []string, opts ...Option) ([]FileEntry, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	langSet := make(map[string]struct{}, len(languages))
	for _, l := range languages {
		langSet[l] = struct{}{}
	}
	gitFiles := gitLsFiles(root)
	var gi *ignore.GitIgnore
	if gitFiles == nil {
		gi = loadGitignore(root)
	}

	var results []FileEntry

	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // skip errors
		}

		name := d.Name()

		if d.IsDir() {
			if path == root {
				return nil
			}
			if _, skip := skipDirs[name]; skip || strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(name, ".") {
			return nil
		}

		// Skip symlinks
		if d.Type()&os.ModeSymlink != 0 {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}

		if gitFiles != nil {
			if _, ok := gitFiles[rel]; !ok {
				return nil
			}
		} else if gi != nil && gi.MatchesPath(rel) {
			return nil
		}

		if o.skipTests && IsTestFile(rel) {
			return nil
		}

		ext := filepath.Ext(name)
		langName := lang.ForExtension(ext)
		if langName == "" {
			return nil
		}

		if len(langSet) > 0 {
			if _, ok := langSet[langName]; !ok {
				return nil
			}
		}

		results = append(results, FileEntry{Path: rel, Language: langName})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Path < results[j].Path
	})

	return results, nil
}

func gitLsFiles(root string) map[string]struct{} {
	gitDir := filepath.Join(root, ".git")
	info, err := os.Stat(gitDir)
	if err != nil || !info.IsDir() {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", "ls-files", "--cached", "--others", "--exclude-standard")
	cmd.Dir = root
	out, err := cmd.Output()
	if err != nil {
		return nil
	}

	files := make(map[string]struct{})
	for _, line := range strings.Split(strings.TrimRight(string(out), "\n"), "\n") {
		if line != "" {
			files[line] = struct{}{}
		}
	}
	return files
}

func loadGitignore(root string) *ignore.GitIgnore {
	path := filepath.Join(root, ".gitignore")
	gi, err := ignore.CompileIgnoreFile(path)
	if err != nil {
		return nil
	}
	return gi
}

// testDirs are path components that hold test sources.
var testDirs = map[string]struct{}{
	"test":  {},
	"tests": {},
	"it":    {},
}

// testSuffixes are file name stems of JVM test classes.
var testSuffixes = []string{"Test", "Tests", "IT", "Spec"}

// IsTestFile reports whether a repo-relative path looks like a test source:
// anything under a src/test style directory, or a class named *Test, *Tests,
// *IT or *Spec.
func IsTestFile(path string) bool {
	parts := strings.Split(filepath.ToSlash(path), "/")
	for _, dir := range parts[:len(parts)-1] {
		if _, ok := testDirs[dir]; ok {
			return true
		}
	}
	name := parts[len(parts)-1]
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	for _, suffix := range testSuffixes {
		if stem != suffix && strings.HasSuffix(stem, suffix) {
			return true
		}
	}
	return false
}
