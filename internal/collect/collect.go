// Package collect walks an input root and produces the ordered set of files
// that documentation will be generated for.
package collect

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/meowdoc/internal/ignore"
	"git.home.luguber.info/inful/meowdoc/internal/logfields"
)

// File is a single collected source file.
type File struct {
	Path         string // Absolute path to the file
	RelativePath string // Path relative to the input root, forward-slash separated
}

// Collector walks an input root applying ignore rules.
type Collector struct {
	matcher  *ignore.Matcher
	excluded []string // absolute paths whose subtrees are never collected (e.g. the mkdocs project dir)
}

// NewCollector creates a Collector over the given ignore rules.
// exclude lists directories to prune wholesale regardless of patterns.
func NewCollector(matcher *ignore.Matcher, exclude ...string) *Collector {
	abs := make([]string, 0, len(exclude))
	for _, e := range exclude {
		if a, err := filepath.Abs(e); err == nil {
			abs = append(abs, a)
		}
	}
	return &Collector{matcher: matcher, excluded: abs}
}

// Collect returns the files under root that survive ignore filtering.
//
// If root is a regular file the result has at most one entry. Directory walks
// are lexicographic, so the result is deterministic for a given tree.
// Unreadable directories are skipped with a warning; they never abort the
// collection.
func (c *Collector) Collect(root string) ([]File, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if c.matcher.ShouldIgnore(absRoot) {
			slog.Info("Input file matches ignore pattern, nothing to collect", logfields.Path(root))
			return nil, nil
		}
		return []File{{Path: absRoot, RelativePath: filepath.Base(absRoot)}}, nil
	}

	var files []File
	walkErr := filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			slog.Warn("Skipping unreadable path", logfields.Path(path), logfields.Error(err))
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if path != absRoot && (c.matcher.ShouldIgnore(path) || c.isExcluded(path)) {
				return fs.SkipDir
			}
			return nil
		}

		// WalkDir does not follow symlinks; links are skipped rather than
		// risking an escape from root.
		if !d.Type().IsRegular() {
			return nil
		}

		if c.matcher.ShouldIgnore(path) || c.isExcluded(path) {
			return nil
		}

		rel, err := filepath.Rel(absRoot, path)
		if err != nil {
			slog.Warn("Skipping file with unresolvable relative path", logfields.Path(path), logfields.Error(err))
			return nil
		}

		files = append(files, File{Path: path, RelativePath: filepath.ToSlash(rel)})
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	slog.Info("Collected input files", logfields.Path(root), logfields.Count(len(files)))
	return files, nil
}

func (c *Collector) isExcluded(path string) bool {
	for _, e := range c.excluded {
		if path == e || strings.HasPrefix(path, e+string(filepath.Separator)) {
			return true
		}
	}
	return false
}
