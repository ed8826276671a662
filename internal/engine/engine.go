// Package engine orchestrates the generation pipeline: collect input files,
// build prompts, fan LLM calls out over a bounded pool, and write the
// resulting Markdown into the mkdocs docs tree.
package engine

import (
	"context"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/meowdoc/internal/cache"
	"git.home.luguber.info/inful/meowdoc/internal/collect"
	"git.home.luguber.info/inful/meowdoc/internal/config"
	merrors "git.home.luguber.info/inful/meowdoc/internal/errors"
	"git.home.luguber.info/inful/meowdoc/internal/ignore"
	"git.home.luguber.info/inful/meowdoc/internal/llm"
	"git.home.luguber.info/inful/meowdoc/internal/logfields"
	"git.home.luguber.info/inful/meowdoc/internal/markdown"
)

// APIDir is the subdirectory of the docs tree that holds generated
// per-source-file documentation when the input is a directory.
const APIDir = "api"

// Engine runs one generation pass over the configured input.
type Engine struct {
	cfg      *config.Config
	provider llm.Provider
	cache    *cache.Cache // nil unless incremental mode is enabled
	runID    string
}

// New creates an Engine. cacheDB may be nil to disable incremental skipping.
func New(cfg *config.Config, provider llm.Provider, cacheDB *cache.Cache) *Engine {
	return &Engine{
		cfg:      cfg,
		provider: provider,
		cache:    cacheDB,
		runID:    uuid.NewString(),
	}
}

// RunID identifies this generation pass in log output.
func (e *Engine) RunID() string { return e.runID }

// DocsRoot is the directory generated Markdown is written into.
func (e *Engine) DocsRoot() string {
	return filepath.Join(e.cfg.Main.MkdocsDir, e.cfg.Main.DocsDirName)
}

// Result is the outcome of one generation pass.
type Result struct {
	// OutputPaths are docs-root-relative paths of successfully written
	// documents, in collection order.
	OutputPaths []string
	// IsDirInput records whether the input root was a directory. It decides
	// whether the nav wraps results in an API section.
	IsDirInput bool
	// Failed counts files dropped due to generation or write errors.
	Failed int
}

// Process runs the full pipeline: collect, pre-read, generate, write.
//
// Per-file failures are logged and counted but never abort the batch. The
// returned output list preserves collection order regardless of worker
// scheduling.
func (e *Engine) Process(ctx context.Context) (*Result, error) {
	matcher := ignore.NewMatcher(e.cfg.Ignore.Patterns)
	collector := collect.NewCollector(matcher, e.cfg.Main.MkdocsDir)

	files, err := collector.Collect(e.cfg.Main.InputPath)
	if err != nil {
		return nil, merrors.Wrap(err, merrors.CategoryFileSystem, merrors.SeverityFatal, "failed to collect input files")
	}

	info, err := os.Stat(e.cfg.Main.InputPath)
	if err != nil {
		return nil, merrors.Wrap(err, merrors.CategoryFileSystem, merrors.SeverityFatal, "failed to stat input path")
	}
	isDir := info.IsDir()

	if len(files) == 0 {
		slog.Warn("No input files to document",
			logfields.RunID(e.runID), logfields.Path(e.cfg.Main.InputPath))
		return &Result{IsDirInput: isDir}, nil
	}

	// Bulk pre-read: all file contents are loaded before the first LLM call
	// so workers never hit the disk concurrently during generation.
	contents, files := e.preload(files)

	slog.Info("Starting documentation generation",
		logfields.RunID(e.runID),
		logfields.Stage("generate"),
		logfields.Provider(e.provider.Name()),
		logfields.Count(len(files)),
		slog.Int("workers", e.cfg.Main.Workers))

	results := runOrdered(files, e.cfg.Main.Workers, func(i int, f collect.File) (string, error) {
		return e.generateOne(ctx, f, contents, isDir, i)
	})

	res := &Result{IsDirInput: isDir}
	for i, r := range results {
		if r.Err != nil {
			slog.Error("Skipping file after generation failure",
				logfields.RunID(e.runID),
				logfields.File(files[i].RelativePath),
				logfields.Error(r.Err))
			res.Failed++
			continue
		}
		res.OutputPaths = append(res.OutputPaths, r.Value)
	}

	slog.Info("Documentation generation finished",
		logfields.RunID(e.runID),
		logfields.Stage("generate"),
		logfields.Count(len(res.OutputPaths)),
		slog.Int("failed", res.Failed))
	return res, nil
}

// preload reads every collected file into memory. Unreadable files are logged
// and dropped; the returned slice keeps collection order for the survivors.
func (e *Engine) preload(files []collect.File) (map[string]string, []collect.File) {
	contents := make(map[string]string, len(files))
	kept := files[:0:0]
	for _, f := range files {
		data, err := os.ReadFile(f.Path)
		if err != nil {
			slog.Error("Skipping unreadable file",
				logfields.RunID(e.runID), logfields.File(f.RelativePath), logfields.Error(err))
			continue
		}
		contents[f.RelativePath] = string(data)
		kept = append(kept, f)
	}
	return contents, kept
}

// generateOne takes a single file through prompt, LLM call, and write.
// It returns the docs-root-relative output path on success.
func (e *Engine) generateOne(ctx context.Context, f collect.File, contents map[string]string, isDir bool, worker int) (string, error) {
	outRel := e.outputRelPath(f.RelativePath, isDir)
	outAbs := filepath.Join(e.DocsRoot(), filepath.FromSlash(outRel))
	content := contents[f.RelativePath]

	if e.cache != nil {
		hash := cache.HashContent([]byte(content))
		if entry, ok, err := e.cache.Lookup(ctx, f.RelativePath); err == nil && ok && entry.ContentHash == hash {
			if _, statErr := os.Stat(outAbs); statErr == nil {
				slog.Info("Source unchanged, reusing cached document",
					logfields.RunID(e.runID), logfields.File(f.RelativePath), logfields.Output(outRel))
				return outRel, nil
			}
		}
	}

	prompt := buildPrompt(f, contents, e.loadDocGuide(f.RelativePath))

	slog.Info("Generating documentation",
		logfields.RunID(e.runID),
		logfields.File(f.RelativePath),
		logfields.Worker(worker))

	doc, err := e.provider.Generate(ctx, prompt)
	if err != nil {
		return "", merrors.GenerationError(err, "llm call failed")
	}

	if !markdown.LooksLikeDocument([]byte(doc)) {
		slog.Warn("Generated output does not look like a Markdown document",
			logfields.RunID(e.runID), logfields.File(f.RelativePath))
	}

	if err := os.MkdirAll(filepath.Dir(outAbs), 0o755); err != nil {
		return "", merrors.Wrap(err, merrors.CategoryFileSystem, merrors.SeverityError, "failed to create output directory")
	}
	if err := os.WriteFile(outAbs, []byte(doc), 0o644); err != nil {
		return "", merrors.Wrap(err, merrors.CategoryFileSystem, merrors.SeverityError, "failed to write document")
	}

	if e.cache != nil {
		err := e.cache.Store(ctx, cache.Entry{
			RelativePath: f.RelativePath,
			ContentHash:  cache.HashContent([]byte(content)),
			OutputPath:   outRel,
		})
		if err != nil {
			slog.Warn("Failed to record cache entry",
				logfields.RunID(e.runID), logfields.File(f.RelativePath), logfields.Error(err))
		}
	}

	return outRel, nil
}

// outputRelPath mirrors a source file's relative path into the docs tree,
// swapping the source extension for .md. Directory inputs land under api/;
// a single-file input lands at the docs root.
func (e *Engine) outputRelPath(rel string, isDir bool) string {
	ext := path.Ext(rel)
	base := strings.TrimSuffix(rel, ext) + ".md"
	if isDir {
		return path.Join(APIDir, base)
	}
	return path.Base(base)
}
