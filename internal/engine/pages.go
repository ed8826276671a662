package engine

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	merrors "git.home.luguber.info/inful/meowdoc/internal/errors"
	"git.home.luguber.info/inful/meowdoc/internal/logfields"
	"git.home.luguber.info/inful/meowdoc/internal/markdown"
)

// aiPageSuffix marks a page whose content is a prompt rather than finished
// Markdown. "intro.ai.md" is generated and written as "intro.md".
const aiPageSuffix = ".ai.md"

type pageJob struct {
	abs string
	rel string // forward-slash, relative to the pages root
}

// ProcessPages handles the freeform documentation pages directory. Plain
// Markdown files are copied into the docs tree verbatim; files carrying the
// AI marker are sent through the LLM and written under the unmarked name.
//
// A missing or unconfigured pages directory is not an error; the result is
// simply empty. Per-page failures are logged and dropped.
func (e *Engine) ProcessPages(ctx context.Context) ([]string, error) {
	root := e.cfg.Main.PagesDir
	if root == "" {
		return nil, nil
	}
	if _, err := os.Stat(root); os.IsNotExist(err) {
		slog.Info("Pages directory does not exist, skipping", logfields.Path(root))
		return nil, nil
	}

	var jobs []pageJob
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			slog.Warn("Skipping unreadable page path", logfields.Path(p), logfields.Error(err))
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		if !strings.HasSuffix(d.Name(), ".md") {
			return nil
		}
		rel, relErr := filepath.Rel(root, p)
		if relErr != nil {
			return nil
		}
		jobs = append(jobs, pageJob{abs: p, rel: filepath.ToSlash(rel)})
		return nil
	})
	if err != nil {
		return nil, merrors.Wrap(err, merrors.CategoryFileSystem, merrors.SeverityError, "failed to walk pages directory")
	}
	if len(jobs) == 0 {
		return nil, nil
	}

	slog.Info("Processing documentation pages",
		logfields.RunID(e.runID), logfields.Stage("pages"), logfields.Count(len(jobs)))

	results := runOrdered(jobs, e.cfg.Main.Workers, func(i int, j pageJob) (string, error) {
		return e.processPage(ctx, j)
	})

	var out []string
	for i, r := range results {
		if r.Err != nil {
			slog.Error("Skipping page after processing failure",
				logfields.RunID(e.runID), logfields.File(jobs[i].rel), logfields.Error(r.Err))
			continue
		}
		out = append(out, r.Value)
	}
	return out, nil
}

func (e *Engine) processPage(ctx context.Context, j pageJob) (string, error) {
	data, err := os.ReadFile(j.abs)
	if err != nil {
		return "", merrors.Wrap(err, merrors.CategoryFileSystem, merrors.SeverityError, "failed to read page")
	}

	outRel := j.rel
	content := data

	if strings.HasSuffix(j.rel, aiPageSuffix) {
		outRel = strings.TrimSuffix(j.rel, aiPageSuffix) + ".md"
		doc, err := e.provider.Generate(ctx, string(data))
		if err != nil {
			return "", merrors.GenerationError(err, "page generation failed")
		}
		if !markdown.LooksLikeDocument([]byte(doc)) {
			slog.Warn("Generated page does not look like a Markdown document",
				logfields.RunID(e.runID), logfields.File(j.rel))
		}
		content = []byte(doc)
	}

	outAbs := filepath.Join(e.DocsRoot(), filepath.FromSlash(outRel))
	if err := os.MkdirAll(filepath.Dir(outAbs), 0o755); err != nil {
		return "", merrors.Wrap(err, merrors.CategoryFileSystem, merrors.SeverityError, "failed to create page output directory")
	}
	if err := os.WriteFile(outAbs, content, 0o644); err != nil {
		return "", merrors.Wrap(err, merrors.CategoryFileSystem, merrors.SeverityError, "failed to write page")
	}

	slog.Info("Page written",
		logfields.RunID(e.runID), logfields.File(j.rel), logfields.Output(outRel))
	return outRel, nil
}
