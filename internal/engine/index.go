package engine

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	merrors "git.home.luguber.info/inful/meowdoc/internal/errors"
	"git.home.luguber.info/inful/meowdoc/internal/gitinfo"
	"git.home.luguber.info/inful/meowdoc/internal/logfields"
)

// BuildIndex synthesizes the site landing page from project metadata plus one
// LLM-generated "Contributing" section.
//
// An LLM failure degrades to an empty contributing section; the index is
// always produced.
func (e *Engine) BuildIndex(ctx context.Context) string {
	name := e.cfg.Project.Name
	if name == "" {
		name = filepath.Base(strings.TrimRight(e.cfg.Main.InputPath, "/"))
	}
	repoURL := e.cfg.Project.RepoURL
	if repoURL == "" {
		if detected, err := gitinfo.RemoteURL(e.cfg.Main.InputPath); err == nil {
			repoURL = detected
		}
	}

	contributing := e.generateContributing(ctx, name)

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", name)
	if e.cfg.Project.Description != "" {
		b.WriteString(e.cfg.Project.Description)
		b.WriteString("\n\n")
	}

	b.WriteString("## Installation\n\n")
	if repoURL != "" {
		fmt.Fprintf(&b, "```\ngit clone %s\n```\n\n", repoURL)
	} else {
		b.WriteString("Clone the repository and follow the build instructions in the README.\n\n")
	}

	b.WriteString("## Getting Started\n\n")
	b.WriteString("Browse the API section in the navigation for per-file reference documentation.\n")

	if contributing != "" {
		b.WriteString("\n## Contributing\n\n")
		b.WriteString(contributing)
		b.WriteString("\n")
	}

	return b.String()
}

// WriteIndex writes the landing page to the docs root.
func (e *Engine) WriteIndex(ctx context.Context) error {
	content := e.BuildIndex(ctx)
	path := filepath.Join(e.DocsRoot(), "index.md")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return merrors.Wrap(err, merrors.CategoryFileSystem, merrors.SeverityError, "failed to create docs directory")
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return merrors.Wrap(err, merrors.CategoryFileSystem, merrors.SeverityError, "failed to write index page")
	}
	slog.Info("Landing page written", logfields.RunID(e.runID), logfields.Output(path))
	return nil
}

func (e *Engine) generateContributing(ctx context.Context, name string) string {
	prompt := fmt.Sprintf(
		"Write a short \"Contributing\" section in Markdown for a project called %q. "+
			"Cover how to report issues, propose changes, and submit patches. "+
			"Respond with the section body only, no heading.", name)

	section, err := e.provider.Generate(ctx, prompt)
	if err != nil {
		slog.Warn("Contributing section generation failed, omitting it",
			logfields.RunID(e.runID), logfields.Error(err))
		return ""
	}
	return strings.TrimSpace(section)
}
