package mkdocs

import (
	"context"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"

	"gopkg.in/yaml.v3"

	merrors "git.home.luguber.info/inful/meowdoc/internal/errors"
	"git.home.luguber.info/inful/meowdoc/internal/logfields"
)

// EnsureProject creates a new mkdocs project in mkdocsDir if none exists,
// seeding the nav with a Home entry. An existing project is left untouched.
func EnsureProject(ctx context.Context, mkdocsDir, docsDirName string) error {
	configPath := ConfigPath(mkdocsDir)
	if _, err := os.Stat(configPath); err == nil {
		slog.Info("MkDocs project already exists", logfields.Path(mkdocsDir))
		return nil
	}

	slog.Info("Creating new MkDocs project", logfields.Path(mkdocsDir))
	cmd := exec.CommandContext(ctx, "mkdocs", "new", mkdocsDir)
	if out, err := cmd.CombinedOutput(); err != nil {
		return merrors.Wrap(err, merrors.CategoryBootstrap, merrors.SeverityFatal,
			"failed to create mkdocs project").WithContext("output", string(out))
	}

	// Seed a default nav so the landing page is reachable before the first
	// generation pass fills the rest in.
	data, err := os.ReadFile(configPath)
	if err != nil {
		return merrors.Wrap(err, merrors.CategoryBootstrap, merrors.SeverityFatal, "failed to read fresh mkdocs.yml")
	}
	doc := map[string]any{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return merrors.Wrap(err, merrors.CategoryBootstrap, merrors.SeverityFatal, "failed to parse fresh mkdocs.yml")
	}
	doc["nav"] = []any{map[string]any{"Home": "index.md"}}

	out, err := yaml.Marshal(doc)
	if err != nil {
		return merrors.Wrap(err, merrors.CategoryBootstrap, merrors.SeverityFatal, "failed to marshal mkdocs.yml")
	}
	if err := os.WriteFile(configPath, out, 0o644); err != nil {
		return merrors.Wrap(err, merrors.CategoryBootstrap, merrors.SeverityFatal, "failed to write mkdocs.yml")
	}

	if docsDirName != "docs" {
		// mkdocs new always creates "docs"; make sure the configured name exists too.
		if err := os.MkdirAll(filepath.Join(mkdocsDir, docsDirName), 0o755); err != nil {
			return merrors.Wrap(err, merrors.CategoryBootstrap, merrors.SeverityFatal, "failed to create docs directory")
		}
	}
	return nil
}

// ProjectExists reports whether mkdocsDir holds a bootstrapped project.
func ProjectExists(mkdocsDir string) bool {
	_, err := os.Stat(ConfigPath(mkdocsDir))
	return err == nil
}
