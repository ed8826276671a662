package mkdocs

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"

	"git.home.luguber.info/inful/meowdoc/internal/logfields"
)

// Theme maps a configured theme key to its mkdocs identity.
type Theme struct {
	PackageName string // pip package providing the theme, empty for built-ins
	MkdocsName  string // value for theme.name in mkdocs.yml
}

// Themes is the supported theme table.
var Themes = map[string]Theme{
	"default":  {PackageName: "", MkdocsName: ""},
	"dracula":  {PackageName: "mkdocs-dracula-theme", MkdocsName: "dracula"},
	"material": {PackageName: "mkdocs-material", MkdocsName: "material"},
}

// LookupTheme resolves a theme key, failing on unknown names so typos are
// caught before any generation starts.
func LookupTheme(key string) (Theme, error) {
	t, ok := Themes[key]
	if !ok {
		return Theme{}, fmt.Errorf("unknown theme: %q", key)
	}
	return t, nil
}

// EnableTheme installs the theme's pip package. Installation failures are
// logged and swallowed: the site still builds with the default theme.
func EnableTheme(ctx context.Context, key string) {
	t, err := LookupTheme(key)
	if err != nil {
		slog.Warn("Skipping theme enablement", logfields.Theme(key), logfields.Error(err))
		return
	}
	if t.PackageName == "" {
		return
	}

	cmd := exec.CommandContext(ctx, "pip", "install", t.PackageName)
	if out, err := cmd.CombinedOutput(); err != nil {
		slog.Warn("Failed to install theme package",
			logfields.Theme(key),
			slog.String("package", t.PackageName),
			slog.String("output", string(out)),
			logfields.Error(err))
		return
	}
	slog.Info("Theme package installed", logfields.Theme(key), slog.String("package", t.PackageName))
}
