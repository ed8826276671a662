package commands

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
)

// Global context passed to subcommands if we need to share global state later.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags - used by commands that need access to root config.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"meowdoc.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Generate GenerateCmd `cmd:"" default:"withargs" help:"Generate documentation and update the mkdocs navigation"`
	Init     InitCmd     `cmd:"" help:"Initialize a new configuration file"`
	Watch    WatchCmd    `cmd:"" help:"Watch the input tree and regenerate on changes"`
}

// AfterApply runs after flag parsing; setup logging once. Commands that load
// a configuration replace this with the config-aware handler.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}
