package commands

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"git.home.luguber.info/inful/meowdoc/internal/cache"
	"git.home.luguber.info/inful/meowdoc/internal/config"
	"git.home.luguber.info/inful/meowdoc/internal/engine"
	merrors "git.home.luguber.info/inful/meowdoc/internal/errors"
	"git.home.luguber.info/inful/meowdoc/internal/llm"
	"git.home.luguber.info/inful/meowdoc/internal/logfields"
	"git.home.luguber.info/inful/meowdoc/internal/mkdocs"
)

// cacheFileName is the incremental-mode cache inside the mkdocs project dir.
const cacheFileName = ".meowdoc-cache.db"

// GenerateCmd implements the 'generate' command.
type GenerateCmd struct {
	Input string `arg:"" optional:"" help:"Input file or directory to document (overrides main.input_path)"`

	MkdocsDir    string   `name:"mkdocs-dir" help:"Mkdocs project directory (overrides main.mkdocs_dir)"`
	DocsDirName  string   `name:"docs-dir-name" help:"Docs directory name inside the mkdocs project (overrides main.docs_dir_name)"`
	Ignore       []string `name:"ignore" help:"Ignore glob patterns, repeatable (overrides ignore.patterns)"`
	PagesDir     string   `name:"pages-dir" help:"Freeform pages directory (overrides main.pages_dir)"`
	DocguideDir  string   `name:"docguide-dir" help:"Per-file prompt override directory (overrides main.docguide_dir)"`
	OverlayFile  string   `name:"overlay" help:"User mkdocs.yml fragment merged after nav update (overrides main.overlay_file)"`
	Theme        string   `help:"Mkdocs theme (overrides main.theme)"`
	Provider     string   `short:"p" help:"LLM provider: gemini, openai, or ollama (overrides llm.provider)"`
	Model        string   `short:"m" help:"Model name (overrides llm.model)"`
	BaseURL      string   `name:"base-url" help:"Base URL for the ollama provider (overrides llm.base_url)"`
	APIKeyFile   string   `name:"api-key-file" help:"Path to the API key file (overrides llm.api_key_file)"`
	Workers      int      `short:"w" help:"Concurrent LLM calls (overrides main.workers)"`
	Incremental  bool     `short:"i" help:"Skip regeneration for files whose content is unchanged"`
	CreateMkdocs bool     `name:"create-mkdocs" help:"Bootstrap the mkdocs project if it does not exist"`
	Interactive  bool     `name:"interactive" help:"Prompt for missing required settings instead of failing"`
}

func (g *GenerateCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root, g)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	res, err := runPipeline(ctx, cfg)
	if err != nil {
		return err
	}
	if res.Failed > 0 {
		// Partial generation failure is best-effort territory, not a fatal
		// condition; the run still exits zero.
		slog.Warn("Some files were skipped due to generation failures", slog.Int("failed", res.Failed))
	}
	return nil
}

// loadConfig loads the configuration file, applies CLI flag overrides, and
// fills remaining gaps interactively when requested.
func loadConfig(root *CLI, g *GenerateCmd) (*config.Config, error) {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return nil, merrors.Wrap(err, merrors.CategoryConfig, merrors.SeverityFatal, "failed to load configuration")
	}
	cfg.SetupLogging(root.Verbose)

	g.apply(cfg)

	if g.Interactive {
		promptMissing(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, merrors.Wrap(err, merrors.CategoryValidation, merrors.SeverityFatal, "invalid configuration")
	}
	return cfg, nil
}

// apply copies set flags over the loaded configuration. Flags win.
func (g *GenerateCmd) apply(cfg *config.Config) {
	if g.Input != "" {
		cfg.Main.InputPath = g.Input
	}
	if g.MkdocsDir != "" {
		cfg.Main.MkdocsDir = g.MkdocsDir
	}
	if g.DocsDirName != "" {
		cfg.Main.DocsDirName = g.DocsDirName
	}
	if len(g.Ignore) > 0 {
		cfg.Ignore.Patterns = g.Ignore
	}
	if g.PagesDir != "" {
		cfg.Main.PagesDir = g.PagesDir
	}
	if g.DocguideDir != "" {
		cfg.Main.DocguideDir = g.DocguideDir
	}
	if g.OverlayFile != "" {
		cfg.Main.OverlayFile = g.OverlayFile
	}
	if g.Theme != "" {
		cfg.Main.Theme = g.Theme
	}
	if g.Provider != "" {
		cfg.LLM.Provider = g.Provider
	}
	if g.Model != "" {
		cfg.LLM.Model = g.Model
	}
	if g.BaseURL != "" {
		cfg.LLM.BaseURL = g.BaseURL
	}
	if g.APIKeyFile != "" {
		cfg.LLM.APIKeyFile = g.APIKeyFile
	}
	if g.Workers > 0 {
		cfg.Main.Workers = g.Workers
	}
	if g.Incremental {
		cfg.Main.Incremental = true
	}
	if g.CreateMkdocs {
		cfg.Main.CreateMkdocs = true
	}
}

// promptMissing asks on stdin for required settings the config and flags left
// empty. Empty answers leave the field empty; Validate reports them after.
func promptMissing(cfg *config.Config) {
	reader := bufio.NewReader(os.Stdin)
	ask := func(label string) string {
		fmt.Fprintf(os.Stderr, "%s: ", label)
		line, err := reader.ReadString('\n')
		if err != nil {
			return ""
		}
		return strings.TrimSpace(line)
	}

	if cfg.Main.InputPath == "" {
		cfg.Main.InputPath = ask("Input file or directory")
	}
	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = ask("LLM provider (gemini, openai, ollama)")
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = ask("Model name")
	}
	if cfg.LLM.Provider == "ollama" && cfg.LLM.BaseURL == "" {
		cfg.LLM.BaseURL = ask("Ollama base URL")
	}
	if cfg.LLM.Provider != "ollama" && cfg.LLM.APIKeyFile == "" {
		cfg.LLM.APIKeyFile = ask("API key file path")
	}
}

// runPipeline executes one full generation pass: provider setup, project
// bootstrap, document generation, pages, landing page, and nav update.
func runPipeline(ctx context.Context, cfg *config.Config) (*engine.Result, error) {
	provider, err := llm.FromConfig(cfg.LLM)
	if err != nil {
		return nil, err
	}

	// Unknown theme names fail before any generation spends tokens.
	theme, err := mkdocs.LookupTheme(cfg.Main.Theme)
	if err != nil {
		return nil, merrors.Wrap(err, merrors.CategoryConfig, merrors.SeverityFatal, "invalid theme")
	}

	if cfg.Main.CreateMkdocs {
		if err := mkdocs.EnsureProject(ctx, cfg.Main.MkdocsDir, cfg.Main.DocsDirName); err != nil {
			return nil, err
		}
	}
	mkdocs.EnableTheme(ctx, cfg.Main.Theme)

	var db *cache.Cache
	if cfg.Main.Incremental {
		db, err = cache.Open(filepath.Join(cfg.Main.MkdocsDir, cacheFileName))
		if err != nil {
			slog.Warn("Failed to open incremental cache, regenerating everything", logfields.Error(err))
		} else {
			defer db.Close()
		}
	}

	eng := engine.New(cfg, provider, db)

	res, err := eng.Process(ctx)
	if err != nil {
		return nil, err
	}

	pages, err := eng.ProcessPages(ctx)
	if err != nil {
		return nil, err
	}

	if err := eng.WriteIndex(ctx); err != nil {
		return nil, err
	}

	if err := updateNav(cfg, theme, res, pages); err != nil {
		return nil, err
	}

	slog.Info("Documentation run complete",
		logfields.RunID(eng.RunID()),
		logfields.Count(len(res.OutputPaths)),
		slog.Int("pages", len(pages)),
		slog.Int("failed", res.Failed))
	return res, nil
}

// updateNav runs one load-modify-save cycle on mkdocs.yml.
func updateNav(cfg *config.Config, theme mkdocs.Theme, res *engine.Result, pages []string) error {
	sc, err := mkdocs.LoadConfig(cfg.Main.MkdocsDir)
	if err != nil {
		return err
	}

	trimPrefix := ""
	if res.IsDirInput {
		trimPrefix = engine.APIDir + "/"
	}

	var tree *mkdocs.Node
	if len(res.OutputPaths) > 0 {
		tree = mkdocs.BuildNavTree(res.OutputPaths, trimPrefix)
	}

	mkdocs.UpdateNav(sc, mkdocs.UpdateOptions{
		Tree:       tree,
		IsDirInput: res.IsDirInput,
		APITitle:   cfg.Main.APISection,
		ExtraPages: pages,
		SiteName:   cfg.Project.Name,
		ThemeName:  theme.MkdocsName,
	})

	if cfg.Main.OverlayFile != "" {
		overlay, err := mkdocs.LoadOverlay(cfg.Main.OverlayFile)
		if err != nil {
			return err
		}
		sc.MergeOverlay(overlay)
	}

	return sc.Save(cfg.Main.APISection)
}
