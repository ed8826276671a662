// Package config loads and validates the meowdoc configuration file.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/meowdoc/internal/ignore"
)

// Config represents the application configuration
type Config struct {
	Main    MainConfig    `yaml:"main"`
	Ignore  IgnoreConfig  `yaml:"ignore"`
	Project ProjectConfig `yaml:"project"`
	LLM     LLMConfig     `yaml:"llm"`
	Logging LoggingConfig `yaml:"logging,omitempty"`
}

// MainConfig controls input selection and the mkdocs project layout.
type MainConfig struct {
	InputPath    string `yaml:"input_path"`
	MkdocsDir    string `yaml:"mkdocs_dir,omitempty"`    // mkdocs project directory
	DocsDirName  string `yaml:"docs_dir_name,omitempty"` // docs directory inside the mkdocs project
	CreateMkdocs bool   `yaml:"create_mkdocs,omitempty"` // bootstrap a project when missing
	PagesDir     string `yaml:"pages_dir,omitempty"`     // freeform documentation pages root
	DocguideDir  string `yaml:"docguide_dir,omitempty"`  // per-file prompt override root
	OverlayFile  string `yaml:"overlay_file,omitempty"`  // user-authored mkdocs.yml fragment
	APISection   string `yaml:"api_section,omitempty"`   // nav section title for generated docs
	Theme        string `yaml:"theme,omitempty"`
	Workers      int    `yaml:"workers,omitempty"` // bounded pool size for LLM calls
	Incremental  bool   `yaml:"incremental,omitempty"`
}

// IgnoreConfig holds the glob patterns excluded from collection.
type IgnoreConfig struct {
	Patterns ignore.RuleSet `yaml:"patterns"`
}

// ProjectConfig describes the documented project for the landing page.
type ProjectConfig struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	RepoURL     string `yaml:"repo_url,omitempty"`
}

// LLMConfig selects and configures the generation backend.
type LLMConfig struct {
	Provider      string `yaml:"provider"`
	APIKeyFile    string `yaml:"api_key_file,omitempty"`
	BaseURL       string `yaml:"base_url,omitempty"`
	Model         string `yaml:"model,omitempty"`
	ContextWindow int    `yaml:"context_window,omitempty"` // ollama num_ctx
}

// LoggingConfig controls slog output.
type LoggingConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
}

// DefaultWorkers bounds concurrent LLM calls; providers rate limit, so an
// unbounded pool is never acceptable.
const DefaultWorkers = 4

// Load loads configuration from the specified file
func Load(configPath string) (*Config, error) {
	// Load .env if present so ${VAR} expansion below can see it.
	if err := godotenv.Load(); err == nil {
		fmt.Fprintln(os.Stderr, "Loaded environment variables from .env")
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the YAML content
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Main.MkdocsDir == "" {
		c.Main.MkdocsDir = "docs"
	}
	if c.Main.DocsDirName == "" {
		c.Main.DocsDirName = "docs"
	}
	if c.Main.DocguideDir == "" {
		c.Main.DocguideDir = "docguide"
	}
	if c.Main.APISection == "" {
		c.Main.APISection = "API"
	}
	if c.Main.Theme == "" {
		c.Main.Theme = "material"
	}
	if c.Main.Workers <= 0 {
		c.Main.Workers = DefaultWorkers
	}
	if len(c.Ignore.Patterns) == 0 {
		c.Ignore.Patterns = ignore.DefaultPatterns
	}
	if c.LLM.ContextWindow <= 0 {
		c.LLM.ContextWindow = 4096
	}
	if c.Logging.Level == "" {
		c.Logging.Level = string(LogLevelInfo)
	}
	if c.Logging.Format == "" {
		c.Logging.Format = string(LogFormatText)
	}
}

// Validate checks fields that must be set before a generation run starts.
func (c *Config) Validate() error {
	if c.Main.InputPath == "" {
		return fmt.Errorf("main.input_path is required")
	}
	if c.LLM.Provider == "" {
		return fmt.Errorf("llm.provider is required")
	}
	return nil
}

// Init creates a new configuration file with example content
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	example := Config{
		Main: MainConfig{
			InputPath:    "./src",
			MkdocsDir:    "docs",
			DocsDirName:  "docs",
			CreateMkdocs: true,
			PagesDir:     "pages",
			DocguideDir:  "docguide",
			APISection:   "API",
			Theme:        "material",
			Workers:      DefaultWorkers,
		},
		Ignore: IgnoreConfig{Patterns: ignore.DefaultPatterns},
		Project: ProjectConfig{
			Name:        "my-project",
			Description: "What this project does",
			RepoURL:     "https://github.com/example/my-project",
		},
		LLM: LLMConfig{
			Provider:      "ollama",
			BaseURL:       "http://localhost:11434",
			Model:         "llama3.1",
			ContextWindow: 4096,
		},
	}

	data, err := yaml.Marshal(&example)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
