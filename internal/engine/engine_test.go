package engine

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/meowdoc/internal/cache"
	"git.home.luguber.info/inful/meowdoc/internal/config"
	"git.home.luguber.info/inful/meowdoc/internal/ignore"
)

type fakeProvider struct {
	mu      sync.Mutex
	prompts []string
	fn      func(prompt string) (string, error)
}

func (f *fakeProvider) Generate(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()
	if f.fn != nil {
		return f.fn(prompt)
	}
	return "# Generated\n\nbody\n", nil
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
}

func testConfig(input, mkdocsDir string) *config.Config {
	return &config.Config{
		Main: config.MainConfig{
			InputPath:   input,
			MkdocsDir:   mkdocsDir,
			DocsDirName: "docs",
			APISection:  "API",
			Workers:     2,
		},
		Ignore: config.IgnoreConfig{Patterns: ignore.DefaultPatterns},
	}
}

func TestProcessMirrorsInputTree(t *testing.T) {
	input := t.TempDir()
	site := t.TempDir()
	writeTree(t, input, map[string]string{
		"mod_a.py":     "def a(): pass\n",
		"sub/mod_b.py": "def b(): pass\n",
	})

	e := New(testConfig(input, site), &fakeProvider{}, nil)
	res, err := e.Process(context.Background())
	require.NoError(t, err)

	assert.True(t, res.IsDirInput)
	assert.Zero(t, res.Failed)
	assert.Equal(t, []string{"api/mod_a.md", "api/sub/mod_b.md"}, res.OutputPaths)

	data, err := os.ReadFile(filepath.Join(site, "docs", "api", "sub", "mod_b.md"))
	require.NoError(t, err)
	assert.Equal(t, "# Generated\n\nbody\n", string(data))
}

func TestProcessSingleFileInput(t *testing.T) {
	input := t.TempDir()
	site := t.TempDir()
	writeTree(t, input, map[string]string{"util.py": "x = 1\n"})

	e := New(testConfig(filepath.Join(input, "util.py"), site), &fakeProvider{}, nil)
	res, err := e.Process(context.Background())
	require.NoError(t, err)

	assert.False(t, res.IsDirInput)
	assert.Equal(t, []string{"util.md"}, res.OutputPaths)
	_, err = os.Stat(filepath.Join(site, "docs", "util.md"))
	assert.NoError(t, err)
}

// One failing generation out of five drops that file without aborting the
// batch and without disturbing the order of the survivors.
func TestProcessPartialFailure(t *testing.T) {
	input := t.TempDir()
	site := t.TempDir()
	writeTree(t, input, map[string]string{
		"a.py": "a\n", "b.py": "b\n", "c.py": "c\n", "d.py": "d\n", "e.py": "e\n",
	})

	p := &fakeProvider{fn: func(prompt string) (string, error) {
		if strings.Contains(prompt, "Target file: c.py") {
			return "", errors.New("rate limited")
		}
		return "# Doc\n", nil
	}}

	e := New(testConfig(input, site), p, nil)
	res, err := e.Process(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, []string{"api/a.md", "api/b.md", "api/d.md", "api/e.md"}, res.OutputPaths)
	_, statErr := os.Stat(filepath.Join(site, "docs", "api", "c.md"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestProcessIgnoresPatterns(t *testing.T) {
	input := t.TempDir()
	site := t.TempDir()
	writeTree(t, input, map[string]string{
		"keep.py":          "k\n",
		".venv/lib/mod.py": "ignored\n",
	})

	e := New(testConfig(input, site), &fakeProvider{}, nil)
	res, err := e.Process(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"api/keep.md"}, res.OutputPaths)
}

func TestProcessDocGuideAppendedToPrompt(t *testing.T) {
	input := t.TempDir()
	site := t.TempDir()
	guide := t.TempDir()
	writeTree(t, input, map[string]string{"mod_a.py": "def a(): pass\n"})
	writeTree(t, guide, map[string]string{"mod_a.py.md": "Emphasize thread safety.\n"})

	cfg := testConfig(input, site)
	cfg.Main.DocguideDir = guide

	p := &fakeProvider{}
	e := New(cfg, p, nil)
	_, err := e.Process(context.Background())
	require.NoError(t, err)

	require.Equal(t, 1, p.callCount())
	assert.Contains(t, p.prompts[0], "Emphasize thread safety.")
	assert.Contains(t, p.prompts[0], "def a(): pass")
}

func TestProcessIncrementalSkipsUnchanged(t *testing.T) {
	input := t.TempDir()
	site := t.TempDir()
	writeTree(t, input, map[string]string{"mod_a.py": "def a(): pass\n"})

	db, err := cache.Open(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	defer db.Close()

	p := &fakeProvider{}
	cfg := testConfig(input, site)

	res, err := New(cfg, p, db).Process(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"api/mod_a.md"}, res.OutputPaths)
	require.Equal(t, 1, p.callCount())

	// Unchanged source: the second pass reuses the written document.
	res, err = New(cfg, p, db).Process(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"api/mod_a.md"}, res.OutputPaths)
	assert.Equal(t, 1, p.callCount())

	// Changed source regenerates.
	writeTree(t, input, map[string]string{"mod_a.py": "def a(): return 2\n"})
	res, err = New(cfg, p, db).Process(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"api/mod_a.md"}, res.OutputPaths)
	assert.Equal(t, 2, p.callCount())
}

func TestProcessEmptyInput(t *testing.T) {
	input := t.TempDir()
	site := t.TempDir()

	p := &fakeProvider{}
	res, err := New(testConfig(input, site), p, nil).Process(context.Background())
	require.NoError(t, err)
	assert.Empty(t, res.OutputPaths)
	assert.Zero(t, p.callCount())
}
