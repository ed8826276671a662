package engine

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessPagesMissingDir(t *testing.T) {
	cfg := testConfig(t.TempDir(), t.TempDir())
	cfg.Main.PagesDir = filepath.Join(t.TempDir(), "nope")

	out, err := New(cfg, &fakeProvider{}, nil).ProcessPages(context.Background())
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestProcessPagesUnconfigured(t *testing.T) {
	cfg := testConfig(t.TempDir(), t.TempDir())

	out, err := New(cfg, &fakeProvider{}, nil).ProcessPages(context.Background())
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestProcessPagesCopiesPlainMarkdown(t *testing.T) {
	site := t.TempDir()
	pages := t.TempDir()
	writeTree(t, pages, map[string]string{
		"guide.md":          "# Guide\n\nhand written\n",
		"nested/notes.md":   "# Notes\n",
		"ignored_asset.txt": "not markdown\n",
	})

	cfg := testConfig(t.TempDir(), site)
	cfg.Main.PagesDir = pages

	p := &fakeProvider{}
	out, err := New(cfg, p, nil).ProcessPages(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"guide.md", "nested/notes.md"}, out)
	assert.Zero(t, p.callCount())

	data, err := os.ReadFile(filepath.Join(site, "docs", "guide.md"))
	require.NoError(t, err)
	assert.Equal(t, "# Guide\n\nhand written\n", string(data))
}

func TestProcessPagesGeneratesMarkedPages(t *testing.T) {
	site := t.TempDir()
	pages := t.TempDir()
	writeTree(t, pages, map[string]string{
		"intro.ai.md": "Write an introduction for the project.\n",
	})

	cfg := testConfig(t.TempDir(), site)
	cfg.Main.PagesDir = pages

	p := &fakeProvider{fn: func(prompt string) (string, error) {
		return "# Introduction\n\ngenerated\n", nil
	}}
	out, err := New(cfg, p, nil).ProcessPages(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"intro.md"}, out)
	require.Equal(t, 1, p.callCount())
	assert.Equal(t, "Write an introduction for the project.\n", p.prompts[0])

	data, err := os.ReadFile(filepath.Join(site, "docs", "intro.md"))
	require.NoError(t, err)
	assert.Equal(t, "# Introduction\n\ngenerated\n", string(data))

	// The marker name itself must not leak into the docs tree.
	_, statErr := os.Stat(filepath.Join(site, "docs", "intro.ai.md"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestProcessPagesPartialFailure(t *testing.T) {
	site := t.TempDir()
	pages := t.TempDir()
	writeTree(t, pages, map[string]string{
		"good.md":   "# Good\n",
		"bad.ai.md": "prompt\n",
	})

	cfg := testConfig(t.TempDir(), site)
	cfg.Main.PagesDir = pages

	p := &fakeProvider{fn: func(prompt string) (string, error) {
		if strings.Contains(prompt, "prompt") {
			return "", errors.New("backend down")
		}
		return "# ok\n", nil
	}}
	out, err := New(cfg, p, nil).ProcessPages(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"good.md"}, out)
}
