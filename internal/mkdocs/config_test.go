package mkdocs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	merrors "git.home.luguber.info/inful/meowdoc/internal/errors"
)

func writeMkdocsYml(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(ConfigPath(dir), []byte(content), 0o644))
	return dir
}

func TestLoadConfig(t *testing.T) {
	dir := writeMkdocsYml(t, `site_name: demo
theme:
  name: material
nav:
  - Home: index.md
`)

	sc, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "demo", sc.Doc["site_name"])
	require.Len(t, sc.Nav(), 1)
}

func TestLoadConfigMissingIsFatal(t *testing.T) {
	_, err := LoadConfig(t.TempDir())
	require.Error(t, err)
	assert.True(t, merrors.IsCategory(err, merrors.CategoryNav))
	assert.True(t, merrors.IsFatal(err))
}

func TestLoadConfigMalformedIsFatal(t *testing.T) {
	dir := writeMkdocsYml(t, "site_name: [unclosed\n")
	_, err := LoadConfig(dir)
	require.Error(t, err)
	assert.True(t, merrors.IsCategory(err, merrors.CategoryNav))
}

// A raw document with a repeated top-level key re-serializes with only the
// last value retained.
func TestLoadConfigDuplicateKeysLastWins(t *testing.T) {
	dir := writeMkdocsYml(t, `site_name: first
site_name: second
nav:
  - Home: index.md
`)

	sc, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "second", sc.Doc["site_name"])

	require.NoError(t, sc.Save("API"))

	reloaded, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "second", reloaded.Doc["site_name"])
}

func TestLoadConfigEmptyFile(t *testing.T) {
	dir := writeMkdocsYml(t, "")
	sc, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Empty(t, sc.Nav())
}

// Writing, reloading, and re-serializing yields the same semantic content.
func TestSaveRoundTrip(t *testing.T) {
	dir := writeMkdocsYml(t, "site_name: placeholder\n")

	sc, err := LoadConfig(dir)
	require.NoError(t, err)

	UpdateNav(sc, UpdateOptions{
		Tree:       BuildNavTree([]string{"api/mod_a.md", "api/sub/mod_b.md"}, "api/"),
		IsDirInput: true,
		APITitle:   "API",
		SiteName:   "demo",
		ThemeName:  "material",
	})
	require.NoError(t, sc.Save("API"))

	first, err := LoadConfig(dir)
	require.NoError(t, err)
	require.NoError(t, first.Save("API"))

	second, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, first.Doc, second.Doc)
}

// Re-running generation over an unchanged tree must not duplicate entries.
func TestRepeatedUpdateIsIdempotent(t *testing.T) {
	dir := writeMkdocsYml(t, "site_name: demo\n")

	paths := []string{"api/mod_a.md", "api/sub/mod_b.md"}
	for i := 0; i < 3; i++ {
		sc, err := LoadConfig(dir)
		require.NoError(t, err)
		UpdateNav(sc, UpdateOptions{
			Tree:       BuildNavTree(paths, "api/"),
			IsDirInput: true,
			APITitle:   "API",
			SiteName:   "demo",
			ThemeName:  "material",
		})
		require.NoError(t, sc.Save("API"))
	}

	sc, err := LoadConfig(dir)
	require.NoError(t, err)

	var api []any
	for _, item := range sc.Nav() {
		if m, ok := item.(map[string]any); ok {
			if seq, ok := m["API"].([]any); ok {
				api = seq
			}
		}
	}
	require.Len(t, api, 2)
	assert.Equal(t, map[string]any{"Mod A": "api/mod_a.md"}, api[0])
}

func TestLookupTheme(t *testing.T) {
	th, err := LookupTheme("material")
	require.NoError(t, err)
	assert.Equal(t, "material", th.MkdocsName)
	assert.Equal(t, "mkdocs-material", th.PackageName)

	th, err = LookupTheme("default")
	require.NoError(t, err)
	assert.Empty(t, th.MkdocsName)

	_, err = LookupTheme("solarized")
	require.Error(t, err)
}

func TestProjectExists(t *testing.T) {
	dir := t.TempDir()
	assert.False(t, ProjectExists(dir))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("site_name: x\n"), 0o644))
	assert.True(t, ProjectExists(dir))
}
