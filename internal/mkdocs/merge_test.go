package mkdocs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeMapsPrecedence(t *testing.T) {
	dst := map[string]any{
		"a": 1,
		"b": map[string]any{"c": 2, "d": 3},
	}
	src := map[string]any{
		"b": map[string]any{"c": 4, "e": 5},
		"f": 6,
	}

	MergeMaps(dst, src)

	assert.Equal(t, map[string]any{
		"a": 1,
		"b": map[string]any{"c": 4, "d": 3, "e": 5},
		"f": 6,
	}, dst)
}

func TestMergeMapsSequencesReplace(t *testing.T) {
	dst := map[string]any{
		"nav": []any{map[string]any{"Home": "index.md"}, map[string]any{"API": []any{}}},
	}
	src := map[string]any{
		"nav": []any{map[string]any{"Everything": "all.md"}},
	}

	MergeMaps(dst, src)

	// Sequences are replaced wholesale, never concatenated.
	assert.Equal(t, []any{map[string]any{"Everything": "all.md"}}, dst["nav"])
}

func TestMergeMapsNilSource(t *testing.T) {
	dst := map[string]any{"a": 1}
	MergeMaps(dst, nil)
	assert.Equal(t, map[string]any{"a": 1}, dst)
}

func TestMergeMapsDoesNotAliasSource(t *testing.T) {
	src := map[string]any{"theme": map[string]any{"name": "material"}}
	dst := map[string]any{}
	MergeMaps(dst, src)

	dst["theme"].(map[string]any)["name"] = "dracula"
	assert.Equal(t, "material", src["theme"].(map[string]any)["name"],
		"merging must copy nested maps, not alias them")
}

func TestLoadOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overlay.yml")
	require.NoError(t, os.WriteFile(path, []byte("theme:\n  palette: slate\nextra:\n  analytics: false\n"), 0o644))

	overlay, err := LoadOverlay(path)
	require.NoError(t, err)
	assert.Equal(t, "slate", overlay["theme"].(map[string]any)["palette"])

	_, err = LoadOverlay(filepath.Join(t.TempDir(), "missing.yml"))
	require.Error(t, err)
}

func TestMergeOverlayIntoConfig(t *testing.T) {
	sc := newTestConfig(map[string]any{
		"site_name": "demo",
		"theme":     map[string]any{"name": "material"},
	})
	sc.MergeOverlay(map[string]any{
		"theme": map[string]any{"palette": "slate"},
	})

	assert.Equal(t, map[string]any{"name": "material", "palette": "slate"}, sc.Doc["theme"])
	assert.Equal(t, "demo", sc.Doc["site_name"])
}
