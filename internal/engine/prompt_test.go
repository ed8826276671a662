package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"git.home.luguber.info/inful/meowdoc/internal/collect"
)

func TestBuildPrompt(t *testing.T) {
	target := collect.File{Path: "/src/mod_a.py", RelativePath: "mod_a.py"}
	contents := map[string]string{
		"mod_a.py":     "def a(): pass",
		"sub/mod_b.py": "def b(): pass",
	}

	prompt := buildPrompt(target, contents, "")

	assert.Contains(t, prompt, "## Target file: mod_a.py")
	assert.Contains(t, prompt, "def a(): pass")
	assert.Contains(t, prompt, "## Related file: sub/mod_b.py")
	assert.Contains(t, prompt, "def b(): pass")
	assert.NotContains(t, prompt, "## Related file: mod_a.py")
	assert.NotContains(t, prompt, "Additional instructions")

	// Instructions lead, target precedes context.
	assert.Less(t,
		strings.Index(prompt, "## Target file:"),
		strings.Index(prompt, "## Related file:"))
}

func TestBuildPromptWithGuide(t *testing.T) {
	target := collect.File{Path: "/src/mod_a.py", RelativePath: "mod_a.py"}
	contents := map[string]string{"mod_a.py": "def a(): pass"}

	prompt := buildPrompt(target, contents, "Mention the CLI entry point.")

	assert.Contains(t, prompt, "## Additional instructions for this file")
	assert.Contains(t, prompt, "Mention the CLI entry point.")
}

func TestBuildPromptDeterministicContextOrder(t *testing.T) {
	target := collect.File{RelativePath: "a.py"}
	contents := map[string]string{"a.py": "a", "c.py": "c", "b.py": "b"}

	first := buildPrompt(target, contents, "")
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, buildPrompt(target, contents, ""))
	}
	assert.Less(t,
		strings.Index(first, "## Related file: b.py"),
		strings.Index(first, "## Related file: c.py"))
}
