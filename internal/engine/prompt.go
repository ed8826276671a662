package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"git.home.luguber.info/inful/meowdoc/internal/collect"
)

// docGuideSuffix is appended to a source file's relative path to locate its
// per-file prompt override inside the doc guide directory.
const docGuideSuffix = ".md"

const promptInstructions = `You are a technical writer producing reference documentation.
Write Markdown documentation for the target file below. Structure the document with:
- a top-level heading naming the file
- a short overview of what the file is for
- a section per public type, function, or class describing its purpose, parameters, and return values
- usage notes or examples where the code makes them obvious

Document only what the target file contains. The other files are provided as
context so you can describe how the target fits into the project; do not
document them. Respond with Markdown only, no surrounding commentary.`

// buildPrompt assembles the generation prompt for one target file: fixed
// instructions, the target's full content, every sibling file as related
// context, and an optional per-file guide.
//
// There is no size cap on the related context. That is a known scaling limit
// for large trees; callers control cost through ignore patterns instead.
func buildPrompt(target collect.File, contents map[string]string, guide string) string {
	var b strings.Builder

	b.WriteString(promptInstructions)
	b.WriteString("\n\n## Target file: ")
	b.WriteString(target.RelativePath)
	b.WriteString("\n\n```\n")
	b.WriteString(contents[target.RelativePath])
	b.WriteString("\n```\n")

	for _, f := range sortedKeys(contents) {
		if f == target.RelativePath {
			continue
		}
		fmt.Fprintf(&b, "\n## Related file: %s\n\n```\n%s\n```\n", f, contents[f])
	}

	if guide != "" {
		b.WriteString("\n## Additional instructions for this file\n\n")
		b.WriteString(guide)
		b.WriteString("\n")
	}

	return b.String()
}

// loadDocGuide reads the guide file matching rel inside the doc guide
// directory, if one exists. Absence is the normal case and returns "".
func (e *Engine) loadDocGuide(rel string) string {
	dir := e.cfg.Main.DocguideDir
	if dir == "" {
		return ""
	}
	path := filepath.Join(dir, filepath.FromSlash(rel)+docGuideSuffix)
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return string(data)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
