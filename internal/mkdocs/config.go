package mkdocs

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	merrors "git.home.luguber.info/inful/meowdoc/internal/errors"
)

// ConfigFileName is the mkdocs configuration file inside the project dir.
const ConfigFileName = "mkdocs.yml"

// SiteConfig is the in-memory mkdocs.yml document for one load-modify-save
// cycle. It is reloaded fresh on every run; nothing survives the process.
type SiteConfig struct {
	Doc  map[string]any
	path string
}

// ConfigPath returns the mkdocs.yml location for a project directory.
func ConfigPath(mkdocsDir string) string {
	return filepath.Join(mkdocsDir, ConfigFileName)
}

// LoadConfig reads and parses mkdocs.yml.
//
// A missing file is a hard error: the project must be bootstrapped first.
// Repeated mapping keys (a residue of earlier merge-and-rewrite passes) are
// resolved last-wins before decoding; standard decoding would reject them.
func LoadConfig(mkdocsDir string) (*SiteConfig, error) {
	path := ConfigPath(mkdocsDir)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, merrors.NavError(err, "mkdocs.yml not found, create a mkdocs project first")
		}
		return nil, merrors.NavError(err, "failed to read mkdocs.yml")
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, merrors.NavError(err, "failed to parse mkdocs.yml")
	}

	dedupeMappingKeys(&root)

	doc := map[string]any{}
	if root.Kind != 0 { // zero Kind means the file was empty
		if err := root.Decode(&doc); err != nil {
			return nil, merrors.NavError(err, "failed to decode mkdocs.yml")
		}
	}

	return &SiteConfig{Doc: doc, path: path}, nil
}

// Save structurally dedupes the API sections and writes the document back as
// a whole-file overwrite. No locking: concurrent edits race, last writer wins.
func (sc *SiteConfig) Save(apiTitle string) error {
	DedupeAPISections(sc.Doc, apiTitle)

	data, err := yaml.Marshal(sc.Doc)
	if err != nil {
		return merrors.NavError(err, "failed to marshal mkdocs.yml")
	}
	if err := os.WriteFile(sc.path, data, 0o644); err != nil {
		return merrors.NavError(err, "failed to write mkdocs.yml")
	}
	return nil
}

// Nav returns the top-level nav sequence, creating an empty one if absent.
func (sc *SiteConfig) Nav() []any {
	if nav, ok := sc.Doc["nav"].([]any); ok {
		return nav
	}
	return []any{}
}

// SetNav replaces the top-level nav sequence.
func (sc *SiteConfig) SetNav(nav []any) {
	sc.Doc["nav"] = nav
}

// Set assigns a top-level key.
func (sc *SiteConfig) Set(key string, value any) {
	sc.Doc[key] = value
}

// String renders the current document for debugging.
func (sc *SiteConfig) String() string {
	data, err := yaml.Marshal(sc.Doc)
	if err != nil {
		return fmt.Sprintf("<unmarshalable: %v>", err)
	}
	return string(data)
}
