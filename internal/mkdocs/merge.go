package mkdocs

import (
	"os"

	"gopkg.in/yaml.v3"

	merrors "git.home.luguber.info/inful/meowdoc/internal/errors"
)

// MergeMaps deep-merges src into dst (map[string]any).
// - Maps: merged recursively
// - Slices & scalars: replaced.
//
// The asymmetry is intentional: an overlay can override the entire nav while
// still adding keys incrementally under mappings like theme or plugins.
func MergeMaps(dst, src map[string]any) {
	if src == nil {
		return
	}
	for k, v := range src {
		if mv, ok := v.(map[string]any); ok {
			if existing, ok2 := dst[k].(map[string]any); ok2 {
				MergeMaps(existing, mv)
			} else {
				cp := map[string]any{}
				MergeMaps(cp, mv)
				dst[k] = cp
			}
			continue
		}
		dst[k] = v
	}
}

// LoadOverlay reads a user-authored mkdocs.yml fragment. A missing file is an
// error; callers only ask for an overlay the configuration names.
func LoadOverlay(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, merrors.Wrap(err, merrors.CategoryNav, merrors.SeverityFatal, "failed to read overlay file")
	}
	overlay := map[string]any{}
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return nil, merrors.NavError(err, "failed to parse overlay file")
	}
	return overlay, nil
}

// MergeOverlay applies a user overlay onto the site configuration.
func (sc *SiteConfig) MergeOverlay(overlay map[string]any) {
	MergeMaps(sc.Doc, overlay)
}
