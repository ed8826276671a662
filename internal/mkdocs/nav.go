// Package mkdocs synthesizes and maintains the mkdocs.yml navigation for
// generated documentation.
package mkdocs

import (
	"path"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Node is one entry of the navigation tree: a leaf pointing at a document, or
// a section holding children. Path is non-empty exactly for leaves.
type Node struct {
	Title    string
	Path     string
	Children []*Node
}

// IsLeaf reports whether the node points at a document.
func (n *Node) IsLeaf() bool { return n.Path != "" }

func (n *Node) childSection(title string) *Node {
	for _, c := range n.Children {
		if !c.IsLeaf() && c.Title == title {
			return c
		}
	}
	return nil
}

// BuildNavTree converts docs-relative output paths into a navigation tree.
//
// Directory segments become nested sections keyed by directory name, created
// on first encounter and reused for later paths sharing the prefix. The final
// segment becomes a leaf titled with a human-readable form of the filename.
// Children keep first-insertion order; the input order is the display order.
//
// trimPrefix is removed from each path before structure is derived, but leaf
// Path values keep the full input path, so callers can build a subtree for a
// section (e.g. "api/") whose leaves still address the docs root.
func BuildNavTree(outputPaths []string, trimPrefix string) *Node {
	root := &Node{}
	for _, p := range outputPaths {
		structure := strings.TrimPrefix(p, trimPrefix)
		parts := strings.Split(structure, "/")

		cur := root
		for _, dir := range parts[:len(parts)-1] {
			next := cur.childSection(dir)
			if next == nil {
				next = &Node{Title: dir}
				cur.Children = append(cur.Children, next)
			}
			cur = next
		}

		cur.Children = append(cur.Children, &Node{
			Title: humanTitle(parts[len(parts)-1]),
			Path:  p,
		})
	}
	return root
}

var titleCaser = cases.Title(language.English)

// humanTitle turns a generated filename into a display title:
// "http_client.md" -> "Http Client".
func humanTitle(filename string) string {
	name := strings.TrimSuffix(filename, path.Ext(filename))
	name = strings.NewReplacer("_", " ", "-", " ").Replace(name)
	return titleCaser.String(name)
}

// navEntries converts children of a tree node to the mkdocs nav form:
// a sequence of single-key mappings, leaf values being document paths and
// section values being nested sequences.
func navEntries(children []*Node) []any {
	entries := make([]any, 0, len(children))
	for _, c := range children {
		if c.IsLeaf() {
			entries = append(entries, map[string]any{c.Title: c.Path})
			continue
		}
		entries = append(entries, map[string]any{c.Title: navEntries(c.Children)})
	}
	return entries
}

// UpdateOptions carries one nav-update pass.
type UpdateOptions struct {
	Tree       *Node    // generated docs tree; nil when only extra pages changed
	IsDirInput bool     // directory inputs nest under the API section
	APITitle   string   // section title for generated docs, usually "API"
	ExtraPages []string // docs-relative paths of freeform pages
	SiteName   string
	ThemeName  string // mkdocs theme name, already resolved from the theme table
}

// UpdateNav merges a generated navigation tree into the site configuration.
//
// Directory inputs land under the section titled opts.APITitle, which is
// created if absent and extended otherwise; the structural dedup pass at save
// time keeps re-runs from duplicating unchanged entries. Single-file inputs
// append one leaf at the top level, updating in place when an entry for the
// same path already exists. Extra pages are appended at the top level unless
// their path is already present.
func UpdateNav(sc *SiteConfig, opts UpdateOptions) {
	nav := sc.Nav()

	if opts.Tree != nil {
		if opts.IsDirInput {
			nav = updateAPISection(nav, opts.Tree, opts.APITitle)
		} else {
			for _, leaf := range opts.Tree.Children {
				if leaf.IsLeaf() {
					nav = upsertLeaf(nav, leaf.Title, leaf.Path)
				}
			}
		}
	}

	for _, page := range opts.ExtraPages {
		if !navContainsPath(nav, page) {
			nav = append(nav, map[string]any{humanTitle(path.Base(page)): page})
		}
	}

	sc.SetNav(nav)
	if opts.SiteName != "" {
		sc.Set("site_name", opts.SiteName)
	}
	if opts.ThemeName != "" {
		sc.Set("theme", map[string]any{"name": opts.ThemeName})
	}
}

func updateAPISection(nav []any, tree *Node, apiTitle string) []any {
	entries := navEntries(tree.Children)

	for _, item := range nav {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if existing, found := m[apiTitle]; found {
			if seq, ok := existing.([]any); ok {
				m[apiTitle] = append(seq, entries...)
			} else {
				m[apiTitle] = entries
			}
			return nav
		}
	}
	return append(nav, map[string]any{apiTitle: entries})
}

// upsertLeaf appends {title: path}, or retitles the entry already holding path.
func upsertLeaf(nav []any, title, path string) []any {
	for i, item := range nav {
		m, ok := item.(map[string]any)
		if !ok || len(m) != 1 {
			continue
		}
		for _, v := range m {
			if s, ok := v.(string); ok && s == path {
				nav[i] = map[string]any{title: path}
				return nav
			}
		}
	}
	return append(nav, map[string]any{title: path})
}

func navContainsPath(nav []any, path string) bool {
	for _, item := range nav {
		switch v := item.(type) {
		case string:
			if v == path {
				return true
			}
		case map[string]any:
			for _, val := range v {
				switch inner := val.(type) {
				case string:
					if inner == path {
						return true
					}
				case []any:
					if navContainsPath(inner, path) {
						return true
					}
				}
			}
		}
	}
	return false
}
