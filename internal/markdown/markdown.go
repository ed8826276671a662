// Package markdown provides lightweight analysis of generated Markdown.
// It is used to sanity-check LLM output before it lands in the nav.
package markdown

import (
	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Heading is a single heading extracted from a document.
type Heading struct {
	Level int
	Text  string
}

// ExtractHeadings parses a Markdown body and returns its headings in
// document order.
//
// This is an analysis API; it does not attempt to re-render Markdown.
func ExtractHeadings(body []byte) []Heading {
	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(body))

	headings := make([]Heading, 0)
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		if h, ok := n.(*gmast.Heading); ok {
			headings = append(headings, Heading{
				Level: h.Level,
				Text:  string(headingText(h, body)),
			})
		}
		return gmast.WalkContinue, nil
	})
	return headings
}

// LooksLikeDocument reports whether body parses to something with at least
// one heading. LLMs occasionally answer with an apology or an empty string;
// those should be flagged rather than wired into the site nav silently.
func LooksLikeDocument(body []byte) bool {
	if len(body) == 0 {
		return false
	}
	return len(ExtractHeadings(body)) > 0
}

func headingText(h *gmast.Heading, source []byte) []byte {
	var out []byte
	for c := h.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*gmast.Text); ok {
			out = append(out, t.Segment.Value(source)...)
		}
	}
	return out
}
