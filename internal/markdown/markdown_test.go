package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractHeadings(t *testing.T) {
	body := []byte(`# Module overview

Some prose.

## Functions

### parse

More prose.
`)

	headings := ExtractHeadings(body)
	assert.Equal(t, []Heading{
		{Level: 1, Text: "Module overview"},
		{Level: 2, Text: "Functions"},
		{Level: 3, Text: "parse"},
	}, headings)
}

func TestExtractHeadingsEmpty(t *testing.T) {
	assert.Empty(t, ExtractHeadings(nil))
	assert.Empty(t, ExtractHeadings([]byte("just a paragraph")))
}

func TestLooksLikeDocument(t *testing.T) {
	assert.True(t, LooksLikeDocument([]byte("# Title\n\nbody")))
	assert.False(t, LooksLikeDocument([]byte("")))
	assert.False(t, LooksLikeDocument([]byte("I'm sorry, I can't help with that.")))
}
