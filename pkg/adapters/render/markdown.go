// Package render turns articles into HTML.
package render

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/aretw0/folio/pkg/core"
)

// Markdown implements core.Markdown with goldmark. Raw HTML in the source
// is passed through untouched.
type Markdown struct {
	md goldmark.Markdown
}

// NewMarkdown returns a GitHub flavored markdown converter.
func NewMarkdown() *Markdown {
	return &Markdown{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(html.WithUnsafe()),
		),
	}
}

// Render implements core.Markdown. On a conversion error the source is returned as is.
func (m *Markdown) Render(src string) string {
	var buf bytes.Buffer
	if err := m.md.Convert([]byte(src), &buf); err != nil {
		return src
	}
	return buf.String()
}

var _ core.Markdown = (*Markdown)(nil)
