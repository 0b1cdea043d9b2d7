// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package markdown

import (
	"bytes"
	"fmt"
	"html"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// HTMLRenderer converts markdown to HTML. Raw HTML in the input is escaped.
type HTMLRenderer struct {
	md goldmark.Markdown
}

// NewHTMLRenderer creates an HTML renderer with GitHub-flavored extensions.
func NewHTMLRenderer() *HTMLRenderer {
	return &HTMLRenderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(gmhtml.WithHardWraps()),
		),
	}
}

// Render implements Renderer. Width is ignored.
func (r *HTMLRenderer) Render(text string, _ int) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(text), &buf); err != nil {
		return text, fmt.Errorf("convert markdown: %w", err)
	}
	return buf.String(), nil
}

// HTML renders text for direct use in a template. On error the text is
// shown escaped in a paragraph.
func (r *HTMLRenderer) HTML(text string) template.HTML {
	out, err := r.Render(text, 0)
	if err != nil {
		return template.HTML("<p>" + html.EscapeString(text) + "</p>")
	}
	return template.HTML(out)
}
