// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"bytes"
	"html"
	"html/template"
	"strconv"

	"github.com/jeranaias/tradie/internal/markdown"
)

var htmlTemplate = template.Must(template.New("export").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="generator" content="tradie">
<title>{{.Title}}</title>
<style>
body { font-family: system-ui, sans-serif; max-width: 48rem; margin: 2rem auto; padding: 0 1rem; }
.meta { color: #666; font-size: .85rem; }
.card { border-radius: .5rem; padding: .75rem 1rem; margin: 1rem 0; }
.user { background: #dbeafe; }
.assistant { border: 1px solid #e5e7eb; }
.label { font-weight: 600; }
.time { color: #888; font-size: .75rem; margin-left: .5rem; }
.sources a { margin-right: .75rem; font-size: .85rem; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
{{if .Meta}}<p class="meta">{{range .Meta}}{{.}} {{end}}</p>{{end}}
{{range .Messages}}
<section class="card {{.Role}}">
<div><span class="label">{{.Label}}</span>{{if .Time}}<span class="time">{{.Time}}</span>{{end}}</div>
<div class="content">{{.Body}}</div>
{{if .Sources}}<div class="sources">{{range .Sources}}<a href="{{.URL}}" rel="noopener noreferrer">{{.Label}}</a>{{end}}</div>{{end}}
</section>
{{end}}
</body>
</html>
`))

type htmlSource struct {
	Label string
	URL   string
}

type htmlMessage struct {
	Role    string
	Label   string
	Time    string
	Body    template.HTML
	Sources []htmlSource
}

// HTMLExporter writes a standalone page. Assistant markdown is rendered;
// user text is escaped.
type HTMLExporter struct {
	options *Options
	md      *markdown.HTMLRenderer
}

// NewHTMLExporter creates an HTML exporter.
func NewHTMLExporter(opts *Options) *HTMLExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &HTMLExporter{options: opts, md: markdown.NewHTMLRenderer()}
}

// Export implements Exporter.
func (e *HTMLExporter) Export(doc Document) ([]byte, error) {
	if err := doc.validate(); err != nil {
		return nil, err
	}

	data := struct {
		Title    string
		Meta     []string
		Messages []htmlMessage
	}{Title: doc.Title()}

	if e.options.IncludeMetadata {
		if doc.Model != "" {
			data.Meta = append(data.Meta, "Model: "+doc.Model)
		}
		if doc.Symbol != "" {
			data.Meta = append(data.Meta, "Symbol: "+doc.Symbol)
		}
		data.Meta = append(data.Meta, "Exported: "+formatTimestamp(doc.ExportedAt))
	}

	for _, m := range doc.Messages {
		hm := htmlMessage{Role: m.Role.String(), Label: m.Role.DisplayName()}
		if e.options.IncludeTimestamps {
			hm.Time = formatShortTimestamp(m.Timestamp)
		}
		if m.IsUser() {
			hm.Body = template.HTML("<p>" + html.EscapeString(m.Content) + "</p>")
		} else {
			hm.Body = e.md.HTML(m.Content)
		}
		for i, url := range m.Citations {
			hm.Sources = append(hm.Sources, htmlSource{Label: "Source " + strconv.Itoa(i+1), URL: url})
		}
		data.Messages = append(data.Messages, hm)
	}

	var buf bytes.Buffer
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FileExtension implements Exporter.
func (e *HTMLExporter) FileExtension() string { return ".html" }

// MimeType implements Exporter.
func (e *HTMLExporter) MimeType() string { return "text/html" }
