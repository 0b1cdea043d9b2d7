// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"bytes"
	"html/template"
	"net/http"
	"strconv"
	"time"
)

var panelTemplate = template.Must(template.New("panel").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Chat with Tradie</title>
<style>
body { font-family: system-ui, sans-serif; max-width: 48rem; margin: 2rem auto; padding: 0 1rem; background: #f7f7f8; }
header h1 { margin-bottom: 0; }
header p { color: #666; margin-top: .25rem; }
.card { border-radius: .5rem; padding: .75rem 1rem; margin: 1rem 0; }
.user { background: #dbeafe; margin-left: 4rem; }
.assistant { background: #fff; margin-right: 4rem; border: 1px solid #e5e7eb; }
.label { font-weight: 600; font-size: .85rem; }
.time { color: #888; font-size: .75rem; margin-left: .5rem; }
.sources a { margin-right: .75rem; font-size: .85rem; }
.status { color: #666; font-style: italic; }
</style>
</head>
<body>
<header>
<h1>Chat with Tradie</h1>
<p>Ask me about market events, stock movements, or company news</p>
{{if .Symbol}}<p>Symbol: <strong>{{.Symbol}}</strong></p>{{end}}
</header>
{{range .Messages}}
<section class="card {{.Role}}">
<div><span class="label">{{.Label}}</span><span class="time">{{.Time}}</span></div>
<div class="content">{{.Body}}</div>
{{if .Sources}}<div class="sources">{{range .Sources}}<a href="{{.URL}}" rel="noopener noreferrer" target="_blank">{{.Label}}</a>{{end}}</div>{{end}}
</section>
{{end}}
{{if .Awaiting}}<p class="status">Finding Relevant Information...</p>{{end}}
</body>
</html>
`))

type pageSource struct {
	Label string
	URL   string
}

type pageMessage struct {
	Role    string
	Label   string
	Time    string
	Body    template.HTML
	Sources []pageSource
}

type pageData struct {
	Symbol   string
	Messages []pageMessage
	Awaiting bool
}

// handlePanel renders the conversation as HTML. Message bodies go through the
// markdown renderer, which escapes raw HTML.
func (s *Server) handlePanel(w http.ResponseWriter, r *http.Request) {
	snap := s.panel.Snapshot()

	data := pageData{
		Messages: make([]pageMessage, 0, snap.Len()),
		Awaiting: snap.Awaiting(),
	}
	if s.symbols != nil {
		if ev, ok := s.symbols.Last(); ok {
			data.Symbol = ev.Symbol
		}
	}

	for _, m := range snap.Messages {
		pm := pageMessage{
			Role:  string(m.Role),
			Label: m.Role.DisplayName(),
			Time:  m.Timestamp.Format(time.Kitchen),
		}
		if m.IsUser() {
			pm.Body = template.HTML(template.HTMLEscapeString(m.Content))
		} else {
			pm.Body = s.html.HTML(m.Content)
		}
		for i, u := range m.Citations {
			pm.Sources = append(pm.Sources, pageSource{Label: sourceLabel(i), URL: u})
		}
		data.Messages = append(data.Messages, pm)
	}

	var buf bytes.Buffer
	if err := panelTemplate.Execute(&buf, data); err != nil {
		s.log.Error().Err(err).Msg("render panel page")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func sourceLabel(i int) string {
	return "Source " + strconv.Itoa(i+1)
}
