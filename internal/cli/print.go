// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/jeranaias/tradie/internal/markdown"
	"github.com/jeranaias/tradie/internal/model"
	"github.com/jeranaias/tradie/internal/ui/components"
	"github.com/jeranaias/tradie/internal/util"
)

// palette holds the colors for line-mode output.
type palette struct {
	user      *color.Color
	assistant *color.Color
	source    *color.Color
	symbol    *color.Color
	notice    *color.Color
	dim       *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		user:      color.New(color.FgBlue, color.Bold),
		assistant: color.New(color.FgGreen, color.Bold),
		source:    color.New(color.FgCyan, color.Bold),
		symbol:    color.New(color.FgMagenta, color.Bold),
		notice:    color.New(color.FgYellow),
		dim:       color.New(color.Faint),
	}
	for _, c := range []*color.Color{p.user, p.assistant, p.source, p.symbol, p.notice, p.dim} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// printer writes messages in line mode.
type printer struct {
	out      io.Writer
	renderer markdown.Renderer
	width    int
	colors   palette
}

func newPrinter(out io.Writer, r markdown.Renderer, width int) *printer {
	return &printer{out: out, renderer: r, width: width, colors: newPalette(colorsEnabled(out))}
}

// message prints a labelled message with its sources.
func (p *printer) message(m model.Message) {
	label := p.colors.assistant
	if m.IsUser() {
		label = p.colors.user
	}
	fmt.Fprintf(p.out, "%s %s\n", label.Sprint(m.Role.DisplayName()), p.colors.dim.Sprint(m.Timestamp.Format("15:04")))

	body, err := p.renderer.Render(m.Content, p.width)
	if err != nil {
		body = m.Content
	}
	fmt.Fprintln(p.out, strings.TrimRight(body, "\n"))

	if len(m.Citations) > 0 {
		fmt.Fprintln(p.out)
		for i, u := range m.Citations {
			fmt.Fprintf(p.out, "  %s %s\n",
				p.colors.source.Sprintf("[%s]", components.SourceLabel(i)),
				util.TruncateWidth(u, p.width-14))
		}
	}
	fmt.Fprintln(p.out)
}

// symbol announces a broadcast symbol.
func (p *printer) symbol(s string) {
	fmt.Fprintf(p.out, "%s %s\n\n", p.colors.dim.Sprint("Symbol:"), p.colors.symbol.Sprint(s))
}

// notice prints a failure notice.
func (p *printer) notice(msg string) {
	fmt.Fprintf(p.out, "%s\n\n", p.colors.notice.Sprint("! "+msg))
}
