// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/jeranaias/tradie/internal/ui/styles"
	"github.com/jeranaias/tradie/internal/util"
)

// SourceLabel returns the label of the citation at zero-based index i.
func SourceLabel(i int) string {
	return fmt.Sprintf("Source %d", i+1)
}

// Citations renders one line per source: a "Source N" button followed by the
// URL cut to fit width. With hyperlinks set the button is an OSC 8 link that
// opens the URL in terminals that support it.
func Citations(urls []string, width int, theme *styles.Theme, hyperlinks bool) string {
	if len(urls) == 0 {
		return ""
	}

	lines := make([]string, 0, len(urls))
	for i, u := range urls {
		label := SourceLabel(i)
		if hyperlinks {
			label = termenv.Hyperlink(u, label)
		}
		button := theme.SourceButton.Render("[" + label + "]")

		room := width - lipgloss.Width(button) - 1
		url := ""
		if room > 0 {
			url = theme.SourceURL.Render(util.TruncateWidth(u, room))
		}
		lines = append(lines, strings.TrimRight(button+" "+url, " "))
	}
	return strings.Join(lines, "\n")
}
