// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/tradie/internal/ui/styles"
)

// Header text.
const (
	HeaderIcon     = "[$]"
	HeaderTitle    = "Chat with Tradie"
	HeaderSubtitle = "Ask me about market events, stock movements, or company news"
)

// Header is the panel title bar. Symbol is the most recently broadcast
// ticker and is empty until the first one arrives.
type Header struct {
	Symbol string
	Width  int
	theme  *styles.Theme
}

// NewHeader creates a header for theme.
func NewHeader(theme *styles.Theme) *Header {
	return &Header{Width: 80, theme: theme}
}

// SetWidth sets the available width.
func (h *Header) SetWidth(width int) {
	h.Width = width
}

// SetSymbol updates the linked symbol display.
func (h *Header) SetSymbol(symbol string) {
	h.Symbol = symbol
}

// View renders the header.
func (h *Header) View() string {
	t := h.theme

	title := t.HeaderIcon.Render(HeaderIcon) + " " + t.HeaderTitle.Render(HeaderTitle)

	var badge string
	if h.Symbol != "" {
		badge = t.SymbolBadge.Render(h.Symbol)
	} else {
		badge = t.SymbolEmpty.Render("no symbol")
	}

	// Title left, symbol right.
	gap := h.Width - 2 - lipgloss.Width(title) - lipgloss.Width(badge)
	if gap < 1 {
		gap = 1
	}
	top := lipgloss.JoinHorizontal(lipgloss.Top, title, lipgloss.NewStyle().Width(gap).Render(""), badge)

	subtitle := t.HeaderSubtitle.Render(HeaderSubtitle)
	return t.Header.Width(h.Width).Render(lipgloss.JoinVertical(lipgloss.Left, top, subtitle))
}
