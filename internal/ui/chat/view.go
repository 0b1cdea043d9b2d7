// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View implements tea.Model.
func (m Model) View() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		m.header.View(),
		m.viewport.View(),
		m.statusLine(),
		m.inputView(),
	)
}

// statusLine shows the failure notice, or key help when there is none.
func (m Model) statusLine() string {
	if !m.notice.Expired(m.now()) {
		return m.notice.View(m.theme, m.width)
	}

	parts := make([]string, 0, 4)
	for _, b := range m.keys.ShortHelp() {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return m.theme.HelpText.Render(strings.Join(parts, "  "))
}

func (m Model) inputView() string {
	if m.panel.Awaiting() {
		return m.theme.InputContainer.Render(m.theme.InputDisabled.Render("> " + Placeholder))
	}
	return m.theme.InputContainer.Render(m.input.View())
}
