// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/tradie/internal/ui/components"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case answerMsg:
		return m.handleAnswer(msg)

	case SymbolMsg:
		m.header.SetSymbol(msg.Symbol)
		return m, nil

	case clearNoticeMsg:
		if m.notice.CreatedAt.Equal(msg.created) {
			m.notice = components.Notice{}
		}
		return m, nil

	case spinner.TickMsg:
		// Stop ticking once the response has settled.
		if !m.panel.Awaiting() {
			return m, nil
		}
		var cmd tea.Cmd
		m.thinking, cmd = m.thinking.Update(msg)
		m.refresh()
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.theme.SetSize(msg.Width, msg.Height)
	m.header.SetWidth(msg.Width)
	m.input.Width = msg.Width - 6

	vh := msg.Height - lipgloss.Height(m.header.View()) - lipgloss.Height(m.inputView()) - 1
	if vh < 3 {
		vh = 3
	}
	m.viewport.Width = msg.Width
	m.viewport.Height = vh
	m.ready = true

	m.refresh()
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.panel.Close()
		return m, tea.Quit

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.viewport.HalfViewDown()
		return m, nil

	case key.Matches(msg, m.keys.Top):
		m.viewport.GotoTop()
		return m, nil

	case key.Matches(msg, m.keys.Bottom):
		m.viewport.GotoBottom()
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		return m.submit()
	}

	// The input is disabled while a response is awaited.
	if m.panel.Awaiting() {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	req, ok := m.panel.Submit(m.input.Value())
	if !ok {
		return m, nil
	}
	m.input.Reset()
	m.notice = components.Notice{}
	m.refresh()

	return m, tea.Batch(fetchCmd(m.ctx, m.panel, req), m.thinking.Tick())
}

func (m Model) handleAnswer(msg answerMsg) (tea.Model, tea.Cmd) {
	s := m.panel.Settle(msg.req, msg.res)
	m.refresh()

	if s.Discarded || s.Err == nil {
		return m, nil
	}
	m.notice = components.NewFailureNotice(s.Err, m.now())
	return m, clearNoticeCmd(m.notice.CreatedAt, m.notice.Duration)
}
