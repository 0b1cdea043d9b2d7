// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/tradie/internal/broadcast"
	"github.com/jeranaias/tradie/internal/panel"
)

// answerMsg carries a fetched result back to the update loop.
type answerMsg struct {
	req panel.Request
	res panel.Result
}

// SymbolMsg tells the model a symbol was broadcast.
type SymbolMsg struct {
	Symbol string
	At     time.Time
}

// clearNoticeMsg hides the notice created at created, if still shown.
type clearNoticeMsg struct {
	created time.Time
}

// fetchCmd runs the answer request off the update loop.
func fetchCmd(ctx context.Context, p *panel.Panel, req panel.Request) tea.Cmd {
	return func() tea.Msg {
		return answerMsg{req: req, res: p.Fetch(ctx, req)}
	}
}

// clearNoticeCmd schedules the notice to be hidden after d.
func clearNoticeCmd(created time.Time, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return clearNoticeMsg{created: created}
	})
}

// SymbolListener returns a bus listener that forwards events to a program,
// typically (*tea.Program).Send.
func SymbolListener(send func(tea.Msg)) broadcast.Listener {
	return func(ev broadcast.Event) {
		send(SymbolMsg{Symbol: ev.Symbol, At: ev.At})
	}
}
