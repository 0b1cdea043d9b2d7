// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat hosts the chat panel as a Bubble Tea model.

The model owns no conversation state of its own: every frame is drawn from a
panel snapshot. Enter submits the input through the panel, the answer is
fetched in a tea.Cmd off the update loop and the result comes back as a
message that the model settles on the loop.

# Symbol updates

Symbols broadcast by the panel reach the header through the program:

	bus := broadcast.NewBus()
	p := tea.NewProgram(chat.New(pnl, theme, renderer), tea.WithAltScreen())
	defer bus.Subscribe(chat.SymbolListener(p.Send))()

# Keys

Enter sends, PgUp/PgDn and the mouse wheel scroll, Ctrl+C or Esc quits.
Typing is ignored while a response is awaited.
*/
package chat
