// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/tradie/internal/markdown"
	"github.com/jeranaias/tradie/internal/model"
	"github.com/jeranaias/tradie/internal/ui/styles"
)

// =============================================================================
// MESSAGE CARD
// =============================================================================

// MessageCard renders one message: a role label, the content and, for
// answers, the numbered sources.
type MessageCard struct {
	Message       model.Message
	Width         int
	ShowTimestamp bool
	Hyperlinks    bool

	renderer markdown.Renderer
	theme    *styles.Theme
}

// NewMessageCard creates a card. Assistant content goes through renderer;
// a nil renderer shows it as plain text.
func NewMessageCard(msg model.Message, theme *styles.Theme, renderer markdown.Renderer) *MessageCard {
	if renderer == nil {
		renderer = markdown.Plain{}
	}
	return &MessageCard{
		Message:       msg,
		Width:         80,
		ShowTimestamp: true,
		Hyperlinks:    true,
		renderer:      renderer,
		theme:         theme,
	}
}

// View renders the card.
func (c *MessageCard) View() string {
	if c.Message.IsUser() {
		return c.render(c.theme.UserLabel, c.theme.UserCard, c.Message.Content)
	}
	return c.render(c.theme.AssistantLabel, c.theme.AssistantCard, c.assistantBody())
}

func (c *MessageCard) render(labelStyle, cardStyle lipgloss.Style, body string) string {
	inner := styles.CardWidth(c.Width)

	header := labelStyle.Render(c.Message.Role.DisplayName())
	if c.ShowTimestamp && !c.Message.Timestamp.IsZero() {
		header += " " + c.theme.Timestamp.Render(c.Message.Timestamp.Format("15:04"))
	}

	card := cardStyle.Width(inner + 2).Render(body)
	return lipgloss.JoinVertical(lipgloss.Left, header, card)
}

func (c *MessageCard) assistantBody() string {
	inner := styles.CardWidth(c.Width)

	body, err := c.renderer.Render(c.Message.Content, inner)
	if err != nil {
		body = c.Message.Content
	}

	if cites := Citations(c.Message.Citations, inner, c.theme, c.Hyperlinks); cites != "" {
		body = strings.TrimRight(body, "\n") + "\n\n" + cites
	}
	return body
}
