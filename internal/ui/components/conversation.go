// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/jeranaias/tradie/internal/markdown"
	"github.com/jeranaias/tradie/internal/model"
	"github.com/jeranaias/tradie/internal/ui/styles"
)

// ConversationOptions controls how a snapshot is drawn.
type ConversationOptions struct {
	Width      int
	Theme      *styles.Theme
	Renderer   markdown.Renderer
	Hyperlinks bool
	// Thinking is shown below the messages while a response is awaited.
	Thinking string
}

// Conversation renders every message of snap in order, followed by the
// thinking indicator when snap is awaiting a response. It reads snap only.
func Conversation(snap model.Snapshot, opts ConversationOptions) string {
	parts := make([]string, 0, snap.Len()+1)
	for _, msg := range snap.Messages {
		card := NewMessageCard(msg, opts.Theme, opts.Renderer)
		card.Width = opts.Width
		card.Hyperlinks = opts.Hyperlinks
		parts = append(parts, card.View())
	}
	if snap.Awaiting() && opts.Thinking != "" {
		parts = append(parts, opts.Thinking)
	}
	return strings.Join(parts, "\n\n")
}
