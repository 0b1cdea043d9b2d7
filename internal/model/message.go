// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns the label shown above a message.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Tradie"
	default:
		return string(r)
	}
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Greeting is the assistant-authored first message of every conversation.
const Greeting = "Hello! I'm Tradie, your AI trading copilot. I can help you understand market events, analyze stock movements, and provide insights about company performance. Feel free to ask me anything about the markets!"

// Message is one conversational turn. Messages are values; once appended to
// a Store they are never modified.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Citations []string  `json:"citations,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// newMessage builds a message with a fresh ID. Citations are copied so the
// caller's slice can be reused.
func newMessage(role Role, content string, citations []string, at time.Time) Message {
	var cites []string
	if len(citations) > 0 {
		cites = make([]string, len(citations))
		copy(cites, citations)
	}
	return Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Citations: cites,
		Timestamp: at,
	}
}

// IsUser reports whether the message was sent by the user.
func (m Message) IsUser() bool {
	return m.Role == RoleUser
}

// Preview returns the content cut to maxLen runes.
func (m Message) Preview(maxLen int) string {
	runes := []rune(m.Content)
	switch {
	case maxLen <= 0 || len(runes) <= maxLen:
		return m.Content
	case maxLen <= 3:
		return string(runes[:maxLen])
	default:
		return string(runes[:maxLen-3]) + "..."
	}
}
