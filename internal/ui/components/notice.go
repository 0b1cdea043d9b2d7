// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"errors"
	"time"

	"github.com/jeranaias/tradie/internal/answer"
	"github.com/jeranaias/tradie/internal/ui/styles"
	"github.com/jeranaias/tradie/internal/util"
)

// NoticeDuration is how long a failure notice stays visible.
const NoticeDuration = 8 * time.Second

// Notice is a status-line message shown after a failed request. It is not
// part of the conversation.
type Notice struct {
	Message   string
	CreatedAt time.Time
	Duration  time.Duration
}

// NewFailureNotice describes err in terms a user can act on.
func NewFailureNotice(err error, now time.Time) Notice {
	return Notice{
		Message:   failureText(err),
		CreatedAt: now,
		Duration:  NoticeDuration,
	}
}

func failureText(err error) string {
	var apiErr *answer.APIError
	switch {
	case errors.Is(err, answer.ErrNotConfigured):
		return "No answer API key configured. Set TRADIE_API_KEY or answer.api_key."
	case errors.Is(err, answer.ErrAuthFailed):
		return "The answer service rejected the API key."
	case errors.Is(err, answer.ErrRateLimited):
		return "Too many requests. Wait a moment and ask again."
	case errors.Is(err, answer.ErrEmptyResponse):
		return "The answer service returned nothing. Try rephrasing."
	case answer.Classify(err) == "timeout":
		return "The answer service took too long to respond."
	case errors.As(err, &apiErr):
		return "The answer service failed. Check the log for details."
	default:
		return "Couldn't reach the answer service."
	}
}

// Expired reports whether the notice should be hidden at now.
func (n Notice) Expired(now time.Time) bool {
	return n.Message == "" || now.Sub(n.CreatedAt) >= n.Duration
}

// View renders the notice cut to width.
func (n Notice) View(theme *styles.Theme, width int) string {
	if n.Message == "" {
		return ""
	}
	return theme.Notice.Render(util.TruncateWidth("! "+n.Message, width-2))
}
