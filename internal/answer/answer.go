// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package answer

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// =============================================================================
// CLIENT INTERFACE
// =============================================================================

// Answer is a generated reply.
type Answer struct {
	// Text is the markdown body.
	Text string
	// Citations are source URLs in citation order. May be empty.
	Citations []string
}

// Client generates an answer for a single query.
type Client interface {
	Answer(ctx context.Context, query string) (Answer, error)
}

// ClientFunc adapts a function to the Client interface.
type ClientFunc func(ctx context.Context, query string) (Answer, error)

// Answer calls f.
func (f ClientFunc) Answer(ctx context.Context, query string) (Answer, error) {
	return f(ctx, query)
}

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrNotConfigured indicates the API key is not set.
	ErrNotConfigured = errors.New("answer API key not configured")

	// ErrAuthFailed indicates the API rejected the key.
	ErrAuthFailed = errors.New("authentication failed")

	// ErrRateLimited indicates too many requests were made.
	ErrRateLimited = errors.New("rate limited")

	// ErrEmptyResponse indicates a 2xx response without any choice text.
	ErrEmptyResponse = errors.New("empty response")
)

// APIError is a non-2xx response not covered by a sentinel.
type APIError struct {
	Status  int
	Type    string
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("answer API error [%s] (HTTP %d): %s", e.Type, e.Status, e.Message)
	}
	return fmt.Sprintf("answer API error (HTTP %d): %s", e.Status, e.Message)
}

// Classify returns a short, stable label for err.
func Classify(err error) string {
	var (
		apiErr *APIError
		netErr net.Error
	)
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrNotConfigured):
		return "not_configured"
	case errors.Is(err, ErrAuthFailed):
		return "auth"
	case errors.Is(err, ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, ErrEmptyResponse):
		return "empty"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, context.DeadlineExceeded),
		errors.As(err, &netErr) && netErr.Timeout():
		return "timeout"
	case errors.As(err, &apiErr):
		if apiErr.Status >= 500 {
			return "server"
		}
		return "client"
	default:
		return "transport"
	}
}
