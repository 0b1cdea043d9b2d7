// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package answer provides the answer-generation client used by the chat panel.
//
// A Client turns one user query into an Answer: markdown text plus the ordered
// list of source URLs the text cites. Each query is sent on its own, with no
// earlier turns attached.
//
// # Implementations
//
//   - PerplexityClient: Perplexity chat completions over HTTPS (resty)
//   - ClientFunc: adapts a plain function, mainly for tests
//
// # Errors
//
// Failures are reported as wrapped sentinel errors (ErrNotConfigured,
// ErrAuthFailed, ErrRateLimited, ErrEmptyResponse) or as *APIError for other
// non-2xx responses. Use Classify to get a short label for logs and metrics.
package answer
