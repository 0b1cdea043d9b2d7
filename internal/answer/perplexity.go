// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package answer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

// Configuration constants for the Perplexity API.
const (
	// DefaultBaseURL is the Perplexity API root.
	DefaultBaseURL = "https://api.perplexity.ai"

	// DefaultModel is the model used when none is configured.
	DefaultModel = "sonar"

	// DefaultSystemPrompt is sent ahead of the query. It is an instruction,
	// not an earlier turn.
	DefaultSystemPrompt = "Be precise and concise."

	// DefaultTimeout bounds a single request.
	DefaultTimeout = 60 * time.Second

	completionsPath = "/chat/completions"
)

// =============================================================================
// WIRE TYPES
// =============================================================================

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
	Citations []string `json:"citations"`
}

// apiErrorResponse is the error body shape returned by the API.
type apiErrorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// =============================================================================
// CLIENT
// =============================================================================

// PerplexityClient answers queries with Perplexity chat completions.
// It is safe for concurrent use once configured.
type PerplexityClient struct {
	apiKey       string
	model        string
	systemPrompt string
	http         *resty.Client
	log          zerolog.Logger
}

// NewPerplexityClient creates a client for the given API key. An empty key
// yields a client whose Answer calls fail with ErrNotConfigured.
func NewPerplexityClient(apiKey string) *PerplexityClient {
	client := resty.New()
	client.SetBaseURL(DefaultBaseURL)
	client.SetTimeout(DefaultTimeout)
	client.SetHeader("Accept", "application/json")
	if apiKey != "" {
		client.SetAuthToken(apiKey)
	}

	return &PerplexityClient{
		apiKey:       apiKey,
		model:        DefaultModel,
		systemPrompt: DefaultSystemPrompt,
		http:         client,
		log:          zerolog.Nop(),
	}
}

// WithBaseURL sets a custom API root.
func (c *PerplexityClient) WithBaseURL(url string) *PerplexityClient {
	c.http.SetBaseURL(strings.TrimRight(url, "/"))
	return c
}

// WithTimeout sets the per-request timeout.
func (c *PerplexityClient) WithTimeout(timeout time.Duration) *PerplexityClient {
	if timeout > 0 {
		c.http.SetTimeout(timeout)
	}
	return c
}

// WithModel sets the model name.
func (c *PerplexityClient) WithModel(model string) *PerplexityClient {
	if model != "" {
		c.model = model
	}
	return c
}

// WithSystemPrompt sets the system instruction. Empty disables it.
func (c *PerplexityClient) WithSystemPrompt(prompt string) *PerplexityClient {
	c.systemPrompt = prompt
	return c
}

// WithLogger sets the diagnostics logger.
func (c *PerplexityClient) WithLogger(log zerolog.Logger) *PerplexityClient {
	c.log = log
	return c
}

// Model returns the configured model name.
func (c *PerplexityClient) Model() string {
	return c.model
}

// IsConfigured reports whether an API key is set.
func (c *PerplexityClient) IsConfigured() bool {
	return c.apiKey != ""
}

// KeyFingerprint identifies the API key in logs without exposing it.
func (c *PerplexityClient) KeyFingerprint() string {
	if c.apiKey == "" {
		return "none"
	}
	h := sha256.Sum256([]byte(c.apiKey))
	return hex.EncodeToString(h[:4])
}

// Answer sends query as the only user message and returns the first choice.
func (c *PerplexityClient) Answer(ctx context.Context, query string) (Answer, error) {
	if !c.IsConfigured() {
		return Answer{}, ErrNotConfigured
	}

	body := chatRequest{Model: c.model}
	if c.systemPrompt != "" {
		body.Messages = append(body.Messages, chatMessage{Role: "system", Content: c.systemPrompt})
	}
	body.Messages = append(body.Messages, chatMessage{Role: "user", Content: query})

	start := time.Now()
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(completionsPath)
	if err != nil {
		c.log.Debug().Err(err).Str("model", c.model).Msg("answer request failed")
		return Answer{}, fmt.Errorf("answer request: %w", err)
	}

	c.log.Debug().
		Int("status", resp.StatusCode()).
		Dur("duration", time.Since(start)).
		Int("bytes", len(resp.Body())).
		Str("model", c.model).
		Msg("answer response")

	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		return Answer{}, handleErrorResponse(resp.StatusCode(), resp.Body())
	}

	var parsed chatResponse
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		return Answer{}, fmt.Errorf("parse answer response: %w", err)
	}
	if len(parsed.Choices) == 0 || strings.TrimSpace(parsed.Choices[0].Message.Content) == "" {
		return Answer{}, ErrEmptyResponse
	}

	return Answer{
		Text:      parsed.Choices[0].Message.Content,
		Citations: cleanCitations(parsed.Citations),
	}, nil
}

// cleanCitations drops blank entries and keeps order.
func cleanCitations(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, c := range in {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}

// handleErrorResponse converts a non-2xx response into an error.
func handleErrorResponse(status int, body []byte) error {
	var apiErr apiErrorResponse
	msg := strings.TrimSpace(string(body))
	typ := ""
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
		msg = apiErr.Error.Message
		typ = apiErr.Error.Type
	}

	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrAuthFailed, msg)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", ErrRateLimited, msg)
	default:
		return &APIError{Status: status, Type: typ, Message: msg}
	}
}
