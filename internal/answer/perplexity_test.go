// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package answer

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestServer returns a server that records the last request body and
// replies with status and body.
func newTestServer(t *testing.T, status int, body string, got *chatRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %s, want /chat/completions", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer pplx-test" {
			t.Errorf("Authorization = %q", r.Header.Get("Authorization"))
		}
		if got != nil {
			data, _ := io.ReadAll(r.Body)
			if err := json.Unmarshal(data, got); err != nil {
				t.Errorf("decode request: %v", err)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// =============================================================================
// SUCCESS TESTS
// =============================================================================

func TestAnswer_Success(t *testing.T) {
	var req chatRequest
	srv := newTestServer(t, http.StatusOK, `{
		"id": "r1",
		"model": "sonar",
		"choices": [{"message": {"role": "assistant", "content": "Tesla rallied after deliveries beat."}, "finish_reason": "stop"}],
		"citations": ["https://news.example/tsla", "  ", "https://ir.example/q3"]
	}`, &req)

	c := NewPerplexityClient("pplx-test").WithBaseURL(srv.URL + "/")
	got, err := c.Answer(context.Background(), "What moved Tesla?")
	require.NoError(t, err)

	assert.Equal(t, "Tesla rallied after deliveries beat.", got.Text)
	assert.Equal(t, []string{"https://news.example/tsla", "https://ir.example/q3"}, got.Citations)

	assert.Equal(t, DefaultModel, req.Model)
	require.Len(t, req.Messages, 2)
	assert.Equal(t, chatMessage{Role: "system", Content: DefaultSystemPrompt}, req.Messages[0])
	assert.Equal(t, chatMessage{Role: "user", Content: "What moved Tesla?"}, req.Messages[1])
}

func TestAnswer_NoSystemPromptNoCitations(t *testing.T) {
	var req chatRequest
	srv := newTestServer(t, http.StatusOK,
		`{"choices": [{"message": {"role": "assistant", "content": "ok"}}]}`, &req)

	c := NewPerplexityClient("pplx-test").
		WithBaseURL(srv.URL).
		WithSystemPrompt("").
		WithModel("sonar-pro")
	got, err := c.Answer(context.Background(), "  spaced query ")
	require.NoError(t, err)

	assert.Empty(t, got.Citations)
	assert.Equal(t, "sonar-pro", req.Model)
	require.Len(t, req.Messages, 1)
	assert.Equal(t, "  spaced query ", req.Messages[0].Content)
}

// =============================================================================
// ERROR TESTS
// =============================================================================

func TestAnswer_NotConfigured(t *testing.T) {
	c := NewPerplexityClient("")
	assert.False(t, c.IsConfigured())
	assert.Equal(t, "none", c.KeyFingerprint())

	_, err := c.Answer(context.Background(), "hi")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestAnswer_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		sentinel error
		class    string
	}{
		{"unauthorized", http.StatusUnauthorized, `{"error": {"type": "invalid_api_key", "message": "bad key"}}`, ErrAuthFailed, "auth"},
		{"rate limited", http.StatusTooManyRequests, `slow down`, ErrRateLimited, "rate_limited"},
		{"empty choices", http.StatusOK, `{"choices": []}`, ErrEmptyResponse, "empty"},
		{"server error", http.StatusBadGateway, `upstream down`, nil, "server"},
		{"bad request", http.StatusBadRequest, `{"error": {"type": "invalid_model", "message": "no such model"}}`, nil, "client"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := newTestServer(t, tc.status, tc.body, nil)
			_, err := NewPerplexityClient("pplx-test").WithBaseURL(srv.URL).Answer(context.Background(), "q")
			require.Error(t, err)

			if tc.sentinel != nil {
				assert.ErrorIs(t, err, tc.sentinel)
			} else {
				var apiErr *APIError
				require.True(t, errors.As(err, &apiErr), "want *APIError, got %T", err)
				assert.Equal(t, tc.status, apiErr.Status)
			}
			assert.Equal(t, tc.class, Classify(err))
		})
	}
}

func TestAnswer_APIErrorMessage(t *testing.T) {
	srv := newTestServer(t, http.StatusBadRequest,
		`{"error": {"type": "invalid_model", "message": "no such model"}}`, nil)
	_, err := NewPerplexityClient("pplx-test").WithBaseURL(srv.URL).Answer(context.Background(), "q")

	assert.EqualError(t, err, "answer API error [invalid_model] (HTTP 400): no such model")
}

func TestAnswer_MalformedBody(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, `not json`, nil)
	_, err := NewPerplexityClient("pplx-test").WithBaseURL(srv.URL).Answer(context.Background(), "q")
	assert.ErrorContains(t, err, "parse answer response")
}

func TestAnswer_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	c := NewPerplexityClient("pplx-test").WithBaseURL(srv.URL).WithTimeout(50 * time.Millisecond)
	_, err := c.Answer(context.Background(), "q")
	require.Error(t, err)
	assert.Equal(t, "timeout", Classify(err))
}

func TestAnswer_ContextCanceled(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, `{}`, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewPerplexityClient("pplx-test").WithBaseURL(srv.URL).Answer(ctx, "q")
	require.Error(t, err)
	assert.Equal(t, "canceled", Classify(err))
}

func TestClassify(t *testing.T) {
	assert.Equal(t, "none", Classify(nil))
	assert.Equal(t, "not_configured", Classify(ErrNotConfigured))
	assert.Equal(t, "transport", Classify(errors.New("connection refused")))
}

func TestClientFunc(t *testing.T) {
	var c Client = ClientFunc(func(_ context.Context, q string) (Answer, error) {
		return Answer{Text: "echo: " + q}, nil
	})
	got, err := c.Answer(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "echo: hi", got.Text)
}
