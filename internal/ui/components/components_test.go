// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jeranaias/tradie/internal/answer"
	"github.com/jeranaias/tradie/internal/model"
	"github.com/jeranaias/tradie/internal/ui/styles"
)

func testTheme() *styles.Theme {
	return styles.NewTheme()
}

// =============================================================================
// HEADER TESTS
// =============================================================================

func TestHeader_View(t *testing.T) {
	h := NewHeader(testTheme())
	h.SetWidth(100)

	view := h.View()
	assert.Contains(t, view, HeaderTitle)
	assert.Contains(t, view, HeaderSubtitle)
	assert.Contains(t, view, "no symbol")

	h.SetSymbol("NASDAQ:TSLA")
	view = h.View()
	assert.Contains(t, view, "NASDAQ:TSLA")
	assert.NotContains(t, view, "no symbol")
}

func TestHeader_NarrowWidth(t *testing.T) {
	h := NewHeader(testTheme())
	h.SetWidth(10)
	h.SetSymbol("NYSE:BRK.B")
	assert.Contains(t, h.View(), "NYSE:BRK.B")
}

// =============================================================================
// CITATION TESTS
// =============================================================================

func TestCitations_Numbering(t *testing.T) {
	urls := []string{"https://a.example/1", "https://b.example/2", "https://c.example/3"}
	out := Citations(urls, 80, testTheme(), false)

	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 3)
	for i, line := range lines {
		assert.Contains(t, line, SourceLabel(i))
		assert.Contains(t, line, urls[i])
	}
	assert.Equal(t, "Source 1", SourceLabel(0))
}

func TestCitations_Empty(t *testing.T) {
	assert.Equal(t, "", Citations(nil, 80, testTheme(), true))
}

func TestCitations_Hyperlink(t *testing.T) {
	out := Citations([]string{"https://news.example/tsla"}, 80, testTheme(), true)
	assert.Contains(t, out, "\x1b]8;;https://news.example/tsla")
	assert.Contains(t, out, "Source 1")
}

func TestCitations_TruncatesURL(t *testing.T) {
	long := "https://news.example/" + strings.Repeat("x", 200)
	out := Citations([]string{long}, 40, testTheme(), false)
	assert.NotContains(t, out, long)
	assert.Contains(t, out, "...")
}

// =============================================================================
// MESSAGE CARD TESTS
// =============================================================================

func TestMessageCard_Labels(t *testing.T) {
	theme := testTheme()

	user := NewMessageCard(model.Message{Role: model.RoleUser, Content: "What about Ford?"}, theme, nil)
	assert.Contains(t, user.View(), "You")
	assert.Contains(t, user.View(), "What about Ford?")

	bot := NewMessageCard(model.Message{
		Role:      model.RoleAssistant,
		Content:   "Ford fell.",
		Citations: []string{"https://x.example"},
		Timestamp: time.Date(2025, 1, 1, 9, 41, 0, 0, time.UTC),
	}, theme, nil)
	view := bot.View()
	assert.Contains(t, view, "Tradie")
	assert.Contains(t, view, "09:41")
	assert.Contains(t, view, "Ford fell.")
	assert.Equal(t, 1, strings.Count(view, "Source 1"))
}

func TestMessageCard_UserHasNoSources(t *testing.T) {
	card := NewMessageCard(model.Message{Role: model.RoleUser, Content: "hi", Citations: []string{"https://x"}}, testTheme(), nil)
	assert.NotContains(t, card.View(), "Source 1")
}

// =============================================================================
// CONVERSATION TESTS
// =============================================================================

func TestConversation_RendersEveryMessage(t *testing.T) {
	store := model.NewStore()
	store.AppendUser("Tell me about Tesla")
	store.AppendAssistant("Tesla rallied.", []string{"https://a.example", "https://b.example"})

	out := Conversation(store.Snapshot(), ConversationOptions{
		Width: 100,
		Theme: testTheme(),
	})

	assert.Contains(t, out, "Hello!")
	assert.Contains(t, out, "Tell me about Tesla")
	assert.Contains(t, out, "Tesla rallied.")
	assert.Equal(t, 1, strings.Count(out, "Source 1"))
	assert.Equal(t, 1, strings.Count(out, "Source 2"))
	assert.Equal(t, 1, strings.Count(out, "You"))
}

func TestConversation_ThinkingOnlyWhileAwaiting(t *testing.T) {
	store := model.NewStore()
	opts := ConversationOptions{Width: 80, Theme: testTheme(), Thinking: ThinkingMessage}

	assert.NotContains(t, Conversation(store.Snapshot(), opts), ThinkingMessage)

	store.SetStatus(model.StatusAwaiting)
	assert.Contains(t, Conversation(store.Snapshot(), opts), ThinkingMessage)
}

func TestConversation_IsPure(t *testing.T) {
	store := model.NewStore()
	snap := store.Snapshot()
	opts := ConversationOptions{Width: 80, Theme: testTheme()}

	assert.Equal(t, Conversation(snap, opts), Conversation(snap, opts))
	assert.Equal(t, 1, store.Len())
}

// =============================================================================
// THINKING AND NOTICE TESTS
// =============================================================================

func TestThinking_View(t *testing.T) {
	th := NewThinking(testTheme())
	assert.Contains(t, th.View(), ThinkingMessage)
	assert.NotNil(t, th.Tick())
}

func TestNotice(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		err  error
		want string
	}{
		{answer.ErrNotConfigured, "No answer API key"},
		{answer.ErrRateLimited, "Too many requests"},
		{&answer.APIError{Status: 500}, "service failed"},
		{errors.New("dial tcp: refused"), "Couldn't reach"},
	}
	for _, tc := range tests {
		n := NewFailureNotice(tc.err, now)
		assert.Contains(t, n.Message, tc.want)
		assert.False(t, n.Expired(now.Add(time.Second)))
		assert.True(t, n.Expired(now.Add(NoticeDuration)))
	}

	assert.True(t, Notice{}.Expired(now))
	assert.Equal(t, "", Notice{}.View(testTheme(), 80))
	assert.Contains(t, NewFailureNotice(answer.ErrAuthFailed, now).View(testTheme(), 80), "rejected")
}
