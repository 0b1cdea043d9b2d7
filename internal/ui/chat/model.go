// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/tradie/internal/markdown"
	"github.com/jeranaias/tradie/internal/model"
	"github.com/jeranaias/tradie/internal/panel"
	"github.com/jeranaias/tradie/internal/ui/components"
	"github.com/jeranaias/tradie/internal/ui/styles"
)

// Placeholder is the input hint.
const Placeholder = "Ask about market events..."

// MaxInputLength bounds a single query.
const MaxInputLength = 2000

// Model is the Bubble Tea model of the chat panel.
type Model struct {
	panel    *panel.Panel
	theme    *styles.Theme
	renderer markdown.Renderer
	keys     KeyMap

	header   *components.Header
	input    textinput.Model
	viewport viewport.Model
	thinking components.Thinking
	notice   components.Notice

	width  int
	height int
	ready  bool

	// Last rendered message count and status, to follow new messages.
	lastCount  int
	lastStatus model.Status

	hyperlinks bool
	ctx        context.Context
	now        func() time.Time
}

// Option configures a Model.
type Option func(*Model)

// WithHyperlinks turns OSC 8 source links on or off.
func WithHyperlinks(on bool) Option {
	return func(m *Model) { m.hyperlinks = on }
}

// WithContext sets the context answer requests run under.
func WithContext(ctx context.Context) Option {
	return func(m *Model) {
		if ctx != nil {
			m.ctx = ctx
		}
	}
}

// WithSymbol seeds the header with a symbol broadcast before the model started.
func WithSymbol(symbol string) Option {
	return func(m *Model) { m.header.SetSymbol(symbol) }
}

// New creates the chat model for p.
func New(p *panel.Panel, theme *styles.Theme, renderer markdown.Renderer, opts ...Option) Model {
	if renderer == nil {
		renderer = markdown.Plain{}
	}

	in := textinput.New()
	in.Placeholder = Placeholder
	in.Prompt = "> "
	in.PromptStyle = theme.InputPrompt
	in.PlaceholderStyle = theme.InputPlaceholder
	in.CharLimit = MaxInputLength
	in.Focus()

	m := Model{
		panel:      p,
		theme:      theme,
		renderer:   renderer,
		keys:       DefaultKeyMap(),
		header:     components.NewHeader(theme),
		input:      in,
		viewport:   viewport.New(80, 20),
		thinking:   components.NewThinking(theme),
		hyperlinks: true,
		ctx:        context.Background(),
		now:        time.Now,
		width:      80,
		height:     24,
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.refresh()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Panel returns the panel the model drives.
func (m Model) Panel() *panel.Panel {
	return m.panel
}

// Symbol returns the symbol shown in the header.
func (m Model) Symbol() string {
	return m.header.Symbol
}

// Notice returns the current failure notice, if any.
func (m Model) Notice() components.Notice {
	return m.notice
}

// refresh redraws the conversation into the viewport and follows the newest
// message when the list or status changed.
func (m *Model) refresh() {
	snap := m.panel.Snapshot()

	content := components.Conversation(snap, components.ConversationOptions{
		Width:      m.width,
		Theme:      m.theme,
		Renderer:   m.renderer,
		Hyperlinks: m.hyperlinks,
		Thinking:   m.thinking.View(),
	})
	m.viewport.SetContent(content)

	if snap.Len() != m.lastCount || snap.Status != m.lastStatus {
		m.viewport.GotoBottom()
		m.lastCount = snap.Len()
		m.lastStatus = snap.Status
	}
}
