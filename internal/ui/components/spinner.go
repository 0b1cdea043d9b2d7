// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/tradie/internal/ui/styles"
)

// ThinkingMessage is shown while an answer is awaited.
const ThinkingMessage = "Finding Relevant Information..."

// Thinking is the awaiting-response indicator.
type Thinking struct {
	spinner spinner.Model
	theme   *styles.Theme
	message string
}

// NewThinking creates the indicator with ASCII frames.
func NewThinking(theme *styles.Theme) Thinking {
	s := spinner.New()
	s.Spinner = spinner.Spinner{
		Frames: []string{"|", "/", "-", "\\"},
		FPS:    time.Second / 10,
	}
	s.Style = theme.Spinner
	return Thinking{spinner: s, theme: theme, message: ThinkingMessage}
}

// Tick starts the animation.
func (t Thinking) Tick() tea.Cmd {
	return t.spinner.Tick
}

// Update advances the animation on spinner ticks.
func (t Thinking) Update(msg tea.Msg) (Thinking, tea.Cmd) {
	var cmd tea.Cmd
	t.spinner, cmd = t.spinner.Update(msg)
	return t, cmd
}

// View renders the spinner frame and the message.
func (t Thinking) View() string {
	return t.spinner.View() + " " + t.theme.ThinkingText.Render(t.message)
}
