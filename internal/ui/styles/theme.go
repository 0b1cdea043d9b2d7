// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds the styled components of the panel.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// Header
	Header         lipgloss.Style
	HeaderIcon     lipgloss.Style
	HeaderTitle    lipgloss.Style
	HeaderSubtitle lipgloss.Style
	SymbolBadge    lipgloss.Style
	SymbolEmpty    lipgloss.Style

	// Message cards
	UserCard       lipgloss.Style
	UserLabel      lipgloss.Style
	AssistantCard  lipgloss.Style
	AssistantLabel lipgloss.Style
	Timestamp      lipgloss.Style

	// Citations
	SourceButton lipgloss.Style
	SourceURL    lipgloss.Style

	// Thinking indicator
	Spinner      lipgloss.Style
	ThinkingText lipgloss.Style

	// Input
	InputContainer   lipgloss.Style
	InputPrompt      lipgloss.Style
	InputPlaceholder lipgloss.Style
	InputDisabled    lipgloss.Style

	// Notices and help
	Notice   lipgloss.Style
	HelpText lipgloss.Style
}

// NewTheme detects terminal capabilities and builds the styles.
func NewTheme() *Theme {
	colorProfile := termenv.ColorProfile()
	t := &Theme{
		IsDark:       termenv.HasDarkBackground(),
		HasTrueColor: colorProfile == termenv.TrueColor,
		ColorProfile: colorProfile,
	}
	t.initStyles()
	return t
}

func (t *Theme) initStyles() {
	t.Header = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.HeaderIcon = lipgloss.NewStyle().
		Foreground(Emerald).
		Bold(true)

	t.HeaderTitle = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Bold(true)

	t.HeaderSubtitle = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	t.SymbolBadge = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Amber).
		Bold(true).
		Padding(0, 1)

	t.SymbolEmpty = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.UserCard = lipgloss.NewStyle().
		Foreground(UserCardFg).
		Background(UserCardBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(UserCardBorder).
		Padding(0, 1).
		MarginLeft(4)

	t.UserLabel = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.AssistantCard = lipgloss.NewStyle().
		Foreground(AssistantCardFg).
		Background(AssistantCardBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(AssistantCardBorder).
		Padding(0, 1).
		MarginRight(4)

	t.AssistantLabel = lipgloss.NewStyle().
		Foreground(Purple).
		Bold(true)

	t.Timestamp = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.SourceButton = lipgloss.NewStyle().
		Foreground(LinkColor).
		Bold(true)

	t.SourceURL = lipgloss.NewStyle().
		Foreground(TextMuted).
		Underline(true)

	t.Spinner = lipgloss.NewStyle().
		Foreground(Emerald)

	t.ThinkingText = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.InputPrompt = lipgloss.NewStyle().
		Foreground(Emerald).
		Bold(true)

	t.InputPlaceholder = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	t.InputDisabled = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.Notice = lipgloss.NewStyle().
		Foreground(Rose).
		Background(RoseDeep).
		Padding(0, 1)

	t.HelpText = lipgloss.NewStyle().
		Foreground(TextMuted)
}

// SetSize updates the theme dimensions.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// CardWidth is the usable width inside a message card for a terminal of
// width columns: margin, border and padding are subtracted.
func CardWidth(width int) int {
	w := width - 4 - 2 - 2
	if w < 20 {
		return 20
	}
	return w
}
