// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package markdown

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
	"github.com/muesli/termenv"
)

// Renderer turns markdown into display text for a given width.
type Renderer interface {
	Render(text string, width int) (string, error)
}

// Theme names a base style set.
type Theme string

const (
	ThemeAuto  Theme = "auto"
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
	ThemeNoTTY Theme = "notty"
)

// DefaultWidth is used when a caller passes a width of zero or less.
const DefaultWidth = 80

// baseStyle returns the glamour style for theme.
func baseStyle(theme Theme) (ansi.StyleConfig, error) {
	switch theme {
	case ThemeDark:
		return styles.DarkStyleConfig, nil
	case ThemeLight:
		return styles.LightStyleConfig, nil
	case ThemeNoTTY:
		return styles.NoTTYStyleConfig, nil
	case ThemeAuto, "":
		if termenv.HasDarkBackground() {
			return styles.DarkStyleConfig, nil
		}
		return styles.LightStyleConfig, nil
	default:
		return ansi.StyleConfig{}, fmt.Errorf("unknown markdown theme %q", theme)
	}
}

// =============================================================================
// TERMINAL RENDERER
// =============================================================================

// TerminalRenderer renders markdown for the terminal with glamour.
// Renderers are built lazily per wrap width and reused.
type TerminalRenderer struct {
	style ansi.StyleConfig

	mu    sync.Mutex
	cache map[int]*glamour.TermRenderer
}

// NewTerminalRenderer builds a renderer for theme with overrides applied.
func NewTerminalRenderer(theme Theme, overrides Overrides) (*TerminalRenderer, error) {
	base, err := baseStyle(theme)
	if err != nil {
		return nil, err
	}
	return &TerminalRenderer{
		style: overrides.Apply(base),
		cache: make(map[int]*glamour.TermRenderer),
	}, nil
}

// Style returns the effective style configuration.
func (r *TerminalRenderer) Style() ansi.StyleConfig {
	return r.style
}

// Render renders text wrapped to width. On error the input is returned.
func (r *TerminalRenderer) Render(text string, width int) (string, error) {
	if width <= 0 {
		width = DefaultWidth
	}

	tr, err := r.renderer(width)
	if err != nil {
		return text, err
	}

	r.mu.Lock()
	out, err := tr.Render(text)
	r.mu.Unlock()
	if err != nil {
		return text, fmt.Errorf("render markdown: %w", err)
	}
	return strings.Trim(out, "\n"), nil
}

func (r *TerminalRenderer) renderer(width int) (*glamour.TermRenderer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if tr, ok := r.cache[width]; ok {
		return tr, nil
	}
	tr, err := glamour.NewTermRenderer(
		glamour.WithStyles(r.style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, fmt.Errorf("create markdown renderer: %w", err)
	}
	r.cache[width] = tr
	return tr, nil
}

// =============================================================================
// PLAIN
// =============================================================================

// Plain returns text unchanged. Used when output is not a terminal.
type Plain struct{}

// Render implements Renderer.
func (Plain) Render(text string, _ int) (string, error) {
	return text, nil
}
