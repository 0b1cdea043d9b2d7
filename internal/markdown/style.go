// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package markdown

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/glamour/ansi"
)

// =============================================================================
// ELEMENTS
// =============================================================================

// Element names a markdown construct that can be restyled.
type Element string

const (
	ElementHeading        Element = "heading"
	ElementLink           Element = "link"
	ElementLinkText       Element = "link_text"
	ElementCode           Element = "code"
	ElementCodeBlock      Element = "code_block"
	ElementBlockQuote     Element = "block_quote"
	ElementStrong         Element = "strong"
	ElementEmphasis       Element = "emphasis"
	ElementTable          Element = "table"
	ElementListItem       Element = "list_item"
	ElementHorizontalRule Element = "horizontal_rule"
)

// Elements lists every restylable element.
func Elements() []Element {
	return []Element{
		ElementHeading, ElementLink, ElementLinkText, ElementCode,
		ElementCodeBlock, ElementBlockQuote, ElementStrong, ElementEmphasis,
		ElementTable, ElementListItem, ElementHorizontalRule,
	}
}

// Valid reports whether e is a known element.
func (e Element) Valid() bool {
	for _, known := range Elements() {
		if e == known {
			return true
		}
	}
	return false
}

// =============================================================================
// STYLE
// =============================================================================

// Style is a partial element style. Unset fields keep the theme's value.
type Style struct {
	Color      string `toml:"color" json:"color,omitempty"`
	Background string `toml:"background" json:"background,omitempty"`
	Bold       *bool  `toml:"bold" json:"bold,omitempty"`
	Italic     *bool  `toml:"italic" json:"italic,omitempty"`
	Underline  *bool  `toml:"underline" json:"underline,omitempty"`
	Prefix     string `toml:"prefix" json:"prefix,omitempty"`
	Suffix     string `toml:"suffix" json:"suffix,omitempty"`
}

// Overrides maps elements to replacement styles.
type Overrides map[Element]Style

// ParseOverrides converts a config table keyed by element name.
func ParseOverrides(raw map[string]Style) (Overrides, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make(Overrides, len(raw))
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		el := Element(k)
		if !el.Valid() {
			return nil, fmt.Errorf("unknown markdown element %q", k)
		}
		out[el] = raw[k]
	}
	return out, nil
}

// apply writes the set fields of s onto p.
func (s Style) apply(p *ansi.StylePrimitive) {
	if s.Color != "" {
		p.Color = strPtr(s.Color)
	}
	if s.Background != "" {
		p.BackgroundColor = strPtr(s.Background)
	}
	if s.Bold != nil {
		p.Bold = boolPtr(*s.Bold)
	}
	if s.Italic != nil {
		p.Italic = boolPtr(*s.Italic)
	}
	if s.Underline != nil {
		p.Underline = boolPtr(*s.Underline)
	}
	if s.Prefix != "" {
		p.Prefix = s.Prefix
	}
	if s.Suffix != "" {
		p.Suffix = s.Suffix
	}
}

// Apply returns a copy of base with the overrides applied.
func (o Overrides) Apply(base ansi.StyleConfig) ansi.StyleConfig {
	cfg := base
	for el, s := range o {
		switch el {
		case ElementHeading:
			s.apply(&cfg.Heading.StylePrimitive)
		case ElementLink:
			s.apply(&cfg.Link)
		case ElementLinkText:
			s.apply(&cfg.LinkText)
		case ElementCode:
			s.apply(&cfg.Code.StylePrimitive)
		case ElementCodeBlock:
			s.apply(&cfg.CodeBlock.StylePrimitive)
		case ElementBlockQuote:
			s.apply(&cfg.BlockQuote.StylePrimitive)
		case ElementStrong:
			s.apply(&cfg.Strong)
		case ElementEmphasis:
			s.apply(&cfg.Emph)
		case ElementTable:
			s.apply(&cfg.Table.StylePrimitive)
		case ElementListItem:
			s.apply(&cfg.Item)
		case ElementHorizontalRule:
			s.apply(&cfg.HorizontalRule)
		}
	}
	return cfg
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }
