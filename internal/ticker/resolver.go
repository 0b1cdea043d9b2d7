// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ticker

import (
	"strings"

	"golang.org/x/text/cases"
)

// Resolver finds the first table entry mentioned in a block of text.
// It holds no mutable state and is safe for concurrent use.
type Resolver struct {
	table *Table
}

// NewResolver returns a Resolver over t. A nil table never matches.
func NewResolver(t *Table) *Resolver {
	return &Resolver{table: t}
}

// Resolve returns the symbol of the first entry, in table order, whose name
// occurs in text ignoring case. ok is false when nothing matches.
func (r *Resolver) Resolve(text string) (symbol string, ok bool) {
	if r == nil || r.table.Len() == 0 || text == "" {
		return "", false
	}

	haystack := fold(text)
	for i, name := range r.table.folded {
		if strings.Contains(haystack, name) {
			return r.table.entries[i].Symbol, true
		}
	}
	return "", false
}

// fold applies Unicode case folding. A Caser carries state, so each call
// gets its own.
func fold(s string) string {
	return cases.Fold().String(s)
}
