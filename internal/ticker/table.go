// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ticker

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// ENTRY AND TABLE
// =============================================================================

// Entry pairs a company display name with its ticker symbol.
type Entry struct {
	Name   string `toml:"name" yaml:"name" json:"name"`
	Symbol string `toml:"symbol" yaml:"symbol" json:"symbol"`
}

// Table is an ordered, immutable company name to symbol mapping.
// The zero value is an empty table.
type Table struct {
	entries []Entry
	folded  []string // folded[i] is the case-folded entries[i].Name
}

var symbolPattern = regexp.MustCompile(`^[A-Z]+:[A-Z0-9.\-]+$`)

var (
	// ErrEmptyName is returned for an entry without a company name.
	ErrEmptyName = errors.New("empty company name")

	// ErrBadSymbol is returned for a symbol not in EXCHANGE:SYMBOL form.
	ErrBadSymbol = errors.New("symbol must be EXCHANGE:SYMBOL")

	// ErrDuplicateName is returned when two entries share a name.
	ErrDuplicateName = errors.New("duplicate company name")
)

// NewTable validates entries and builds a Table that preserves their order.
func NewTable(entries []Entry) (*Table, error) {
	t := &Table{
		entries: make([]Entry, 0, len(entries)),
		folded:  make([]string, 0, len(entries)),
	}
	seen := make(map[string]int, len(entries))

	for i, e := range entries {
		name := strings.TrimSpace(e.Name)
		if name == "" {
			return nil, fmt.Errorf("entry %d: %w", i, ErrEmptyName)
		}
		if !symbolPattern.MatchString(e.Symbol) {
			return nil, fmt.Errorf("entry %d (%s): %w: %q", i, name, ErrBadSymbol, e.Symbol)
		}
		key := fold(name)
		if prev, ok := seen[key]; ok {
			return nil, fmt.Errorf("entry %d (%s): %w with entry %d", i, name, ErrDuplicateName, prev)
		}
		seen[key] = i

		t.entries = append(t.entries, Entry{Name: name, Symbol: e.Symbol})
		t.folded = append(t.folded, key)
	}

	return t, nil
}

// MustTable is NewTable that panics on invalid input. Intended for static tables.
func MustTable(entries []Entry) *Table {
	t, err := NewTable(entries)
	if err != nil {
		panic(err)
	}
	return t
}

// Len returns the number of entries.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Entries returns a copy of the entries in enumeration order.
func (t *Table) Entries() []Entry {
	if t == nil {
		return nil
	}
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Symbols returns the distinct symbols in first-seen order.
func (t *Table) Symbols() []string {
	if t == nil {
		return nil
	}
	seen := make(map[string]bool, len(t.entries))
	out := make([]string, 0, len(t.entries))
	for _, e := range t.entries {
		if !seen[e.Symbol] {
			seen[e.Symbol] = true
			out = append(out, e.Symbol)
		}
	}
	return out
}

// =============================================================================
// BUILT-IN TABLE
// =============================================================================

// defaultEntries is the built-in table. Order is significant: the first entry
// whose name occurs in the text wins.
var defaultEntries = []Entry{
	{Name: "Apple", Symbol: "NASDAQ:AAPL"},
	{Name: "Microsoft", Symbol: "NASDAQ:MSFT"},
	{Name: "Alphabet", Symbol: "NASDAQ:GOOGL"},
	{Name: "Google", Symbol: "NASDAQ:GOOGL"},
	{Name: "Amazon", Symbol: "NASDAQ:AMZN"},
	{Name: "Meta", Symbol: "NASDAQ:META"},
	{Name: "Facebook", Symbol: "NASDAQ:META"},
	{Name: "Tesla", Symbol: "NASDAQ:TSLA"},
	{Name: "Nvidia", Symbol: "NASDAQ:NVDA"},
	{Name: "Netflix", Symbol: "NASDAQ:NFLX"},
	{Name: "AMD", Symbol: "NASDAQ:AMD"},
	{Name: "Intel", Symbol: "NASDAQ:INTC"},
	{Name: "Bank of America", Symbol: "NYSE:BAC"},
	{Name: "JPMorgan", Symbol: "NYSE:JPM"},
	{Name: "Goldman Sachs", Symbol: "NYSE:GS"},
	{Name: "Berkshire Hathaway", Symbol: "NYSE:BRK.B"},
	{Name: "Walmart", Symbol: "NYSE:WMT"},
	{Name: "Disney", Symbol: "NYSE:DIS"},
	{Name: "Coca-Cola", Symbol: "NYSE:KO"},
	{Name: "Nike", Symbol: "NYSE:NKE"},
	{Name: "Boeing", Symbol: "NYSE:BA"},
	{Name: "General Motors", Symbol: "NYSE:GM"},
	{Name: "Ford", Symbol: "NYSE:F"},
	{Name: "Exxon", Symbol: "NYSE:XOM"},
	{Name: "Pfizer", Symbol: "NYSE:PFE"},
	{Name: "Visa", Symbol: "NYSE:V"},
}

var defaultTable = sync.OnceValue(func() *Table {
	return MustTable(defaultEntries)
})

// DefaultTable returns the shared built-in table.
func DefaultTable() *Table {
	return defaultTable()
}

// =============================================================================
// TABLE FILES
// =============================================================================

// tableFile is the on-disk shape of a ticker table:
//
//	[[tickers]]
//	name = "Apple"
//	symbol = "NASDAQ:AAPL"
type tableFile struct {
	Tickers []Entry `toml:"tickers" yaml:"tickers" json:"tickers"`
}

// LoadTable reads a TOML, YAML or JSON table file, chosen by extension.
// Entry order in the file is the enumeration order.
func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read ticker table: %w", err)
	}

	var file tableFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("decode ticker table %s: %w", path, err)
		}
	case ".json":
		if err := json.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("decode ticker table %s: %w", path, err)
		}
	case ".toml", "":
		if _, err := toml.Decode(string(data), &file); err != nil {
			return nil, fmt.Errorf("decode ticker table %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("ticker table %s: unsupported extension %q", path, filepath.Ext(path))
	}

	if len(file.Tickers) == 0 {
		return nil, fmt.Errorf("ticker table %s: no entries", path)
	}
	return NewTable(file.Tickers)
}
