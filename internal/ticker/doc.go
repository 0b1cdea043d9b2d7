// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ticker maps free-text company mentions to exchange-qualified ticker
// symbols.
//
// # Key Types
//
//   - Entry: one (company display name, EXCHANGE:SYMBOL) pair
//   - Table: an immutable, ordered sequence of entries
//   - Resolver: scans text against a Table, first match wins
//
// # Usage
//
//	r := ticker.NewResolver(ticker.DefaultTable())
//	if sym, ok := r.Resolve("why did ChatGPT's maker invest in Apple today"); ok {
//	    fmt.Println(sym) // NASDAQ:AAPL
//	}
//
// Matching is a case-insensitive substring test, tried in table order. A table
// holding both a long name and a shorter name contained in it resolves to
// whichever entry comes first. Short names can match inside unrelated words
// ("Meta" in "metals"); that is the accepted behavior of the scan.
package ticker
