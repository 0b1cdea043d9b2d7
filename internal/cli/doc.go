// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the tradie command line.
//
// # Commands
//
//   - tradie            - full-screen chat panel
//   - tradie ask        - ask one question and print the answer
//   - tradie chat       - line-mode chat for plain terminals, with /export
//   - tradie serve      - HTTP surface plus line-mode chat
//   - tradie tickers    - list the company table
//   - tradie resolve    - show which symbol a text resolves to
//   - tradie config     - show and edit configuration
//   - tradie version    - print build information
package cli
