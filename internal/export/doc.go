// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes the current conversation to a file.
//
// Nothing is read back: an export is a transcript for the user, not a saved
// session.
//
// # Supported Formats
//
//   - Markdown: human-readable with citations as links
//   - JSON: machine-readable with the full message list
//   - HTML: standalone page with rendered assistant markdown
//
// # Usage
//
//	doc := export.NewDocument(panel.Snapshot(), symbol, "sonar")
//	exp, err := export.ForFormat("md", nil)
//	path, err := export.ToFile(doc, exp, ".")
package export
