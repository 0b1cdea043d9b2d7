// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package markdown renders assistant answers.
//
// TerminalRenderer draws GitHub-flavored markdown with ANSI styling through
// glamour. Individual elements (headings, links, code and so on) can be
// restyled with Overrides, typically loaded from the [ui.markdown] config
// table. HTMLRenderer converts the same text to HTML with goldmark for the
// browser mirror of the panel.
//
// Rendering never fails the caller: on a renderer error the input text is
// returned unchanged along with the error.
package markdown
