// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging builds the zerolog logger shared by every component.
//
// The TUI owns the terminal, so the default sink is a file under the tradie
// home directory. Components derive child loggers with Component.
package logging
