// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the colors and lipgloss styles of the chat panel.
// Colors are lipgloss.AdaptiveColor values so light and dark terminals both
// read well.
package styles
