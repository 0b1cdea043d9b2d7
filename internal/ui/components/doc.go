// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides the visual pieces of the chat panel.

# Components

Header (header.go) - Title, subtitle and the linked symbol display.
MessageCard (message.go) - One message with its "Tradie" or "You" label.
Citations (citations.go) - Numbered "Source N" links under an answer.
Thinking (spinner.go) - Spinner shown while a response is awaited.
Notice (notice.go) - Transient status-line notice after a failed request.
Conversation (conversation.go) - Renders a snapshot as a list of cards.

All components are plain values rendered with View or Render. None of them
mutate the conversation.
*/
package components
