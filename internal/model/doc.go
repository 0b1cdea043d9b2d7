// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the conversation store and its message type.
//
// # Key Types
//
//   - Message: one turn with role, content, citations and timestamp
//   - Store: append-only message list that starts with the greeting, plus status
//   - Snapshot: immutable view of a Store handed to renderers
//   - Status: idle or awaiting-response
//
// # Usage
//
//	store := model.NewStore()
//	store.BeginRequest("What moved Tesla today?") // user message + awaiting
//	snap := store.Snapshot() // safe to read from another goroutine
package model
