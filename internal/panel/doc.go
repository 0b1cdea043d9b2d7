// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package panel runs the chat panel's request cycle.
//
// A Panel owns the conversation store. One query moves through three steps:
//
//	req, ok := p.Submit(query)     // guard, append user message, mark awaiting
//	res := p.Fetch(ctx, req)        // the only blocking call, safe off the UI loop
//	s := p.Settle(req, res)         // append answer, resolve symbol, broadcast, mark idle
//
// Ask runs all three in order for callers that can block. At most one request
// is outstanding; Submit while awaiting does nothing. A failed request leaves
// only the user message behind and is reported through the logger, the
// Observer and the returned Settlement.
package panel
