// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package broadcast delivers resolved stock symbols to the rest of the
// application.
//
// The panel only sees a Sink. Broadcast is fire-and-forget: it never blocks
// on listeners and never reports errors back to the caller.
//
// # Key Types
//
//   - Sink: anything that accepts a symbol
//   - Bus: in-process fan-out to subscribed listeners, remembers the last event
//   - Fanout: forwards one symbol to several sinks
//   - RedisPublisher: PUBLISHes each event as JSON on a Redis channel
//
// # Usage
//
//	bus := broadcast.NewBus()
//	defer bus.Close()
//	unsubscribe := bus.Subscribe(func(ev broadcast.Event) {
//	    fmt.Println("now showing", ev.Symbol)
//	})
//	defer unsubscribe()
//	bus.Broadcast("NASDAQ:TSLA")
package broadcast
