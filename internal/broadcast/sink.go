// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package broadcast

import "time"

// Sink accepts stock symbols in EXCHANGE:SYMBOL form.
type Sink interface {
	Broadcast(symbol string)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(symbol string)

// Broadcast calls f.
func (f SinkFunc) Broadcast(symbol string) {
	f(symbol)
}

// Discard is a Sink that drops every symbol.
var Discard Sink = SinkFunc(func(string) {})

// Event is one broadcast symbol with the time it was sent.
type Event struct {
	Symbol string    `json:"symbol"`
	At     time.Time `json:"at"`
}

// Listener receives events from a Bus.
type Listener func(Event)

// Fanout forwards each symbol to every sink in order. Nil entries are skipped.
type Fanout []Sink

// Broadcast implements Sink.
func (f Fanout) Broadcast(symbol string) {
	for _, s := range f {
		if s != nil {
			s.Broadcast(symbol)
		}
	}
}
