// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package broadcast

import (
	"sync"
	"sync/atomic"
	"time"
)

// DefaultBufferSize is the per-listener queue length.
const DefaultBufferSize = 16

// Bus delivers each broadcast to every subscribed listener.
//
// Every listener runs on its own goroutine behind a bounded queue, so
// Broadcast returns immediately even if a listener is slow or calls back
// into the code that broadcast. When a listener's queue is full the event is
// dropped for that listener and counted.
type Bus struct {
	mu      sync.RWMutex
	subs    map[uint64]*subscriber
	nextID  uint64
	last    Event
	hasLast bool
	closed  bool

	bufSize int
	now     func() time.Time
	dropped atomic.Uint64
	sent    atomic.Uint64
}

type subscriber struct {
	ch   chan Event
	done chan struct{}
}

// BusOption configures a Bus.
type BusOption func(*Bus)

// WithBufferSize sets the per-listener queue length.
func WithBufferSize(n int) BusOption {
	return func(b *Bus) {
		if n > 0 {
			b.bufSize = n
		}
	}
}

// WithClock sets the event timestamp source.
func WithClock(now func() time.Time) BusOption {
	return func(b *Bus) {
		if now != nil {
			b.now = now
		}
	}
}

// NewBus creates an empty bus.
func NewBus(opts ...BusOption) *Bus {
	b := &Bus{
		subs:    make(map[uint64]*subscriber),
		bufSize: DefaultBufferSize,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe registers l and returns a function that removes it. The returned
// function waits for l's goroutine to exit, so it must not be called from
// inside l. It is safe to call more than once.
// Subscribing to a closed bus returns a no-op.
func (b *Bus) Subscribe(l Listener) func() {
	b.mu.Lock()
	if b.closed || l == nil {
		b.mu.Unlock()
		return func() {}
	}
	id := b.nextID
	b.nextID++
	sub := &subscriber{
		ch:   make(chan Event, b.bufSize),
		done: make(chan struct{}),
	}
	b.subs[id] = sub
	b.mu.Unlock()

	go func() {
		defer close(sub.done)
		for ev := range sub.ch {
			l(ev)
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			if s, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(s.ch)
			}
			b.mu.Unlock()
			<-sub.done
		})
	}
}

// Broadcast implements Sink. It records the event as the latest and queues
// it for every listener. Broadcasting on a closed bus does nothing.
func (b *Bus) Broadcast(symbol string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}

	ev := Event{Symbol: symbol, At: b.now()}
	b.last = ev
	b.hasLast = true
	b.sent.Add(1)

	for _, sub := range b.subs {
		select {
		case sub.ch <- ev:
		default:
			b.dropped.Add(1)
		}
	}
}

// Last returns the most recent event. ok is false before the first broadcast.
func (b *Bus) Last() (ev Event, ok bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.last, b.hasLast
}

// Subscribers returns the number of registered listeners.
func (b *Bus) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Sent returns the number of events broadcast.
func (b *Bus) Sent() uint64 {
	return b.sent.Load()
}

// Dropped returns the number of per-listener deliveries skipped because a
// queue was full.
func (b *Bus) Dropped() uint64 {
	return b.dropped.Load()
}

// Close removes all listeners and waits for their goroutines to finish
// delivering queued events.
func (b *Bus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	subs := b.subs
	b.subs = make(map[uint64]*subscriber)
	for _, s := range subs {
		close(s.ch)
	}
	b.mu.Unlock()

	for _, s := range subs {
		<-s.done
	}
}
