// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"sync"
	"time"
)

// =============================================================================
// STATUS TYPE
// =============================================================================

// Status is the conversation's request state.
type Status int

const (
	// StatusIdle means no answer request is outstanding.
	StatusIdle Status = iota
	// StatusAwaiting means exactly one answer request is outstanding.
	StatusAwaiting
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusAwaiting:
		return "awaiting-response"
	default:
		return "unknown"
	}
}

// =============================================================================
// SNAPSHOT
// =============================================================================

// Snapshot is an immutable view of a Store at one instant.
// Messages must not be modified; it shares backing storage with the Store.
type Snapshot struct {
	Messages []Message
	Status   Status
}

// Len returns the number of messages.
func (s Snapshot) Len() int {
	return len(s.Messages)
}

// Awaiting reports whether a response was outstanding.
func (s Snapshot) Awaiting() bool {
	return s.Status == StatusAwaiting
}

// Last returns the newest message. ok is false for an empty snapshot.
func (s Snapshot) Last() (Message, bool) {
	if len(s.Messages) == 0 {
		return Message{}, false
	}
	return s.Messages[len(s.Messages)-1], true
}

// =============================================================================
// STORE
// =============================================================================

// Store is the append-only conversation: an ordered message list that starts
// with the greeting, plus the status flag.
//
// A Store has a single writer (the panel that owns it). Any number of
// goroutines may call Snapshot concurrently with that writer.
type Store struct {
	mu       sync.RWMutex
	messages []Message
	status   Status
	now      func() time.Time
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithClock sets the timestamp source. Used by tests.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// NewStore returns an idle store holding only the greeting.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		messages: make([]Message, 0, 16),
		status:   StatusIdle,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.messages = append(s.messages, newMessage(RoleAssistant, Greeting, nil, s.now()))
	return s
}

// Snapshot returns the current messages and status.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.messages)
	return Snapshot{
		// Capacity is clipped so an append by a reader cannot write into
		// the store's backing array.
		Messages: s.messages[:n:n],
		Status:   s.status,
	}
}

// Len returns the number of messages.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}

// Status returns the current status.
func (s *Store) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// SetStatus sets the status flag.
func (s *Store) SetStatus(st Status) {
	s.mu.Lock()
	s.status = st
	s.mu.Unlock()
}

// AppendUser appends a user message with the raw text as typed.
func (s *Store) AppendUser(content string) Message {
	return s.append(RoleUser, content, nil)
}

// AppendAssistant appends an assistant message with its citations.
func (s *Store) AppendAssistant(content string, citations []string) Message {
	return s.append(RoleAssistant, content, citations)
}

// BeginRequest appends a user message and marks the store as awaiting a
// response in one step, so no snapshot shows the query while idle.
func (s *Store) BeginRequest(content string) Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg := s.appendLocked(RoleUser, content, nil)
	s.status = StatusAwaiting
	return msg
}

func (s *Store) append(role Role, content string, citations []string) Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appendLocked(role, content, citations)
}

func (s *Store) appendLocked(role Role, content string, citations []string) Message {
	at := s.now()
	// Keep timestamps non-decreasing even if the wall clock steps back.
	if last := s.messages[len(s.messages)-1].Timestamp; at.Before(last) {
		at = last
	}

	msg := newMessage(role, content, citations, at)
	s.messages = append(s.messages, msg)
	return msg
}
