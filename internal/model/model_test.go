// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// ROLE TESTS
// =============================================================================

func TestRole_DisplayName(t *testing.T) {
	tests := []struct {
		role Role
		want string
	}{
		{RoleUser, "You"},
		{RoleAssistant, "Tradie"},
		{Role("other"), "other"},
	}

	for _, tc := range tests {
		if got := tc.role.DisplayName(); got != tc.want {
			t.Errorf("%q.DisplayName() = %q, want %q", tc.role, got, tc.want)
		}
	}
}

func TestMessage_Preview(t *testing.T) {
	m := Message{Content: "Tesla shares rallied"}

	assert.Equal(t, "Tesla shares rallied", m.Preview(100))
	assert.Equal(t, "Tesla s...", m.Preview(10))
	assert.Equal(t, "Te", m.Preview(2))
	assert.Equal(t, "Tesla shares rallied", m.Preview(0))
}

// =============================================================================
// STORE TESTS
// =============================================================================

func TestNewStore_StartsWithGreeting(t *testing.T) {
	s := NewStore()
	snap := s.Snapshot()

	require.Equal(t, 1, snap.Len())
	assert.Equal(t, RoleAssistant, snap.Messages[0].Role)
	assert.Equal(t, Greeting, snap.Messages[0].Content)
	assert.Empty(t, snap.Messages[0].Citations)
	assert.Equal(t, StatusIdle, snap.Status)
	assert.False(t, snap.Awaiting())
}

func TestStore_AppendOrderAndPrefix(t *testing.T) {
	s := NewStore()
	before := s.Snapshot()

	u := s.AppendUser("  raw input  ")
	a := s.AppendAssistant("answer", []string{"https://a.example", "https://b.example"})
	after := s.Snapshot()

	require.Equal(t, 3, after.Len())
	// Earlier snapshots are a prefix of later ones.
	assert.Equal(t, before.Messages, after.Messages[:before.Len()])

	assert.Equal(t, "  raw input  ", after.Messages[1].Content)
	assert.Equal(t, RoleUser, after.Messages[1].Role)
	assert.Equal(t, u.ID, after.Messages[1].ID)
	assert.Nil(t, after.Messages[1].Citations)

	assert.Equal(t, a.ID, after.Messages[2].ID)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, after.Messages[2].Citations)

	last, ok := after.Last()
	require.True(t, ok)
	assert.Equal(t, "answer", last.Content)
}

func TestStore_UniqueIDs(t *testing.T) {
	s := NewStore()
	for i := 0; i < 20; i++ {
		s.AppendUser("q")
	}
	seen := map[string]bool{}
	for _, m := range s.Snapshot().Messages {
		if seen[m.ID] {
			t.Fatalf("duplicate id %s", m.ID)
		}
		seen[m.ID] = true
	}
}

func TestStore_CitationsCopied(t *testing.T) {
	s := NewStore()
	cites := []string{"https://a.example"}
	s.AppendAssistant("x", cites)
	cites[0] = "mutated"

	last, _ := s.Snapshot().Last()
	assert.Equal(t, "https://a.example", last.Citations[0])
}

func TestStore_TimestampsNonDecreasing(t *testing.T) {
	base := time.Date(2025, 1, 2, 15, 4, 5, 0, time.UTC)
	times := []time.Time{base, base.Add(time.Second), base.Add(-time.Minute), base.Add(2 * time.Second)}
	i := 0
	clock := func() time.Time {
		tm := times[i]
		i++
		return tm
	}

	s := NewStore(WithClock(clock))
	s.AppendUser("a")
	s.AppendAssistant("b", nil) // clock stepped back
	s.AppendUser("c")

	msgs := s.Snapshot().Messages
	for j := 1; j < len(msgs); j++ {
		if msgs[j].Timestamp.Before(msgs[j-1].Timestamp) {
			t.Errorf("message %d timestamp %v before %v", j, msgs[j].Timestamp, msgs[j-1].Timestamp)
		}
	}
	assert.Equal(t, base.Add(time.Second), msgs[2].Timestamp)
}

func TestStore_Status(t *testing.T) {
	s := NewStore()
	s.SetStatus(StatusAwaiting)
	assert.Equal(t, StatusAwaiting, s.Status())
	assert.Equal(t, "awaiting-response", s.Status().String())

	s.SetStatus(StatusIdle)
	assert.Equal(t, "idle", s.Status().String())
}

func TestStore_BeginRequest(t *testing.T) {
	s := NewStore()
	msg := s.BeginRequest("What moved Tesla?")

	snap := s.Snapshot()
	require.Equal(t, 2, snap.Len())
	assert.Equal(t, msg, snap.Messages[1])
	assert.Equal(t, RoleUser, msg.Role)
	assert.True(t, snap.Awaiting())
}

func TestStore_BeginRequestNeverSeenIdle(t *testing.T) {
	s := NewStore()
	done := make(chan struct{})
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			default:
			}
			snap := s.Snapshot()
			if last, _ := snap.Last(); last.IsUser() && !snap.Awaiting() {
				t.Error("user message visible while idle")
				return
			}
		}
	}()

	for i := 0; i < 200; i++ {
		s.BeginRequest("q")
		s.AppendAssistant("a", nil)
		s.SetStatus(StatusIdle)
	}
	close(done)
	wg.Wait()
}

func TestStore_SnapshotNotAliased(t *testing.T) {
	s := NewStore()
	snap := s.Snapshot()

	// Appending to a snapshot must not leak into the store.
	grown := append(snap.Messages, Message{Content: "intruder"})
	s.AppendUser("real")

	msgs := s.Snapshot().Messages
	require.Len(t, msgs, 2)
	assert.Equal(t, "real", msgs[1].Content)
	assert.Equal(t, "intruder", grown[1].Content)
}

func TestStore_ConcurrentReaders(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup

	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				snap := s.Snapshot()
				if snap.Len() == 0 || snap.Messages[0].Content != Greeting {
					t.Error("snapshot lost the greeting")
					return
				}
			}
		}()
	}

	for i := 0; i < 200; i++ {
		s.AppendUser("q")
	}
	wg.Wait()
	assert.Equal(t, 201, s.Len())
}
