// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package broadcast

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type publishCall struct {
	channel string
	payload []byte
	hasDead bool
}

// fakePublisher records PUBLISH calls.
type fakePublisher struct {
	mu    sync.Mutex
	calls []publishCall
	err   error
}

func (f *fakePublisher) Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd {
	_, hasDeadline := ctx.Deadline()
	f.mu.Lock()
	f.calls = append(f.calls, publishCall{channel: channel, payload: message.([]byte), hasDead: hasDeadline})
	f.mu.Unlock()

	cmd := redis.NewIntCmd(ctx)
	if f.err != nil {
		cmd.SetErr(f.err)
	} else {
		cmd.SetVal(3)
	}
	return cmd
}

func TestRedisPublisher_Publish(t *testing.T) {
	fake := &fakePublisher{}
	p := NewRedisPublisher(fake, "")
	assert.Equal(t, DefaultRedisChannel, p.Channel())

	ev := Event{Symbol: "NASDAQ:TSLA", At: fixedClock()}
	n, err := p.Publish(context.Background(), ev)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	require.Len(t, fake.calls, 1)
	call := fake.calls[0]
	assert.Equal(t, DefaultRedisChannel, call.channel)
	assert.True(t, call.hasDead)

	var decoded Event
	require.NoError(t, json.Unmarshal(call.payload, &decoded))
	assert.Equal(t, "NASDAQ:TSLA", decoded.Symbol)
	assert.True(t, decoded.At.Equal(ev.At))
}

func TestRedisPublisher_Error(t *testing.T) {
	fake := &fakePublisher{err: errors.New("connection refused")}
	p := NewRedisPublisher(fake, "prices", WithRedisTimeout(time.Second))

	_, err := p.Publish(context.Background(), Event{Symbol: "NYSE:F"})
	assert.ErrorContains(t, err, "redis publish prices")

	// Listen swallows the error.
	p.Listen(Event{Symbol: "NYSE:F"})
	assert.Len(t, fake.calls, 2)
}

func TestRedisPublisher_AsBusListener(t *testing.T) {
	fake := &fakePublisher{}
	p := NewRedisPublisher(fake, "tickers")
	bus := NewBus()

	bus.Subscribe(p.Listen)
	bus.Broadcast("NYSE:GM")
	bus.Close() // drains the listener queue

	fake.mu.Lock()
	defer fake.mu.Unlock()
	require.Len(t, fake.calls, 1)
	assert.Equal(t, "tickers", fake.calls[0].channel)
}

func TestRedisPublisher_Sink(t *testing.T) {
	fake := &fakePublisher{}
	var sink Sink = NewRedisPublisher(fake, "x")
	sink.Broadcast("NYSE:V")
	assert.Len(t, fake.calls, 1)
}
