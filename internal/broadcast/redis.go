// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package broadcast

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// DefaultRedisChannel is the channel symbols are published on.
const DefaultRedisChannel = "tradie:symbol"

// DefaultPublishTimeout bounds one PUBLISH.
const DefaultPublishTimeout = 2 * time.Second

// Publisher is the subset of the Redis client used for publishing.
// *redis.Client satisfies it.
type Publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// RedisPublisher publishes events as JSON on a Redis channel.
type RedisPublisher struct {
	client  Publisher
	channel string
	timeout time.Duration
	now     func() time.Time
	log     zerolog.Logger
}

// RedisOption configures a RedisPublisher.
type RedisOption func(*RedisPublisher)

// WithRedisTimeout sets the per-publish timeout.
func WithRedisTimeout(d time.Duration) RedisOption {
	return func(p *RedisPublisher) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// WithRedisLogger sets the logger used for publish failures.
func WithRedisLogger(log zerolog.Logger) RedisOption {
	return func(p *RedisPublisher) {
		p.log = log
	}
}

// NewRedisPublisher creates a publisher on channel, or DefaultRedisChannel
// when channel is empty.
func NewRedisPublisher(client Publisher, channel string, opts ...RedisOption) *RedisPublisher {
	if channel == "" {
		channel = DefaultRedisChannel
	}
	p := &RedisPublisher{
		client:  client,
		channel: channel,
		timeout: DefaultPublishTimeout,
		now:     time.Now,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewRedisClient opens a client for addr and checks it with PING.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// Channel returns the channel name.
func (p *RedisPublisher) Channel() string {
	return p.channel
}

// Publish sends ev and returns the number of receiving subscribers.
func (p *RedisPublisher) Publish(ctx context.Context, ev Event) (int64, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return 0, fmt.Errorf("encode event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	n, err := p.client.Publish(ctx, p.channel, payload).Result()
	if err != nil {
		return 0, fmt.Errorf("redis publish %s: %w", p.channel, err)
	}
	return n, nil
}

// Listen is a Listener that publishes each event and logs failures.
// Subscribe it to a Bus so publishing happens off the broadcaster's goroutine.
func (p *RedisPublisher) Listen(ev Event) {
	n, err := p.Publish(context.Background(), ev)
	if err != nil {
		p.log.Warn().Err(err).Str("symbol", ev.Symbol).Msg("symbol publish failed")
		return
	}
	p.log.Debug().Str("symbol", ev.Symbol).Int64("receivers", n).Msg("symbol published")
}

// Broadcast implements Sink by publishing synchronously.
func (p *RedisPublisher) Broadcast(symbol string) {
	p.Listen(Event{Symbol: symbol, At: p.now()})
}
