// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/jeranaias/tradie/internal/broadcast"
	"github.com/jeranaias/tradie/internal/metrics"
)

// Feed connection timing.
const (
	feedWriteWait  = 10 * time.Second
	feedPongWait   = 60 * time.Second
	feedPingPeriod = (feedPongWait * 9) / 10
	feedQueueSize  = 16
)

// feedHub upgrades /v1/symbol/ws requests and pushes every broadcast event
// to each connection as JSON. A slow client misses events rather than
// stalling the bus.
type feedHub struct {
	src      SymbolSource
	upgrader websocket.Upgrader
	metrics  *metrics.Recorder
	log      zerolog.Logger

	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

func newFeedHub(src SymbolSource, cors *CORSConfig, rec *metrics.Recorder, log zerolog.Logger) *feedHub {
	return &feedHub{
		src: src,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || cors.isOriginAllowed(origin) || sameHost(r, origin)
			},
		},
		metrics: rec,
		log:     log,
		conns:   make(map[*websocket.Conn]struct{}),
	}
}

// sameHost reports whether origin names the host the request was sent to.
func sameHost(r *http.Request, origin string) bool {
	return origin == "http://"+r.Host || origin == "https://"+r.Host
}

// Len returns the number of connected clients.
func (h *feedHub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

// CloseAll disconnects every client.
func (h *feedHub) CloseAll() {
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.conns))
	for c := range h.conns {
		conns = append(conns, c)
	}
	h.mu.Unlock()

	for _, c := range conns {
		_ = c.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutdown"),
			time.Now().Add(time.Second))
		c.Close()
	}
}

func (h *feedHub) add(c *websocket.Conn) {
	h.mu.Lock()
	h.conns[c] = struct{}{}
	h.mu.Unlock()
	if h.metrics != nil {
		h.metrics.FeedConnected(1)
	}
}

func (h *feedHub) remove(c *websocket.Conn) {
	h.mu.Lock()
	_, ok := h.conns[c]
	delete(h.conns, c)
	h.mu.Unlock()
	if ok && h.metrics != nil {
		h.metrics.FeedConnected(-1)
	}
}

// ServeHTTP upgrades the request and streams events until the client leaves.
func (h *feedHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the error response.
		h.log.Debug().Err(err).Msg("feed upgrade failed")
		return
	}
	h.add(conn)
	defer func() {
		h.remove(conn)
		conn.Close()
	}()

	queue := make(chan broadcast.Event, feedQueueSize)
	if ev, ok := h.src.Last(); ok {
		queue <- ev
	}
	unsubscribe := h.src.Subscribe(func(ev broadcast.Event) {
		select {
		case queue <- ev:
		default:
		}
	})
	defer unsubscribe()

	done := make(chan struct{})
	go h.readPump(conn, done)
	h.writePump(conn, queue, done)
}

// readPump discards client messages and handles pongs. It closes done when
// the connection fails.
func (h *feedHub) readPump(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(feedPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(feedPongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *feedHub) writePump(conn *websocket.Conn, queue <-chan broadcast.Event, done <-chan struct{}) {
	ticker := time.NewTicker(feedPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case ev := <-queue:
			_ = conn.SetWriteDeadline(time.Now().Add(feedWriteWait))
			if err := conn.WriteJSON(ev); err != nil {
				h.log.Debug().Err(err).Msg("feed write failed")
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(feedWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
