// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"io"

	"github.com/rs/zerolog"

	"github.com/jeranaias/tradie/internal/answer"
	"github.com/jeranaias/tradie/internal/broadcast"
	"github.com/jeranaias/tradie/internal/config"
	"github.com/jeranaias/tradie/internal/logging"
	"github.com/jeranaias/tradie/internal/markdown"
	"github.com/jeranaias/tradie/internal/metrics"
	"github.com/jeranaias/tradie/internal/panel"
	"github.com/jeranaias/tradie/internal/server"
	"github.com/jeranaias/tradie/internal/ticker"
)

// app holds the wired components shared by the chat commands.
type app struct {
	cfg     *config.Config
	log     zerolog.Logger
	table   *ticker.Table
	bus     *broadcast.Bus
	metrics *metrics.Recorder
	client  *answer.PerplexityClient
	panel   *panel.Panel
	closers []io.Closer
	unsubs  []func()

	// exportDir receives /export transcripts in line mode.
	exportDir string
}

// newApp builds the panel and its collaborators from cfg.
func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	log, logCloser, err := logging.New(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Path:   cfg.LogPath(),
	})
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, log: log, closers: []io.Closer{logCloser}}

	table, err := loadTable(cfg)
	if err != nil {
		a.close()
		return nil, err
	}
	a.table = table

	a.bus = broadcast.NewBus()
	a.metrics = metrics.New()
	a.client = answer.NewPerplexityClient(cfg.Answer.APIKey).
		WithBaseURL(cfg.Answer.BaseURL).
		WithModel(cfg.Answer.Model).
		WithSystemPrompt(cfg.Answer.SystemPrompt).
		WithTimeout(cfg.Answer.Timeout).
		WithLogger(logging.Component(log, "answer"))

	if cfg.Broadcast.RedisAddr != "" {
		a.attachRedis(ctx)
	}

	a.panel = panel.New(a.client, ticker.NewResolver(table), a.bus,
		panel.WithLogger(logging.Component(log, "panel")),
		panel.WithObserver(a.metrics),
	)

	log.Info().
		Str("model", a.client.Model()).
		Str("key", a.client.KeyFingerprint()).
		Int("tickers", table.Len()).
		Msg("panel ready")
	return a, nil
}

// attachRedis mirrors bus events to Redis. A connection failure is logged
// and the panel runs without it.
func (a *app) attachRedis(ctx context.Context) {
	b := a.cfg.Broadcast
	log := logging.Component(a.log, "redis")

	client, err := broadcast.NewRedisClient(ctx, b.RedisAddr, b.RedisPassword, b.RedisDB)
	if err != nil {
		log.Warn().Err(err).Str("addr", b.RedisAddr).Msg("redis unavailable, symbols stay local")
		return
	}
	pub := broadcast.NewRedisPublisher(client, b.RedisChannel, broadcast.WithRedisLogger(log))
	a.closers = append(a.closers, client)
	a.unsubs = append(a.unsubs, a.bus.Subscribe(pub.Listen))
	log.Info().Str("addr", b.RedisAddr).Str("channel", pub.Channel()).Msg("publishing symbols to redis")
}

func loadTable(cfg *config.Config) (*ticker.Table, error) {
	if cfg.Tickers.TablePath == "" {
		return ticker.DefaultTable(), nil
	}
	return ticker.LoadTable(cfg.Tickers.TablePath)
}

// renderer picks glamour for terminals and plain text otherwise.
func (a *app) renderer(out io.Writer) markdown.Renderer {
	if !isTerminal(out) {
		return markdown.Plain{}
	}
	return a.terminalRenderer()
}

func (a *app) terminalRenderer() markdown.Renderer {
	overrides, err := markdown.ParseOverrides(a.cfg.UI.Markdown)
	if err == nil {
		var r *markdown.TerminalRenderer
		if r, err = markdown.NewTerminalRenderer(markdown.Theme(a.cfg.UI.Theme), overrides); err == nil {
			return r
		}
	}
	a.log.Warn().Err(err).Msg("markdown renderer unavailable, using plain text")
	return markdown.Plain{}
}

// wrapWidth returns the configured word wrap, or the terminal width.
func (a *app) wrapWidth(out io.Writer) int {
	if a.cfg.UI.WordWrap > 0 {
		return a.cfg.UI.WordWrap
	}
	return terminalWidth(out)
}

// newServer builds the HTTP surface over this app.
func (a *app) newServer() *server.Server {
	return server.New(a.cfg.Server.Addr,
		server.WithSymbols(a.bus),
		server.WithPanel(a.panel),
		server.WithMetrics(a.metrics),
		server.WithAllowedOrigins(a.cfg.Server.AllowedOrigins),
		server.WithLogger(logging.Component(a.log, "server")),
	)
}

// close tears everything down in reverse order of construction.
func (a *app) close() {
	if a.panel != nil {
		a.panel.Close()
	}
	for _, unsub := range a.unsubs {
		unsub()
	}
	if a.bus != nil {
		a.bus.Close()
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i].Close()
	}
}
