// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package panel

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jeranaias/tradie/internal/answer"
	"github.com/jeranaias/tradie/internal/broadcast"
	"github.com/jeranaias/tradie/internal/model"
	"github.com/jeranaias/tradie/internal/ticker"
)

// =============================================================================
// TYPES
// =============================================================================

// Request identifies one submitted query.
type Request struct {
	ID      string
	Query   string
	Started time.Time
}

// Result is the outcome of Fetch.
type Result struct {
	Answer  answer.Answer
	Err     error
	Elapsed time.Duration
}

// Settlement reports what Settle did.
type Settlement struct {
	// Discarded is set when the panel was closed or the request was not the
	// outstanding one. Nothing else happened.
	Discarded bool

	// Err is the answer failure, if any. No message was appended.
	Err error

	// Message is the appended assistant message on success.
	Message model.Message

	// Symbol is the broadcast symbol, empty when nothing matched.
	Symbol string
}

// OK reports whether an assistant message was appended.
func (s Settlement) OK() bool {
	return !s.Discarded && s.Err == nil
}

// Observer receives request lifecycle events. Implementations must not block.
type Observer interface {
	RequestStarted()
	RequestFinished(outcome string, elapsed time.Duration)
	SymbolResolved(symbol string, matched bool)
}

type nopObserver struct{}

func (nopObserver) RequestStarted()                      {}
func (nopObserver) RequestFinished(string, time.Duration) {}
func (nopObserver) SymbolResolved(string, bool)          {}

// =============================================================================
// PANEL
// =============================================================================

// Panel is the conversation controller. Its methods may be called from
// several goroutines; Fetch does not hold any lock.
type Panel struct {
	store    *model.Store
	client   answer.Client
	resolver *ticker.Resolver
	sink     broadcast.Sink
	log      zerolog.Logger
	obs      Observer
	now      func() time.Time

	mu      sync.Mutex
	pending string // ID of the outstanding request
	draft   string
	closed  bool
}

// Option configures a Panel.
type Option func(*Panel)

// WithLogger sets the diagnostics logger.
func WithLogger(log zerolog.Logger) Option {
	return func(p *Panel) { p.log = log }
}

// WithObserver sets the lifecycle observer.
func WithObserver(o Observer) Option {
	return func(p *Panel) {
		if o != nil {
			p.obs = o
		}
	}
}

// WithClock sets the time source for requests and messages.
func WithClock(now func() time.Time) Option {
	return func(p *Panel) {
		if now != nil {
			p.now = now
		}
	}
}

// New creates a panel with a fresh conversation. A nil resolver uses the
// built-in ticker table; a nil sink discards symbols.
func New(client answer.Client, resolver *ticker.Resolver, sink broadcast.Sink, opts ...Option) *Panel {
	p := &Panel{
		client:   client,
		resolver: resolver,
		sink:     sink,
		log:      zerolog.Nop(),
		obs:      nopObserver{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.resolver == nil {
		p.resolver = ticker.NewResolver(ticker.DefaultTable())
	}
	if p.sink == nil {
		p.sink = broadcast.Discard
	}
	p.store = model.NewStore(model.WithClock(p.now))
	return p
}

// Snapshot returns the current conversation.
func (p *Panel) Snapshot() model.Snapshot {
	return p.store.Snapshot()
}

// Awaiting reports whether a request is outstanding.
func (p *Panel) Awaiting() bool {
	return p.store.Status() == model.StatusAwaiting
}

// Draft returns the pending input.
func (p *Panel) Draft() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.draft
}

// SetDraft replaces the pending input.
func (p *Panel) SetDraft(s string) {
	p.mu.Lock()
	p.draft = s
	p.mu.Unlock()
}

// SubmitDraft submits the pending input.
func (p *Panel) SubmitDraft() (Request, bool) {
	return p.Submit(p.Draft())
}

// Submit starts a request for query. It does nothing and returns false when
// the trimmed query is empty, a request is outstanding, or the panel is
// closed. Otherwise it appends the query as typed, clears the draft and
// marks the conversation as awaiting a response.
func (p *Panel) Submit(query string) (Request, bool) {
	if strings.TrimSpace(query) == "" {
		return Request{}, false
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed || p.pending != "" {
		return Request{}, false
	}

	req := Request{
		ID:      uuid.NewString(),
		Query:   query,
		Started: p.now(),
	}
	p.store.BeginRequest(query)
	p.draft = ""
	p.pending = req.ID
	p.obs.RequestStarted()

	p.log.Debug().Str("request", req.ID).Int("query_len", len(query)).Msg("query submitted")
	return req, true
}

// Fetch asks the answer client for req. It is the only blocking step and
// touches no panel state.
func (p *Panel) Fetch(ctx context.Context, req Request) Result {
	start := p.now()
	ans, err := p.client.Answer(ctx, req.Query)
	return Result{Answer: ans, Err: err, Elapsed: p.now().Sub(start)}
}

// Settle applies res to the conversation. On success it appends the answer,
// resolves a symbol from the answer text and broadcasts it. On failure it
// logs the error and appends nothing. Either way the conversation returns to
// idle. Results for a closed panel or a request that is no longer
// outstanding are discarded.
func (p *Panel) Settle(req Request, res Result) Settlement {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed || p.pending != req.ID {
		p.log.Debug().Str("request", req.ID).Bool("closed", p.closed).Msg("result discarded")
		return Settlement{Discarded: true, Err: res.Err}
	}
	p.pending = ""
	defer p.store.SetStatus(model.StatusIdle)

	if res.Err != nil {
		class := answer.Classify(res.Err)
		p.log.Error().
			Err(res.Err).
			Str("request", req.ID).
			Str("class", class).
			Int("query_len", len(req.Query)).
			Dur("elapsed", res.Elapsed).
			Msg("answer request failed")
		p.obs.RequestFinished(class, res.Elapsed)
		return Settlement{Err: res.Err}
	}

	msg := p.store.AppendAssistant(res.Answer.Text, res.Answer.Citations)
	p.obs.RequestFinished("success", res.Elapsed)

	s := Settlement{Message: msg}
	symbol, ok := p.resolver.Resolve(res.Answer.Text)
	p.obs.SymbolResolved(symbol, ok)
	if ok {
		s.Symbol = symbol
		p.sink.Broadcast(symbol)
	}

	p.log.Info().
		Str("request", req.ID).
		Dur("elapsed", res.Elapsed).
		Int("citations", len(msg.Citations)).
		Str("symbol", symbol).
		Msg("answer received")
	return s
}

// Ask submits query, waits for the answer and settles it. ok is false when
// Submit refused the query.
func (p *Panel) Ask(ctx context.Context, query string) (s Settlement, ok bool) {
	req, ok := p.Submit(query)
	if !ok {
		return Settlement{}, false
	}
	return p.Settle(req, p.Fetch(ctx, req)), true
}

// Close tears the panel down. Later submissions are refused and an
// outstanding result is discarded when it arrives.
func (p *Panel) Close() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
}

// Closed reports whether Close was called.
func (p *Panel) Closed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}
