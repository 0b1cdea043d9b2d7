// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package panel

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/tradie/internal/answer"
	"github.com/jeranaias/tradie/internal/broadcast"
	"github.com/jeranaias/tradie/internal/model"
	"github.com/jeranaias/tradie/internal/ticker"
)

// recordingSink remembers every broadcast symbol.
type recordingSink struct {
	mu      sync.Mutex
	symbols []string
}

func (r *recordingSink) Broadcast(symbol string) {
	r.mu.Lock()
	r.symbols = append(r.symbols, symbol)
	r.mu.Unlock()
}

func (r *recordingSink) got() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.symbols...)
}

// recordingObserver counts lifecycle events.
type recordingObserver struct {
	started  int
	outcomes []string
	resolved []string
}

func (o *recordingObserver) RequestStarted() { o.started++ }
func (o *recordingObserver) RequestFinished(outcome string, _ time.Duration) {
	o.outcomes = append(o.outcomes, outcome)
}
func (o *recordingObserver) SymbolResolved(symbol string, matched bool) {
	if matched {
		o.resolved = append(o.resolved, symbol)
	}
}

func staticClient(text string, cites ...string) answer.Client {
	return answer.ClientFunc(func(context.Context, string) (answer.Answer, error) {
		return answer.Answer{Text: text, Citations: cites}, nil
	})
}

func failingClient(err error) answer.Client {
	return answer.ClientFunc(func(context.Context, string) (answer.Answer, error) {
		return answer.Answer{}, err
	})
}

func newPanel(client answer.Client, sink broadcast.Sink, opts ...Option) *Panel {
	return New(client, ticker.NewResolver(ticker.DefaultTable()), sink, opts...)
}

// =============================================================================
// SUBMIT TESTS
// =============================================================================

func TestSubmit_AppendsUserMessageBeforeClientCall(t *testing.T) {
	var p *Panel
	var during model.Snapshot
	client := answer.ClientFunc(func(_ context.Context, q string) (answer.Answer, error) {
		during = p.Snapshot()
		return answer.Answer{Text: "ok"}, nil
	})
	p = newPanel(client, nil)

	_, ok := p.Ask(context.Background(), "Tell me about Tesla")
	require.True(t, ok)

	require.Equal(t, 2, during.Len())
	assert.Equal(t, model.RoleUser, during.Messages[1].Role)
	assert.Equal(t, "Tell me about Tesla", during.Messages[1].Content)
	assert.True(t, during.Awaiting())
}

func TestSubmit_RejectsEmptyAndWhitespace(t *testing.T) {
	p := newPanel(staticClient("x"), nil)

	for _, q := range []string{"", "   ", "\n\t "} {
		_, ok := p.Submit(q)
		assert.False(t, ok, "Submit(%q)", q)
	}
	snap := p.Snapshot()
	assert.Equal(t, 1, snap.Len())
	assert.Equal(t, model.StatusIdle, snap.Status)
}

func TestSubmit_NoOpWhileAwaiting(t *testing.T) {
	p := newPanel(staticClient("x"), nil)

	first, ok := p.Submit("first")
	require.True(t, ok)
	before := p.Snapshot()

	_, ok = p.Submit("second")
	assert.False(t, ok)
	assert.Equal(t, before, p.Snapshot())

	p.Settle(first, p.Fetch(context.Background(), first))
	assert.False(t, p.Awaiting())
}

func TestSubmit_SendsRawInputAndClearsDraft(t *testing.T) {
	var sent string
	client := answer.ClientFunc(func(_ context.Context, q string) (answer.Answer, error) {
		sent = q
		return answer.Answer{Text: "ok"}, nil
	})
	p := newPanel(client, nil)

	p.SetDraft("  What about Apple?  ")
	req, ok := p.SubmitDraft()
	require.True(t, ok)
	assert.Equal(t, "", p.Draft())

	p.Settle(req, p.Fetch(context.Background(), req))
	assert.Equal(t, "  What about Apple?  ", sent)
	assert.Equal(t, "  What about Apple?  ", p.Snapshot().Messages[1].Content)
}

// =============================================================================
// SETTLE TESTS
// =============================================================================

func TestAsk_SuccessAddsTwoMessages(t *testing.T) {
	sink := &recordingSink{}
	obs := &recordingObserver{}
	p := newPanel(staticClient("Tesla rallied on strong deliveries.", "https://news.example/tsla"), sink,
		WithObserver(obs))

	before := p.Snapshot().Len()
	s, ok := p.Ask(context.Background(), "Tell me about Tesla")
	require.True(t, ok)
	require.True(t, s.OK())

	snap := p.Snapshot()
	assert.Equal(t, before+2, snap.Len())
	assert.Equal(t, model.StatusIdle, snap.Status)

	last, _ := snap.Last()
	assert.Equal(t, model.RoleAssistant, last.Role)
	assert.Equal(t, []string{"https://news.example/tsla"}, last.Citations)
	assert.Equal(t, last, s.Message)

	assert.Equal(t, "NASDAQ:TSLA", s.Symbol)
	assert.Equal(t, []string{"NASDAQ:TSLA"}, sink.got())

	assert.Equal(t, 1, obs.started)
	assert.Equal(t, []string{"success"}, obs.outcomes)
	assert.Equal(t, []string{"NASDAQ:TSLA"}, obs.resolved)
}

func TestAsk_ResolvesAnswerNotQuery(t *testing.T) {
	sink := &recordingSink{}
	p := newPanel(staticClient("Rain is expected in Seattle."), sink)

	s, ok := p.Ask(context.Background(), "Is Apple a buy?")
	require.True(t, ok)
	assert.Empty(t, s.Symbol)
	assert.Empty(t, sink.got())
}

func TestAsk_FailureAddsOneMessage(t *testing.T) {
	var logs bytes.Buffer
	sink := &recordingSink{}
	obs := &recordingObserver{}
	p := newPanel(failingClient(answer.ErrRateLimited), sink,
		WithLogger(zerolog.New(&logs)), WithObserver(obs))

	before := p.Snapshot().Len()
	s, ok := p.Ask(context.Background(), "Tell me about Tesla")
	require.True(t, ok)

	assert.False(t, s.OK())
	assert.ErrorIs(t, s.Err, answer.ErrRateLimited)

	snap := p.Snapshot()
	assert.Equal(t, before+1, snap.Len())
	assert.Equal(t, model.StatusIdle, snap.Status)
	last, _ := snap.Last()
	assert.Equal(t, model.RoleUser, last.Role)

	assert.Empty(t, sink.got())
	assert.Equal(t, []string{"rate_limited"}, obs.outcomes)
	assert.Contains(t, logs.String(), "answer request failed")
	assert.Contains(t, logs.String(), `"class":"rate_limited"`)
}

func TestAsk_RecoversAfterFailure(t *testing.T) {
	calls := 0
	client := answer.ClientFunc(func(context.Context, string) (answer.Answer, error) {
		calls++
		if calls == 1 {
			return answer.Answer{}, errors.New("boom")
		}
		return answer.Answer{Text: "Nvidia leads"}, nil
	})
	sink := &recordingSink{}
	p := newPanel(client, sink)

	p.Ask(context.Background(), "one")
	s, ok := p.Ask(context.Background(), "two")
	require.True(t, ok)
	assert.True(t, s.OK())
	assert.Equal(t, 4, p.Snapshot().Len())
	assert.Equal(t, []string{"NASDAQ:NVDA"}, sink.got())
}

func TestSettle_AfterCloseIsDiscarded(t *testing.T) {
	sink := &recordingSink{}
	p := newPanel(staticClient("Tesla"), sink)

	req, ok := p.Submit("q")
	require.True(t, ok)
	res := p.Fetch(context.Background(), req)

	p.Close()
	s := p.Settle(req, res)

	assert.True(t, s.Discarded)
	assert.Equal(t, 2, p.Snapshot().Len())
	assert.Empty(t, sink.got())

	_, ok = p.Submit("again")
	assert.False(t, ok)
	assert.True(t, p.Closed())
}

func TestSettle_StaleRequestIsDiscarded(t *testing.T) {
	p := newPanel(staticClient("ok"), nil)

	req, _ := p.Submit("q")
	p.Settle(req, Result{Answer: answer.Answer{Text: "ok"}})

	s := p.Settle(req, Result{Answer: answer.Answer{Text: "again"}})
	assert.True(t, s.Discarded)
	assert.Equal(t, 3, p.Snapshot().Len())

	s = p.Settle(Request{ID: "unknown"}, Result{})
	assert.True(t, s.Discarded)
}

func TestFetch_MeasuresElapsed(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	clock := func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
	p := newPanel(staticClient("ok"), nil, WithClock(clock))

	req, _ := p.Submit("q")
	res := p.Fetch(context.Background(), req)
	assert.Equal(t, time.Second, res.Elapsed)
}

func TestNew_Defaults(t *testing.T) {
	p := New(staticClient("Microsoft cloud growth"), nil, nil)
	s, ok := p.Ask(context.Background(), "q")
	require.True(t, ok)
	assert.Equal(t, "NASDAQ:MSFT", s.Symbol)
}

func TestPanel_WithBus(t *testing.T) {
	bus := broadcast.NewBus()
	got := make(chan broadcast.Event, 1)
	bus.Subscribe(func(ev broadcast.Event) { got <- ev })

	p := newPanel(staticClient("Tesla rallied"), bus)
	p.Ask(context.Background(), "Tell me about Tesla")

	select {
	case ev := <-got:
		assert.Equal(t, "NASDAQ:TSLA", ev.Symbol)
	case <-time.After(time.Second):
		t.Fatal("no broadcast received")
	}
	bus.Close()
}
