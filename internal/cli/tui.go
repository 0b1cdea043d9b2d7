// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jeranaias/tradie/internal/ui/chat"
	"github.com/jeranaias/tradie/internal/ui/styles"
)

// errNoTTY is returned when the full-screen panel cannot run.
var errNoTTY = errors.New("the chat panel needs a terminal; use 'tradie chat' or 'tradie ask' instead")

// runTUI runs the full-screen panel. Broadcast symbols reach the header
// through the bus.
func runTUI(cmd *cobra.Command, a *app) error {
	if !isTerminal(os.Stdin) || !isTerminal(os.Stdout) {
		return errNoTTY
	}

	opts := []chat.Option{
		chat.WithHyperlinks(a.cfg.UI.Hyperlinks),
		chat.WithContext(cmd.Context()),
	}
	if ev, ok := a.bus.Last(); ok {
		opts = append(opts, chat.WithSymbol(ev.Symbol))
	}
	m := chat.New(a.panel, styles.NewTheme(), a.terminalRenderer(), opts...)

	prog := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(cmd.Context()))
	unsubscribe := a.bus.Subscribe(chat.SymbolListener(prog.Send))
	defer unsubscribe()

	if a.cfg.Server.Enabled {
		stop := startBackground(a)
		defer stop()
	}

	_, err := prog.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}

// startBackground serves HTTP while another front end runs. The returned
// function shuts the server down.
func startBackground(a *app) func() {
	srv := a.newServer()
	go func() {
		if err := srv.Start(); err != nil {
			a.log.Error().Err(err).Str("addr", a.cfg.Server.Addr).Msg("http server failed")
		}
	}()
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}
