// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var (
		addr     string
		headless bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the symbol feed and panel over HTTP alongside line-mode chat",
		Long: `Serve starts the HTTP surface (/health, /v1/symbol, /v1/symbol/ws, /panel,
/metrics) and runs line-mode chat on the terminal. With --headless, or when
stdin is not a terminal, it only serves until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, func(a *app) error {
				if addr != "" {
					a.cfg.Server.Addr = addr
				}
				return runServe(cmd, a, headless || !isTerminal(os.Stdin))
			})
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from server.addr)")
	cmd.Flags().BoolVar(&headless, "headless", false, "serve only, without the chat prompt")
	return cmd
}

func runServe(cmd *cobra.Command, a *app, headless bool) error {
	ctx := cmd.Context()
	srv := a.newServer()

	errc := make(chan error, 1)
	go func() { errc <- srv.Start() }()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Serving on http://%s (panel at /panel, symbol feed at /v1/symbol/ws)\n\n", a.cfg.Server.Addr)

	var runErr error
	if headless {
		select {
		case <-ctx.Done():
		case runErr = <-errc:
		}
	} else {
		runErr = runChat(ctx, cmd, a)
		select {
		case err := <-errc:
			if runErr == nil {
				runErr = err
			}
		default:
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}
