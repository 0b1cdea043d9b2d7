// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jeranaias/tradie/internal/ui/components"
)

// askResult is the --json output of ask.
type askResult struct {
	Answer    string   `json:"answer"`
	Citations []string `json:"citations"`
	Symbol    string   `json:"symbol,omitempty"`
}

func newAskCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "ask <question...>",
		Short: "Ask one question and print the answer",
		Example: `  tradie ask "What moved Tesla today?"
  tradie ask --json why did Nvidia fall`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, func(a *app) error {
				s, ok := a.panel.Ask(cmd.Context(), strings.Join(args, " "))
				if !ok {
					return errors.New("question is empty")
				}
				if s.Err != nil {
					return fmt.Errorf("%s (%w)", components.NewFailureNotice(s.Err, time.Now()).Message, s.Err)
				}

				out := cmd.OutOrStdout()
				if asJSON {
					enc := json.NewEncoder(out)
					enc.SetIndent("", "  ")
					return enc.Encode(askResult{
						Answer:    s.Message.Content,
						Citations: append([]string{}, s.Message.Citations...),
						Symbol:    s.Symbol,
					})
				}

				p := newPrinter(out, a.renderer(out), a.wrapWidth(out))
				p.message(s.Message)
				if s.Symbol != "" {
					p.symbol(s.Symbol)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the answer, citations and symbol as JSON")
	return cmd
}
