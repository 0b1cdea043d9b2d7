// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jeranaias/tradie/internal/ticker"
)

// tableFile mirrors the on-disk ticker table layout so output can be edited
// and loaded back with tickers.table_path.
type tableFile struct {
	Tickers []ticker.Entry `toml:"tickers" yaml:"tickers" json:"tickers"`
}

func newTickersCmd(opts *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "tickers",
		Short: "List the company names tradie recognizes, in match order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			t, err := loadTable(cfg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			file := tableFile{Tickers: t.Entries()}
			switch strings.ToLower(format) {
			case "table":
				fmt.Fprintln(out, renderTickerTable(file.Tickers))
				fmt.Fprintf(out, "%d names, %d symbols\n", t.Len(), len(t.Symbols()))
				return nil
			case "toml":
				return toml.NewEncoder(out).Encode(file)
			case "yaml":
				enc := yaml.NewEncoder(out)
				enc.SetIndent(2)
				if err := enc.Encode(file); err != nil {
					return err
				}
				return enc.Close()
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(file)
			default:
				return fmt.Errorf("unknown format %q (want table, toml, yaml or json)", format)
			}
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "table", "output format: table, toml, yaml or json")
	return cmd
}

func renderTickerTable(entries []ticker.Entry) string {
	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = []string{strconv.Itoa(i + 1), e.Name, e.Symbol}
	}
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "NAME", "SYMBOL").
		Rows(rows...).
		String()
}

// errNoMatch is returned by resolve when no company name is found.
var errNoMatch = errors.New("no known company name found")

func newResolveCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <text...>",
		Short: "Print the symbol a text would broadcast",
		Long: `Resolve scans the text for company names in table order and prints the
symbol of the first name found, exactly as the panel does for answers.`,
		Example: `  tradie resolve "Tesla and Apple both rallied"   # NASDAQ:AAPL, Apple is listed first`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			t, err := loadTable(cfg)
			if err != nil {
				return err
			}
			symbol, ok := ticker.NewResolver(t).Resolve(strings.Join(args, " "))
			if !ok {
				return errNoMatch
			}
			fmt.Fprintln(cmd.OutOrStdout(), symbol)
			return nil
		},
	}
}
