// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/jeranaias/tradie/internal/config"
	"github.com/jeranaias/tradie/internal/export"
	"github.com/jeranaias/tradie/internal/ui/components"
)

// Prompt shown in line mode.
const chatPrompt = "you> "

// lineReader reads one line of input. *liner.State implements it.
type lineReader interface {
	Prompt(prompt string) (string, error)
}

// =============================================================================
// INPUT HISTORY
// =============================================================================

// historyReader adds persistent history and line editing to a liner.
type historyReader struct {
	line *liner.State
	path string
}

func newHistoryReader() *historyReader {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	dir, err := config.Dir()
	if err != nil {
		dir = os.TempDir()
	}
	h := &historyReader{line: line, path: filepath.Join(dir, "chat_history")}
	if f, err := os.Open(h.path); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}
	return h
}

// Prompt reads a line and records it in history.
func (h *historyReader) Prompt(prompt string) (string, error) {
	input, err := h.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		h.line.AppendHistory(input)
	}
	return input, nil
}

// Close saves history with owner-only permissions and restores the terminal.
func (h *historyReader) Close() {
	if err := os.MkdirAll(filepath.Dir(h.path), 0700); err == nil {
		if f, err := os.OpenFile(h.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600); err == nil {
			_, _ = h.line.WriteHistory(f)
			f.Close()
		}
	}
	h.line.Close()
}

// =============================================================================
// COMMAND
// =============================================================================

func newChatCmd(opts *rootOptions) *cobra.Command {
	var exportDir string
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat in line mode, for plain terminals and scripts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd, func(a *app) error {
				a.exportDir = exportDir
				return runChat(cmd.Context(), cmd, a)
			})
		},
	}
	cmd.Flags().StringVar(&exportDir, "export-dir", ".", "directory for /export transcripts")
	return cmd
}

// runChat picks a reader for the command's input and runs the loop.
func runChat(ctx context.Context, cmd *cobra.Command, a *app) error {
	out := cmd.OutOrStdout()
	var in lineReader
	if cmd.InOrStdin() == os.Stdin && isTerminal(os.Stdin) {
		h := newHistoryReader()
		defer h.Close()
		in = h
	} else {
		in = newPlainReader(cmd.InOrStdin(), out)
	}
	return chatLoop(ctx, in, newPrinter(out, a.renderer(out), a.wrapWidth(out)), a)
}

// chatLoop runs the read-ask-print loop until EOF, abort or /quit.
func chatLoop(ctx context.Context, in lineReader, p *printer, a *app) error {
	for _, m := range a.panel.Snapshot().Messages {
		p.message(m)
	}

	for {
		if ctx.Err() != nil {
			return nil
		}
		line, err := in.Prompt(chatPrompt)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
				fmt.Fprintln(p.out)
				return nil
			}
			return err
		}

		if f, ok := strings.CutPrefix(strings.TrimSpace(line), "/export"); ok && (f == "" || f[0] == ' ') {
			exportTranscript(p, a, f)
			continue
		}

		switch cmd := strings.TrimSpace(line); cmd {
		case "":
			continue
		case "/quit", "/exit":
			return nil
		case "/help":
			fmt.Fprintln(p.out, "Ask anything about the markets. Commands: /symbol /export [md|json|html] /help /quit")
			fmt.Fprintln(p.out)
			continue
		case "/symbol":
			if ev, ok := a.bus.Last(); ok {
				p.symbol(ev.Symbol)
			} else {
				p.notice("No symbol yet.")
			}
			continue
		}

		s, ok := a.panel.Ask(ctx, line)
		if !ok {
			continue
		}
		if s.Err != nil {
			p.notice(components.NewFailureNotice(s.Err, time.Now()).Message)
			continue
		}
		p.message(s.Message)
		if s.Symbol != "" {
			p.symbol(s.Symbol)
		}
	}
}

// exportTranscript writes the conversation in the named format.
func exportTranscript(p *printer, a *app, format string) {
	exp, err := export.ForFormat(format, nil)
	if err != nil {
		p.notice(err.Error())
		return
	}
	var symbol string
	if ev, ok := a.bus.Last(); ok {
		symbol = ev.Symbol
	}
	doc := export.NewDocument(a.panel.Snapshot(), symbol, a.client.Model())
	path, err := export.ToFile(doc, exp, a.exportDir)
	if err != nil {
		a.log.Warn().Err(err).Msg("export failed")
		p.notice("Export failed: " + err.Error())
		return
	}
	a.log.Info().Str("path", path).Str("format", exp.MimeType()).Msg("conversation exported")
	fmt.Fprintf(p.out, "Exported to %s\n\n", path)
}

// plainReader reads lines from a non-terminal input.
type plainReader struct {
	sc  *bufio.Scanner
	out io.Writer
}

func newPlainReader(in io.Reader, out io.Writer) *plainReader {
	return &plainReader{sc: bufio.NewScanner(in), out: out}
}

// Prompt writes prompt and returns the next line, or io.EOF.
func (r *plainReader) Prompt(prompt string) (string, error) {
	fmt.Fprint(r.out, prompt)
	if !r.sc.Scan() {
		if err := r.sc.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return r.sc.Text(), nil
}
