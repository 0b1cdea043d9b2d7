// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jeranaias/tradie/internal/model"
	"github.com/jeranaias/tradie/internal/util"
)

// ErrEmpty is returned when a document has no messages.
var ErrEmpty = errors.New("conversation has no messages")

// =============================================================================
// DOCUMENT
// =============================================================================

// Document is the exported view of a conversation.
type Document struct {
	Messages   []model.Message `json:"messages"`
	Symbol     string          `json:"symbol,omitempty"`
	Model      string          `json:"model,omitempty"`
	ExportedAt time.Time       `json:"exported_at"`
}

// NewDocument captures snap at the current time.
func NewDocument(snap model.Snapshot, symbol, modelName string) Document {
	return Document{
		Messages:   snap.Messages,
		Symbol:     symbol,
		Model:      modelName,
		ExportedAt: time.Now(),
	}
}

// Title is the preview of the first user message, or a fixed fallback.
func (d Document) Title() string {
	for _, m := range d.Messages {
		if m.IsUser() && strings.TrimSpace(m.Content) != "" {
			return strings.TrimSpace(m.Preview(60))
		}
	}
	return "Chat with Tradie"
}

func (d Document) validate() error {
	if len(d.Messages) == 0 {
		return ErrEmpty
	}
	return nil
}

// =============================================================================
// EXPORT INTERFACE
// =============================================================================

// Exporter converts a document to one file format.
type Exporter interface {
	Export(doc Document) ([]byte, error)
	FileExtension() string
	MimeType() string
}

// Options configures the human-readable exporters.
type Options struct {
	// IncludeTimestamps adds a time next to every role label.
	IncludeTimestamps bool

	// IncludeMetadata adds the model, symbol and export time.
	IncludeMetadata bool
}

// DefaultOptions returns options with everything enabled.
func DefaultOptions() *Options {
	return &Options{IncludeTimestamps: true, IncludeMetadata: true}
}

// Formats lists the names accepted by ForFormat.
var Formats = []string{"md", "json", "html"}

// ForFormat returns the exporter for name.
func ForFormat(name string, opts *Options) (Exporter, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "md", "markdown":
		return NewMarkdownExporter(opts), nil
	case "json":
		return NewJSONExporter(), nil
	case "html":
		return NewHTMLExporter(opts), nil
	default:
		return nil, fmt.Errorf("unknown export format %q (want one of: %s)", name, strings.Join(Formats, ", "))
	}
}

// ToFile exports doc into dir and returns the written path. The file is
// readable by the owner only.
func ToFile(doc Document, exp Exporter, dir string) (string, error) {
	content, err := exp.Export(doc)
	if err != nil {
		return "", fmt.Errorf("export failed: %w", err)
	}

	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	at := doc.ExportedAt
	if at.IsZero() {
		at = time.Now()
	}
	name := fmt.Sprintf("tradie_%s_%s%s",
		sanitizeFilename(doc.Title()),
		at.Format("20060102_150405"),
		exp.FileExtension(),
	)
	path := filepath.Join(dir, name)
	if err := util.AtomicWriteFile(path, content, 0600); err != nil {
		return "", err
	}
	return path, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// sanitizeFilename replaces characters that are invalid in file names on
// common platforms.
func sanitizeFilename(s string) string {
	const maxLen = 40
	if runes := []rune(s); len(runes) > maxLen {
		s = string(runes[:maxLen])
	}

	var b strings.Builder
	for _, r := range s {
		switch {
		case strings.ContainsRune(`/\:*?"<>|`, r):
			b.WriteRune('-')
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			b.WriteRune('_')
		case r < 32 || r == 127:
			b.WriteRune('-')
		default:
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "conversation"
	}
	return b.String()
}

func formatTimestamp(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}

func formatShortTimestamp(t time.Time) string {
	return t.Format("15:04")
}
