// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"
)

// =============================================================================
// MARKDOWN EXPORTER
// =============================================================================

// MarkdownExporter writes a conversation as a markdown document. Assistant
// content is already markdown and is written as is.
type MarkdownExporter struct {
	options *Options
}

// NewMarkdownExporter creates a Markdown exporter.
func NewMarkdownExporter(opts *Options) *MarkdownExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &MarkdownExporter{options: opts}
}

// Export implements Exporter.
func (e *MarkdownExporter) Export(doc Document) ([]byte, error) {
	if err := doc.validate(); err != nil {
		return nil, err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", escapeMarkdown(doc.Title()))

	if e.options.IncludeMetadata {
		if doc.Model != "" {
			fmt.Fprintf(&sb, "- **Model**: %s\n", doc.Model)
		}
		if doc.Symbol != "" {
			fmt.Fprintf(&sb, "- **Symbol**: %s\n", doc.Symbol)
		}
		fmt.Fprintf(&sb, "- **Messages**: %d\n", len(doc.Messages))
		fmt.Fprintf(&sb, "- **Exported**: %s\n\n---\n\n", formatTimestamp(doc.ExportedAt))
	}

	for i, msg := range doc.Messages {
		if e.options.IncludeTimestamps {
			fmt.Fprintf(&sb, "### %s <sub>%s</sub>\n\n", msg.Role.DisplayName(), formatShortTimestamp(msg.Timestamp))
		} else {
			fmt.Fprintf(&sb, "### %s\n\n", msg.Role.DisplayName())
		}
		sb.WriteString(strings.TrimSpace(msg.Content))
		sb.WriteString("\n\n")

		for n, url := range msg.Citations {
			fmt.Fprintf(&sb, "%d. [Source %d](%s)\n", n+1, n+1, url)
		}
		if len(msg.Citations) > 0 {
			sb.WriteString("\n")
		}

		if i < len(doc.Messages)-1 {
			sb.WriteString("---\n\n")
		}
	}

	fmt.Fprintf(&sb, "---\n\n*Exported from Tradie on %s*\n",
		doc.ExportedAt.Format("January 2, 2006 at 3:04 PM"))
	return []byte(sb.String()), nil
}

// FileExtension implements Exporter.
func (e *MarkdownExporter) FileExtension() string { return ".md" }

// MimeType implements Exporter.
func (e *MarkdownExporter) MimeType() string { return "text/markdown" }

// escapeMarkdown escapes characters that would break a heading.
func escapeMarkdown(s string) string {
	return strings.NewReplacer(
		"#", `\#`,
		"*", `\*`,
		"_", `\_`,
		"[", `\[`,
		"]", `\]`,
	).Replace(s)
}
