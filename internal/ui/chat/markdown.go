// Copyright (c) 2025 Promptdeck Authors
// SPDX-License-Identifier: MIT

package chat

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

// renderer wraps a glamour renderer that is rebuilt on resize so word wrap
// tracks the viewport width.
type renderer struct {
	glamour *glamour.TermRenderer
	theme   string
	width   int
}

// newRenderer creates a markdown renderer for the given glamour theme
// ("auto", "dark", "light", "notty") and wrap width.
func newRenderer(theme string, width int) *renderer {
	r := &renderer{theme: theme}
	r.Resize(width)
	return r
}

// Resize rebuilds the renderer for a new wrap width.
func (r *renderer) Resize(width int) {
	if width < 10 {
		width = 10
	}
	r.width = width

	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if r.theme == "" || r.theme == "auto" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(r.theme))
	}

	gr, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		// Fall back to plain text when the renderer cannot initialize.
		r.glamour = nil
		return
	}
	r.glamour = gr
}

// Render renders markdown for terminal display. On any failure the content
// comes back unchanged, never lost.
func (r *renderer) Render(content string) string {
	if r.glamour == nil {
		return content
	}
	rendered, err := r.glamour.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimRight(rendered, "\n")
}
