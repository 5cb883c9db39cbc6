// Copyright (c) 2025 Promptdeck Authors
// SPDX-License-Identifier: MIT

package session

import (
	"github.com/promptdeck/promptdeck/internal/model"
)

// =============================================================================
// RENDERING SURFACE
// =============================================================================

// Surface is the rendering collaborator the session emits events to. The TUI
// implements it; tests substitute a recorder. All methods are called from the
// goroutine driving the session operation, so implementations that hand off
// to another loop must do their own queueing.
type Surface interface {
	// AppendMessage adds a finished message to the visible log.
	AppendMessage(msg *model.Message)

	// AppendPlaceholder shows a pending indicator for an in-flight exchange.
	// The handle distinguishes placeholders across exchanges.
	AppendPlaceholder(handle string)

	// ReplacePlaceholder swaps a placeholder for the final text. markdown
	// reports whether rich rendering is permitted; flagged text must be
	// shown plain.
	ReplacePlaceholder(handle, text string, markdown bool)

	// RemovePlaceholder discards a placeholder without replacement, used
	// when an exchange is abandoned at shutdown.
	RemovePlaceholder(handle string)

	// SetCatalogLoading toggles the catalog-refresh busy indicator.
	SetCatalogLoading(loading bool)

	// SetCatalog replaces the model picker contents.
	SetCatalog(models []string)

	// Notice shows a non-fatal informational message.
	Notice(text string)
}

// NopSurface discards all events. Useful as a default and in tests that do
// not care about rendering.
type NopSurface struct{}

func (NopSurface) AppendMessage(*model.Message)            {}
func (NopSurface) AppendPlaceholder(string)                {}
func (NopSurface) ReplacePlaceholder(string, string, bool) {}
func (NopSurface) RemovePlaceholder(string)                {}
func (NopSurface) SetCatalogLoading(bool)                  {}
func (NopSurface) SetCatalog([]string)                     {}
func (NopSurface) Notice(string)                           {}
