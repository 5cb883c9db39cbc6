// Copyright (c) 2025 Promptdeck Authors
// SPDX-License-Identifier: MIT

package chat

// =============================================================================
// TEA MESSAGES
// =============================================================================

// SendFinishedMsg reports that a background CompleteSend returned. The
// outcome itself arrives through surface events; this message only clears
// the busy state.
type SendFinishedMsg struct{}

// CatalogFinishedMsg reports that a background RefreshCatalog returned.
type CatalogFinishedMsg struct {
	Err error
}

// ExportFinishedMsg reports the result of a transcript export.
type ExportFinishedMsg struct {
	Path string
	Err  error
}

// ConfigReloadedMsg reports that the config file changed on disk and the
// global configuration was reloaded.
type ConfigReloadedMsg struct{}
