// Copyright (c) 2025 Promptdeck Authors
// SPDX-License-Identifier: MIT

// Package chat provides the chat view for the promptdeck TUI.
package chat

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/promptdeck/promptdeck/internal/commands"
	"github.com/promptdeck/promptdeck/internal/config"
	"github.com/promptdeck/promptdeck/internal/credential"
	"github.com/promptdeck/promptdeck/internal/model"
	"github.com/promptdeck/promptdeck/internal/session"
	"github.com/promptdeck/promptdeck/internal/ui/styles"
)

// =============================================================================
// LOG ENTRIES
// =============================================================================

// entryKind distinguishes what a log line renders as.
type entryKind int

const (
	// entryMessage is a finished user or system message.
	entryMessage entryKind = iota
	// entryPending is a placeholder for an in-flight exchange.
	entryPending
	// entryFinal is a resolved placeholder: assistant text or error text.
	entryFinal
	// entryNotice is a non-fatal informational line.
	entryNotice
)

// entry is one line group in the conversation view.
type entry struct {
	kind     entryKind
	role     model.Role
	text     string
	handle   string
	markdown bool
}

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat view.
type Model struct {
	// Styling
	theme *styles.Theme
	md    *renderer

	// Dimensions
	width  int
	height int
	ready  bool

	// Collaborators
	session    *session.Session
	dispatcher *Dispatcher
	creds      *credential.Store
	parser     *commands.Parser
	registry   *commands.Registry

	// Background operation context; cancellation abandons in-flight work.
	ctx context.Context

	// UI components
	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model

	// View state
	entries        []entry
	catalog        []string
	sending        bool
	catalogLoading bool
	statusMsg      string
	showHelp       bool
}

// New creates the chat model wired to its collaborators.
func New(ctx context.Context, sess *session.Session, dispatcher *Dispatcher, creds *credential.Store, theme *styles.Theme) Model {
	input := textinput.New()
	input.Placeholder = "Message, or / for commands"
	input.Prompt = "> "
	input.PromptStyle = theme.InputPrompt
	input.CharLimit = 0
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.Spinner

	registry := commands.NewRegistry()

	return Model{
		theme:      theme,
		md:         newRenderer(config.Global().UI.Theme, 80),
		session:    sess,
		dispatcher: dispatcher,
		creds:      creds,
		parser:     commands.NewParser(registry),
		registry:   registry,
		ctx:        ctx,
		input:      input,
		spinner:    sp,
	}
}

// Init starts the event pump and an initial catalog refresh.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.spinner.Tick,
		m.dispatcher.WaitForEvent(),
		m.refreshCatalogCmd(),
	)
}

// =============================================================================
// BACKGROUND COMMANDS
// =============================================================================

// completeSendCmd drives a pending exchange to completion off the UI loop.
// The outcome arrives through surface events.
func (m Model) completeSendCmd(ex *session.Exchange) tea.Cmd {
	return func() tea.Msg {
		m.session.CompleteSend(m.ctx, ex)
		return SendFinishedMsg{}
	}
}

// refreshCatalogCmd runs a catalog refresh off the UI loop.
func (m Model) refreshCatalogCmd() tea.Cmd {
	return func() tea.Msg {
		return CatalogFinishedMsg{Err: m.session.RefreshCatalog(m.ctx)}
	}
}
