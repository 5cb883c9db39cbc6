// Copyright (c) 2025 Promptdeck Authors
// SPDX-License-Identifier: MIT

package chat

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/promptdeck/promptdeck/internal/commands"
	"github.com/promptdeck/promptdeck/internal/config"
	"github.com/promptdeck/promptdeck/internal/credential"
	"github.com/promptdeck/promptdeck/internal/export"
	"github.com/promptdeck/promptdeck/internal/model"
	"github.com/promptdeck/promptdeck/internal/session"
)

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg), nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if !m.sending && !m.catalogLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case SurfaceEventMsg:
		m = m.handleSurfaceEvent(msg.Event)
		// Always re-arm the event pump.
		return m, m.dispatcher.WaitForEvent()

	case SendFinishedMsg:
		m.sending = false
		return m, nil

	case CatalogFinishedMsg:
		return m.handleCatalogFinished(msg), nil

	case ExportFinishedMsg:
		if msg.Err != nil {
			m.statusMsg = "Export failed: " + msg.Err.Error()
		} else {
			m.statusMsg = "Exported to " + msg.Path
		}
		return m, nil

	case ConfigReloadedMsg:
		// Generation settings apply on the next send automatically; the
		// renderer theme needs a rebuild.
		m.md = newRenderer(config.Global().UI.Theme, m.contentWidth())
		m.statusMsg = "Configuration reloaded"
		m.refreshViewport()
		return m, nil

	// Slash command messages.
	case commands.ShowHelpMsg:
		m.showHelp = true
		return m, nil

	case commands.QuitMsg:
		return m, tea.Quit

	case commands.ClearHistoryMsg, commands.NewConversationMsg:
		return m.handleClear(), nil

	case commands.RefreshModelsMsg:
		return m, tea.Batch(m.refreshCatalogCmd(), m.spinner.Tick)

	case commands.SetModelMsg:
		config.UpdateGlobal(func(c *config.Config) { c.Chat.Model = msg.ID })
		m.statusMsg = "Model set to " + msg.ID
		return m, nil

	case commands.SetTemperatureMsg:
		config.UpdateGlobal(func(c *config.Config) { c.Chat.Temperature = msg.Value })
		m.statusMsg = fmt.Sprintf("Temperature set to %g", msg.Value)
		return m, nil

	case commands.SetSystemPromptMsg:
		config.UpdateGlobal(func(c *config.Config) { c.Chat.SystemPrompt = msg.Prompt })
		if msg.Prompt == "" {
			m.statusMsg = "System prompt cleared"
		} else {
			m.statusMsg = "System prompt set"
		}
		return m, nil

	case commands.SetKeyMsg:
		m.creds.SetOverride(msg.Key)
		if msg.Key == "" {
			m.statusMsg = "API key override cleared"
		} else {
			m.statusMsg = "API key override set " + credential.Fingerprint(m.creds.Override())
		}
		return m, nil

	case commands.ExportMsg:
		return m, m.exportCmd(msg.Format)

	case commands.ErrorMsg:
		m.statusMsg = msg.Text
		return m, nil
	}

	return m, nil
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "esc":
		if m.showHelp {
			m.showHelp = false
			return m, nil
		}

	case "enter":
		return m.handleSubmit()

	case "pgup", "pgdown", "ctrl+u", "ctrl+d":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleSubmit dispatches the input line: slash command or chat send.
func (m Model) handleSubmit() (tea.Model, tea.Cmd) {
	line := m.input.Value()

	if commands.IsCommand(line) {
		result := m.parser.Parse(line)
		if result.Command == nil {
			m.statusMsg = "Unknown command: " + result.CommandName + " (try /help)"
			return m, nil
		}
		m.input.Reset()
		m.statusMsg = ""
		return m, result.Command.Handler(result.Args, result.RawArgs)
	}

	ex, err := m.session.BeginSend(line)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrEmptyInput):
			// Nothing to do.
		case errors.Is(err, session.ErrNoCredential):
			m.statusMsg = "No API key configured. Set one with /key or PROMPTDECK_API_KEY."
		case errors.Is(err, session.ErrExchangePending):
			m.statusMsg = "Still waiting for the previous reply."
		default:
			m.statusMsg = err.Error()
		}
		return m, nil
	}

	m.input.Reset()
	m.statusMsg = ""
	m.sending = true
	return m, tea.Batch(m.completeSendCmd(ex), m.spinner.Tick)
}

// =============================================================================
// SURFACE EVENTS
// =============================================================================

// handleSurfaceEvent folds one session event into the view state.
func (m Model) handleSurfaceEvent(event any) Model {
	switch ev := event.(type) {
	case MessageAppendedEvent:
		m.entries = append(m.entries, entry{
			kind: entryMessage,
			role: ev.Message.Role,
			text: ev.Message.Content,
		})

	case PlaceholderAppendedEvent:
		m.entries = append(m.entries, entry{kind: entryPending, handle: ev.Handle})

	case PlaceholderReplacedEvent:
		for i := range m.entries {
			if m.entries[i].kind == entryPending && m.entries[i].handle == ev.Handle {
				m.entries[i] = entry{
					kind:     entryFinal,
					role:     model.RoleAssistant,
					text:     ev.Text,
					handle:   ev.Handle,
					markdown: ev.Markdown,
				}
				break
			}
		}

	case PlaceholderRemovedEvent:
		for i := range m.entries {
			if m.entries[i].kind == entryPending && m.entries[i].handle == ev.Handle {
				m.entries = append(m.entries[:i], m.entries[i+1:]...)
				break
			}
		}

	case CatalogLoadingEvent:
		m.catalogLoading = ev.Loading

	case CatalogSetEvent:
		m.catalog = ev.Models
		m.statusMsg = fmt.Sprintf("%d models available", len(ev.Models))

	case NoticeEvent:
		m.entries = append(m.entries, entry{kind: entryNotice, text: ev.Text})
		m.statusMsg = ev.Text
	}

	m.refreshViewport()
	return m
}

// =============================================================================
// COMMAND OUTCOMES
// =============================================================================

func (m Model) handleClear() Model {
	if err := m.session.ClearHistory(); err != nil {
		m.statusMsg = "Cannot clear while a reply is pending."
		return m
	}
	m.entries = nil
	m.statusMsg = "Conversation cleared"
	m.refreshViewport()
	return m
}

func (m Model) handleCatalogFinished(msg CatalogFinishedMsg) Model {
	if msg.Err == nil {
		return m
	}
	switch {
	case errors.Is(msg.Err, session.ErrNoCredential):
		m.statusMsg = "No API key configured. Set one with /key or PROMPTDECK_API_KEY."
	case errors.Is(msg.Err, session.ErrCatalogRefreshPending):
		// A refresh is already running; its result will arrive.
	default:
		// The session already surfaced the error as a notice.
	}
	return m
}

// exportCmd writes the transcript off the UI loop. The snapshot keeps the
// write independent of any exchange finishing mid-export.
func (m Model) exportCmd(format string) tea.Cmd {
	conv := m.session.Snapshot()
	conv.Model = config.Global().Chat.Model
	return func() tea.Msg {
		path, err := export.WriteFile(conv, format)
		return ExportFinishedMsg{Path: path, Err: err}
	}
}
