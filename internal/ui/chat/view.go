// Copyright (c) 2025 Promptdeck Authors
// SPDX-License-Identifier: MIT

package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/promptdeck/promptdeck/internal/config"
	"github.com/promptdeck/promptdeck/internal/model"
	"github.com/promptdeck/promptdeck/internal/util"
)

// Fixed vertical layout: header with border, input line, status line.
const chromeHeight = 4

// =============================================================================
// LAYOUT
// =============================================================================

func (m Model) handleResize(msg tea.WindowSizeMsg) Model {
	m.width = msg.Width
	m.height = msg.Height

	viewHeight := msg.Height - chromeHeight
	if viewHeight < 1 {
		viewHeight = 1
	}

	if !m.ready {
		m.viewport = viewport.New(msg.Width, viewHeight)
		m.ready = true
	} else {
		m.viewport.Width = msg.Width
		m.viewport.Height = viewHeight
	}

	m.input.Width = msg.Width - 4
	m.md.Resize(m.contentWidth())
	m.refreshViewport()
	return m
}

// contentWidth is the wrap width for message bodies.
func (m Model) contentWidth() int {
	if m.width <= 4 {
		return 76
	}
	return m.width - 4
}

// refreshViewport re-renders the log into the viewport, pinned to the
// bottom so the latest turn stays visible.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderEntries())
	m.viewport.GotoBottom()
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the full chat screen.
func (m Model) View() string {
	if !m.ready {
		return "Starting promptdeck..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())
	return b.String()
}

func (m Model) renderHeader() string {
	title := m.theme.HeaderTitle.Render("promptdeck")
	sub := ""
	if !m.session.IsEmpty() {
		sub = "  " + m.theme.StatusKey.Render(util.TruncateWidth(m.session.Title(), m.width/2))
	}
	return m.theme.Header.Width(m.width).Render(title + sub)
}

// renderEntries renders the conversation log.
func (m Model) renderEntries() string {
	if len(m.entries) == 0 {
		return m.theme.Placeholder.Render(
			"No messages yet. Type below and press Enter, or /help for commands.")
	}

	parts := make([]string, 0, len(m.entries))
	for _, e := range m.entries {
		parts = append(parts, m.renderEntry(e))
	}
	return strings.Join(parts, "\n\n")
}

// renderEntry renders one log entry.
func (m Model) renderEntry(e entry) string {
	switch e.kind {
	case entryPending:
		return m.spinner.View() + m.theme.Placeholder.Render(" Waiting for reply...")

	case entryNotice:
		return m.theme.NoticeText.Render("! " + e.text)

	case entryFinal:
		label := m.theme.AssistantLabel.Render(model.RoleAssistant.DisplayName())
		body := e.text
		if e.markdown && config.Global().UI.Markdown {
			body = m.md.Render(body)
		} else {
			// Plain rendering: no markup interpretation at all.
			body = m.theme.MessageBody.Render(body)
		}
		return label + "\n" + body

	default:
		label := m.roleLabel(e.role)
		return label + "\n" + m.theme.MessageBody.Render(e.text)
	}
}

func (m Model) roleLabel(role model.Role) string {
	switch role {
	case model.RoleUser:
		return m.theme.UserLabel.Render(role.DisplayName())
	case model.RoleAssistant:
		return m.theme.AssistantLabel.Render(role.DisplayName())
	default:
		return m.theme.SystemLabel.Render(role.DisplayName())
	}
}

// =============================================================================
// STATUS BAR
// =============================================================================

func (m Model) renderStatusBar() string {
	cfg := config.Global()

	parts := []string{
		m.theme.StatusKey.Render("model ") + m.theme.StatusValue.Render(cfg.Chat.Model),
		m.theme.StatusKey.Render("temp ") + m.theme.StatusValue.Render(fmt.Sprintf("%g", cfg.Chat.Temperature)),
		m.theme.StatusKey.Render(fmt.Sprintf("~%d tok", m.session.EstimateTokens())),
	}

	if m.sending {
		parts = append(parts, m.spinner.View()+m.theme.StatusKey.Render("sending"))
	}
	if m.catalogLoading {
		parts = append(parts, m.spinner.View()+m.theme.StatusKey.Render("models"))
	}
	if m.statusMsg != "" {
		parts = append(parts, m.theme.NoticeText.Render(util.TruncateWidth(m.statusMsg, m.width/2)))
	}

	line := strings.Join(parts, m.theme.StatusBar.Render("  |  "))
	// MaxWidth rather than plain truncation: the line carries ANSI styling.
	return lipgloss.NewStyle().MaxWidth(m.width).Render(line)
}

// =============================================================================
// HELP OVERLAY
// =============================================================================

func (m Model) renderHelp() string {
	var b strings.Builder
	b.WriteString(m.theme.HeaderTitle.Render("Commands"))
	b.WriteString("\n\n")

	for _, cmd := range m.registry.All() {
		usage := util.PadRight(cmd.Usage, 24)
		b.WriteString(m.theme.HelpCommand.Render(usage))
		b.WriteString(m.theme.HelpDesc.Render(cmd.Description))
		if len(cmd.Aliases) > 0 {
			b.WriteString(m.theme.HelpDesc.Render("  (" + strings.Join(cmd.Aliases, ", ") + ")"))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.theme.HelpDesc.Render("Esc to close"))

	box := m.theme.HelpBox.Render(b.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
