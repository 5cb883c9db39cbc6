// Copyright (c) 2025 Promptdeck Authors
// SPDX-License-Identifier: MIT

// Package styles provides the visual styling system for the promptdeck TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Color palette. Kept to ANSI-256 values so degraded terminals still get
// something readable through lipgloss profile downsampling.
var (
	colorPrimary = lipgloss.Color("205") // pink
	colorAccent  = lipgloss.Color("39")  // blue
	colorMuted   = lipgloss.Color("241") // gray
	colorNotice  = lipgloss.Color("214") // orange
	colorUser    = lipgloss.Color("75")  // light blue
	colorHelper  = lipgloss.Color("114") // green
)

// Theme holds the styled components for the application.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	ColorProfile termenv.Profile

	// Header
	Header      lipgloss.Style
	HeaderTitle lipgloss.Style

	// Message log
	UserLabel      lipgloss.Style
	AssistantLabel lipgloss.Style
	SystemLabel    lipgloss.Style
	MessageBody    lipgloss.Style
	Placeholder    lipgloss.Style
	NoticeText     lipgloss.Style

	// Input area
	InputPrompt lipgloss.Style

	// Status bar
	StatusBar   lipgloss.Style
	StatusKey   lipgloss.Style
	StatusValue lipgloss.Style
	Spinner     lipgloss.Style

	// Help overlay
	HelpBox     lipgloss.Style
	HelpCommand lipgloss.Style
	HelpDesc    lipgloss.Style
}

// NewTheme creates a theme adjusted to the terminal's capabilities.
func NewTheme() *Theme {
	t := &Theme{
		IsDark:       termenv.HasDarkBackground(),
		ColorProfile: termenv.ColorProfile(),
	}
	t.initStyles()
	return t
}

func (t *Theme) initStyles() {
	t.Header = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(colorMuted).
		Padding(0, 1)
	t.HeaderTitle = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)

	t.UserLabel = lipgloss.NewStyle().Bold(true).Foreground(colorUser)
	t.AssistantLabel = lipgloss.NewStyle().Bold(true).Foreground(colorHelper)
	t.SystemLabel = lipgloss.NewStyle().Bold(true).Foreground(colorMuted)
	t.MessageBody = lipgloss.NewStyle()
	t.Placeholder = lipgloss.NewStyle().Italic(true).Foreground(colorMuted)
	t.NoticeText = lipgloss.NewStyle().Foreground(colorNotice)

	t.InputPrompt = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)

	t.StatusBar = lipgloss.NewStyle().Foreground(colorMuted)
	t.StatusKey = lipgloss.NewStyle().Foreground(colorMuted)
	t.StatusValue = lipgloss.NewStyle().Foreground(colorAccent)
	t.Spinner = lipgloss.NewStyle().Foreground(colorPrimary)

	t.HelpBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorAccent).
		Padding(0, 1)
	t.HelpCommand = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	t.HelpDesc = lipgloss.NewStyle().Foreground(colorMuted)
}
