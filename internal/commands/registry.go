// Copyright (c) 2025 Promptdeck Authors
// SPDX-License-Identifier: MIT

package commands

import (
	"sort"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// COMMAND MESSAGES
// =============================================================================

// Command handlers do not touch session or config directly; they emit
// messages the UI update loop acts on. That keeps handlers trivially
// testable and leaves all state mutation on the UI goroutine.

// ShowHelpMsg requests the help overlay.
type ShowHelpMsg struct{}

// QuitMsg requests application shutdown.
type QuitMsg struct{}

// ClearHistoryMsg requests the conversation log be emptied.
type ClearHistoryMsg struct{}

// NewConversationMsg requests a fresh conversation.
type NewConversationMsg struct{}

// RefreshModelsMsg requests a model catalog refresh.
type RefreshModelsMsg struct{}

// SetModelMsg sets the model used for the next exchange.
type SetModelMsg struct{ ID string }

// SetTemperatureMsg sets the sampling temperature for the next exchange.
type SetTemperatureMsg struct{ Value float64 }

// SetSystemPromptMsg sets the system prompt; empty clears it.
type SetSystemPromptMsg struct{ Prompt string }

// SetKeyMsg sets the UI credential override; empty clears it.
type SetKeyMsg struct{ Key string }

// ExportMsg requests a transcript export.
type ExportMsg struct{ Format string }

// ErrorMsg reports a command usage error back to the UI.
type ErrorMsg struct{ Text string }

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

// Command represents a slash command that can be executed.
type Command struct {
	// Name is the primary command name (e.g., "/help")
	Name string

	// Aliases are alternative names (e.g., "/h", "/?")
	Aliases []string

	// Description is shown in help
	Description string

	// Usage shows argument syntax (e.g., "/model <id>")
	Usage string

	// Handler produces the message for this invocation. args holds the
	// tokenized arguments; raw holds the untokenized argument text.
	Handler func(args []string, raw string) tea.Cmd

	// Category for grouping in help display
	Category string
}

// =============================================================================
// COMMAND REGISTRY
// =============================================================================

// Registry holds all registered commands.
type Registry struct {
	commands map[string]*Command
	aliases  map[string]*Command
}

// NewRegistry creates a new command registry with all built-in commands.
func NewRegistry() *Registry {
	r := &Registry{
		commands: make(map[string]*Command),
		aliases:  make(map[string]*Command),
	}
	r.registerBuiltins()
	return r
}

// Register adds a command to the registry.
func (r *Registry) Register(cmd *Command) {
	r.commands[cmd.Name] = cmd
	for _, alias := range cmd.Aliases {
		r.aliases[alias] = cmd
	}
}

// Get retrieves a command by name or alias.
func (r *Registry) Get(name string) *Command {
	if cmd, ok := r.commands[name]; ok {
		return cmd
	}
	if cmd, ok := r.aliases[name]; ok {
		return cmd
	}
	return nil
}

// All returns all registered commands sorted by name.
func (r *Registry) All() []*Command {
	cmds := make([]*Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		cmds = append(cmds, cmd)
	}
	sort.Slice(cmds, func(i, j int) bool { return cmds[i].Name < cmds[j].Name })
	return cmds
}

// =============================================================================
// BUILT-IN COMMANDS
// =============================================================================

func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

func usageError(usage string) tea.Cmd {
	return emit(ErrorMsg{Text: "Usage: " + usage})
}

// registerBuiltins registers the built-in command set.
func (r *Registry) registerBuiltins() {
	r.Register(&Command{
		Name:        "/help",
		Aliases:     []string{"/h", "/?"},
		Description: "Show available commands",
		Usage:       "/help",
		Category:    "General",
		Handler: func(args []string, raw string) tea.Cmd {
			return emit(ShowHelpMsg{})
		},
	})

	r.Register(&Command{
		Name:        "/quit",
		Aliases:     []string{"/q", "/exit"},
		Description: "Exit promptdeck",
		Usage:       "/quit",
		Category:    "General",
		Handler: func(args []string, raw string) tea.Cmd {
			return emit(QuitMsg{})
		},
	})

	r.Register(&Command{
		Name:        "/clear",
		Description: "Clear the conversation log",
		Usage:       "/clear",
		Category:    "Conversation",
		Handler: func(args []string, raw string) tea.Cmd {
			return emit(ClearHistoryMsg{})
		},
	})

	r.Register(&Command{
		Name:        "/new",
		Description: "Start a new conversation",
		Usage:       "/new",
		Category:    "Conversation",
		Handler: func(args []string, raw string) tea.Cmd {
			return emit(NewConversationMsg{})
		},
	})

	r.Register(&Command{
		Name:        "/models",
		Description: "Refresh the model catalog from the provider",
		Usage:       "/models",
		Category:    "Provider",
		Handler: func(args []string, raw string) tea.Cmd {
			return emit(RefreshModelsMsg{})
		},
	})

	r.Register(&Command{
		Name:        "/model",
		Description: "Set the model for the next exchange",
		Usage:       "/model <id>",
		Category:    "Provider",
		Handler: func(args []string, raw string) tea.Cmd {
			if len(args) != 1 {
				return usageError("/model <id>")
			}
			return emit(SetModelMsg{ID: args[0]})
		},
	})

	r.Register(&Command{
		Name:        "/temp",
		Aliases:     []string{"/temperature"},
		Description: "Set the sampling temperature",
		Usage:       "/temp <value>",
		Category:    "Provider",
		Handler: func(args []string, raw string) tea.Cmd {
			if len(args) != 1 {
				return usageError("/temp <value>")
			}
			value, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return emit(ErrorMsg{Text: "Not a number: " + args[0]})
			}
			return emit(SetTemperatureMsg{Value: value})
		},
	})

	r.Register(&Command{
		Name:        "/system",
		Description: "Set the system prompt (empty to clear)",
		Usage:       "/system [prompt]",
		Category:    "Provider",
		Handler: func(args []string, raw string) tea.Cmd {
			return emit(SetSystemPromptMsg{Prompt: raw})
		},
	})

	r.Register(&Command{
		Name:        "/key",
		Description: "Set the API key override (empty to clear)",
		Usage:       "/key [value]",
		Category:    "Provider",
		Handler: func(args []string, raw string) tea.Cmd {
			return emit(SetKeyMsg{Key: strings.TrimSpace(raw)})
		},
	})

	r.Register(&Command{
		Name:        "/export",
		Description: "Export the conversation transcript",
		Usage:       "/export [md|json]",
		Category:    "Conversation",
		Handler: func(args []string, raw string) tea.Cmd {
			format := "md"
			if len(args) > 0 {
				format = strings.ToLower(args[0])
			}
			if format != "md" && format != "json" {
				return usageError("/export [md|json]")
			}
			return emit(ExportMsg{Format: format})
		},
	})
}
