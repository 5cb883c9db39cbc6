// Copyright (c) 2025 Promptdeck Authors
// SPDX-License-Identifier: MIT

package chat

import (
	"log"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/promptdeck/promptdeck/internal/model"
	"github.com/promptdeck/promptdeck/internal/session"
)

// =============================================================================
// SURFACE DISPATCHER
// =============================================================================

// Session operations run on background goroutines (Bubble Tea commands)
// while the UI mutates state only inside Update. The dispatcher bridges the
// two: it implements session.Surface by queueing events on a channel, and
// WaitForEvent hands them to the update loop one at a time.

// eventBuffer sizes the dispatch queue. One exchange emits a handful of
// events, so this only needs to absorb a short burst.
const eventBuffer = 64

// SurfaceEventMsg delivers one queued surface event to Update.
type SurfaceEventMsg struct {
	Event any
}

// Surface event payloads.
type (
	// MessageAppendedEvent adds a finished message to the log view.
	MessageAppendedEvent struct{ Message *model.Message }

	// PlaceholderAppendedEvent shows a pending slot for an exchange.
	PlaceholderAppendedEvent struct{ Handle string }

	// PlaceholderReplacedEvent resolves a pending slot with final text.
	PlaceholderReplacedEvent struct {
		Handle   string
		Text     string
		Markdown bool
	}

	// PlaceholderRemovedEvent discards a pending slot.
	PlaceholderRemovedEvent struct{ Handle string }

	// CatalogLoadingEvent toggles the catalog busy indicator.
	CatalogLoadingEvent struct{ Loading bool }

	// CatalogSetEvent replaces the model catalog.
	CatalogSetEvent struct{ Models []string }

	// NoticeEvent shows a non-fatal informational message.
	NoticeEvent struct{ Text string }
)

// Dispatcher queues surface events for the update loop.
type Dispatcher struct {
	events chan any
}

var _ session.Surface = (*Dispatcher)(nil)

// NewDispatcher creates a dispatcher with a buffered queue.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{events: make(chan any, eventBuffer)}
}

// WaitForEvent blocks until the next surface event arrives.
func (d *Dispatcher) WaitForEvent() tea.Cmd {
	return func() tea.Msg {
		return SurfaceEventMsg{Event: <-d.events}
	}
}

// dispatch queues an event. Drops on overflow rather than blocking a
// session goroutine; the queue only overflows when the UI is gone, and the
// log line makes a stuck placeholder diagnosable if that assumption breaks.
func (d *Dispatcher) dispatch(event any) {
	select {
	case d.events <- event:
	default:
		log.Printf("surface event dropped: %T", event)
	}
}

func (d *Dispatcher) AppendMessage(msg *model.Message) {
	d.dispatch(MessageAppendedEvent{Message: msg})
}

func (d *Dispatcher) AppendPlaceholder(handle string) {
	d.dispatch(PlaceholderAppendedEvent{Handle: handle})
}

func (d *Dispatcher) ReplacePlaceholder(handle, text string, markdown bool) {
	d.dispatch(PlaceholderReplacedEvent{Handle: handle, Text: text, Markdown: markdown})
}

func (d *Dispatcher) RemovePlaceholder(handle string) {
	d.dispatch(PlaceholderRemovedEvent{Handle: handle})
}

func (d *Dispatcher) SetCatalogLoading(loading bool) {
	d.dispatch(CatalogLoadingEvent{Loading: loading})
}

func (d *Dispatcher) SetCatalog(models []string) {
	d.dispatch(CatalogSetEvent{Models: models})
}

func (d *Dispatcher) Notice(text string) {
	d.dispatch(NoticeEvent{Text: text})
}
