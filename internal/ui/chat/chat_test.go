// Copyright (c) 2025 Promptdeck Authors
// SPDX-License-Identifier: MIT

package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/textinput"

	"github.com/promptdeck/promptdeck/internal/commands"
	"github.com/promptdeck/promptdeck/internal/credential"
	"github.com/promptdeck/promptdeck/internal/model"
	"github.com/promptdeck/promptdeck/internal/provider"
	"github.com/promptdeck/promptdeck/internal/session"
)

// stubTransport satisfies session.Transport without any network.
type stubTransport struct{}

func (stubTransport) Chat(ctx context.Context, cred string, req provider.ChatRequest) (json.RawMessage, error) {
	return json.RawMessage(`{"result":"ok"}`), nil
}

func (stubTransport) ListModels(ctx context.Context, cred string) (json.RawMessage, error) {
	return json.RawMessage(`["m1"]`), nil
}

func testModel(cred string) Model {
	registry := commands.NewRegistry()
	store := credential.NewStore(cred)
	sess := session.New(stubTransport{}, store, nil, func() model.GenerationConfig {
		return model.GenerationConfig{Model: "m1"}
	})
	return Model{
		session:    sess,
		dispatcher: NewDispatcher(),
		creds:      store,
		parser:     commands.NewParser(registry),
		registry:   registry,
		input:      textinput.New(),
		ctx:        context.Background(),
	}
}

// =============================================================================
// DISPATCHER TESTS
// =============================================================================

func TestDispatcherDeliversInOrder(t *testing.T) {
	d := NewDispatcher()
	d.AppendPlaceholder("h1")
	d.ReplacePlaceholder("h1", "done", true)

	first := d.WaitForEvent()().(SurfaceEventMsg)
	if _, ok := first.Event.(PlaceholderAppendedEvent); !ok {
		t.Fatalf("first event = %T, want PlaceholderAppendedEvent", first.Event)
	}

	second := d.WaitForEvent()().(SurfaceEventMsg)
	replaced, ok := second.Event.(PlaceholderReplacedEvent)
	if !ok {
		t.Fatalf("second event = %T, want PlaceholderReplacedEvent", second.Event)
	}
	if replaced.Text != "done" || !replaced.Markdown {
		t.Errorf("replaced = %+v", replaced)
	}
}

func TestDispatcherDropsOnOverflow(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Writer()
	log.SetOutput(&buf)
	defer log.SetOutput(prev)

	d := NewDispatcher()
	// Must not block even with no consumer, and each drop leaves a trace.
	for i := 0; i < eventBuffer*2; i++ {
		d.Notice("n")
	}

	if !strings.Contains(buf.String(), "surface event dropped") {
		t.Error("overflow drop should be logged")
	}
}

// =============================================================================
// SURFACE EVENT FOLDING
// =============================================================================

func TestPlaceholderLifecycle(t *testing.T) {
	m := testModel("key")

	m = m.handleSurfaceEvent(MessageAppendedEvent{Message: model.NewUserMessage("hi")})
	m = m.handleSurfaceEvent(PlaceholderAppendedEvent{Handle: "h1"})

	if len(m.entries) != 2 || m.entries[1].kind != entryPending {
		t.Fatalf("entries = %+v", m.entries)
	}

	m = m.handleSurfaceEvent(PlaceholderReplacedEvent{Handle: "h1", Text: "reply", Markdown: true})
	if m.entries[1].kind != entryFinal || m.entries[1].text != "reply" {
		t.Fatalf("placeholder not replaced: %+v", m.entries[1])
	}
	if m.entries[1].role != model.RoleAssistant {
		t.Errorf("final role = %v", m.entries[1].role)
	}
}

func TestPlaceholderRemoved(t *testing.T) {
	m := testModel("key")
	m = m.handleSurfaceEvent(PlaceholderAppendedEvent{Handle: "h1"})
	m = m.handleSurfaceEvent(PlaceholderRemovedEvent{Handle: "h1"})

	if len(m.entries) != 0 {
		t.Fatalf("entries = %+v, want empty", m.entries)
	}
}

func TestNoticeAppendsEntryAndStatus(t *testing.T) {
	m := testModel("key")
	m = m.handleSurfaceEvent(NoticeEvent{Text: "heads up"})

	if len(m.entries) != 1 || m.entries[0].kind != entryNotice {
		t.Fatalf("entries = %+v", m.entries)
	}
	if m.statusMsg != "heads up" {
		t.Errorf("statusMsg = %q", m.statusMsg)
	}
}

func TestCatalogSetUpdatesList(t *testing.T) {
	m := testModel("key")
	m = m.handleSurfaceEvent(CatalogSetEvent{Models: []string{"a", "b"}})

	if len(m.catalog) != 2 {
		t.Fatalf("catalog = %v", m.catalog)
	}
}

// =============================================================================
// SUBMIT HANDLING
// =============================================================================

func TestSubmitUnknownCommand(t *testing.T) {
	m := testModel("key")
	m.input.SetValue("/bogus")

	updated, cmd := m.handleSubmit()
	if cmd != nil {
		t.Error("unknown command should not produce a command")
	}
	um := updated.(Model)
	if um.statusMsg == "" {
		t.Error("unknown command should set a status message")
	}
}

func TestSubmitWithoutCredential(t *testing.T) {
	m := testModel("")
	m.input.SetValue("hello")

	updated, _ := m.handleSubmit()
	um := updated.(Model)
	if um.sending {
		t.Error("send should not start without a credential")
	}
	if um.statusMsg == "" {
		t.Error("missing credential should surface a status message")
	}
}

func TestSubmitStartsSend(t *testing.T) {
	m := testModel("key")
	m.input.SetValue("hello")

	updated, cmd := m.handleSubmit()
	um := updated.(Model)
	if !um.sending {
		t.Error("send should mark the model busy")
	}
	if cmd == nil {
		t.Error("send should produce a background command")
	}
	if um.input.Value() != "" {
		t.Error("input should reset after send")
	}
}

func TestSetKeyShowsFingerprintOnly(t *testing.T) {
	m := testModel("")

	updated, _ := m.Update(commands.SetKeyMsg{Key: "sk-test-0123456789"})
	um := updated.(Model)

	if got := um.creds.Override(); got != "sk-test-0123456789" {
		t.Errorf("Override() = %q", got)
	}
	if !strings.Contains(um.statusMsg, "sk-t...") {
		t.Errorf("status %q should show the fingerprint", um.statusMsg)
	}
	if strings.Contains(um.statusMsg, "sk-test-0123456789") {
		t.Errorf("status %q must not reveal the full key", um.statusMsg)
	}
}

func TestSubmitKnownCommandEmitsMessage(t *testing.T) {
	m := testModel("key")
	m.input.SetValue("/model gpt-4o")

	_, cmd := m.handleSubmit()
	if cmd == nil {
		t.Fatal("command should produce a tea.Cmd")
	}
	msg := cmd()
	set, ok := msg.(commands.SetModelMsg)
	if !ok {
		t.Fatalf("msg = %T, want SetModelMsg", msg)
	}
	if set.ID != "gpt-4o" {
		t.Errorf("ID = %q", set.ID)
	}
}
