// Copyright (c) 2025 Promptdeck Authors
// SPDX-License-Identifier: MIT

// Package session owns the conversation state machine: the append-only
// message log and the lifecycle of the single in-flight exchange.
//
// One exchange runs Idle -> Pending -> Succeeded/Failed -> Idle. A second
// send while one is pending is rejected with ErrExchangePending rather than
// queued; single-flight is enforced here, not by UI affordances. Catalog
// refresh is an independent operation gated only by its own busy flag.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/promptdeck/promptdeck/internal/model"
	"github.com/promptdeck/promptdeck/internal/provider"
)

// Error variables for send preconditions.
var (
	// ErrEmptyInput indicates the trimmed user input was empty.
	ErrEmptyInput = errors.New("empty input")

	// ErrNoCredential indicates no usable API credential resolved. Surfaced
	// to the user; no network call is attempted.
	ErrNoCredential = errors.New("no API credential configured")

	// ErrExchangePending indicates a send arrived while another exchange
	// was still in flight.
	ErrExchangePending = errors.New("an exchange is already in flight")

	// ErrCatalogRefreshPending indicates a catalog refresh arrived while
	// another one was still in flight.
	ErrCatalogRefreshPending = errors.New("a catalog refresh is already in flight")
)

// networkHint accompanies transport-level failures. Connection errors are
// usually environmental, so the user gets a pointer instead of a bare error.
const networkHint = "Network error: check the base URL, your connection, and any proxy in between."

// =============================================================================
// COLLABORATOR INTERFACES
// =============================================================================

// Transport performs the provider HTTP calls. Implemented by
// provider.Client; tests substitute fakes.
type Transport interface {
	ListModels(ctx context.Context, cred string) (json.RawMessage, error)
	Chat(ctx context.Context, cred string, req provider.ChatRequest) (json.RawMessage, error)
}

// CredentialSource resolves the credential for one request.
// Implemented by credential.Store.
type CredentialSource interface {
	Credential() (string, bool)
}

// =============================================================================
// EXCHANGE
// =============================================================================

// Outcome is the terminal state of an exchange.
type Outcome int

const (
	OutcomePending Outcome = iota
	OutcomeSucceeded
	OutcomeFailed
)

// Exchange is the unit of work for one send: the user message, the
// placeholder handle shown while pending, and the outcome.
type Exchange struct {
	Handle    string
	UserText  string
	StartedAt time.Time

	Outcome Outcome
	// Reply holds the extracted assistant text on success.
	Reply string
	// Err holds the failure cause on failure.
	Err error
}

// =============================================================================
// SESSION
// =============================================================================

// Session drives exchanges and catalog refreshes against the provider and
// emits rendering events. It is the sole mutator of the conversation log.
type Session struct {
	mu sync.Mutex

	conversation *model.Conversation
	pending      *Exchange
	catalogBusy  bool

	transport Transport
	creds     CredentialSource
	surface   Surface

	// generation returns the settings for one send. Called fresh on every
	// send so config edits apply to the next exchange.
	generation func() model.GenerationConfig
}

// New creates a session wired to its collaborators. A nil surface is
// replaced with NopSurface.
func New(transport Transport, creds CredentialSource, surface Surface, generation func() model.GenerationConfig) *Session {
	if surface == nil {
		surface = NopSurface{}
	}
	return &Session{
		conversation: model.NewConversation(),
		transport:    transport,
		creds:        creds,
		surface:      surface,
		generation:   generation,
	}
}

// Snapshot returns a copy of the conversation log for rendering or export.
// The live log is only ever touched under the session mutex and never
// escapes, so readers on other goroutines cannot observe a torn append.
func (s *Session) Snapshot() *model.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conversation.Snapshot()
}

// EstimateTokens estimates the token count of the whole log.
func (s *Session) EstimateTokens() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conversation.EstimateTokens()
}

// Title returns the conversation title.
func (s *Session) Title() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conversation.GetTitle()
}

// IsEmpty reports whether the log has no messages.
func (s *Session) IsEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conversation.IsEmpty()
}

// Busy reports whether an exchange is in flight.
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending != nil
}

// ClearHistory empties the conversation log. Rejected while an exchange is
// pending so a late reply cannot land in a cleared log.
func (s *Session) ClearHistory() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending != nil {
		return ErrExchangePending
	}
	s.conversation.ClearHistory()
	return nil
}

// =============================================================================
// SEND
// =============================================================================

// BeginSend validates preconditions and transitions Idle -> Pending.
//
// On success the user message is appended to the log and emitted, a
// placeholder appears, and the returned exchange must be driven to
// completion with CompleteSend (or abandoned with Abandon at shutdown).
// Precondition failures leave the session in Idle with nothing emitted.
func (s *Session) BeginSend(userText string) (*Exchange, error) {
	trimmed := strings.TrimSpace(userText)
	if trimmed == "" {
		return nil, ErrEmptyInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending != nil {
		return nil, ErrExchangePending
	}
	if _, ok := s.creds.Credential(); !ok {
		return nil, ErrNoCredential
	}

	ex := &Exchange{
		Handle:    uuid.NewString(),
		UserText:  trimmed,
		StartedAt: time.Now(),
		Outcome:   OutcomePending,
	}
	s.pending = ex

	userMsg := s.conversation.AddUserMessage(trimmed)
	s.surface.AppendMessage(userMsg)
	s.surface.AppendPlaceholder(ex.Handle)

	return ex, nil
}

// CompleteSend performs the network call for a pending exchange and drives
// it to a terminal state, replacing the placeholder either way. Blocking;
// callers run it off the UI loop.
//
// The request is built from a fresh generation config. Prior turns are not
// resent: each request carries the optional system message plus the one user
// message, while the visible log stays append-only.
func (s *Session) CompleteSend(ctx context.Context, ex *Exchange) {
	cred, ok := s.creds.Credential()
	if !ok {
		// The credential vanished between BeginSend and now (override
		// cleared). Treated like any other failure.
		s.finishFailed(ex, ErrNoCredential)
		return
	}

	req := provider.BuildChatRequest(s.generation(), ex.UserText)
	raw, err := s.transport.Chat(ctx, cred, req)
	if err != nil {
		if ctx.Err() != nil {
			s.Abandon(ex)
			return
		}
		s.finishFailed(ex, err)
		return
	}

	s.finishSucceeded(ex, provider.ExtractText(raw))
}

// Abandon discards a pending exchange without a terminal message, removing
// its placeholder. Used when the process shuts down mid-exchange.
func (s *Session) Abandon(ex *Exchange) {
	s.mu.Lock()
	if s.pending != ex {
		s.mu.Unlock()
		return
	}
	s.pending = nil
	s.mu.Unlock()

	s.surface.RemovePlaceholder(ex.Handle)
}

// finishSucceeded handles Pending -> Succeeded -> Idle.
func (s *Session) finishSucceeded(ex *Exchange, reply string) {
	s.mu.Lock()
	if s.pending != ex {
		s.mu.Unlock()
		return
	}
	s.pending = nil
	ex.Outcome = OutcomeSucceeded
	ex.Reply = reply
	s.conversation.AddAssistantMessage(reply)
	s.mu.Unlock()

	markdown := !provider.ContainsBlockedMarkup(reply)
	s.surface.ReplacePlaceholder(ex.Handle, reply, markdown)
}

// finishFailed handles Pending -> Failed -> Idle. The placeholder becomes
// the error text; transport failures add a network hint notice. Failures
// are terminal for this exchange only, never for the session.
func (s *Session) finishFailed(ex *Exchange, cause error) {
	s.mu.Lock()
	if s.pending != ex {
		s.mu.Unlock()
		return
	}
	s.pending = nil
	ex.Outcome = OutcomeFailed
	ex.Err = cause
	s.mu.Unlock()

	s.surface.ReplacePlaceholder(ex.Handle, errorText(cause), false)

	var transportErr *provider.TransportError
	if errors.As(cause, &transportErr) {
		s.surface.Notice(networkHint)
	}
}

// errorText renders a failure cause for the placeholder slot.
func errorText(cause error) string {
	var providerErr *provider.ProviderError
	if errors.As(cause, &providerErr) {
		return fmt.Sprintf("Error (HTTP %d): %s", providerErr.Status, providerErr.Body)
	}
	return fmt.Sprintf("Error: %v", cause)
}

// =============================================================================
// CATALOG REFRESH
// =============================================================================

// RefreshCatalog fetches and normalizes the model catalog, emitting
// SetCatalogLoading around the fetch and SetCatalog with the result.
// Independent of the exchange state machine; only its own busy flag gates
// it. An unrecognized or empty catalog is not a failure: the fallback list
// is published with a notice. Blocking; callers run it off the UI loop.
func (s *Session) RefreshCatalog(ctx context.Context) error {
	s.mu.Lock()
	if s.catalogBusy {
		s.mu.Unlock()
		return ErrCatalogRefreshPending
	}
	s.catalogBusy = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.catalogBusy = false
		s.mu.Unlock()
		s.surface.SetCatalogLoading(false)
	}()

	cred, ok := s.creds.Credential()
	if !ok {
		return ErrNoCredential
	}

	s.surface.SetCatalogLoading(true)

	raw, err := s.transport.ListModels(ctx, cred)
	if err != nil {
		s.surface.Notice(errorText(err))
		var transportErr *provider.TransportError
		if errors.As(err, &transportErr) {
			s.surface.Notice(networkHint)
		}
		return err
	}

	models, err := provider.NormalizeCatalog(raw)
	if errors.Is(err, provider.ErrEmptyCatalog) {
		s.surface.Notice("Model catalog was empty or unrecognized; showing defaults.")
	}
	s.surface.SetCatalog(models)
	return nil
}
