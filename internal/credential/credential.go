// Copyright (c) 2025 Promptdeck Authors
// SPDX-License-Identifier: MIT

// Package credential resolves the API credential sent to the provider.
//
// Two sources exist: a process-wide key fixed at startup, and an override
// supplied interactively through the UI. The process-wide key always takes
// priority; the override only fills in when no startup key was given.
package credential

import (
	"fmt"
	"strings"
	"sync"
)

// =============================================================================
// STORE
// =============================================================================

// Store holds the credential sources. The process key is set once at
// construction and never changes; the override may be replaced at any time.
type Store struct {
	processKey string

	mu       sync.RWMutex
	override string
}

// NewStore creates a store with the given process-wide key. Pass an empty
// string when no key was configured at startup.
func NewStore(processKey string) *Store {
	return &Store{processKey: processKey}
}

// SetOverride replaces the UI-supplied credential override.
// An empty value clears the override.
func (s *Store) SetOverride(value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.override = value
}

// Override returns the current UI-supplied override.
func (s *Store) Override() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.override
}

// Candidates returns the credential candidates in priority order:
// the process-wide key first, then the UI override.
func (s *Store) Candidates() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return []string{s.processKey, s.override}
}

// Credential resolves the store's candidates to a usable credential.
func (s *Store) Credential() (string, bool) {
	return Resolve(s.Candidates()...)
}

// =============================================================================
// RESOLUTION
// =============================================================================

// Resolve returns the first candidate that is non-empty after trimming
// whitespace, along with true. When every candidate is empty or blank,
// it returns "" and false.
func Resolve(candidates ...string) (string, bool) {
	for _, c := range candidates {
		trimmed := strings.TrimSpace(c)
		if trimmed != "" {
			return trimmed, true
		}
	}
	return "", false
}

// Fingerprint returns a short non-reversible form of a credential suitable
// for log lines: the first four characters followed by the length. Never
// log the credential itself.
func Fingerprint(credential string) string {
	trimmed := strings.TrimSpace(credential)
	if trimmed == "" {
		return "(none)"
	}
	head := trimmed
	if len(head) > 4 {
		head = head[:4]
	}
	return fmt.Sprintf("%s...(%d chars)", head, len(trimmed))
}
