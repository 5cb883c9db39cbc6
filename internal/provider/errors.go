// Copyright (c) 2025 Promptdeck Authors
// SPDX-License-Identifier: MIT

package provider

import (
	"errors"
	"fmt"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// Error variables for common provider errors.
var (
	// ErrEmptyCatalog indicates the catalog response held no usable model
	// identifiers. Callers fall back to the default model list; the error is
	// surfaced as a non-fatal notice, never as a failure.
	ErrEmptyCatalog = errors.New("model catalog empty or unrecognized")

	// ErrResponseTooLarge indicates the response body exceeded MaxResponseSize.
	ErrResponseTooLarge = errors.New("response exceeded maximum size")
)

// ProviderError represents a non-2xx response from the provider API.
// It carries the HTTP status code and the raw body text for display.
type ProviderError struct {
	Status int
	Body   string
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("provider error (HTTP %d): %s", e.Status, e.Body)
	}
	return fmt.Sprintf("provider error (HTTP %d)", e.Status)
}

// TransportError represents a connection-level failure: DNS, TLS, refused
// connection, or timeout. Distinct from ProviderError so callers can show
// a network hint instead of a provider message.
type TransportError struct {
	Cause error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("request failed: %v", e.Cause)
}

// Unwrap returns the underlying cause.
func (e *TransportError) Unwrap() error {
	return e.Cause
}
