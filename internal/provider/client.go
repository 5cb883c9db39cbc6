// Copyright (c) 2025 Promptdeck Authors
// SPDX-License-Identifier: MIT

// Package provider implements the HTTP client and response normalizers for
// OpenAI-compatible chat completion providers.
//
// The client is deliberately thin: it returns the raw JSON body for any 2xx
// response and leaves shape interpretation to NormalizeCatalog and
// ExtractText, because providers disagree on response layout far more than
// they disagree on transport.
package provider

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

// Configuration constants for the provider API.
const (
	// DefaultBaseURL is the base URL used when none is configured.
	DefaultBaseURL = "https://api.openai.com/v1"

	// DefaultTimeout is the default timeout for API requests.
	DefaultTimeout = 60 * time.Second

	// MaxResponseSize is the maximum allowed response body size.
	// SECURITY: Response size limit prevents memory exhaustion.
	MaxResponseSize = 10 * 1024 * 1024 // 10MB limit
)

// PERFORMANCE: Connection pooling reduces TCP handshake overhead.
// Shared HTTP client with connection pooling for all provider requests.
var sharedHTTPClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	},
	Timeout: DefaultTimeout,
}

// =============================================================================
// CLIENT
// =============================================================================

// Client communicates with an OpenAI-compatible provider API.
//
// Credentials are passed per call and never stored on the client, so
// UI-supplied overrides take effect without rebuilding anything.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
}

// NewClient creates a client for the given base URL. A trailing slash on the
// base URL is tolerated; an empty base URL falls back to DefaultBaseURL.
func NewClient(baseURL string) *Client {
	baseURL = strings.TrimSuffix(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: sharedHTTPClient,
		timeout:    DefaultTimeout,
	}
}

// WithTimeout sets the request timeout.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	c.timeout = timeout
	c.httpClient = &http.Client{
		Transport: sharedHTTPClient.Transport,
		Timeout:   timeout,
	}
	return c
}

// WithHTTPClient replaces the underlying HTTP client. Used by tests.
func (c *Client) WithHTTPClient(httpClient *http.Client) *Client {
	c.httpClient = httpClient
	return c
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// =============================================================================
// API OPERATIONS
// =============================================================================

// ListModels fetches the raw model catalog document.
//
// Any 2xx status is success and yields the raw JSON body for
// NormalizeCatalog. Non-2xx yields a ProviderError with status and body
// text; connection-level failures yield a TransportError.
func (c *Client) ListModels(ctx context.Context, cred string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/models", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req, cred)
	return c.do(req)
}

// Chat posts one chat completions request and returns the raw JSON body for
// ExtractText. Error behavior matches ListModels.
func (c *Client) Chat(ctx context.Context, cred string, reqBody ChatRequest) (json.RawMessage, error) {
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req, cred)
	req.Header.Set("Content-Type", "application/json")

	return c.do(req)
}

// =============================================================================
// TRANSPORT
// =============================================================================

// setHeaders sets the headers shared by every provider request. The
// credential goes in the Authorization header as-is, with no scheme prefix;
// providers that expect "Bearer sk-..." receive exactly the value the user
// configured, so a user can include the prefix themselves when needed.
func (c *Client) setHeaders(req *http.Request, cred string) {
	req.Header.Set("Authorization", cred)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "promptdeck/0.1.0")
}

// do performs the request and classifies the outcome.
func (c *Client) do(req *http.Request) (json.RawMessage, error) {
	c.logRequest(req)

	start := time.Now()
	resp, err := c.httpClient.Do(req)

	// SECURITY: Clear Authorization header immediately after the request to
	// keep the credential out of any later request dump.
	req.Header.Del("Authorization")

	if err != nil {
		return nil, &TransportError{Cause: err}
	}
	defer resp.Body.Close()

	c.logResponse(resp, time.Since(start))

	body, err := readResponse(resp)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ProviderError{Status: resp.StatusCode, Body: string(body)}
	}
	return json.RawMessage(body), nil
}

// readResponse reads the response body with a size limit.
//
// SECURITY: Response size limit prevents memory exhaustion.
func readResponse(resp *http.Response) ([]byte, error) {
	limitedReader := io.LimitReader(resp.Body, MaxResponseSize)
	body, err := io.ReadAll(limitedReader)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) == MaxResponseSize {
		return nil, fmt.Errorf("%w (%d bytes)", ErrResponseTooLarge, MaxResponseSize)
	}
	return body, nil
}

// =============================================================================
// SECURE LOGGING
// =============================================================================

// logRequest logs an API request without exposing sensitive data.
// Never log headers (contain the credential) or the body.
func (c *Client) logRequest(req *http.Request) {
	log.Printf("API Request: %s %s", req.Method, req.URL.Path)
}

// logResponse logs status code and duration only, no response body.
func (c *Client) logResponse(resp *http.Response, duration time.Duration) {
	log.Printf("API Response: %d %s (%v)", resp.StatusCode, resp.Status, duration)
}
