// Copyright (c) 2025 Promptdeck Authors
// SPDX-License-Identifier: MIT

package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptdeck/promptdeck/internal/model"
)

func TestClientListModels(t *testing.T) {
	var gotAuth, gotAccept, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[{"id":"m1"}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	raw, err := client.ListModels(context.Background(), "sk-test-key")
	require.NoError(t, err)

	// The credential goes in the Authorization header verbatim, no scheme.
	assert.Equal(t, "sk-test-key", gotAuth)
	assert.Equal(t, "application/json", gotAccept)
	assert.Equal(t, "/models", gotPath)
	assert.JSONEq(t, `{"data":[{"id":"m1"}]}`, string(raw))
}

func TestClientChat(t *testing.T) {
	var gotBody ChatRequest
	var gotMethod, gotContentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{"choices":[{"message":{"content":"Hi"}}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	req := BuildChatRequest(model.GenerationConfig{Model: "m1", Temperature: 0.5}, "hello")

	raw, err := client.Chat(context.Background(), "sk-test-key", req)
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "m1", gotBody.Model)
	require.Len(t, gotBody.Messages, 1)
	assert.Equal(t, "hello", gotBody.Messages[0].Content)
	assert.Equal(t, "Hi", ExtractText(raw))
}

func TestClientNon2xxIsProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"bad key"}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.ListModels(context.Background(), "bad")

	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, http.StatusUnauthorized, provErr.Status)
	assert.Contains(t, provErr.Body, "bad key")
}

func TestClientAny2xxIsSuccess(t *testing.T) {
	for _, status := range []int{200, 201, 204} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			if status != 204 {
				w.Write([]byte(`{}`))
			}
		}))

		client := NewClient(server.URL)
		_, err := client.ListModels(context.Background(), "k")
		assert.NoError(t, err, "status %d should be success", status)
		server.Close()
	}
}

func TestClientConnectionFailureIsTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // Refuse all connections.

	client := NewClient(server.URL)
	_, err := client.ListModels(context.Background(), "k")

	var transErr *TransportError
	require.ErrorAs(t, err, &transErr)
	assert.NotNil(t, transErr.Cause)
}

func TestClientBaseURLNormalization(t *testing.T) {
	assert.Equal(t, "https://example.com/v1", NewClient("https://example.com/v1/").BaseURL())
	assert.Equal(t, "https://example.com/v1", NewClient("  https://example.com/v1  ").BaseURL())
	assert.Equal(t, DefaultBaseURL, NewClient("").BaseURL())
}

func TestClientContextCancellation(t *testing.T) {
	block := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer server.Close()
	defer close(block)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient(server.URL)
	_, err := client.ListModels(ctx, "k")

	var transErr *TransportError
	require.ErrorAs(t, err, &transErr)
	assert.True(t, errors.Is(transErr.Cause, context.Canceled))
}
