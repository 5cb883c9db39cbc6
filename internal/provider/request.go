// Copyright (c) 2025 Promptdeck Authors
// SPDX-License-Identifier: MIT

package provider

import (
	"github.com/promptdeck/promptdeck/internal/model"
)

// =============================================================================
// CHAT REQUEST CONSTRUCTION
// =============================================================================

// ChatMessage represents a single message in a chat completions request.
type ChatMessage struct {
	Role    string `json:"role"`    // "user", "assistant", or "system"
	Content string `json:"content"` // The message content
}

// ChatRequest represents a request to the chat completions endpoint.
type ChatRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

// BuildChatRequest assembles the request payload for one exchange.
//
// The message list holds an optional system message (only when the configured
// system prompt is non-empty) followed by the single user message. Model and
// temperature are embedded verbatim from the generation config; the provider
// is the authority on which values are acceptable, so no validation happens
// here.
func BuildChatRequest(cfg model.GenerationConfig, userText string) ChatRequest {
	messages := make([]ChatMessage, 0, 2)
	if cfg.SystemPrompt != "" {
		messages = append(messages, ChatMessage{
			Role:    model.RoleSystem.String(),
			Content: cfg.SystemPrompt,
		})
	}
	messages = append(messages, ChatMessage{
		Role:    model.RoleUser.String(),
		Content: userText,
	})

	return ChatRequest{
		Model:       cfg.Model,
		Messages:    messages,
		Temperature: cfg.Temperature,
	}
}
