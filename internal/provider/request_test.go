// Copyright (c) 2025 Promptdeck Authors
// SPDX-License-Identifier: MIT

package provider

import (
	"encoding/json"
	"testing"

	"github.com/promptdeck/promptdeck/internal/model"
)

func TestBuildChatRequest(t *testing.T) {
	cfg := model.GenerationConfig{
		Model:        "gpt-4o-mini",
		Temperature:  0.7,
		SystemPrompt: "be terse",
	}

	req := BuildChatRequest(cfg, "hello")

	if req.Model != "gpt-4o-mini" {
		t.Errorf("Model = %q, want gpt-4o-mini", req.Model)
	}
	if req.Temperature != 0.7 {
		t.Errorf("Temperature = %v, want 0.7", req.Temperature)
	}
	if len(req.Messages) != 2 {
		t.Fatalf("len(Messages) = %d, want 2", len(req.Messages))
	}
	if req.Messages[0].Role != "system" || req.Messages[0].Content != "be terse" {
		t.Errorf("first message = %+v, want system prompt", req.Messages[0])
	}
	if req.Messages[1].Role != "user" || req.Messages[1].Content != "hello" {
		t.Errorf("second message = %+v, want user message", req.Messages[1])
	}
}

func TestBuildChatRequestNoSystemPrompt(t *testing.T) {
	req := BuildChatRequest(model.GenerationConfig{Model: "m", Temperature: 1}, "hi")

	if len(req.Messages) != 1 {
		t.Fatalf("len(Messages) = %d, want 1", len(req.Messages))
	}
	if req.Messages[0].Role != "user" {
		t.Errorf("only message role = %q, want user", req.Messages[0].Role)
	}
}

func TestBuildChatRequestEmbedsValuesVerbatim(t *testing.T) {
	// No range validation happens here; the provider is the authority.
	req := BuildChatRequest(model.GenerationConfig{Model: "", Temperature: -3.5}, "x")

	if req.Model != "" || req.Temperature != -3.5 {
		t.Errorf("values altered: model=%q temp=%v", req.Model, req.Temperature)
	}
}

func TestChatRequestWireFormat(t *testing.T) {
	req := BuildChatRequest(model.GenerationConfig{
		Model:       "m1",
		Temperature: 0,
	}, "hi")

	b, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	// Temperature must serialize even at zero; providers distinguish
	// temperature 0 from an absent field.
	want := `{"model":"m1","messages":[{"role":"user","content":"hi"}],"temperature":0}`
	if string(b) != want {
		t.Errorf("wire form = %s, want %s", b, want)
	}
}
