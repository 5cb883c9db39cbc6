// Copyright (c) 2025 Promptdeck Authors
// SPDX-License-Identifier: MIT

package provider

import (
	"encoding/json"
	"strings"
)

// =============================================================================
// RESPONSE NORMALIZATION
// =============================================================================

// ExtractText turns an arbitrary provider JSON response into plain assistant
// text. Shapes are tried in order, first match wins:
//
//  1. choices[0].message.content, else choices[0].text, else
//     choices[0].delta.content
//  2. output: a string directly, or an array whose elements' "content"
//     fields (else their JSON string form) are joined with newlines
//  3. result: a string directly
//  4. the pretty-printed JSON form of the whole document
//
// The function is total: any JSON value, including {}, [] and null, yields
// some text. Missing or mistyped fields are treated as absent, never errors.
func ExtractText(raw []byte) string {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		// Not JSON at all: show the raw bytes as-is.
		return string(raw)
	}

	if obj, ok := doc.(map[string]any); ok {
		if text, ok := fromChoices(obj); ok {
			return text
		}
		if text, ok := fromOutput(obj); ok {
			return text
		}
		if s, ok := obj["result"].(string); ok {
			return s
		}
	}

	return prettyJSON(doc)
}

// fromChoices handles the OpenAI chat completions shape.
func fromChoices(obj map[string]any) (string, bool) {
	choices, ok := obj["choices"].([]any)
	if !ok || len(choices) == 0 {
		return "", false
	}
	first, ok := choices[0].(map[string]any)
	if !ok {
		return "", false
	}

	if msg, ok := first["message"].(map[string]any); ok {
		if content, ok := msg["content"].(string); ok {
			return content, true
		}
	}
	if text, ok := first["text"].(string); ok {
		return text, true
	}
	if delta, ok := first["delta"].(map[string]any); ok {
		if content, ok := delta["content"].(string); ok {
			return content, true
		}
	}
	return "", false
}

// fromOutput handles responses carrying an "output" string or array.
func fromOutput(obj map[string]any) (string, bool) {
	switch out := obj["output"].(type) {
	case string:
		return out, true
	case []any:
		parts := make([]string, 0, len(out))
		for _, el := range out {
			if m, ok := el.(map[string]any); ok {
				if content, ok := m["content"].(string); ok {
					parts = append(parts, content)
					continue
				}
			}
			parts = append(parts, jsonString(el))
		}
		return strings.Join(parts, "\n"), true
	default:
		return "", false
	}
}

// prettyJSON returns the indented JSON form of a value.
func prettyJSON(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return jsonString(v)
	}
	return string(b)
}

// =============================================================================
// SAFETY FILTER
// =============================================================================

// ContainsBlockedMarkup reports whether the text carries script markup that
// must never reach a rich renderer. Matching is case-insensitive and covers
// both opening and closing tags. Flagged text is displayed verbatim as plain
// text; provider-controlled content never gets markup interpretation.
func ContainsBlockedMarkup(text string) bool {
	lower := strings.ToLower(text)
	return strings.Contains(lower, "<script") || strings.Contains(lower, "</script")
}
