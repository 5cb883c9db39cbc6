// Copyright (c) 2025 Promptdeck Authors
// SPDX-License-Identifier: MIT

package provider

import (
	"bytes"
	"encoding/json"
)

// =============================================================================
// MODEL CATALOG NORMALIZATION
// =============================================================================

// FallbackModels is substituted when a catalog response yields no usable
// identifiers. Insertion order is display order.
var FallbackModels = []string{"gpt-4o-mini", "gpt-4o", "gpt-3.5-turbo"}

// maxMappingKeys bounds the degenerate mapping branch: when the response is
// an unrecognized object, at most this many top-level keys become identifiers.
const maxMappingKeys = 20

// NormalizeCatalog turns an arbitrary provider JSON document into an ordered
// list of model identifiers.
//
// Shapes are tried in order, first match wins:
//  1. a top-level array: each element's "id", else "model", else "name"
//     field, else its string form
//  2. an object with a "data" array: each element's "id", else "name", else
//     "model" field, else its JSON string form
//  3. an object with a "models" array: same mapping as "data"
//  4. any other object: up to the first 20 keys, in document order
//
// Missing or mistyped fields are treated as absent, never as errors. When no
// identifiers survive, the fallback list is returned along with
// ErrEmptyCatalog; callers treat that as a notice, not a failure.
func NormalizeCatalog(raw []byte) ([]string, error) {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return FallbackModels, ErrEmptyCatalog
	}

	var models []string
	switch v := doc.(type) {
	case []any:
		models = mapElements(v, "id", "model", "name")
	case map[string]any:
		if data, ok := v["data"].([]any); ok {
			models = mapElements(data, "id", "name", "model")
		} else if list, ok := v["models"].([]any); ok {
			models = mapElements(list, "id", "name", "model")
		} else {
			models = mappingKeys(raw, maxMappingKeys)
		}
	}

	if len(models) == 0 {
		return FallbackModels, ErrEmptyCatalog
	}
	return models, nil
}

// mapElements converts array elements to identifiers, preferring the given
// object fields in order and falling back to the element's string form.
func mapElements(elements []any, fields ...string) []string {
	models := make([]string, 0, len(elements))
	for _, el := range elements {
		if id := elementID(el, fields); id != "" {
			models = append(models, id)
		}
	}
	return models
}

// elementID extracts the identifier for a single catalog element.
func elementID(el any, fields []string) string {
	switch v := el.(type) {
	case string:
		return v
	case map[string]any:
		for _, field := range fields {
			if s, ok := v[field].(string); ok && s != "" {
				return s
			}
		}
		// No known field: fall back to the element's JSON string form.
		return jsonString(v)
	default:
		return jsonString(el)
	}
}

// jsonString returns the compact JSON form of a value, or "" when it cannot
// be marshaled.
func jsonString(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

// mappingKeys returns up to max top-level keys of a JSON object in document
// order. encoding/json maps are unordered, so this re-reads the raw bytes
// with a token decoder to preserve the order keys appear in the document.
func mappingKeys(raw []byte, max int) []string {
	dec := json.NewDecoder(bytes.NewReader(raw))

	// Opening brace.
	tok, err := dec.Token()
	if err != nil {
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil
	}

	keys := make([]string, 0, max)
	for dec.More() && len(keys) < max {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		key, ok := tok.(string)
		if !ok {
			break
		}
		keys = append(keys, key)

		// Skip the value belonging to this key.
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			break
		}
	}
	return keys
}
