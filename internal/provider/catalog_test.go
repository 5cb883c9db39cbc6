// Copyright (c) 2025 Promptdeck Authors
// SPDX-License-Identifier: MIT

package provider

import (
	"errors"
	"reflect"
	"testing"
)

func TestNormalizeCatalogShapes(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{
			name: "data array of objects",
			raw:  `{"data":[{"id":"m1"},{"id":"m2"}]}`,
			want: []string{"m1", "m2"},
		},
		{
			name: "top-level string array",
			raw:  `["a","b"]`,
			want: []string{"a", "b"},
		},
		{
			name: "top-level object array",
			raw:  `[{"id":"m1"},{"model":"m2"},{"name":"m3"}]`,
			want: []string{"m1", "m2", "m3"},
		},
		{
			name: "top-level array prefers id over model over name",
			raw:  `[{"name":"n","model":"mo","id":"i"}]`,
			want: []string{"i"},
		},
		{
			name: "data array prefers id over name over model",
			raw:  `{"data":[{"model":"mo","name":"n","id":"i"},{"model":"mo","name":"n"}]}`,
			want: []string{"i", "n"},
		},
		{
			name: "models array",
			raw:  `{"models":[{"id":"x"},{"name":"y"},"z"]}`,
			want: []string{"x", "y", "z"},
		},
		{
			name: "mapping keys in document order",
			raw:  `{"gpt-alpha":{},"gpt-beta":1,"gpt-gamma":"x"}`,
			want: []string{"gpt-alpha", "gpt-beta", "gpt-gamma"},
		},
		{
			name: "unknown object fields fall back to JSON form",
			raw:  `{"data":[{"slug":"m1"}]}`,
			want: []string{`{"slug":"m1"}`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeCatalog([]byte(tt.raw))
			if err != nil {
				t.Fatalf("NormalizeCatalog returned error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NormalizeCatalog(%s) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestNormalizeCatalogFallback(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty object", `{}`},
		{"empty array", `[]`},
		{"empty data array", `{"data":[]}`},
		{"null", `null`},
		{"bare number", `42`},
		{"bare string", `"nope"`},
		{"not json", `<html>nope</html>`},
		{"truncated json", `{"data":[{"id":"m1"`},
		{"empty input", ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeCatalog([]byte(tt.raw))
			if !errors.Is(err, ErrEmptyCatalog) {
				t.Errorf("NormalizeCatalog(%s) err = %v, want ErrEmptyCatalog", tt.raw, err)
			}
			if !reflect.DeepEqual(got, FallbackModels) {
				t.Errorf("NormalizeCatalog(%s) = %v, want fallback %v", tt.raw, got, FallbackModels)
			}
		})
	}
}

func TestNormalizeCatalogMistypedFields(t *testing.T) {
	// A non-array "data" field is treated as absent, dropping to the
	// mapping branch where the keys become identifiers.
	got, err := NormalizeCatalog([]byte(`{"data":"oops","other":1}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"data", "other"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("NormalizeCatalog = %v, want %v", got, want)
	}
}

func TestNormalizeCatalogMappingKeyLimit(t *testing.T) {
	raw := []byte(`{` +
		`"k01":1,"k02":1,"k03":1,"k04":1,"k05":1,` +
		`"k06":1,"k07":1,"k08":1,"k09":1,"k10":1,` +
		`"k11":1,"k12":1,"k13":1,"k14":1,"k15":1,` +
		`"k16":1,"k17":1,"k18":1,"k19":1,"k20":1,` +
		`"k21":1,"k22":1}`)

	got, err := NormalizeCatalog(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 20 {
		t.Fatalf("got %d keys, want 20", len(got))
	}
	if got[0] != "k01" || got[19] != "k20" {
		t.Errorf("keys out of document order: first=%s last=%s", got[0], got[19])
	}
}

func TestNormalizeCatalogNeverEmpty(t *testing.T) {
	// Whatever the input, the result is a non-empty list.
	inputs := []string{
		`{}`, `[]`, `null`, `true`, `""`, `0`, `[null]`, `{"data":null}`,
		`{"models":{}}`, "\x00\x01", `[[]]`,
	}
	for _, raw := range inputs {
		got, _ := NormalizeCatalog([]byte(raw))
		if len(got) == 0 {
			t.Errorf("NormalizeCatalog(%q) returned empty list", raw)
		}
	}
}
