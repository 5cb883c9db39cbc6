// Copyright (c) 2025 Promptdeck Authors
// SPDX-License-Identifier: MIT

// Package export writes conversation transcripts to files.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/promptdeck/promptdeck/internal/config"
	"github.com/promptdeck/promptdeck/internal/model"
)

// =============================================================================
// EXPORTER INTERFACE
// =============================================================================

// Exporter converts a conversation into one output format.
type Exporter interface {
	// Export renders the conversation.
	Export(conv *model.Conversation) ([]byte, error)

	// FileExtension returns the extension including the dot.
	FileExtension() string
}

// ForFormat returns the exporter for a format name ("md" or "json").
func ForFormat(format string) (Exporter, error) {
	switch format {
	case "md", "markdown":
		return &MarkdownExporter{}, nil
	case "json":
		return &JSONExporter{}, nil
	default:
		return nil, fmt.Errorf("unknown export format: %s", format)
	}
}

// =============================================================================
// FILE OUTPUT
// =============================================================================

// Dir returns the export output directory, ~/.promptdeck/exports.
func Dir() (string, error) {
	base, err := config.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "exports"), nil
}

// WriteFile exports the conversation in the given format to the export
// directory and returns the written path. File names carry the conversation
// ID and a timestamp so repeated exports never collide.
func WriteFile(conv *model.Conversation, format string) (string, error) {
	if conv == nil || conv.IsEmpty() {
		return "", fmt.Errorf("nothing to export")
	}

	exporter, err := ForFormat(format)
	if err != nil {
		return "", err
	}

	data, err := exporter.Export(conv)
	if err != nil {
		return "", err
	}

	dir, err := Dir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	name := fmt.Sprintf("%s-%s%s", conv.ID, time.Now().Format("20060102-150405"), exporter.FileExtension())
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0600); err != nil {
		return "", fmt.Errorf("failed to write export: %w", err)
	}
	return path, nil
}
