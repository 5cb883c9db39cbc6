// promptdeck - a terminal chat client for OpenAI-compatible providers.
//
// Copyright (c) 2025 Promptdeck Authors
// SPDX-License-Identifier: MIT
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/promptdeck/promptdeck/internal/config"
	"github.com/promptdeck/promptdeck/internal/credential"
	"github.com/promptdeck/promptdeck/internal/provider"
	"github.com/promptdeck/promptdeck/internal/session"
	"github.com/promptdeck/promptdeck/internal/ui/chat"
	"github.com/promptdeck/promptdeck/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	var (
		configPath  = flag.String("config", "", "path to config file (default ~/.promptdeck/config.toml)")
		modelName   = flag.String("model", "", "model identifier, overrides config")
		baseURL     = flag.String("base-url", "", "provider base URL, overrides config")
		showVersion = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("promptdeck %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
		return
	}

	if err := run(*configPath, *modelName, *baseURL); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, modelOverride, baseURLOverride string) error {
	closeLog := setupLogging()
	defer closeLog()

	// =========================================================================
	// CONFIGURATION
	// =========================================================================

	path := configPath
	if path == "" {
		p, err := config.ConfigPath()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
		}
		path = p
	}

	cfg, err := config.LoadFromPath(path)
	if err != nil {
		return err
	}

	// CLI flags win over config file and environment.
	if modelOverride != "" {
		cfg.Chat.Model = modelOverride
	}
	if baseURLOverride != "" {
		cfg.Provider.BaseURL = baseURLOverride
	}
	config.SetGlobal(cfg)

	// =========================================================================
	// COLLABORATORS
	// =========================================================================

	creds := credential.NewStore(cfg.Provider.APIKey)
	log.Printf("starting promptdeck %s, credential %s", Version, credential.Fingerprint(cfg.Provider.APIKey))

	client := provider.NewClient(cfg.Provider.BaseURL).
		WithTimeout(time.Duration(cfg.Provider.TimeoutSecs) * time.Second)

	dispatcher := chat.NewDispatcher()

	sess := session.New(client, creds, dispatcher, config.CurrentGeneration)

	// Cancellation abandons an in-flight exchange on exit so its placeholder
	// is removed instead of replaced after the UI is gone.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	theme := styles.NewTheme()
	m := chat.New(ctx, sess, dispatcher, creds, theme)

	p := tea.NewProgram(m, tea.WithAltScreen())

	// =========================================================================
	// CONFIG FILE WATCHER
	// =========================================================================

	if path != "" {
		watcher, werr := config.NewWatcher(path, func(*config.Config) {
			p.Send(chat.ConfigReloadedMsg{})
		})
		if werr != nil {
			log.Printf("config watcher unavailable: %v", werr)
		} else if werr := watcher.Watch(); werr != nil {
			log.Printf("config watcher unavailable: %v", werr)
			watcher.Close()
		} else {
			defer watcher.Close()
		}
	}

	// =========================================================================
	// RUN
	// =========================================================================

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running promptdeck: %w", err)
	}
	return nil
}

// setupLogging sends the standard logger to ~/.promptdeck/promptdeck.log.
// The TUI owns the terminal, so nothing may write to stderr while it runs.
// Log lines carry timings and status codes only, never credentials or bodies.
func setupLogging() func() {
	discard := func() {
		log.SetOutput(io.Discard)
	}

	dir, err := config.ConfigDir()
	if err != nil {
		discard()
		return func() {}
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		discard()
		return func() {}
	}

	f, err := os.OpenFile(filepath.Join(dir, "promptdeck.log"),
		os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		discard()
		return func() {}
	}

	log.SetOutput(f)
	log.SetFlags(log.LstdFlags | log.Lmsgprefix)
	return func() { f.Close() }
}
