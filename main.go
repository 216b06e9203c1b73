// nanami TUI - a terminal client for the Nanami assistant backend.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/jeranaias/nanami-tui/internal/agent"
	"github.com/jeranaias/nanami-tui/internal/config"
	"github.com/jeranaias/nanami-tui/internal/store"
	"github.com/jeranaias/nanami-tui/internal/ui/chat"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	var (
		configPath  = flag.String("config", "", "config file path (default ~/.nanami/config.toml)")
		statePath   = flag.String("state", "", "state file path (default ~/.nanami/state.json)")
		baseURL     = flag.String("base-url", "", "backend base URL (overrides config)")
		showVersion = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("nanami-tui %s (%s, %s)\n", Version, GitCommit, BuildDate)
		return
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "nanami-tui needs an interactive terminal")
		os.Exit(1)
	}

	if err := run(*configPath, *statePath, *baseURL); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(configPath, statePath, baseURL string) error {
	var err error
	if configPath == "" {
		configPath, err = config.DefaultPath()
		if err != nil {
			return fmt.Errorf("cannot resolve config path: %w", err)
		}
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if baseURL != "" {
		cfg.Backend.BaseURL = baseURL
	}

	if statePath == "" {
		statePath, err = store.DefaultPath()
		if err != nil {
			return fmt.Errorf("cannot resolve state path: %w", err)
		}
	}
	st, err := store.Open(statePath)
	if err != nil {
		return fmt.Errorf("cannot open state: %w", err)
	}

	client := agent.NewClient(cfg.Backend.BaseURL)

	// Hot reload is best effort; the app runs fine without the watcher.
	watcher, err := config.Watch(configPath)
	if err != nil {
		watcher = nil
	}

	m := chat.New(st, client, cfg, watcher)
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err = program.Run()
	return err
}
