// Copyright 2026 The Pagepatch Authors
// SPDX-License-Identifier: Apache-2.0

// pagepatch is a terminal editor for the content of a static site.
//
// It loads one or more rendered pages (local files or URLs), scans
// them for elements marked with data-edit-file and data-edit-path
// attributes, and lets the operator edit those regions inline. Each
// save commits the change to the site's GitHub repository through the
// Contents API; the hosting platform rebuilds the site from the
// commit.
//
// Edit mode requires a stored personal access token (pagepatch
// --login) and is toggled inside the TUI with ctrl+e, or enabled at
// startup with --edit.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/pagepatch/pagepatch/lib/contentstore"
	"github.com/pagepatch/pagepatch/lib/credential"
	"github.com/pagepatch/pagepatch/lib/doccache"
	"github.com/pagepatch/pagepatch/lib/editor"
	"github.com/pagepatch/pagepatch/lib/page"
	"github.com/pagepatch/pagepatch/lib/siteconfig"
	"github.com/pagepatch/pagepatch/lib/version"
)

func main() {
	if err := run(); err != nil {
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(coder.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var configPath string
	var autoEdit bool
	var login bool
	var logout bool
	var logOutput string

	flagSet := pflag.NewFlagSet("pagepatch", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "path to the site config YAML (or set "+siteconfig.EnvVar+")")
	flagSet.BoolVar(&autoEdit, "edit", false, "enable edit mode at startup")
	flagSet.BoolVar(&login, "login", false, "prompt for a personal access token and store it")
	flagSet.BoolVar(&logout, "logout", false, "remove the stored token")
	flagSet.StringVar(&logOutput, "log-output", "", "write JSON log records to this file")
	flagSet.BoolP("help", "h", false, "show help")

	// Handle --version before flag parsing to match the other entry
	// points of this shape.
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		version.Print("pagepatch")
		return nil
	}

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}
	if args := flagSet.Args(); len(args) > 0 {
		return fmt.Errorf("unexpected argument: %s", args[0])
	}

	if login {
		return runLogin()
	}
	if logout {
		if err := credential.Clear(); err != nil {
			return err
		}
		fmt.Println("token removed")
		return nil
	}

	logger, closeLogger, err := buildLogger(logOutput)
	if err != nil {
		return err
	}
	defer closeLogger()

	resolvedPath, err := siteconfig.ResolvePath(configPath)
	if err != nil {
		return err
	}
	site, err := siteconfig.Load(resolvedPath)
	if err != nil {
		return err
	}

	token, err := credential.Load()
	if err != nil && !errors.Is(err, credential.ErrNoToken) {
		return err
	}

	// Starting directly in edit mode with no stored token prompts for
	// one before the TUI takes over the terminal.
	if autoEdit && token == "" {
		token, err = credential.Prompt("GitHub personal access token")
		if err != nil {
			return err
		}
		if token == "" {
			return fmt.Errorf("edit mode requires a token")
		}
		if err := credential.Store(token); err != nil {
			return err
		}
	}

	cache := doccache.New(nil)
	var store editor.Store
	if token != "" {
		client, clientErr := contentstore.NewClient(contentstore.Config{
			BaseURL: site.BaseURL,
			Owner:   site.Owner,
			Repo:    site.Repo,
			Branch:  site.Branch,
			Dir:     site.ContentDir,
			Token:   token,
			Logger:  logger,
		})
		if clientErr != nil {
			return clientErr
		}
		cache = doccache.New(client)
		store = client
	}

	controller := editor.NewController(editor.ControllerConfig{
		Cache:         cache,
		Store:         store,
		HasCredential: func() bool { return token != "" },
		Notify: func(message string) {
			logger.Info("mode change", "message", message)
		},
		Logger: logger,
	})

	pages, err := loadPages(site.Pages, site.AttributePrefix, logger)
	if err != nil {
		return err
	}

	if autoEdit {
		if activateErr := controller.Activate(); activateErr != nil {
			return fmt.Errorf("cannot enable edit mode: %w (run pagepatch --login)", activateErr)
		}
	}

	model := editor.NewModel(editor.ModelConfig{
		Controller: controller,
		Pages:      pages,
		Logger:     logger,
	})
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err = program.Run()
	return err
}

// runLogin prompts for a token without echo and stores it under the
// user config directory.
func runLogin() error {
	token, err := credential.Prompt("GitHub personal access token")
	if err != nil {
		return err
	}
	if token == "" {
		return fmt.Errorf("empty token")
	}
	if err := credential.Store(token); err != nil {
		return err
	}
	path, err := credential.Path()
	if err != nil {
		return err
	}
	fmt.Printf("token stored in %s\n", path)
	return nil
}

// loadPages fetches and parses every configured page. A page that
// fails to load aborts startup: editing against a partial region list
// invites writes to the wrong file.
func loadPages(sources []string, prefix string, logger *slog.Logger) ([]*page.Page, error) {
	httpClient := &http.Client{Timeout: 30 * time.Second}
	ctx := context.Background()

	var pages []*page.Page
	for _, source := range sources {
		loaded, err := page.Load(ctx, source, httpClient, prefix)
		if err != nil {
			return nil, fmt.Errorf("load page %s: %w", source, err)
		}
		logger.Info("page loaded",
			"source", source,
			"regions", len(loaded.Regions),
		)
		pages = append(pages, loaded)
	}
	return pages, nil
}

// buildLogger returns the process logger. Without --log-output,
// records are discarded: stderr is unusable while the alt-screen TUI
// is active.
func buildLogger(logOutput string) (*slog.Logger, func(), error) {
	if logOutput == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
	}
	file, err := os.Create(logOutput)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open log file %s: %w", logOutput, err)
	}
	handler := slog.NewJSONHandler(file, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(handler), func() { file.Close() }, nil
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `pagepatch — edit the content of a static site from the terminal.

Scans the configured pages for elements marked with data-edit-file
and data-edit-path attributes and lists them as editable regions.
Saving a region commits the change to the site repository; the
hosting platform rebuilds the site from the commit.

Usage:
  pagepatch [flags]

Examples:
  # Store a personal access token
  pagepatch --login

  # Browse a site read-only
  pagepatch --config site.yaml

  # Start with edit mode already on
  pagepatch --config site.yaml --edit

Flags:
`)
	flagSet.SetOutput(os.Stderr)
	flagSet.PrintDefaults()
}
