// Copyright 2026 The Pagepatch Authors
// SPDX-License-Identifier: Apache-2.0

// Package credential persists the bearer token used for content store
// writes.
//
// The token lives in a single file under the user's configuration
// directory, the fixed-key analog of browser-local storage: one
// credential, read before any remote call, absent until the user
// provides it. There is no keyring integration and no refresh flow; a
// revoked token surfaces as an Unauthorized store error and the user
// stores a new one.
package credential

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNoToken reports that no token has been stored yet.
var ErrNoToken = errors.New("no stored token")

// Path returns the token file location:
// <user config dir>/pagepatch/token.
func Path() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("credential: resolving config directory: %w", err)
	}
	return filepath.Join(configDir, "pagepatch", "token"), nil
}

// Load reads the stored token. Returns ErrNoToken when the file does
// not exist or is empty.
func Load() (string, error) {
	path, err := Path()
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", ErrNoToken
	}
	if err != nil {
		return "", fmt.Errorf("credential: reading token: %w", err)
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", ErrNoToken
	}
	return token, nil
}

// Store writes the token with owner-only permissions, creating the
// configuration directory as needed.
func Store(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("credential: token is empty")
	}
	path, err := Path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("credential: creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("credential: writing token: %w", err)
	}
	return nil
}

// Clear removes the stored token. Clearing an absent token is not an
// error.
func Clear() error {
	path, err := Path()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("credential: removing token: %w", err)
	}
	return nil
}
