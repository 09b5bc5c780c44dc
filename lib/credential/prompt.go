// Copyright 2026 The Pagepatch Authors
// SPDX-License-Identifier: Apache-2.0

package credential

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

// Prompt asks the user for a token on the controlling terminal with
// echo disabled, and returns the trimmed input. When stdin is not a
// terminal (piped input, CI), it falls back to reading one line with
// echo left alone.
func Prompt(label string) (string, error) {
	fmt.Fprintf(os.Stderr, "%s: ", label)

	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		data, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("credential: reading token: %w", err)
		}
		token := strings.TrimSpace(string(data))
		if token == "" {
			return "", fmt.Errorf("credential: token is empty")
		}
		return token, nil
	}

	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", fmt.Errorf("credential: reading token: %w", err)
		}
		return "", fmt.Errorf("credential: stdin is empty")
	}
	token := strings.TrimSpace(scanner.Text())
	if token == "" {
		return "", fmt.Errorf("credential: token is empty")
	}
	return token, nil
}
