// Copyright 2026 The Pagepatch Authors
// SPDX-License-Identifier: Apache-2.0

package editor

import "github.com/charmbracelet/lipgloss"

// Theme defines the color palette for the editor TUI. All colors use
// lipgloss ANSI 256-color codes for broad terminal compatibility.
type Theme struct {
	// Text colors.
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	// Selected row.
	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color

	// Mode indicator.
	EditModeOn  lipgloss.Color
	EditModeOff lipgloss.Color

	// Save status.
	SuccessText lipgloss.Color
	ErrorText   lipgloss.Color
	SavingText  lipgloss.Color

	// UI chrome.
	HeaderForeground lipgloss.Color
	BorderColor      lipgloss.Color
	HelpText         lipgloss.Color

	// Rich region rendering.
	CodeBackground  lipgloss.Color
	HeadingColor    lipgloss.Color
	EmphasisColor   lipgloss.Color
	ChromaStyleName string
}

// DefaultTheme is the built-in palette.
var DefaultTheme = Theme{
	NormalText:         lipgloss.Color("252"),
	FaintText:          lipgloss.Color("243"),
	SelectedBackground: lipgloss.Color("237"),
	SelectedForeground: lipgloss.Color("255"),
	EditModeOn:         lipgloss.Color("114"),
	EditModeOff:        lipgloss.Color("243"),
	SuccessText:        lipgloss.Color("114"),
	ErrorText:          lipgloss.Color("203"),
	SavingText:         lipgloss.Color("179"),
	HeaderForeground:   lipgloss.Color("81"),
	BorderColor:        lipgloss.Color("238"),
	HelpText:           lipgloss.Color("243"),
	CodeBackground:     lipgloss.Color("236"),
	HeadingColor:       lipgloss.Color("81"),
	EmphasisColor:      lipgloss.Color("179"),
	ChromaStyleName:    "monokai",
}
