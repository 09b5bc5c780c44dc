// Copyright 2026 The Pagepatch Authors
// SPDX-License-Identifier: Apache-2.0

package editor

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings for the editor TUI.
type KeyMap struct {
	// Region list navigation.
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding

	// Page switching.
	NextPage key.Binding
	PrevPage key.Binding

	// Edit mode toggle: the keyboard activation signal.
	ToggleEditMode key.Binding

	// Panel interaction.
	OpenPanel   key.Binding // Open the editor for the selected region.
	SavePanel   key.Binding // Submit the panel (retry from error).
	CancelPanel key.Binding // Discard the panel.

	Quit key.Binding
}

// DefaultKeyMap is the built-in key binding set. Vim-style navigation
// (j/k) alongside standard arrow keys.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("pgup"),
		key.WithHelp("pgup", "page up"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("pgdown"),
		key.WithHelp("pgdn", "page down"),
	),
	NextPage: key.NewBinding(
		key.WithKeys("tab", "]"),
		key.WithHelp("tab", "next page"),
	),
	PrevPage: key.NewBinding(
		key.WithKeys("shift+tab", "["),
		key.WithHelp("shift+tab", "previous page"),
	),
	ToggleEditMode: key.NewBinding(
		key.WithKeys("ctrl+e"),
		key.WithHelp("ctrl+e", "toggle edit mode"),
	),
	OpenPanel: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "edit region"),
	),
	SavePanel: key.NewBinding(
		key.WithKeys("ctrl+d"),
		key.WithHelp("ctrl+d", "save"),
	),
	CancelPanel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}
