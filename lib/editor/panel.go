// Copyright 2026 The Pagepatch Authors
// SPDX-License-Identifier: Apache-2.0

package editor

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// Panel is the inline editor surface for one session: a small
// multi-line text editor with cursor tracking, seeded with the
// region's current content. The session owns the save semantics; the
// panel only holds keystrokes.
type Panel struct {
	lines   [][]rune // Each line is a slice of runes.
	cursorY int      // Current line index.
	cursorX int      // Cursor position within the current line.
}

// NewPanel creates a Panel seeded with the given text, cursor at the
// end.
func NewPanel(seed string) Panel {
	var lines [][]rune
	for _, line := range strings.Split(seed, "\n") {
		lines = append(lines, []rune(line))
	}
	panel := Panel{lines: lines}
	panel.cursorY = len(lines) - 1
	panel.cursorX = len(lines[panel.cursorY])
	return panel
}

// Value returns the current text content of the panel.
func (panel Panel) Value() string {
	parts := make([]string, len(panel.lines))
	for i, line := range panel.lines {
		parts[i] = string(line)
	}
	return strings.Join(parts, "\n")
}

// Cursor returns the editing cursor position (line, column).
func (panel Panel) Cursor() (int, int) { return panel.cursorY, panel.cursorX }

// Lines returns the panel content line by line, for rendering.
func (panel Panel) Lines() []string {
	rendered := make([]string, len(panel.lines))
	for i, line := range panel.lines {
		rendered[i] = string(line)
	}
	return rendered
}

// Update processes a key message for the panel's text editor.
func (panel *Panel) Update(message tea.KeyMsg) {
	switch message.Type {
	case tea.KeyRunes, tea.KeySpace:
		for _, character := range message.Runes {
			panel.insertRune(character)
		}

	case tea.KeyEnter:
		// Split the current line at the cursor.
		line := panel.lines[panel.cursorY]
		before := make([]rune, panel.cursorX)
		copy(before, line[:panel.cursorX])
		after := make([]rune, len(line)-panel.cursorX)
		copy(after, line[panel.cursorX:])

		panel.lines[panel.cursorY] = before
		newLines := make([][]rune, len(panel.lines)+1)
		copy(newLines, panel.lines[:panel.cursorY+1])
		newLines[panel.cursorY+1] = after
		copy(newLines[panel.cursorY+2:], panel.lines[panel.cursorY+1:])
		panel.lines = newLines
		panel.cursorY++
		panel.cursorX = 0

	case tea.KeyBackspace:
		if panel.cursorX > 0 {
			line := panel.lines[panel.cursorY]
			panel.lines[panel.cursorY] = append(line[:panel.cursorX-1], line[panel.cursorX:]...)
			panel.cursorX--
		} else if panel.cursorY > 0 {
			// Merge with the previous line.
			previousLine := panel.lines[panel.cursorY-1]
			currentLine := panel.lines[panel.cursorY]
			panel.cursorX = len(previousLine)
			panel.lines[panel.cursorY-1] = append(previousLine, currentLine...)
			panel.lines = append(panel.lines[:panel.cursorY], panel.lines[panel.cursorY+1:]...)
			panel.cursorY--
		}

	case tea.KeyDelete:
		line := panel.lines[panel.cursorY]
		if panel.cursorX < len(line) {
			panel.lines[panel.cursorY] = append(line[:panel.cursorX], line[panel.cursorX+1:]...)
		} else if panel.cursorY < len(panel.lines)-1 {
			// Merge with the next line.
			nextLine := panel.lines[panel.cursorY+1]
			panel.lines[panel.cursorY] = append(line, nextLine...)
			panel.lines = append(panel.lines[:panel.cursorY+1], panel.lines[panel.cursorY+2:]...)
		}

	case tea.KeyLeft:
		if panel.cursorX > 0 {
			panel.cursorX--
		} else if panel.cursorY > 0 {
			panel.cursorY--
			panel.cursorX = len(panel.lines[panel.cursorY])
		}

	case tea.KeyRight:
		line := panel.lines[panel.cursorY]
		if panel.cursorX < len(line) {
			panel.cursorX++
		} else if panel.cursorY < len(panel.lines)-1 {
			panel.cursorY++
			panel.cursorX = 0
		}

	case tea.KeyUp:
		if panel.cursorY > 0 {
			panel.cursorY--
			panel.clampCursorX()
		}

	case tea.KeyDown:
		if panel.cursorY < len(panel.lines)-1 {
			panel.cursorY++
			panel.clampCursorX()
		}

	case tea.KeyHome, tea.KeyCtrlA:
		panel.cursorX = 0

	case tea.KeyEnd:
		panel.cursorX = len(panel.lines[panel.cursorY])
	}
}

func (panel *Panel) insertRune(character rune) {
	line := panel.lines[panel.cursorY]
	updated := make([]rune, 0, len(line)+1)
	updated = append(updated, line[:panel.cursorX]...)
	updated = append(updated, character)
	updated = append(updated, line[panel.cursorX:]...)
	panel.lines[panel.cursorY] = updated
	panel.cursorX++
}

func (panel *Panel) clampCursorX() {
	if panel.cursorX > len(panel.lines[panel.cursorY]) {
		panel.cursorX = len(panel.lines[panel.cursorY])
	}
}
