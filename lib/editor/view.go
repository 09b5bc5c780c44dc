// Copyright 2026 The Pagepatch Authors
// SPDX-License-Identifier: Apache-2.0

package editor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/pagepatch/pagepatch/lib/page"
)

func (model Model) View() string {
	if !model.ready {
		return "loading..."
	}

	var builder strings.Builder
	builder.WriteString(model.viewHeader())
	builder.WriteString("\n")

	if model.panelVisible {
		builder.WriteString(model.viewPanel())
	} else {
		builder.WriteString(model.viewRegions())
	}

	builder.WriteString("\n")
	builder.WriteString(model.viewStatusBar())
	return builder.String()
}

// viewHeader renders the title line: the tool name, the current page,
// and the edit mode indicator.
func (model Model) viewHeader() string {
	headerStyle := lipgloss.NewStyle().
		Foreground(model.theme.HeaderForeground).
		Bold(true)
	faint := lipgloss.NewStyle().Foreground(model.theme.FaintText)

	title := "pagepatch"
	if current := model.currentPage(); current != nil {
		name := current.Title
		if name == "" {
			name = current.Source
		}
		title += "  " + name
		if len(model.pages) > 1 {
			title += faint.Render(fmt.Sprintf("  (%d/%d)", model.pageIndex+1, len(model.pages)))
		}
	}

	var mode string
	if model.controller.Active() {
		mode = lipgloss.NewStyle().
			Foreground(model.theme.EditModeOn).
			Bold(true).
			Render("EDIT MODE")
	} else {
		mode = lipgloss.NewStyle().
			Foreground(model.theme.EditModeOff).
			Render("read only")
	}

	left := headerStyle.Render(title)
	gap := model.width - lipgloss.Width(left) - lipgloss.Width(mode)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + mode
}

// viewRegions renders the editable region list for the current page,
// with a preview of the selected region below it.
func (model Model) viewRegions() string {
	current := model.currentPage()
	if current == nil {
		return lipgloss.NewStyle().
			Foreground(model.theme.FaintText).
			Render("no pages configured")
	}
	if len(current.Regions) == 0 {
		return lipgloss.NewStyle().
			Foreground(model.theme.FaintText).
			Render("no editable regions on this page")
	}

	normal := lipgloss.NewStyle().Foreground(model.theme.NormalText)
	faint := lipgloss.NewStyle().Foreground(model.theme.FaintText)
	selected := lipgloss.NewStyle().
		Foreground(model.theme.SelectedForeground).
		Background(model.theme.SelectedBackground)

	var rows []string
	for index, region := range current.Regions {
		label := region.File + ": " + region.Address
		if region.Rich {
			label += " (rich)"
		}
		snippet := ansi.Truncate(escapeText(region.Text()), max(model.width-len(label)-6, 0), "…")

		var row string
		if index == model.cursor {
			row = selected.Render("▸ "+label) + "  " + normal.Render(snippet)
		} else {
			row = faint.Render("  "+label) + "  " + faint.Render(snippet)
		}
		rows = append(rows, row)
	}

	list := strings.Join(rows, "\n")
	preview := model.viewPreview(model.currentRegion())
	if preview == "" {
		return list
	}

	divider := lipgloss.NewStyle().
		Foreground(model.theme.BorderColor).
		Render(strings.Repeat("─", max(model.width, 1)))
	return list + "\n" + divider + "\n" + preview
}

// viewPreview renders the selected region's full content. Rich
// regions are rendered as markdown, plain regions as escaped text.
func (model Model) viewPreview(region *page.Region) string {
	if region == nil {
		return ""
	}
	width := model.width
	if width < 20 {
		width = 20
	}
	if region.Rich {
		return renderRichPreview(region.Text(), model.theme, width)
	}
	return lipgloss.NewStyle().
		Foreground(model.theme.NormalText).
		Width(width).
		Render(escapeText(region.Text()))
}

// viewPanel renders the edit panel: a bordered editor with the target
// identity as its title and a status line below the text.
func (model Model) viewPanel() string {
	session := model.controller.Session()
	if session == nil {
		return ""
	}
	target := session.Target()

	titleStyle := lipgloss.NewStyle().
		Foreground(model.theme.HeaderForeground).
		Bold(true)
	body := titleStyle.Render(target.File+": "+target.Address) + "\n\n"
	body += model.viewPanelLines()
	body += "\n\n" + model.viewPanelStatus(session)

	width := model.width - 4
	if width < 20 {
		width = 20
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(model.theme.BorderColor).
		Padding(0, 1).
		Width(width).
		Render(body)
}

// viewPanelLines renders the editor text with a block cursor.
func (model Model) viewPanelLines() string {
	cursorY, cursorX := model.panel.Cursor()
	cursorStyle := lipgloss.NewStyle().
		Foreground(model.theme.SelectedBackground).
		Background(model.theme.SelectedForeground)
	textStyle := lipgloss.NewStyle().Foreground(model.theme.NormalText)

	var rows []string
	for index, line := range model.panel.Lines() {
		runes := []rune(line)
		if index != cursorY {
			rows = append(rows, textStyle.Render(escapeText(line)))
			continue
		}
		before := escapeText(string(runes[:cursorX]))
		var at, after string
		if cursorX < len(runes) {
			at = escapeText(string(runes[cursorX : cursorX+1]))
			after = escapeText(string(runes[cursorX+1:]))
		} else {
			at = " "
		}
		rows = append(rows, textStyle.Render(before)+cursorStyle.Render(at)+textStyle.Render(after))
	}
	return strings.Join(rows, "\n")
}

// viewPanelStatus renders the panel's state line: save progress, the
// error message from a failed save, or the key hints.
func (model Model) viewPanelStatus(session *Session) string {
	switch session.State() {
	case PanelSaving:
		return lipgloss.NewStyle().
			Foreground(model.theme.SavingText).
			Render("saving...")
	case PanelError:
		errorStyle := lipgloss.NewStyle().Foreground(model.theme.ErrorText)
		hint := lipgloss.NewStyle().
			Foreground(model.theme.HelpText).
			Render("ctrl+d retry · esc cancel")
		return errorStyle.Render(session.Message()) + "\n" + hint
	default:
		return lipgloss.NewStyle().
			Foreground(model.theme.HelpText).
			Render("ctrl+d save · esc cancel")
	}
}

// viewStatusBar renders the bottom line: a transient notice when one
// is active, otherwise the key hints.
func (model Model) viewStatusBar() string {
	if model.toast != "" {
		color := model.theme.SuccessText
		if model.toastIsError {
			color = model.theme.ErrorText
		}
		return lipgloss.NewStyle().Foreground(color).Render(model.toast)
	}
	help := "j/k move · enter edit · tab next page · ctrl+e edit mode · q quit"
	if model.panelVisible {
		help = "ctrl+d save · esc cancel"
	}
	return lipgloss.NewStyle().Foreground(model.theme.HelpText).Render(help)
}

// escapeText strips any ANSI escape sequences from untrusted page
// content so it cannot corrupt the terminal.
func escapeText(text string) string {
	return ansi.Strip(text)
}
