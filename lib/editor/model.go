// Copyright 2026 The Pagepatch Authors
// SPDX-License-Identifier: Apache-2.0

package editor

import (
	"context"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pagepatch/pagepatch/lib/page"
)

// toastFadeDelay is how long a status notice stays visible.
const toastFadeDelay = 3 * time.Second

// saveResultMsg is sent when an asynchronous save pipeline completes.
type saveResultMsg struct {
	err error
}

// toastFadeMsg clears the status notice after a delay.
type toastFadeMsg struct{}

// ModelConfig wires the TUI to its collaborators.
type ModelConfig struct {
	// Controller is the edit mode controller, already activated when
	// the run started with the auto-edit signal.
	Controller *Controller

	// Pages are the loaded pages whose regions are listed.
	Pages []*page.Page

	// Keys and Theme override the defaults when non-nil.
	Keys  *KeyMap
	Theme *Theme

	// Logger is used for structured logging. Defaults to
	// slog.Default().
	Logger *slog.Logger
}

// Model is the bubbletea model hosting the editor: a region list per
// page, a preview pane for the selected region, and the inline edit
// panel driven by the controller's session.
type Model struct {
	controller *Controller
	keys       KeyMap
	theme      Theme
	logger     *slog.Logger

	pages     []*page.Page
	pageIndex int
	cursor    int

	width  int
	height int
	ready  bool

	panelVisible bool
	panel        Panel

	toast        string
	toastIsError bool
}

// NewModel creates the TUI model over already-loaded pages.
func NewModel(config ModelConfig) Model {
	keys := DefaultKeyMap
	if config.Keys != nil {
		keys = *config.Keys
	}
	theme := DefaultTheme
	if config.Theme != nil {
		theme = *config.Theme
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return Model{
		controller: config.Controller,
		keys:       keys,
		theme:      theme,
		logger:     logger,
		pages:      config.Pages,
	}
}

func (model Model) Init() tea.Cmd {
	return nil
}

func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.KeyMsg:
		// When the panel is visible, all input routes to it first.
		if model.panelVisible {
			return model.handlePanelKeys(message)
		}

		switch {
		case key.Matches(message, model.keys.Quit):
			return model, tea.Quit

		case key.Matches(message, model.keys.ToggleEditMode):
			return model.toggleEditMode()

		case key.Matches(message, model.keys.Up):
			model.moveCursor(-1)

		case key.Matches(message, model.keys.Down):
			model.moveCursor(1)

		case key.Matches(message, model.keys.PageUp):
			model.moveCursor(-model.listHeight())

		case key.Matches(message, model.keys.PageDown):
			model.moveCursor(model.listHeight())

		case key.Matches(message, model.keys.NextPage):
			model.switchPage(1)

		case key.Matches(message, model.keys.PrevPage):
			model.switchPage(-1)

		case key.Matches(message, model.keys.OpenPanel):
			return model.openPanel()
		}

	case saveResultMsg:
		return model.handleSaveResult(message)

	case toastFadeMsg:
		model.toast = ""
		model.toastIsError = false

	case tea.WindowSizeMsg:
		model.width = message.Width
		model.height = message.Height
		model.ready = true
	}
	return model, nil
}

// handlePanelKeys routes input while the edit panel is open. Save and
// cancel are intercepted; everything else goes to the text editor.
func (model Model) handlePanelKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	session := model.controller.Session()
	if session == nil {
		model.panelVisible = false
		return model, nil
	}

	// While a save is in flight the panel is locked: the pipeline
	// runs to completion or failure before the next cancellation
	// point.
	if session.State() == PanelSaving {
		return model, nil
	}

	switch {
	case key.Matches(message, model.keys.CancelPanel):
		session.Cancel()
		model.panelVisible = false
		return model, nil

	case key.Matches(message, model.keys.SavePanel):
		if !session.BeginSave() {
			// Unchanged input: closed without any network round trip.
			model.panelVisible = false
			return model.showToast("no changes", false)
		}
		return model, func() tea.Msg {
			return saveResultMsg{err: session.Commit(context.Background())}
		}
	}

	model.panel.Update(message)
	session.SetInput(model.panel.Value())
	return model, nil
}

// handleSaveResult applies a completed save pipeline to the session.
func (model Model) handleSaveResult(message saveResultMsg) (tea.Model, tea.Cmd) {
	session := model.controller.Session()
	if session == nil {
		return model, nil
	}
	session.Finish(message.err)

	if session.State() == PanelClosed {
		model.panelVisible = false
		target := session.Target()
		return model.showToast("saved "+target.File+": "+target.Address, false)
	}
	// Error state: the panel stays open and renders session.Message.
	return model, nil
}

// toggleEditMode flips the controller, surfacing the credential
// requirement as a notice.
func (model Model) toggleEditMode() (tea.Model, tea.Cmd) {
	if model.controller.Active() {
		model.controller.Deactivate()
		model.panelVisible = false
		return model.showToast("edit mode off", false)
	}
	if err := model.controller.Activate(); err != nil {
		return model.showToast("edit mode needs a token: run pagepatch --login", true)
	}
	return model.showToast("edit mode on", false)
}

// openPanel dispatches the selected region to the controller.
func (model Model) openPanel() (tea.Model, tea.Cmd) {
	region := model.currentRegion()
	if region == nil {
		return model, nil
	}
	session := model.controller.Dispatch(region)
	if session == nil {
		return model.showToast("edit mode is off (ctrl+e to enable)", false)
	}
	model.panel = NewPanel(session.Input())
	model.panelVisible = true
	return model, nil
}

// showToast sets the status notice and schedules its fade.
func (model Model) showToast(text string, isError bool) (tea.Model, tea.Cmd) {
	model.toast = text
	model.toastIsError = isError
	return model, tea.Tick(toastFadeDelay, func(time.Time) tea.Msg {
		return toastFadeMsg{}
	})
}

// currentPage returns the visible page, or nil when none loaded.
func (model *Model) currentPage() *page.Page {
	if len(model.pages) == 0 {
		return nil
	}
	return model.pages[model.pageIndex]
}

// currentRegion returns the selected region, or nil when the page
// has none.
func (model *Model) currentRegion() *page.Region {
	current := model.currentPage()
	if current == nil || len(current.Regions) == 0 {
		return nil
	}
	if model.cursor >= len(current.Regions) {
		return current.Regions[len(current.Regions)-1]
	}
	return current.Regions[model.cursor]
}

func (model *Model) moveCursor(delta int) {
	current := model.currentPage()
	if current == nil {
		return
	}
	model.cursor += delta
	if model.cursor < 0 {
		model.cursor = 0
	}
	if model.cursor >= len(current.Regions) {
		model.cursor = len(current.Regions) - 1
	}
	if model.cursor < 0 {
		model.cursor = 0
	}
}

func (model *Model) switchPage(delta int) {
	if len(model.pages) == 0 {
		return
	}
	model.pageIndex = (model.pageIndex + delta + len(model.pages)) % len(model.pages)
	model.cursor = 0
}

// listHeight is the number of region rows the list pane can show.
func (model *Model) listHeight() int {
	// Header, divider, status bar.
	height := model.height - 3
	if height < 1 {
		return 1
	}
	return height
}
