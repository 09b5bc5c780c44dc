// Copyright 2026 The Pagepatch Authors
// SPDX-License-Identifier: Apache-2.0

package editor

import (
	"errors"
	"log/slog"

	"github.com/pagepatch/pagepatch/lib/doccache"
	"github.com/pagepatch/pagepatch/lib/page"
)

// ErrNoCredential reports an activation attempt without a stored
// token. The caller prompts for one and retries.
var ErrNoCredential = errors.New("no stored credential")

// ControllerConfig wires a Controller to its collaborators.
type ControllerConfig struct {
	// Cache is the document cache the controller owns for its
	// lifetime. Cleared on every deactivation.
	Cache *doccache.Cache

	// Store is the write side handed to each session.
	Store Store

	// HasCredential reports whether a stored credential is available.
	// Activation is refused without one.
	HasCredential func() bool

	// Notify receives user-facing status messages for mode
	// transitions. Nil means no notifications.
	Notify func(message string)

	// Logger is used for structured logging. Defaults to
	// slog.Default().
	Logger *slog.Logger
}

// Controller is the process-wide edit mode switch. It owns the mode
// flag, the document cache lifecycle across activations, and the one
// active session; the UI forwards region selections to Dispatch,
// which stands in for the click interceptors a rendered page would
// bind to its marked elements.
//
// Constructed once per run and passed by reference to whatever needs
// it. Not safe for concurrent use; all calls belong on the UI event
// loop.
type Controller struct {
	cache         *doccache.Cache
	store         Store
	hasCredential func() bool
	notify        func(string)
	logger        *slog.Logger

	active  bool
	session *Session
}

// NewController creates an inactive controller.
func NewController(config ControllerConfig) *Controller {
	notify := config.Notify
	if notify == nil {
		notify = func(string) {}
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		cache:         config.Cache,
		store:         config.Store,
		hasCredential: config.HasCredential,
		notify:        notify,
		logger:        logger,
	}
}

// Active reports whether edit mode is on.
func (controller *Controller) Active() bool { return controller.active }

// Session returns the current session, or nil when none has been
// opened since activation.
func (controller *Controller) Session() *Session { return controller.session }

// Activate turns edit mode on. Requires a stored credential; returns
// ErrNoCredential without one. Activating an already-active
// controller is a no-op.
func (controller *Controller) Activate() error {
	if controller.active {
		return nil
	}
	if controller.hasCredential == nil || !controller.hasCredential() {
		return ErrNoCredential
	}
	controller.active = true
	controller.logger.Info("edit mode activated")
	controller.notify("edit mode on")
	return nil
}

// Deactivate turns edit mode off: closes any open panel, drops the
// session, and clears the cache so a later activation cannot reuse a
// stale snapshot. Deactivating an inactive controller is a no-op.
func (controller *Controller) Deactivate() {
	if !controller.active {
		return
	}
	if controller.session != nil {
		controller.session.Cancel()
		controller.session = nil
	}
	controller.active = false
	controller.cache.Clear()
	controller.logger.Info("edit mode deactivated")
	controller.notify("edit mode off")
}

// Dispatch opens an edit session for the selected region and returns
// it. Selections while edit mode is off are ignored (handlers can
// outlive a deactivation race) and return nil. At most one panel is
// visible at a time: opening a new session force-closes the previous
// panel, though cache mutations it already made remain in the shared
// working copy.
func (controller *Controller) Dispatch(target *page.Region) *Session {
	if !controller.active {
		return nil
	}
	if controller.session != nil && controller.session.State() != PanelClosed {
		controller.session.Cancel()
	}
	session := &Session{
		cache:  controller.cache,
		store:  controller.store,
		logger: controller.logger,
	}
	session.Open(target)
	controller.session = session
	return session
}
