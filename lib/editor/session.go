// Copyright 2026 The Pagepatch Authors
// SPDX-License-Identifier: Apache-2.0

package editor

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pagepatch/pagepatch/lib/contentstore"
	"github.com/pagepatch/pagepatch/lib/doccache"
	"github.com/pagepatch/pagepatch/lib/docpath"
	"github.com/pagepatch/pagepatch/lib/page"
)

// PanelState is the lifecycle state of one edit panel.
type PanelState int

const (
	// PanelClosed means no editor is visible for this session.
	PanelClosed PanelState = iota
	// PanelOpen means the inline editor is visible and accepting input.
	PanelOpen
	// PanelSaving means a save is in flight. Input is locked and no
	// second save can start until the result arrives.
	PanelSaving
	// PanelError means the last save failed. The failure text is in
	// Message; the user may retry the save or cancel.
	PanelError
)

func (state PanelState) String() string {
	switch state {
	case PanelClosed:
		return "closed"
	case PanelOpen:
		return "open"
	case PanelSaving:
		return "saving"
	case PanelError:
		return "error"
	}
	return fmt.Sprintf("PanelState(%d)", int(state))
}

// Store is the write side of the remote content store.
type Store interface {
	Write(ctx context.Context, fileName string, document any, expectedHash, summary string) (newHash string, err error)
}

// Session drives one editable region through the panel lifecycle:
// closed, open, saving, then closed again on success or error on
// failure. Error allows retry or cancel.
//
// State transitions (Open, BeginSave, Finish, Cancel) must happen on
// the UI event loop. Commit performs the blocking pipeline and makes
// no state transitions, so the UI runs it on a worker goroutine
// between BeginSave and Finish. Save bundles all three for
// synchronous callers.
type Session struct {
	cache  *doccache.Cache
	store  Store
	logger *slog.Logger

	state   PanelState
	target  *page.Region
	seeded  string
	input   string
	message string
}

// State returns the current panel state.
func (session *Session) State() PanelState { return session.state }

// Target returns the region this session edits. Nil before Open.
func (session *Session) Target() *page.Region { return session.target }

// Message returns the failure text while the session is in the error
// state, and "" otherwise.
func (session *Session) Message() string { return session.message }

// Input returns the editor's current text.
func (session *Session) Input() string { return session.input }

// SetInput replaces the editor text. Ignored while a save is in
// flight. The value is kept raw; any escaping for display is the
// renderer's concern and never reaches the store.
func (session *Session) SetInput(text string) {
	if session.state == PanelSaving {
		return
	}
	session.input = text
}

// Open seeds the editor from the region's current displayed content
// and transitions to the open state. For rich regions the seed is the
// raw inner markup; for plain regions it is the displayed text.
func (session *Session) Open(target *page.Region) {
	session.target = target
	session.seeded = target.Text()
	session.input = session.seeded
	session.message = ""
	session.state = PanelOpen
}

// BeginSave starts a save from the open or error state. When the
// input is unchanged from the seeded text the session transitions
// straight to closed and BeginSave returns false: nothing to persist,
// no network round trip. Otherwise the session transitions to saving
// and the caller must run Commit followed by Finish.
func (session *Session) BeginSave() bool {
	if session.state != PanelOpen && session.state != PanelError {
		return false
	}
	if session.input == session.seeded {
		session.state = PanelClosed
		return false
	}
	session.message = ""
	session.state = PanelSaving
	return true
}

// Commit runs the persistence pipeline for the value in the editor:
// fetch the file's working copy, resolve the address and assign the
// new value, write the whole document back under the held content
// hash, and publish the new hash to the cache. The region's displayed
// text is updated only after the store confirms the write.
//
// On any failure the cache entry for the file is invalidated, since
// the failure may mean the local copy is stale, and the error is
// returned for Finish to surface.
func (session *Session) Commit(ctx context.Context) error {
	target := session.target

	address, err := docpath.Parse(target.Address)
	if err != nil {
		session.cache.Invalidate(target.File)
		return err
	}

	entry, err := session.cache.Fetch(ctx, target.File)
	if err != nil {
		return err
	}

	if err := docpath.Set(entry.Document, address, session.input); err != nil {
		session.cache.Invalidate(target.File)
		return err
	}

	summary := target.File + ": " + target.Address
	newHash, err := session.store.Write(ctx, target.File, entry.Document, entry.Hash, summary)
	if err != nil {
		session.cache.Invalidate(target.File)
		return err
	}

	session.cache.Commit(target.File, &doccache.Entry{Document: entry.Document, Hash: newHash})
	target.SetText(session.input)

	session.logger.Info("region saved",
		"file", target.File,
		"address", target.Address,
		"hash", newHash,
	)
	return nil
}

// Finish applies the result of a Commit: saving transitions to closed
// on success or to error with the user-facing failure text. A
// conflict carries the literal reload-and-retry message rather than
// the generic error text.
func (session *Session) Finish(err error) {
	if session.state != PanelSaving {
		return
	}
	if err == nil {
		session.seeded = session.input
		session.state = PanelClosed
		return
	}
	session.message = contentstore.UserMessage(err)
	session.state = PanelError
	session.logger.Warn("save failed",
		"file", session.target.File,
		"address", session.target.Address,
		"error", err,
	)
}

// Save runs the full save sequence synchronously: BeginSave, Commit,
// Finish. Returns the commit error, nil on success or when there was
// nothing to save.
func (session *Session) Save(ctx context.Context) error {
	if !session.BeginSave() {
		return nil
	}
	err := session.Commit(ctx)
	session.Finish(err)
	return err
}

// Cancel discards the panel without touching the cache or the page:
// in-memory edits before a save are abandoned harmlessly. Ignored
// while a save is in flight; the pipeline runs to completion or
// failure first.
func (session *Session) Cancel() {
	if session.state == PanelSaving {
		return
	}
	session.message = ""
	session.state = PanelClosed
}
