// Copyright 2026 The Pagepatch Authors
// SPDX-License-Identifier: Apache-2.0

// Package doccache holds the per-file working copies of remote
// content documents for the duration of an edit session.
//
// The cache is deliberately not time-bounded: an entry stays valid
// until a write replaces its hash, a failure invalidates it, or edit
// mode deactivation clears everything. Repeated fetches for the same
// file return the same document object, so multiple edits against one
// file observe and compound each other's mutations before a save
// commits the whole document remotely.
package doccache

import (
	"context"
	"fmt"
	"sync"
)

// Reader is the read side of the remote content store.
type Reader interface {
	Read(ctx context.Context, fileName string) (document any, hash string, err error)
}

// Entry is one cached document plus the content hash under which it
// was last successfully read or written. The hash is the
// compare-and-swap token for the next write of this file.
type Entry struct {
	// Document is the shared, mutable working copy. Edits mutate it
	// in place; only a successful write publishes it.
	Document any

	// Hash is the remote store's content hash for the state the
	// document was last synchronized at.
	Hash string
}

// Cache maps logical file names (no extension) to entries. Methods
// are safe for concurrent use; network completions arrive from
// goroutines outside the UI loop.
type Cache struct {
	reader Reader

	mu      sync.Mutex
	entries map[string]*Entry
}

// New creates an empty cache that fills misses from reader.
func New(reader Reader) *Cache {
	return &Cache{
		reader:  reader,
		entries: make(map[string]*Entry),
	}
}

// Fetch returns the cached entry for fileName, reading it from the
// remote store on a miss. There is no freshness check: a hit returns
// the entry unchanged, however old. Failed reads are not cached.
func (cache *Cache) Fetch(ctx context.Context, fileName string) (*Entry, error) {
	cache.mu.Lock()
	if entry, ok := cache.entries[fileName]; ok {
		cache.mu.Unlock()
		return entry, nil
	}
	cache.mu.Unlock()

	// Read outside the lock: a slow remote must not block access to
	// other files. A duplicate concurrent read for the same file is
	// harmless; the second result wins.
	document, hash, err := cache.reader.Read(ctx, fileName)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", fileName, err)
	}

	entry := &Entry{Document: document, Hash: hash}
	cache.mu.Lock()
	cache.entries[fileName] = entry
	cache.mu.Unlock()
	return entry, nil
}

// Commit replaces the entry for fileName after a successful remote
// write.
func (cache *Cache) Commit(fileName string, entry *Entry) {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	cache.entries[fileName] = entry
}

// Invalidate removes the entry for fileName, forcing the next Fetch
// to hit the remote store. Called after any failed write: the failure
// may mean the local copy is stale.
func (cache *Cache) Invalidate(fileName string) {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	delete(cache.entries, fileName)
}

// Clear removes all entries. Called on edit mode deactivation so a
// later session cannot reuse a stale snapshot.
func (cache *Cache) Clear() {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	clear(cache.entries)
}

// Len reports the number of cached entries.
func (cache *Cache) Len() int {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	return len(cache.entries)
}
