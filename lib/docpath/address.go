// Copyright 2026 The Pagepatch Authors
// SPDX-License-Identifier: Apache-2.0

// Package docpath resolves dotted, bracketed field addresses inside
// decoded JSON documents.
//
// An address like "a.b[2].c" names one position in a document tree:
// mapping keys are separated by "." and sequence indexes are written
// as "[n]" suffixes. Parse turns the flat string into an ordered
// sequence of typed steps; Get and Set walk a document along those
// steps.
//
// Addresses come from page markup, not from user input, so the parser
// favors simplicity over defensive validation. The one distinction it
// must preserve: a path that leads through missing optional data is
// tolerated on read (Get reports absence), while a path whose parent
// container does not exist is a caller error on write (Set fails with
// ErrInvalidParent).
package docpath

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformedAddress reports an address string that cannot be parsed
// into steps.
var ErrMalformedAddress = errors.New("malformed address")

// ErrInvalidParent reports a Set whose parent path does not resolve to
// a container of the right kind.
var ErrInvalidParent = errors.New("parent is not a container")

// Step is one component of a parsed Address: either a mapping key or
// a sequence index. IsIndex distinguishes the two; the inactive field
// is zero.
type Step struct {
	Key     string
	Index   int
	IsIndex bool
}

// String renders the step the way it appears in an address.
func (step Step) String() string {
	if step.IsIndex {
		return "[" + strconv.Itoa(step.Index) + "]"
	}
	return step.Key
}

// Address is an ordered sequence of steps from the document root to
// one field.
type Address []Step

// String reassembles the address into its flat form.
func (address Address) String() string {
	var builder strings.Builder
	for i, step := range address {
		if !step.IsIndex && i > 0 {
			builder.WriteByte('.')
		}
		builder.WriteString(step.String())
	}
	return builder.String()
}

// Parse splits a flat address on "." and rewrites "[n]" index suffixes
// into separate index steps. "a.b[2].c" parses to the steps
// key "a", key "b", index 2, key "c". A segment may also be a bare
// index ("items.[0]" and "items[0]" are equivalent).
//
// Returns ErrMalformedAddress for an empty string, an empty segment,
// an unterminated bracket, or a non-numeric or negative index.
func Parse(address string) (Address, error) {
	if address == "" {
		return nil, fmt.Errorf("%w: empty address", ErrMalformedAddress)
	}

	var steps Address
	for _, segment := range strings.Split(address, ".") {
		key, indexes, err := splitSegment(segment)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrMalformedAddress, address, err)
		}
		if key == "" && len(indexes) == 0 {
			return nil, fmt.Errorf("%w: %q: empty segment", ErrMalformedAddress, address)
		}
		if key != "" {
			steps = append(steps, Step{Key: key})
		}
		for _, index := range indexes {
			steps = append(steps, Step{Index: index, IsIndex: true})
		}
	}
	return steps, nil
}

// splitSegment separates one dot-delimited segment into its leading
// key (possibly empty) and any trailing "[n]" indexes. Multiple
// suffixes are allowed: "grid[1][2]" yields key "grid", indexes 1, 2.
func splitSegment(segment string) (string, []int, error) {
	bracket := strings.IndexByte(segment, '[')
	if bracket < 0 {
		return segment, nil, nil
	}

	key := segment[:bracket]
	rest := segment[bracket:]
	var indexes []int
	for rest != "" {
		if rest[0] != '[' {
			return "", nil, fmt.Errorf("unexpected %q after index", rest)
		}
		closing := strings.IndexByte(rest, ']')
		if closing < 0 {
			return "", nil, fmt.Errorf("unterminated index in %q", segment)
		}
		index, err := strconv.Atoi(rest[1:closing])
		if err != nil || index < 0 {
			return "", nil, fmt.Errorf("bad index %q", rest[1:closing])
		}
		indexes = append(indexes, index)
		rest = rest[closing+1:]
	}
	return key, indexes, nil
}
