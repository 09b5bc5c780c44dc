// Copyright 2026 The Pagepatch Authors
// SPDX-License-Identifier: Apache-2.0

package docpath

import "fmt"

// Get walks the document along the address and returns the value at
// its end. The second result reports presence: a path that leads
// through a missing key, an out-of-range index, or a non-container
// node returns (nil, false) rather than an error, so read-only
// rendering can tolerate addresses into not-yet-created structure.
func Get(document any, address Address) (any, bool) {
	node := document
	for _, step := range address {
		child, ok := descend(node, step)
		if !ok {
			return nil, false
		}
		node = child
	}
	return node, true
}

// Set assigns value at the address, mutating the document in place.
// All steps except the last must resolve to an existing container of
// the step's kind; a missing intermediate container is a caller error
// (ErrInvalidParent), never silently created. The final step may name
// a new mapping key, but a sequence index must be in range.
//
// On error the document is left unmodified.
func Set(document any, address Address, value any) error {
	if len(address) == 0 {
		return fmt.Errorf("%w: empty address", ErrMalformedAddress)
	}

	parent := document
	for _, step := range address[:len(address)-1] {
		child, ok := descend(parent, step)
		if !ok {
			return fmt.Errorf("%w: step %q in %q", ErrInvalidParent, step, address)
		}
		if !isContainer(child) {
			return fmt.Errorf("%w: step %q in %q resolves to a scalar", ErrInvalidParent, step, address)
		}
		parent = child
	}

	last := address[len(address)-1]
	switch container := parent.(type) {
	case map[string]any:
		if last.IsIndex {
			return fmt.Errorf("%w: index %s into mapping at %q", ErrInvalidParent, last, address)
		}
		container[last.Key] = value
	case []any:
		if !last.IsIndex {
			return fmt.Errorf("%w: key %q into sequence at %q", ErrInvalidParent, last.Key, address)
		}
		if last.Index >= len(container) {
			return fmt.Errorf("%w: index %d out of range (length %d) at %q", ErrInvalidParent, last.Index, len(container), address)
		}
		container[last.Index] = value
	default:
		return fmt.Errorf("%w: final parent at %q is not a container", ErrInvalidParent, address)
	}
	return nil
}

// descend resolves one step against a node. Returns false when the
// node is not a container of the step's kind or the key/index is
// absent.
func descend(node any, step Step) (any, bool) {
	if step.IsIndex {
		sequence, ok := node.([]any)
		if !ok || step.Index >= len(sequence) {
			return nil, false
		}
		return sequence[step.Index], true
	}
	mapping, ok := node.(map[string]any)
	if !ok {
		return nil, false
	}
	child, present := mapping[step.Key]
	return child, present
}

func isContainer(node any) bool {
	switch node.(type) {
	case map[string]any, []any:
		return true
	}
	return false
}
