// Copyright 2026 The Pagepatch Authors
// SPDX-License-Identifier: Apache-2.0

package contentstore

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ConflictMessage is the literal user-facing text for a failed
// compare-and-swap write. The compare-and-swap token is the entire
// concurrency-control mechanism, so this one failure must never be
// softened, retried, or merged away.
const ConflictMessage = "someone else changed this file since you loaded it. Reload and retry."

// APIError represents a non-2xx response from the content store.
// GitHub returns structured JSON error bodies with a message and an
// optional documentation URL.
type APIError struct {
	// StatusCode is the HTTP response status code.
	StatusCode int

	// Message is the top-level error description from the store.
	Message string

	// DocumentationURL points to the relevant API documentation.
	DocumentationURL string
}

func (err *APIError) Error() string {
	return fmt.Sprintf("contentstore: HTTP %d: %s", err.StatusCode, err.Message)
}

// UserMessage returns the text to surface to the person editing.
// Conflicts get the literal reload-and-retry instruction; everything
// else gets the store's own message.
func UserMessage(err error) string {
	if IsConflict(err) {
		return ConflictMessage
	}
	return err.Error()
}

// IsNotFound reports whether err is a 404 from the store: the content
// file, branch, or repository does not exist.
func IsNotFound(err error) bool {
	var apiError *APIError
	return errors.As(err, &apiError) && apiError.StatusCode == http.StatusNotFound
}

// IsUnauthorized reports whether err is an authentication or
// permission failure (401, or 403 that is not a rate limit).
func IsUnauthorized(err error) bool {
	var apiError *APIError
	if !errors.As(err, &apiError) {
		return false
	}
	if apiError.StatusCode == http.StatusUnauthorized {
		return true
	}
	return apiError.StatusCode == http.StatusForbidden && !isRateLimitMessage(apiError.Message)
}

// IsConflict reports whether err is a failed compare-and-swap: the
// object's current hash no longer matches the expected hash the write
// carried. GitHub signals this as 409 Conflict, and as 422 with a
// sha-mismatch message when the expected hash is stale rather than
// absent.
func IsConflict(err error) bool {
	var apiError *APIError
	if !errors.As(err, &apiError) {
		return false
	}
	if apiError.StatusCode == http.StatusConflict {
		return true
	}
	return apiError.StatusCode == http.StatusUnprocessableEntity &&
		strings.Contains(strings.ToLower(apiError.Message), "sha")
}

// IsTransient reports whether err is worth retrying later: a 5xx from
// the store or a rate limit response.
func IsTransient(err error) bool {
	var apiError *APIError
	if !errors.As(err, &apiError) {
		return false
	}
	if apiError.StatusCode >= 500 {
		return true
	}
	return apiError.StatusCode == http.StatusTooManyRequests ||
		(apiError.StatusCode == http.StatusForbidden && isRateLimitMessage(apiError.Message))
}

// isRateLimitMessage checks whether a 403 error message indicates a
// rate limit rather than a permission issue. GitHub's rate limit 403
// responses contain recognizable phrases.
func isRateLimitMessage(message string) bool {
	lower := strings.ToLower(message)
	return strings.Contains(lower, "rate limit") ||
		strings.Contains(lower, "abuse detection")
}
