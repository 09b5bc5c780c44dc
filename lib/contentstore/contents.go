// Copyright 2026 The Pagepatch Authors
// SPDX-License-Identifier: Apache-2.0

package contentstore

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/jsonc"
)

// contentResponse is the wire shape of a Contents API GET response for
// a single file. Directories return an array instead; that is a
// configuration error here and fails JSON decoding.
type contentResponse struct {
	Type     string `json:"type"`
	Encoding string `json:"encoding"`
	Content  string `json:"content"`
	SHA      string `json:"sha"`
	Path     string `json:"path"`
}

// writeRequest is the wire shape of a Contents API PUT body. SHA is
// the compare-and-swap precondition: the hash under which the file
// was last read. Omitted only when creating a new file.
type writeRequest struct {
	Message string `json:"message"`
	Content string `json:"content"`
	SHA     string `json:"sha,omitempty"`
	Branch  string `json:"branch"`
}

// writeResponse is the subset of a Contents API PUT response the
// client needs: the new content hash of the written blob.
type writeResponse struct {
	Content struct {
		SHA string `json:"sha"`
	} `json:"content"`
}

// Read fetches and decodes the named JSON content file at the
// configured branch. Returns the decoded document tree and the
// store's current content hash for the file, which the next Write for
// this file must carry as its precondition.
//
// The payload is decoded tolerantly: comments and trailing commas
// (JSONC, common in static site data files) are stripped before
// decoding. Writes always emit canonical JSON.
func (client *Client) Read(ctx context.Context, fileName string) (any, string, error) {
	path := client.contentPath(fileName) + "?ref=" + url.QueryEscape(client.branch)
	body, err := client.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, "", fmt.Errorf("reading %s: %w", fileName, err)
	}

	var response contentResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, "", fmt.Errorf("reading %s: decoding response: %w", fileName, err)
	}
	if response.Encoding != "base64" {
		return nil, "", fmt.Errorf("reading %s: unexpected encoding %q", fileName, response.Encoding)
	}

	// The API wraps base64 at 60 columns; strip the line breaks
	// before decoding.
	raw, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(response.Content, "\n", ""))
	if err != nil {
		return nil, "", fmt.Errorf("reading %s: decoding content: %w", fileName, err)
	}

	var document any
	if err := json.Unmarshal(jsonc.ToJSON(raw), &document); err != nil {
		return nil, "", fmt.Errorf("reading %s: parsing document: %w", fileName, err)
	}

	client.logger.Debug("content file read",
		"file", fileName,
		"hash", response.SHA,
		"bytes", len(raw),
	)
	return document, response.SHA, nil
}

// Write serializes the document as pretty-printed JSON with a
// trailing newline and replaces the named file on the configured
// branch, with expectedHash as the optimistic-concurrency
// precondition and summary as the human-readable commit message.
// Returns the store's new content hash for the file.
//
// A failed precondition (the file changed since it was read) returns
// an error for which IsConflict reports true. Conflicts are never
// retried here: the caller must re-read and let the user decide.
func (client *Client) Write(ctx context.Context, fileName string, document any, expectedHash, summary string) (string, error) {
	serialized, err := MarshalDocument(document)
	if err != nil {
		return "", fmt.Errorf("writing %s: %w", fileName, err)
	}

	request := writeRequest{
		Message: summary,
		Content: base64.StdEncoding.EncodeToString(serialized),
		SHA:     expectedHash,
		Branch:  client.branch,
	}

	body, err := client.do(ctx, http.MethodPut, client.contentPath(fileName), request)
	if err != nil {
		return "", fmt.Errorf("writing %s: %w", fileName, err)
	}

	var response writeResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("writing %s: decoding response: %w", fileName, err)
	}
	if response.Content.SHA == "" {
		return "", fmt.Errorf("writing %s: response carries no content hash", fileName)
	}

	client.logger.Info("content file written",
		"file", fileName,
		"hash", response.Content.SHA,
		"summary", summary,
	)
	return response.Content.SHA, nil
}

// MarshalDocument serializes a document the way Write persists it:
// pretty-printed with two-space indent and a trailing newline, so
// committed files stay diffable in the site repository.
func MarshalDocument(document any) ([]byte, error) {
	serialized, err := json.MarshalIndent(document, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serializing document: %w", err)
	}
	return append(serialized, '\n'), nil
}
