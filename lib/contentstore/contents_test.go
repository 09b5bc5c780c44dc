// Copyright 2026 The Pagepatch Authors
// SPDX-License-Identifier: Apache-2.0

package contentstore

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/pagepatch/pagepatch/lib/clock"
)

// newTestClient creates a Client backed by the given httptest server.
func newTestClient(t *testing.T, server *httptest.Server) *Client {
	t.Helper()
	client, err := NewClient(Config{
		BaseURL:    server.URL,
		Owner:      "acme",
		Repo:       "site",
		Branch:     "main",
		Dir:        "src/_data",
		Token:      "test-token",
		HTTPClient: server.Client(),
		Clock:      clock.Real(),
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

// encodeContent base64-encodes a file body with the 60-column line
// wrapping the live API applies.
func encodeContent(body string) string {
	encoded := base64.StdEncoding.EncodeToString([]byte(body))
	var wrapped string
	for len(encoded) > 60 {
		wrapped += encoded[:60] + "\n"
		encoded = encoded[60:]
	}
	return wrapped + encoded + "\n"
}

func TestNewClientValidation(t *testing.T) {
	tests := []struct {
		name   string
		config Config
	}{
		{"http base URL", Config{BaseURL: "http://api.github.com", Owner: "a", Repo: "b", Token: "t"}},
		{"missing owner", Config{Repo: "b", Token: "t"}},
		{"missing repo", Config{Owner: "a", Token: "t"}},
		{"missing token", Config{Owner: "a", Repo: "b"}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if _, err := NewClient(test.config); err == nil {
				t.Error("expected configuration error")
			}
		})
	}
}

func TestRead(t *testing.T) {
	var gotPath, gotQuery, gotAuth string
	server := httptest.NewTLSServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		gotPath = request.URL.Path
		gotQuery = request.URL.RawQuery
		gotAuth = request.Header.Get("Authorization")
		json.NewEncoder(writer).Encode(map[string]any{
			"type":     "file",
			"encoding": "base64",
			"content":  encodeContent("// site data\n{\"hero\":{\"title\":\"Old\"},}\n"),
			"sha":      "abc123",
			"path":     "src/_data/home.json",
		})
	}))
	defer server.Close()

	client := newTestClient(t, server)
	document, hash, err := client.Read(context.Background(), "home")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	if gotPath != "/repos/acme/site/contents/src/_data/home.json" {
		t.Errorf("path = %q", gotPath)
	}
	if gotQuery != "ref=main" {
		t.Errorf("query = %q, want ref=main", gotQuery)
	}
	if gotAuth != "Bearer test-token" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if hash != "abc123" {
		t.Errorf("hash = %q, want abc123", hash)
	}

	// JSONC comment and trailing comma are tolerated on read.
	want := map[string]any{"hero": map[string]any{"title": "Old"}}
	if !reflect.DeepEqual(document, want) {
		t.Errorf("document = %v, want %v", document, want)
	}
}

func TestReadErrorMapping(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		message   string
		predicate func(error) bool
	}{
		{"not found", http.StatusNotFound, "Not Found", IsNotFound},
		{"unauthorized", http.StatusUnauthorized, "Bad credentials", IsUnauthorized},
		{"forbidden", http.StatusForbidden, "Resource not accessible", IsUnauthorized},
		{"server error", http.StatusBadGateway, "upstream broke", IsTransient},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			server := httptest.NewTLSServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				writer.WriteHeader(test.status)
				json.NewEncoder(writer).Encode(map[string]string{"message": test.message})
			}))
			defer server.Close()

			_, _, err := newTestClient(t, server).Read(context.Background(), "home")
			if err == nil {
				t.Fatal("expected error")
			}
			if !test.predicate(err) {
				t.Errorf("predicate rejected %v", err)
			}
		})
	}
}

func TestWrite(t *testing.T) {
	var gotMethod, gotPath string
	var gotBody writeRequest
	server := httptest.NewTLSServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		gotMethod = request.Method
		gotPath = request.URL.Path
		json.NewDecoder(request.Body).Decode(&gotBody)
		json.NewEncoder(writer).Encode(map[string]any{
			"content": map[string]string{"sha": "def456"},
		})
	}))
	defer server.Close()

	client := newTestClient(t, server)
	document := map[string]any{"hero": map[string]any{"title": "New"}}
	newHash, err := client.Write(context.Background(), "home", document, "abc123", "home: hero.title")
	if err != nil {
		t.Fatalf("Write: %v", err)
	}

	if gotMethod != http.MethodPut {
		t.Errorf("method = %q, want PUT", gotMethod)
	}
	if gotPath != "/repos/acme/site/contents/src/_data/home.json" {
		t.Errorf("path = %q", gotPath)
	}
	if gotBody.SHA != "abc123" {
		t.Errorf("precondition sha = %q, want abc123", gotBody.SHA)
	}
	if gotBody.Branch != "main" {
		t.Errorf("branch = %q, want main", gotBody.Branch)
	}
	if gotBody.Message != "home: hero.title" {
		t.Errorf("message = %q", gotBody.Message)
	}
	if newHash != "def456" {
		t.Errorf("newHash = %q, want def456", newHash)
	}

	// The committed body is pretty-printed JSON with a trailing newline.
	decoded, err := base64.StdEncoding.DecodeString(gotBody.Content)
	if err != nil {
		t.Fatalf("decoding committed content: %v", err)
	}
	want := "{\n  \"hero\": {\n    \"title\": \"New\"\n  }\n}\n"
	if string(decoded) != want {
		t.Errorf("committed content = %q, want %q", decoded, want)
	}
}

func TestWriteConflict(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		message string
	}{
		{"409 conflict", http.StatusConflict, "main does not match expected sha"},
		{"422 stale sha", http.StatusUnprocessableEntity, "home.json does not match the expected sha"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			server := httptest.NewTLSServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				writer.WriteHeader(test.status)
				json.NewEncoder(writer).Encode(map[string]string{"message": test.message})
			}))
			defer server.Close()

			_, err := newTestClient(t, server).Write(context.Background(), "home", map[string]any{}, "stale", "home: x")
			if !IsConflict(err) {
				t.Fatalf("IsConflict = false for %v", err)
			}
			if got := UserMessage(err); got != ConflictMessage {
				t.Errorf("UserMessage = %q, want the literal conflict text", got)
			}
		})
	}
}

func TestWriteErrorIsNotConflict(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(writer).Encode(map[string]string{"message": "boom"})
	}))
	defer server.Close()

	_, err := newTestClient(t, server).Write(context.Background(), "home", map[string]any{}, "abc", "home: x")
	if err == nil || IsConflict(err) {
		t.Fatalf("want non-conflict write error, got %v", err)
	}
	if got := UserMessage(err); got == ConflictMessage {
		t.Error("generic write error must not carry the conflict text")
	}
}

func TestRateLimitRetry(t *testing.T) {
	attempts := 0
	server := httptest.NewTLSServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		attempts++
		if attempts == 1 {
			writer.Header().Set("Retry-After", "0")
			writer.WriteHeader(http.StatusTooManyRequests)
			json.NewEncoder(writer).Encode(map[string]string{"message": "API rate limit exceeded"})
			return
		}
		json.NewEncoder(writer).Encode(map[string]any{
			"type":     "file",
			"encoding": "base64",
			"content":  encodeContent(`{"ok":true}`),
			"sha":      "abc",
		})
	}))
	defer server.Close()

	_, hash, err := newTestClient(t, server).Read(context.Background(), "home")
	if err != nil {
		t.Fatalf("Read after rate limit: %v", err)
	}
	if attempts != 2 {
		t.Errorf("attempts = %d, want 2", attempts)
	}
	if hash != "abc" {
		t.Errorf("hash = %q", hash)
	}
}

func TestRateLimitRetriesOnlyOnce(t *testing.T) {
	attempts := 0
	server := httptest.NewTLSServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		attempts++
		writer.Header().Set("Retry-After", "0")
		writer.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(writer).Encode(map[string]string{"message": "API rate limit exceeded"})
	}))
	defer server.Close()

	_, _, err := newTestClient(t, server).Read(context.Background(), "home")
	if !IsTransient(err) {
		t.Fatalf("want transient error, got %v", err)
	}
	if attempts != 2 {
		t.Errorf("attempts = %d, want exactly 2", attempts)
	}
}
