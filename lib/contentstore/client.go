// Copyright 2026 The Pagepatch Authors
// SPDX-License-Identifier: Apache-2.0

package contentstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/pagepatch/pagepatch/lib/clock"
	"github.com/pagepatch/pagepatch/lib/netutil"
)

// apiVersion is the GitHub REST API version header. Pinning the
// version ensures consistent behavior as the API evolves.
const apiVersion = "2022-11-28"

// defaultBaseURL is the base URL for the public GitHub API.
const defaultBaseURL = "https://api.github.com"

// Config holds configuration for creating a content store Client.
type Config struct {
	// BaseURL is the root URL for API requests. Defaults to
	// "https://api.github.com". Must use HTTPS.
	BaseURL string

	// Owner and Repo identify the repository holding the site source.
	Owner string
	Repo  string

	// Branch is the ref content is read from and written to.
	// Defaults to "main".
	Branch string

	// Dir is the repository subpath holding the JSON data files
	// (e.g. "src/_data"). May be empty for repository-root files.
	Dir string

	// Token is the bearer token used for every request.
	Token string

	// HTTPClient is used for all HTTP requests. Defaults to
	// http.DefaultClient.
	HTTPClient *http.Client

	// Clock provides time operations for rate limit backoff.
	// Defaults to clock.Real(). Inject clock.Fake() in tests.
	Clock clock.Clock

	// Logger is used for structured logging. Defaults to
	// slog.Default().
	Logger *slog.Logger
}

// Client reads and writes JSON content files in one repository
// directory through the GitHub Contents API. Every write carries the
// content hash under which the file was last read as an optimistic
// concurrency precondition; there is no locking and no merge.
type Client struct {
	baseURL    string
	owner      string
	repo       string
	branch     string
	dir        string
	token      string
	httpClient *http.Client
	clock      clock.Clock
	logger     *slog.Logger
}

// NewClient creates a content store client from the given
// configuration. Returns an error for a non-HTTPS base URL, a missing
// token, or a missing repository identity.
func NewClient(config Config) (*Client, error) {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")
	if !strings.HasPrefix(baseURL, "https://") {
		return nil, fmt.Errorf("contentstore: API client requires HTTPS (got %q)", baseURL)
	}

	if config.Owner == "" || config.Repo == "" {
		return nil, fmt.Errorf("contentstore: owner and repo are required")
	}
	if config.Token == "" {
		return nil, fmt.Errorf("contentstore: no token configured")
	}

	branch := config.Branch
	if branch == "" {
		branch = "main"
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	clk := config.Clock
	if clk == nil {
		clk = clock.Real()
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:    baseURL,
		owner:      config.Owner,
		repo:       config.Repo,
		branch:     branch,
		dir:        strings.Trim(config.Dir, "/"),
		token:      config.Token,
		httpClient: httpClient,
		clock:      clk,
		logger:     logger,
	}, nil
}

// contentPath builds the API path for a logical file name (no
// extension) under the fixed repository/subpath convention.
func (client *Client) contentPath(fileName string) string {
	object := fileName + ".json"
	if client.dir != "" {
		object = client.dir + "/" + object
	}
	return fmt.Sprintf("/repos/%s/%s/contents/%s", client.owner, client.repo, object)
}

// do executes an authenticated request against the store. Handles the
// standard headers and one retry after a rate limit response. Returns
// the response body; non-2xx responses return an *APIError.
func (client *Client) do(ctx context.Context, method, path string, requestBody any) ([]byte, error) {
	return client.doWithRetry(ctx, method, path, requestBody, false)
}

// doWithRetry is the internal implementation of do with a retry flag
// to prevent repeated backoff on persistent rate limiting.
func (client *Client) doWithRetry(ctx context.Context, method, path string, requestBody any, isRetry bool) ([]byte, error) {
	url := client.baseURL + path

	var bodyReader io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return nil, fmt.Errorf("contentstore: encoding request body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("contentstore: creating request: %w", err)
	}
	request.Header.Set("Authorization", "Bearer "+client.token)
	request.Header.Set("Accept", "application/vnd.github+json")
	request.Header.Set("X-GitHub-Api-Version", apiVersion)
	if requestBody != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	response, err := client.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("contentstore: %s %s: %w", method, url, err)
	}
	defer response.Body.Close()

	body, err := netutil.ReadResponse(response.Body)
	if err != nil {
		return nil, fmt.Errorf("contentstore: reading response body: %w", err)
	}

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		apiError := parseAPIError(response.StatusCode, body)

		// One retry after a rate limit response, honoring Retry-After.
		if !isRetry && isRateLimitStatus(response.StatusCode, apiError.Message) {
			wait := retryAfter(response.Header)
			client.logger.Info("rate limited, backing off",
				"duration", wait,
				"method", method,
				"path", path,
			)
			select {
			case <-client.clock.After(wait):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			return client.doWithRetry(ctx, method, path, requestBody, true)
		}

		return nil, apiError
	}

	return body, nil
}

// isRateLimitStatus reports whether a status/message pair is a rate
// limit response (429, or 403 with a rate limit message).
func isRateLimitStatus(statusCode int, message string) bool {
	return statusCode == http.StatusTooManyRequests ||
		(statusCode == http.StatusForbidden && isRateLimitMessage(message))
}

// retryAfter extracts the backoff duration from a rate limit
// response. Falls back to one second when the header is absent or
// unparseable.
func retryAfter(header http.Header) time.Duration {
	if value := header.Get("Retry-After"); value != "" {
		if seconds, err := strconv.Atoi(value); err == nil && seconds >= 0 {
			return time.Duration(seconds) * time.Second
		}
	}
	return time.Second
}

// parseAPIError parses a store error from a status code and response
// body.
func parseAPIError(statusCode int, body []byte) *APIError {
	apiError := &APIError{StatusCode: statusCode}

	var wireError struct {
		Message          string `json:"message"`
		DocumentationURL string `json:"documentation_url"`
	}
	if json.Unmarshal(body, &wireError) == nil && wireError.Message != "" {
		apiError.Message = wireError.Message
		apiError.DocumentationURL = wireError.DocumentationURL
	} else {
		apiError.Message = string(body)
	}
	return apiError
}
