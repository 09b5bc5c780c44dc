// Copyright 2026 The Pagepatch Authors
// SPDX-License-Identifier: Apache-2.0

// Package siteconfig loads the per-site project configuration.
//
// Configuration comes from a single YAML file specified by:
//   - the --config flag, or
//   - the PAGEPATCH_CONFIG environment variable
//
// There are no fallbacks or automatic discovery. This keeps the
// repository a tool writes commits to deterministic and auditable.
package siteconfig

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// EnvVar names the environment variable consulted when no --config
// flag is given.
const EnvVar = "PAGEPATCH_CONFIG"

// Config describes the site whose content this tool edits.
type Config struct {
	// Owner and Repo identify the GitHub repository holding the
	// site source. Required.
	Owner string `yaml:"owner"`
	Repo  string `yaml:"repo"`

	// Branch is the ref edits are committed to. The hosting platform
	// is expected to rebuild the site from this branch. Defaults to
	// "main".
	Branch string `yaml:"branch"`

	// ContentDir is the repository subpath holding the JSON data
	// files (e.g. "src/_data"). May be empty for root-level files.
	ContentDir string `yaml:"content_dir"`

	// BaseURL overrides the GitHub API endpoint, for GitHub
	// Enterprise installs. Empty means the public API.
	BaseURL string `yaml:"base_url"`

	// Pages are the rendered pages to scan for marked regions: local
	// file paths or http(s) URLs.
	Pages []string `yaml:"pages"`

	// AttributePrefix overrides the marker attribute prefix
	// ("data-edit" by default), for sites whose templates emit a
	// different one.
	AttributePrefix string `yaml:"attribute_prefix"`
}

// ResolvePath picks the config file location from the flag value or
// the environment. Returns an error when neither is set.
func ResolvePath(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if fromEnv := os.Getenv(EnvVar); fromEnv != "" {
		return fromEnv, nil
	}
	return "", fmt.Errorf("no config file: pass --config or set %s", EnvVar)
}

// Load reads and validates a config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("siteconfig: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("siteconfig: parsing %s: %w", path, err)
	}

	if config.Owner == "" {
		return nil, fmt.Errorf("siteconfig: %s: owner is required", path)
	}
	if config.Repo == "" {
		return nil, fmt.Errorf("siteconfig: %s: repo is required", path)
	}
	if len(config.Pages) == 0 {
		return nil, fmt.Errorf("siteconfig: %s: at least one page is required", path)
	}
	if config.Branch == "" {
		config.Branch = "main"
	}
	return &config, nil
}
