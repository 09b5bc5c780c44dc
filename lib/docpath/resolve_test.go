// Copyright 2026 The Pagepatch Authors
// SPDX-License-Identifier: Apache-2.0

package docpath

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

// document decodes a JSON literal into the tree shape the resolver
// operates on.
func document(t *testing.T, source string) any {
	t.Helper()
	var tree any
	if err := json.Unmarshal([]byte(source), &tree); err != nil {
		t.Fatalf("decoding document: %v", err)
	}
	return tree
}

func mustParse(t *testing.T, address string) Address {
	t.Helper()
	parsed, err := Parse(address)
	if err != nil {
		t.Fatalf("Parse(%q): %v", address, err)
	}
	return parsed
}

func TestGet(t *testing.T) {
	tree := document(t, `{"hero":{"title":"Old","tags":["a","b"]},"items":[{"label":"one"}]}`)

	tests := []struct {
		address string
		want    any
		present bool
	}{
		{"hero.title", "Old", true},
		{"hero.tags[1]", "b", true},
		{"items[0].label", "one", true},
		{"hero.missing", nil, false},
		{"hero.tags[5]", nil, false},
		{"missing.deeply.nested", nil, false},
		{"hero.title.further", nil, false}, // descends through a scalar
	}

	for _, test := range tests {
		t.Run(test.address, func(t *testing.T) {
			got, present := Get(tree, mustParse(t, test.address))
			if present != test.present {
				t.Fatalf("Get(%q) present = %v, want %v", test.address, present, test.present)
			}
			if present && !reflect.DeepEqual(got, test.want) {
				t.Errorf("Get(%q) = %v, want %v", test.address, got, test.want)
			}
		})
	}
}

func TestSetRoundTrip(t *testing.T) {
	tree := document(t, `{"hero":{"title":"Old","tags":["a","b"]},"items":[{"label":"one"}]}`)

	for _, address := range []string{"hero.title", "hero.tags[0]", "items[0].label", "hero.subtitle"} {
		parsed := mustParse(t, address)
		if err := Set(tree, parsed, "updated"); err != nil {
			t.Fatalf("Set(%q): %v", address, err)
		}
		got, present := Get(tree, parsed)
		if !present || got != "updated" {
			t.Errorf("Get after Set(%q) = %v (present %v), want %q", address, got, present, "updated")
		}
	}
}

func TestSetNewLeafKey(t *testing.T) {
	tree := document(t, `{"hero":{}}`)
	if err := Set(tree, mustParse(t, "hero.title"), "New"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, present := Get(tree, mustParse(t, "hero.title"))
	if !present || got != "New" {
		t.Errorf("Get = %v (present %v), want %q", got, present, "New")
	}
}

func TestSetInvalidParent(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		address string
	}{
		{"missing intermediate mapping", `{"hero":{}}`, "hero.banner.title"},
		{"scalar intermediate", `{"hero":{"title":"Old"}}`, "hero.title.deeper"},
		{"index into mapping", `{"hero":{}}`, "hero[0]"},
		{"key into sequence", `{"tags":["a"]}`, "tags.first"},
		{"index out of range", `{"tags":["a"]}`, "tags[3]"},
		{"missing sequence", `{"hero":{}}`, "rows[0].cell"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			tree := document(t, test.source)
			before, _ := json.Marshal(tree)

			err := Set(tree, mustParse(t, test.address), "x")
			if !errors.Is(err, ErrInvalidParent) {
				t.Fatalf("Set(%q) = %v, want ErrInvalidParent", test.address, err)
			}

			// The document must be left untouched on failure.
			after, _ := json.Marshal(tree)
			if string(before) != string(after) {
				t.Errorf("document modified on failed Set:\nbefore %s\nafter  %s", before, after)
			}
		})
	}
}

func TestSetMutatesInPlace(t *testing.T) {
	tree := document(t, `{"hero":{"title":"Old"}}`)
	hero := tree.(map[string]any)["hero"].(map[string]any)

	if err := Set(tree, mustParse(t, "hero.title"), "New"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	// The same inner map is updated, not a clone.
	if hero["title"] != "New" {
		t.Errorf("inner mapping not mutated in place: %v", hero["title"])
	}
}
