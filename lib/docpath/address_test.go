// Copyright 2026 The Pagepatch Authors
// SPDX-License-Identifier: Apache-2.0

package docpath

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		address string
		want    Address
	}{
		{
			name:    "single key",
			address: "title",
			want:    Address{{Key: "title"}},
		},
		{
			name:    "nested keys",
			address: "hero.title",
			want:    Address{{Key: "hero"}, {Key: "title"}},
		},
		{
			name:    "key with index suffix",
			address: "a.b[2].c",
			want: Address{
				{Key: "a"},
				{Key: "b"},
				{Index: 2, IsIndex: true},
				{Key: "c"},
			},
		},
		{
			name:    "stacked indexes",
			address: "grid[1][2]",
			want: Address{
				{Key: "grid"},
				{Index: 1, IsIndex: true},
				{Index: 2, IsIndex: true},
			},
		},
		{
			name:    "bare index segment",
			address: "items.[0].label",
			want: Address{
				{Key: "items"},
				{Index: 0, IsIndex: true},
				{Key: "label"},
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := Parse(test.address)
			if err != nil {
				t.Fatalf("Parse(%q): %v", test.address, err)
			}
			if len(got) != len(test.want) {
				t.Fatalf("Parse(%q) = %v, want %v", test.address, got, test.want)
			}
			for i := range got {
				if got[i] != test.want[i] {
					t.Errorf("Parse(%q) step %d = %+v, want %+v", test.address, i, got[i], test.want[i])
				}
			}
		})
	}
}

func TestParseMalformed(t *testing.T) {
	for _, address := range []string{
		"",
		"a..b",
		"a.",
		"a[x]",
		"a[-1]",
		"a[1",
		"a[1]b",
	} {
		t.Run(address, func(t *testing.T) {
			_, err := Parse(address)
			if !errors.Is(err, ErrMalformedAddress) {
				t.Errorf("Parse(%q) = %v, want ErrMalformedAddress", address, err)
			}
		})
	}
}

func TestAddressString(t *testing.T) {
	for _, address := range []string{"a.b[2].c", "title", "grid[1][2]", "items.x"} {
		parsed, err := Parse(address)
		if err != nil {
			t.Fatalf("Parse(%q): %v", address, err)
		}
		if got := parsed.String(); got != address {
			t.Errorf("String() = %q, want %q", got, address)
		}
	}
}
