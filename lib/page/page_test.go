// Copyright 2026 The Pagepatch Authors
// SPDX-License-Identifier: Apache-2.0

package page

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const samplePage = `<!DOCTYPE html>
<html>
<head><title>Acme — Home</title></head>
<body>
  <h1 data-edit-file="home" data-edit-path="hero.title">Old headline</h1>
  <p data-edit-file="home" data-edit-path="hero.lede">
    Some introductory text.
  </p>
  <div data-edit-file="home" data-edit-path="hero.body" data-edit-rich>
    <p>Rich <em>markup</em> content.</p>
  </div>
  <span data-edit-path="orphan.address">not bound to a file</span>
  <footer data-edit-file="shared" data-edit-path="footer.copyright">© Acme</footer>
</body>
</html>`

func TestParse(t *testing.T) {
	parsed, err := Parse(strings.NewReader(samplePage), "home.html", "")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if parsed.Title != "Acme — Home" {
		t.Errorf("Title = %q", parsed.Title)
	}
	if len(parsed.Regions) != 4 {
		t.Fatalf("got %d regions, want 4", len(parsed.Regions))
	}

	headline := parsed.Regions[0]
	if headline.File != "home" || headline.Address != "hero.title" || headline.Rich {
		t.Errorf("headline binding = %+v", headline)
	}
	if headline.Element != "h1" {
		t.Errorf("headline element = %q", headline.Element)
	}
	if headline.Text() != "Old headline" {
		t.Errorf("headline text = %q", headline.Text())
	}

	lede := parsed.Regions[1]
	if lede.Text() != "Some introductory text." {
		t.Errorf("lede text = %q (whitespace not trimmed?)", lede.Text())
	}

	rich := parsed.Regions[2]
	if !rich.Rich {
		t.Error("rich region not flagged")
	}
	if rich.Text() != "<p>Rich <em>markup</em> content.</p>" {
		t.Errorf("rich text = %q (inner markup not preserved)", rich.Text())
	}

	if parsed.Regions[3].File != "shared" {
		t.Errorf("footer file = %q", parsed.Regions[3].File)
	}
}

func TestParseIgnoresHalfBoundElements(t *testing.T) {
	parsed, err := Parse(strings.NewReader(samplePage), "home.html", "")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	for _, region := range parsed.Regions {
		if region.Address == "orphan.address" {
			t.Error("element without data-edit-file must be ignored")
		}
	}
}

func TestSetText(t *testing.T) {
	parsed, err := Parse(strings.NewReader(samplePage), "home.html", "")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	region := parsed.Regions[0]
	region.SetText("New headline")
	if region.Text() != "New headline" {
		t.Errorf("Text after SetText = %q", region.Text())
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "home.html")
	if err := os.WriteFile(path, []byte(samplePage), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	parsed, err := Load(context.Background(), path, nil, "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(parsed.Regions) != 4 {
		t.Errorf("got %d regions, want 4", len(parsed.Regions))
	}
	if parsed.Source != path {
		t.Errorf("Source = %q, want %q", parsed.Source, path)
	}
}

func TestLoadFromURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.Write([]byte(samplePage))
	}))
	defer server.Close()

	parsed, err := Load(context.Background(), server.URL, server.Client(), "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(parsed.Regions) != 4 {
		t.Errorf("got %d regions, want 4", len(parsed.Regions))
	}
}

func TestLoadFromURLNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		http.NotFound(writer, request)
	}))
	defer server.Close()

	if _, err := Load(context.Background(), server.URL, server.Client(), ""); err == nil {
		t.Fatal("expected error for 404 page")
	}
}

func TestParseCustomPrefix(t *testing.T) {
	markup := `<html><body>
  <h1 data-cms-file="home" data-cms-path="hero.title">Headline</h1>
  <p data-edit-file="home" data-edit-path="hero.lede">default prefix, not scanned</p>
</body></html>`

	parsed, err := Parse(strings.NewReader(markup), "home.html", "data-cms")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(parsed.Regions) != 1 {
		t.Fatalf("got %d regions, want 1", len(parsed.Regions))
	}
	if parsed.Regions[0].Address != "hero.title" {
		t.Errorf("Address = %q", parsed.Regions[0].Address)
	}
}
