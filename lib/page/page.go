// Copyright 2026 The Pagepatch Authors
// SPDX-License-Identifier: Apache-2.0

// Package page loads rendered site pages and extracts their marked
// editable regions.
//
// A marked element carries three data attributes produced by the site
// templates: data-edit-file (logical content file name, no
// extension), data-edit-path (dotted, bracketed address into that
// file's document), and optionally data-edit-rich (the region holds
// markup rather than plain text). The attributes bind an on-page
// element to one field of one content file; this package only reads
// the binding, it never interprets the address. Sites that already
// use the data-edit- prefix for something else can configure an
// alternate prefix.
package page

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"golang.org/x/net/html"
)

// DefaultPrefix is the attribute prefix the site templates emit
// unless the site config overrides it. The full attribute names are
// the prefix plus "-file", "-path", and "-rich".
const DefaultPrefix = "data-edit"

// Region is one marked editable element: its file/address binding
// plus the text currently displayed on the page. Derived from markup
// at load time, never persisted.
type Region struct {
	// File is the logical content file name, without extension.
	File string

	// Address is the unparsed field address into the file's document.
	Address string

	// Rich marks regions whose value is markup rather than plain
	// text. For rich regions Text returns the raw inner markup.
	Rich bool

	// Element is the tag name of the marked element, for display.
	Element string

	text string
}

// Text returns the region's current displayed content: raw inner
// markup for rich regions, concatenated text otherwise.
func (region *Region) Text() string { return region.text }

// SetText updates the displayed content after a confirmed save. The
// page model is updated only once the store acknowledges the write,
// never optimistically before.
func (region *Region) SetText(text string) { region.text = text }

// Page is one loaded page and its marked regions, in document order.
type Page struct {
	// Title is the page's <title> text, if any.
	Title string

	// Source is where the page was loaded from (path or URL).
	Source string

	// Regions are the marked editable elements.
	Regions []*Region
}

// Load reads a page from a local file path or an http(s) URL and
// extracts its marked regions. An empty prefix means DefaultPrefix.
func Load(ctx context.Context, source string, httpClient *http.Client, prefix string) (*Page, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		if httpClient == nil {
			httpClient = http.DefaultClient
		}
		request, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
		if err != nil {
			return nil, fmt.Errorf("page: requesting %s: %w", source, err)
		}
		response, err := httpClient.Do(request)
		if err != nil {
			return nil, fmt.Errorf("page: fetching %s: %w", source, err)
		}
		defer response.Body.Close()
		if response.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("page: fetching %s: HTTP %d", source, response.StatusCode)
		}
		return Parse(response.Body, source, prefix)
	}

	file, err := os.Open(source)
	if err != nil {
		return nil, fmt.Errorf("page: %w", err)
	}
	defer file.Close()
	return Parse(file, source, prefix)
}

// Parse extracts marked regions from rendered HTML. An empty prefix
// means DefaultPrefix.
func Parse(reader io.Reader, source string, prefix string) (*Page, error) {
	root, err := html.Parse(reader)
	if err != nil {
		return nil, fmt.Errorf("page: parsing %s: %w", source, err)
	}
	if prefix == "" {
		prefix = DefaultPrefix
	}

	result := &Page{Source: source}
	var walk func(node *html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode {
			if node.Data == "title" && result.Title == "" {
				result.Title = strings.TrimSpace(innerText(node))
			}
			if region := markedRegion(node, prefix); region != nil {
				result.Regions = append(result.Regions, region)
			}
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(root)
	return result, nil
}

// markedRegion builds a Region from an element carrying the edit
// attributes, or nil when the element is not marked. An element with
// only one of the two required attributes is ignored rather than
// treated as an error; the markup is trusted but may be mid-edit.
func markedRegion(node *html.Node, prefix string) *Region {
	var file, address string
	rich := false
	for _, attribute := range node.Attr {
		switch attribute.Key {
		case prefix + "-file":
			file = attribute.Val
		case prefix + "-path":
			address = attribute.Val
		case prefix + "-rich":
			rich = attribute.Val != "false"
		}
	}
	if file == "" || address == "" {
		return nil
	}

	region := &Region{
		File:    file,
		Address: address,
		Rich:    rich,
		Element: node.Data,
	}
	if rich {
		region.text = innerHTML(node)
	} else {
		region.text = strings.TrimSpace(innerText(node))
	}
	return region
}

// innerText concatenates the text nodes under node.
func innerText(node *html.Node) string {
	var builder strings.Builder
	var walk func(*html.Node)
	walk = func(current *html.Node) {
		if current.Type == html.TextNode {
			builder.WriteString(current.Data)
		}
		for child := current.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(node)
	return builder.String()
}

// innerHTML serializes the children of node back to markup.
func innerHTML(node *html.Node) string {
	var buffer bytes.Buffer
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		// Render only fails on unrenderable node types, which cannot
		// appear under a parsed element.
		_ = html.Render(&buffer, child)
	}
	return strings.TrimSpace(buffer.String())
}
