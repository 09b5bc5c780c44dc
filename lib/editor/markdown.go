// Copyright 2026 The Pagepatch Authors
// SPDX-License-Identifier: Apache-2.0

package editor

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// markdownParserInstance is initialized once and reused. The parser
// configuration never changes and the goldmark Parser is safe to
// share; actual parsing creates per-call state via Parse(reader).
var (
	markdownParserInstance goldmark.Markdown
	markdownParserOnce     sync.Once
)

func getMarkdownParser() goldmark.Markdown {
	markdownParserOnce.Do(func() {
		markdownParserInstance = goldmark.New(
			goldmark.WithExtensions(extension.GFM),
		)
	})
	return markdownParserInstance
}

// renderRichPreview renders a rich region's markup as styled terminal
// output. Site data files keep rich values as simple markup, most
// commonly Markdown with occasional inline HTML; Markdown structure
// is styled, fenced code blocks are syntax highlighted, and raw HTML
// is passed through dimmed rather than interpreted.
func renderRichPreview(input string, theme Theme, width int) string {
	if input == "" {
		return ""
	}
	source := []byte(input)
	document := getMarkdownParser().Parser().Parse(text.NewReader(source))

	// Force ANSI256: this output is always for the bubbletea display,
	// so auto-detection (which sees no TTY under tests) is bypassed.
	lipRenderer := lipgloss.NewRenderer(os.Stderr, termenv.WithProfile(termenv.ANSI256))
	lipRenderer.SetColorProfile(termenv.ANSI256)

	renderer := &richRenderer{
		source:      source,
		theme:       theme,
		width:       width,
		lipRenderer: lipRenderer,
	}
	return renderer.renderBlocks(document)
}

// richRenderer walks the goldmark AST and emits styled lines.
type richRenderer struct {
	source      []byte
	theme       Theme
	width       int
	lipRenderer *lipgloss.Renderer
}

func (renderer *richRenderer) renderBlocks(parent ast.Node) string {
	var blocks []string
	for node := parent.FirstChild(); node != nil; node = node.NextSibling() {
		if block := renderer.renderBlock(node); block != "" {
			blocks = append(blocks, block)
		}
	}
	return strings.Join(blocks, "\n\n")
}

func (renderer *richRenderer) renderBlock(node ast.Node) string {
	switch node := node.(type) {
	case *ast.Heading:
		style := renderer.lipRenderer.NewStyle().
			Foreground(renderer.theme.HeadingColor).
			Bold(true)
		prefix := strings.Repeat("#", node.Level) + " "
		return style.Render(prefix + renderer.renderInline(node))

	case *ast.Paragraph, *ast.TextBlock:
		style := renderer.lipRenderer.NewStyle().
			Foreground(renderer.theme.NormalText).
			Width(renderer.width)
		return style.Render(renderer.renderInline(node))

	case *ast.List:
		var items []string
		number := 1
		for item := node.FirstChild(); item != nil; item = item.NextSibling() {
			marker := "• "
			if node.IsOrdered() {
				marker = fmt.Sprintf("%d. ", number)
				number++
			}
			items = append(items, marker+renderer.renderBlocks(item))
		}
		return strings.Join(items, "\n")

	case *ast.FencedCodeBlock:
		return renderer.renderCode(node)

	case *ast.Blockquote:
		style := renderer.lipRenderer.NewStyle().
			Foreground(renderer.theme.FaintText).
			Italic(true)
		return style.Render("> " + renderer.renderBlocks(node))

	case *ast.HTMLBlock:
		var builder strings.Builder
		for i := 0; i < node.Lines().Len(); i++ {
			segment := node.Lines().At(i)
			builder.Write(segment.Value(renderer.source))
		}
		style := renderer.lipRenderer.NewStyle().Foreground(renderer.theme.FaintText)
		return style.Render(strings.TrimRight(builder.String(), "\n"))

	case *ast.ThematicBreak:
		return strings.Repeat("─", min(renderer.width, 40))
	}

	// Unknown block kinds degrade to their inline text.
	return renderer.renderInline(node)
}

// renderCode highlights a fenced code block with chroma. Highlighting
// failures fall back to plain dimmed text; a preview must never fail.
func (renderer *richRenderer) renderCode(node *ast.FencedCodeBlock) string {
	var builder strings.Builder
	for i := 0; i < node.Lines().Len(); i++ {
		segment := node.Lines().At(i)
		builder.Write(segment.Value(renderer.source))
	}
	code := strings.TrimRight(builder.String(), "\n")
	language := string(node.Language(renderer.source))
	if language == "" {
		language = "text"
	}

	var highlighted strings.Builder
	if err := quick.Highlight(&highlighted, code, language, "terminal256", renderer.theme.ChromaStyleName); err != nil {
		style := renderer.lipRenderer.NewStyle().Foreground(renderer.theme.FaintText)
		return style.Render(code)
	}
	return strings.TrimRight(highlighted.String(), "\n")
}

// renderInline flattens a block's inline children to styled text.
func (renderer *richRenderer) renderInline(parent ast.Node) string {
	var builder strings.Builder
	var walk func(node ast.Node)
	walk = func(node ast.Node) {
		switch node := node.(type) {
		case *ast.Text:
			builder.Write(node.Segment.Value(renderer.source))
			if node.SoftLineBreak() {
				// Soft breaks become spaces so hard-wrapped source
				// reflows at the pane width.
				builder.WriteByte(' ')
			}
			if node.HardLineBreak() {
				builder.WriteByte('\n')
			}
			return

		case *ast.CodeSpan:
			style := renderer.lipRenderer.NewStyle().
				Background(renderer.theme.CodeBackground)
			var inner strings.Builder
			for child := node.FirstChild(); child != nil; child = child.NextSibling() {
				if textNode, ok := child.(*ast.Text); ok {
					inner.Write(textNode.Segment.Value(renderer.source))
				}
			}
			builder.WriteString(style.Render(inner.String()))
			return

		case *ast.Emphasis:
			style := renderer.lipRenderer.NewStyle().
				Foreground(renderer.theme.EmphasisColor)
			if node.Level >= 2 {
				style = style.Bold(true)
			} else {
				style = style.Italic(true)
			}
			var inner strings.Builder
			for child := node.FirstChild(); child != nil; child = child.NextSibling() {
				if textNode, ok := child.(*ast.Text); ok {
					inner.Write(textNode.Segment.Value(renderer.source))
				}
			}
			builder.WriteString(style.Render(inner.String()))
			return

		case *ast.RawHTML:
			style := renderer.lipRenderer.NewStyle().Foreground(renderer.theme.FaintText)
			var inner strings.Builder
			for i := 0; i < node.Segments.Len(); i++ {
				segment := node.Segments.At(i)
				inner.Write(segment.Value(renderer.source))
			}
			builder.WriteString(style.Render(inner.String()))
			return

		case *ast.AutoLink:
			builder.Write(node.URL(renderer.source))
			return
		}

		for child := node.FirstChild(); child != nil; child = child.NextSibling() {
			walk(child)
		}
	}
	for child := parent.FirstChild(); child != nil; child = child.NextSibling() {
		walk(child)
	}
	return builder.String()
}
