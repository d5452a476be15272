// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package markdown converts post bodies from Markdown into HTML using
// goldmark, and produces plain-text excerpts for feed responses.
package markdown

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// md is the configured goldmark instance, reused across calls.
var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,         // Tables, strikethrough, autolinks, task lists
		extension.Typographer, // Smart quotes and dashes
		highlighting.NewHighlighting( // Syntax highlighting for fenced code blocks
			highlighting.WithStyle("monokai"),
			highlighting.WithFormatOptions(),
		),
	),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	),
	goldmark.WithRendererOptions(
		html.WithUnsafe(), // Posts created before the Markdown editor contain raw HTML
	),
)

// ToHTML converts Markdown source into HTML. Raw HTML embedded in the
// Markdown is passed through unchanged.
func ToHTML(source string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// htmlTag matches HTML tags for excerpt stripping.
var htmlTag = regexp.MustCompile(`<[^>]*>`)

// Excerpt strips HTML tags from the body and truncates it to at most
// maxLen characters, appending "..." when it was cut. The truncation
// happens before stripping, matching how feeds have always built their
// summaries.
func Excerpt(body string, maxLen int) string {
	runes := []rune(body)
	if len(runes) <= maxLen {
		return strings.TrimSpace(htmlTag.ReplaceAllString(body, ""))
	}
	cut := htmlTag.ReplaceAllString(string(runes[:maxLen]), "")
	return strings.TrimSpace(cut) + "..."
}
