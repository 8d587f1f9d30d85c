// Package render converts content item bodies into platform-ready text.
// Bodies are authored in markdown; Telegram accepts a small HTML subset and
// VK wants plain text.
package render

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"
)

type Service interface {
	// TelegramHTML renders markdown into the HTML subset Telegram's
	// sendMessage accepts (b, i, u, s, code, pre, a, blockquote).
	TelegramHTML(markdown string) (string, error)
	// PlainText renders markdown into tag-free text for platforms without
	// rich formatting.
	PlainText(markdown string) (string, error)
}

type serviceImpl struct {
	md          goldmark.Markdown
	telegram    *bluemonday.Policy
	plain       *bluemonday.Policy
	blockBreaks *strings.Replacer
}

func NewService() Service {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Strikethrough,
			extension.Linkify,
		),
		goldmark.WithRendererOptions(
			goldmarkhtml.WithHardWraps(),
		),
	)

	telegram := bluemonday.NewPolicy()
	telegram.AllowElements("b", "strong", "i", "em", "u", "s", "del", "code", "pre", "blockquote")
	telegram.AllowAttrs("href").OnElements("a")
	telegram.AllowStandardURLs()

	return &serviceImpl{
		md:       md,
		telegram: telegram,
		plain:    bluemonday.StrictPolicy(),
		// Telegram has no block elements; turn them into line breaks before
		// the policy strips the tags.
		blockBreaks: strings.NewReplacer(
			"</p>", "\n\n",
			"<br>", "\n",
			"<br/>", "\n",
			"<br />", "\n",
			"</h1>", "\n",
			"</h2>", "\n",
			"</h3>", "\n",
			"</li>", "\n",
		),
	}
}

func (s *serviceImpl) toHTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := s.md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("failed to convert markdown to HTML: %w", err)
	}
	return buf.String(), nil
}

func (s *serviceImpl) TelegramHTML(markdown string) (string, error) {
	rendered, err := s.toHTML(markdown)
	if err != nil {
		return "", err
	}
	withBreaks := s.blockBreaks.Replace(rendered)
	return strings.TrimSpace(s.telegram.Sanitize(withBreaks)), nil
}

func (s *serviceImpl) PlainText(markdown string) (string, error) {
	rendered, err := s.toHTML(markdown)
	if err != nil {
		return "", err
	}
	withBreaks := s.blockBreaks.Replace(rendered)
	stripped := s.plain.Sanitize(withBreaks)
	return strings.TrimSpace(html.UnescapeString(stripped)), nil
}
