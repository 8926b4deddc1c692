package render

import (
	"bytes"
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	emoji "github.com/yuin/goldmark-emoji"
	"github.com/yuin/goldmark/extension"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"
)

var (
	markdownOnce     sync.Once
	markdownRenderer goldmark.Markdown

	markdownPolicyOnce sync.Once
	markdownPolicy     *bluemonday.Policy
)

// TextToHTML converts a long-form field into an HTML fragment.
func TextToHTML(raw string, format TextFormat) string {
	if format == TextMarkdown {
		return markdownToHTML(raw)
	}
	return plainToHTML(raw)
}

// plainToHTML escapes raw and converts each newline to <br>, then collapses
// one level of doubled breaks so blank lines do not double the spacing.
func plainToHTML(raw string) string {
	text := strings.ReplaceAll(raw, "\r\n", "\n")
	text = html.EscapeString(text)
	text = strings.ReplaceAll(text, "\n", "<br>")
	return strings.ReplaceAll(text, "<br><br>", "<br>")
}

func markdownToHTML(raw string) string {
	src := strings.TrimSpace(strings.ReplaceAll(raw, "\r\n", "\n"))
	if src == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := markdown().Convert([]byte(src), &buf); err != nil {
		return plainToHTML(raw)
	}
	return strings.TrimSpace(markdownSanitizer().Sanitize(buf.String()))
}

func markdown() goldmark.Markdown {
	markdownOnce.Do(func() {
		markdownRenderer = goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				emoji.Emoji,
			),
			goldmark.WithRendererOptions(
				goldmarkhtml.WithHardWraps(),
			),
		)
	})
	return markdownRenderer
}

func markdownSanitizer() *bluemonday.Policy {
	markdownPolicyOnce.Do(func() {
		policy := bluemonday.UGCPolicy()
		policy.RequireNoFollowOnLinks(true)
		policy.AddTargetBlankToFullyQualifiedLinks(true)
		markdownPolicy = policy
	})
	return markdownPolicy
}
