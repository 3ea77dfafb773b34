package view

import (
	"bytes"
	"html/template"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

var (
	markdownOnce sync.Once
	md           goldmark.Markdown
	policy       *bluemonday.Policy
)

func initMarkdown() {
	markdownOnce.Do(func() {
		md = goldmark.New()

		// Allows basic formatting for user-generated content; strips
		// scripts, event handlers and javascript: URLs.
		policy = bluemonday.NewPolicy()
		policy.AllowStandardURLs()
		policy.AllowElements(
			"p", "br",
			"strong", "b", "em", "i",
			"ul", "ol", "li",
			"code", "pre", "blockquote",
			"h1", "h2", "h3",
		)
		policy.AllowAttrs("href").OnElements("a")
		policy.RequireNoFollowOnLinks(true)
	})
}

// Markdown converts post content to sanitized HTML.
// Raw content stays in the store untouched; conversion happens only at
// display time. Falls back to the sanitized input if conversion fails.
func Markdown(content string) template.HTML {
	initMarkdown()

	var buf bytes.Buffer
	if err := md.Convert([]byte(content), &buf); err != nil {
		return template.HTML(policy.Sanitize(content)) //nolint:gosec // sanitized
	}

	return template.HTML(policy.SanitizeReader(&buf).String()) //nolint:gosec // sanitized
}
