package web

import (
	"bytes"
	"html"

	"github.com/yuin/goldmark"
)

// renderMarkdown converts assistant markdown to HTML for the browser.
// On render failure the text is returned escaped rather than dropped.
func renderMarkdown(md string) string {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return "<p>" + html.EscapeString(md) + "</p>"
	}
	return buf.String()
}
