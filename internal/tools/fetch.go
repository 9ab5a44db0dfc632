package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/gladysproject/gladys/internal/fetch"
)

// RegisterFetchTool adds the fetch_page tool backed by the given
// fetcher.
func RegisterFetchTool(r *Registry, f *fetch.Fetcher) {
	r.Register(&Tool{
		Name: "fetch_page",
		Description: "Fetch a web page and return its readable text content " +
			"with scripts, navigation, and boilerplate removed.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"url": map[string]any{
					"type":        "string",
					"description": "URL of the page to fetch.",
				},
				"max_chars": map[string]any{
					"type":        "integer",
					"description": "Maximum characters of text to return (default 50000).",
				},
			},
			"required": []string{"url"},
		},
		Handler: func(ctx context.Context, args map[string]any) (string, error) {
			result, err := f.Fetch(ctx, StringArg(args, "url"), IntArg(args, "max_chars"))
			if err != nil {
				return "", err
			}

			var sb strings.Builder
			if result.Title != "" {
				fmt.Fprintf(&sb, "Title: %s\n\n", result.Title)
			}
			sb.WriteString(result.Content)
			if result.Truncated {
				sb.WriteString("\n\n[content truncated]")
			}
			return sb.String(), nil
		},
	})
}
