package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/gladysproject/gladys/internal/memory"
)

// RegisterArchiveTool adds the search_archive tool backed by the given
// archive. Pass nil to register a stub that explains archiving is off —
// the model should learn that from a tool result, not from a missing
// tool.
func RegisterArchiveTool(r *Registry, archive *memory.Archive) {
	r.Register(&Tool{
		Name: "search_archive",
		Description: "Search older parts of this conversation that were summarized away. " +
			"Use when the user refers to something discussed a while ago that is not in the current context.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "Text to search for in archived conversation turns.",
				},
				"limit": map[string]any{
					"type":        "integer",
					"description": "Maximum number of matching turns to return (default 10).",
				},
			},
			"required": []string{"query"},
		},
		Handler: func(ctx context.Context, args map[string]any) (string, error) {
			if archive == nil {
				return "", fmt.Errorf("conversation archiving is not configured")
			}

			query := StringArg(args, "query")
			limit := IntArg(args, "limit")

			hits, err := archive.Search(query, limit)
			if err != nil {
				return "", err
			}
			if len(hits) == 0 {
				return fmt.Sprintf("No archived turns match %q.", query), nil
			}

			var sb strings.Builder
			fmt.Fprintf(&sb, "Found %d archived turn(s):\n", len(hits))
			for _, h := range hits {
				fmt.Fprintf(&sb, "- [%s] %s: %s\n",
					h.ArchivedAt.Format("2006-01-02"), h.Role, h.Content)
			}
			return sb.String(), nil
		},
	})
}
