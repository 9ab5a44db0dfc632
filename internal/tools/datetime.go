package tools

import (
	"context"
	"time"
)

// dateFormat renders like "Friday, August 28, 2026".
const dateFormat = "Monday, January 2, 2006"

// RegisterDateTool adds the get_date tool. now is injectable for tests;
// pass nil for time.Now.
func RegisterDateTool(r *Registry, now func() time.Time) {
	if now == nil {
		now = time.Now
	}
	r.Register(&Tool{
		Name:        "get_date",
		Description: "Get today's date in a readable format.",
		Parameters: map[string]any{
			"type":       "object",
			"properties": map[string]any{},
			"required":   []string{},
		},
		Handler: func(ctx context.Context, args map[string]any) (string, error) {
			return now().Format(dateFormat), nil
		},
	})
}
