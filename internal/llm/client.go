package llm

import "context"

// Client is the provider-neutral chat interface consumed by the agent
// loop and the memory compactor.
type Client interface {
	// Chat sends a completion request with the full conversation and
	// the advertised tool schemas. A nil tools slice advertises nothing.
	Chat(ctx context.Context, model string, messages []Message, tools []map[string]any) (*ChatResponse, error)
}

// Complete is a convenience for single-prompt requests (summarization,
// metadata generation). It wraps the prompt as one user message and
// returns the response text.
func Complete(ctx context.Context, c Client, model, prompt string) (string, error) {
	resp, err := c.Chat(ctx, model, []Message{{Role: "user", Content: prompt}}, nil)
	if err != nil {
		return "", err
	}
	return resp.Message.Content, nil
}
