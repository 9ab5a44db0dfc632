package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gladysproject/gladys/internal/config"
	"github.com/gladysproject/gladys/internal/httpkit"
	"github.com/google/uuid"
)

// MistralClient talks to the Mistral chat-completions API. The wire
// format is OpenAI-compatible, so the same client works against any
// endpoint speaking that dialect.
type MistralClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewMistralClient creates a Mistral API client.
func NewMistralClient(baseURL, apiKey string, logger *slog.Logger) *MistralClient {
	if baseURL == "" {
		baseURL = "https://api.mistral.ai/v1"
	}
	return &MistralClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: httpkit.NewClient(
			httpkit.WithTimeout(2 * time.Minute),
		),
		logger: logger,
	}
}

// Wire types. Mistral encodes tool-call arguments as a JSON string;
// conversion to and from map[string]any happens here so the rest of the
// program never sees the string form.

type wireToolCall struct {
	ID       string `json:"id,omitempty"`
	Type     string `json:"type,omitempty"`
	Function struct {
		Name      string `json:"name"`
		Arguments string `json:"arguments"`
	} `json:"function"`
}

type wireMessage struct {
	Role       string         `json:"role"`
	Content    string         `json:"content"`
	ToolCalls  []wireToolCall `json:"tool_calls,omitempty"`
	ToolCallID string         `json:"tool_call_id,omitempty"`
	Name       string         `json:"name,omitempty"`
}

type chatRequest struct {
	Model    string           `json:"model"`
	Messages []wireMessage    `json:"messages"`
	Tools    []map[string]any `json:"tools,omitempty"`
}

type chatCompletion struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Index        int         `json:"index"`
		Message      wireMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

// Chat sends a chat completion request.
func (c *MistralClient) Chat(ctx context.Context, model string, messages []Message, tools []map[string]any) (*ChatResponse, error) {
	req := chatRequest{
		Model:    model,
		Messages: toWire(messages),
		Tools:    tools,
	}

	jsonData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	if c.logger != nil {
		c.logger.Log(ctx, config.LevelTrace, "mistral request", "payload", string(jsonData))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API error %d: %s", resp.StatusCode, string(body))
	}

	if c.logger != nil {
		c.logger.Log(ctx, config.LevelTrace, "mistral response", "payload", string(body))
	}

	var completion chatCompletion
	if err := json.Unmarshal(body, &completion); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("empty completion (no choices)")
	}

	choice := completion.Choices[0]
	msg, err := fromWire(choice.Message)
	if err != nil {
		return nil, err
	}

	return &ChatResponse{
		Model:        completion.Model,
		Message:      msg,
		FinishReason: choice.FinishReason,
		InputTokens:  completion.Usage.PromptTokens,
		OutputTokens: completion.Usage.CompletionTokens,
	}, nil
}

func toWire(messages []Message) []wireMessage {
	out := make([]wireMessage, len(messages))
	for i, m := range messages {
		w := wireMessage{
			Role:       m.Role,
			Content:    m.Content,
			ToolCallID: m.ToolCallID,
			Name:       m.Name,
		}
		for _, tc := range m.ToolCalls {
			args, err := json.Marshal(tc.Arguments)
			if err != nil {
				args = []byte("{}")
			}
			var wtc wireToolCall
			wtc.ID = tc.ID
			wtc.Type = "function"
			wtc.Function.Name = tc.Name
			wtc.Function.Arguments = string(args)
			w.ToolCalls = append(w.ToolCalls, wtc)
		}
		out[i] = w
	}
	return out
}

func fromWire(w wireMessage) (Message, error) {
	m := Message{
		Role:       w.Role,
		Content:    w.Content,
		ToolCallID: w.ToolCallID,
		Name:       w.Name,
	}
	for _, wtc := range w.ToolCalls {
		tc := ToolCall{
			ID:   wtc.ID,
			Name: wtc.Function.Name,
		}
		// Some endpoints omit call IDs; correlation needs one.
		if tc.ID == "" {
			tc.ID = uuid.New().String()
		}
		if wtc.Function.Arguments != "" {
			if err := json.Unmarshal([]byte(wtc.Function.Arguments), &tc.Arguments); err != nil {
				return Message{}, fmt.Errorf("tool call %s: malformed arguments: %w", tc.Name, err)
			}
		}
		m.ToolCalls = append(m.ToolCalls, tc)
	}
	return m, nil
}
