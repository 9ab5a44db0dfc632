// Package agent implements the turn execution loop: take one user
// message, give the model bounded rounds of tool use, and return its
// final text answer. Every turn — user, assistant, tool result — is
// persisted as it happens, so a crash or model failure never loses the
// conversation.
package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gladysproject/gladys/internal/llm"
	"github.com/gladysproject/gladys/internal/memory"
	"github.com/gladysproject/gladys/internal/tools"
)

// DefaultMaxToolRounds bounds how many consecutive tool rounds the
// model gets before the loop gives up on a turn.
const DefaultMaxToolRounds = 8

// ErrToolRoundsExceeded is returned when the model keeps requesting
// tools past the round limit. The log stays consistent: every
// dispatched tool call has its result recorded.
var ErrToolRoundsExceeded = errors.New("tool round limit exceeded")

// Config holds loop settings.
type Config struct {
	// Model is the model name sent with every completion request.
	Model string

	// MaxToolRounds bounds tool rounds per user turn. Zero means
	// DefaultMaxToolRounds.
	MaxToolRounds int
}

// Agent runs the conversation: it owns the turn log, the model client,
// the tool registry, and the compaction policy.
type Agent struct {
	store     *memory.Store
	client    llm.Client
	registry  *tools.Registry
	compactor *memory.Compactor
	model     string
	maxRounds int
	logger    *slog.Logger
}

// New creates an agent. compactor may be nil to disable compaction.
func New(cfg Config, store *memory.Store, client llm.Client, registry *tools.Registry, compactor *memory.Compactor, logger *slog.Logger) *Agent {
	maxRounds := cfg.MaxToolRounds
	if maxRounds <= 0 {
		maxRounds = DefaultMaxToolRounds
	}
	return &Agent{
		store:     store,
		client:    client,
		registry:  registry,
		compactor: compactor,
		model:     cfg.Model,
		maxRounds: maxRounds,
		logger:    logger,
	}
}

// Submit runs one user turn to completion and returns the model's
// final text answer.
//
// The user turn is appended and persisted first, then the log is
// compacted if over threshold (at most once per turn, before the first
// completion). Each model response either ends the turn with text or
// requests tool calls; tool calls are dispatched in order and their
// results appended before the next round. A model error leaves the log
// as persisted so far — the user turn survives for the next attempt,
// and re-submitting the identical text does not record it again.
func (a *Agent) Submit(ctx context.Context, text string) (string, error) {
	// A failed previous attempt leaves its user turn as the log tail.
	// Re-submitting the same text resumes that turn rather than
	// recording it twice.
	if !a.isRetry(text) {
		if _, err := a.store.Append(memory.UserTurn(text)); err != nil {
			return "", fmt.Errorf("record user turn: %w", err)
		}
	}

	a.maybeCompact(ctx)

	for round := 0; ; round++ {
		resp, err := a.client.Chat(ctx, a.model, toMessages(a.store.Turns()), a.registry.Schemas())
		if err != nil {
			return "", fmt.Errorf("completion: %w", err)
		}

		if !resp.HasToolCalls() {
			answer := resp.Message.Content
			if _, err := a.store.Append(memory.AssistantTurn(answer, nil)); err != nil {
				return "", fmt.Errorf("record assistant turn: %w", err)
			}
			a.logger.Debug("turn complete",
				"rounds", round,
				"input_tokens", resp.InputTokens,
				"output_tokens", resp.OutputTokens,
			)
			return answer, nil
		}

		if round >= a.maxRounds {
			a.logger.Warn("tool round limit reached", "rounds", round, "limit", a.maxRounds)
			return "", ErrToolRoundsExceeded
		}

		if err := a.runToolRound(ctx, resp); err != nil {
			return "", err
		}
	}
}

// isRetry reports whether the log already ends with a user turn
// carrying exactly this text — the footprint of a turn whose model
// call failed before any response was recorded.
func (a *Agent) isRetry(text string) bool {
	turns := a.store.Turns()
	if len(turns) == 0 {
		return false
	}
	last := turns[len(turns)-1]
	return last.Role == memory.RoleUser && last.Content == text
}

// runToolRound records the assistant's tool request and, in request
// order, dispatches each call and records its result. Dispatch is
// total: failures come back as error text the model reads next round.
func (a *Agent) runToolRound(ctx context.Context, resp *llm.ChatResponse) error {
	calls := make([]memory.ToolCall, 0, len(resp.Message.ToolCalls))
	for _, tc := range resp.Message.ToolCalls {
		calls = append(calls, memory.ToolCall{
			ID:        tc.ID,
			Name:      tc.Name,
			Arguments: tc.Arguments,
		})
	}

	if _, err := a.store.Append(memory.AssistantTurn(resp.Message.Content, calls)); err != nil {
		return fmt.Errorf("record tool request: %w", err)
	}

	for _, call := range calls {
		result := a.registry.Dispatch(ctx, call.ID, call.Name, call.Arguments)
		if _, err := a.store.Append(memory.ToolTurn(result.ToolCallID, result.Name, result.Output)); err != nil {
			return fmt.Errorf("record tool result: %w", err)
		}
	}
	return nil
}

// maybeCompact shrinks the log when it is over threshold. Compaction
// failure is recoverable: the turn proceeds on the uncompacted log.
func (a *Agent) maybeCompact(ctx context.Context) {
	if a.compactor == nil {
		return
	}

	turns := a.store.Turns()
	compacted, changed, err := a.compactor.MaybeCompact(ctx, turns)
	if err != nil {
		var cf *memory.ErrCompactionFailed
		if errors.As(err, &cf) {
			a.logger.Warn("compaction failed, continuing uncompacted", "error", cf.Err)
			return
		}
		a.logger.Warn("compaction error", "error", err)
		return
	}
	if !changed {
		return
	}

	if err := a.store.Replace(compacted); err != nil {
		a.logger.Warn("failed to persist compacted log", "error", err)
	}
}

// History returns a copy of the persisted turn log.
func (a *Agent) History() []memory.Turn {
	return a.store.Turns()
}

// Reset clears the conversation back to the system turn.
func (a *Agent) Reset() error {
	return a.store.Clear()
}

// SizeBytes reports the serialized size of the turn log.
func (a *Agent) SizeBytes() int {
	return a.store.SizeBytes()
}

// toMessages converts persisted turns to the model wire shape.
func toMessages(turns []memory.Turn) []llm.Message {
	msgs := make([]llm.Message, len(turns))
	for i, t := range turns {
		m := llm.Message{
			Role:       t.Role,
			Content:    t.Content,
			ToolCallID: t.ToolCallID,
			Name:       t.Name,
		}
		for _, tc := range t.ToolCalls {
			m.ToolCalls = append(m.ToolCalls, llm.ToolCall{
				ID:        tc.ID,
				Name:      tc.Name,
				Arguments: tc.Arguments,
			})
		}
		msgs[i] = m
	}
	return msgs
}
