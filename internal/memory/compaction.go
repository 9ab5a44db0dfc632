package memory

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// CompactionConfig controls compaction behavior.
type CompactionConfig struct {
	// ThresholdBytes triggers compaction when the serialized log
	// exceeds it.
	ThresholdBytes int
	// KeepRecent is the number of most-recent turns always kept
	// verbatim.
	KeepRecent int
}

// DefaultCompactionConfig returns sensible defaults.
func DefaultCompactionConfig() CompactionConfig {
	return CompactionConfig{
		ThresholdBytes: 50 * 1024,
		KeepRecent:     10,
	}
}

// ErrCompactionFailed signals that summarization failed and the log was
// left uncompacted. It is recoverable: the turn proceeds with the
// oversized context and compaction is retried on the next turn that
// still exceeds the threshold.
type ErrCompactionFailed struct {
	Err error
}

// Error implements the error interface.
func (e *ErrCompactionFailed) Error() string {
	return fmt.Sprintf("compaction failed, continuing uncompacted: %v", e.Err)
}

// Unwrap returns the underlying summarization error.
func (e *ErrCompactionFailed) Unwrap() error { return e.Err }

// Summarizer generates a summary of a span of turns.
type Summarizer interface {
	Summarize(ctx context.Context, turns []Turn) (string, error)
}

// Archiver receives turns that compaction is about to replace with a
// summary, so they stay searchable after leaving the live log.
type Archiver interface {
	Archive(turns []Turn) error
}

// Compactor bounds the conversation log by replacing older turns with a
// synthesized summary turn.
type Compactor struct {
	config     CompactionConfig
	summarizer Summarizer
	archiver   Archiver // optional
	logger     *slog.Logger
}

// NewCompactor creates a compactor.
func NewCompactor(config CompactionConfig, summarizer Summarizer, logger *slog.Logger) *Compactor {
	return &Compactor{
		config:     config,
		summarizer: summarizer,
		logger:     logger,
	}
}

// SetArchiver configures an archive for compacted-away turns.
func (c *Compactor) SetArchiver(a Archiver) {
	c.archiver = a
}

// MaybeCompact returns the log unchanged when it is at or under the
// threshold (the common, cheap path — no model call). Otherwise it
// partitions the log into the leading system turn, a middle span, and
// the KeepRecent most-recent turns, summarizes the middle with a single
// LLM call, and returns system + summary + recent. The boolean reports
// whether compaction replaced the log; callers must not infer that from
// the length, which is unchanged when the middle was a single turn.
//
// When the middle is empty (a log over threshold but shorter than
// KeepRecent, e.g. huge individual turns), compaction is a no-op: this
// policy does not split individual turns. When summarization fails the
// original log is returned together with *ErrCompactionFailed.
//
// A log still over threshold after compacting is re-compacted on a
// later call; the previous summary turn then sits in the middle span
// and folds into the new summary.
func (c *Compactor) MaybeCompact(ctx context.Context, turns []Turn) ([]Turn, bool, error) {
	size := SerializedSize(turns)
	if size <= c.config.ThresholdBytes {
		return turns, false, nil
	}

	// The system turn is first by convention (Store guarantees it).
	if len(turns) == 0 || turns[0].Role != RoleSystem {
		return turns, false, nil
	}

	if len(turns)-1 <= c.config.KeepRecent {
		c.logger.Debug("compaction skipped: nothing between system turn and recent tail",
			"turns", len(turns),
			"size_bytes", size,
		)
		return turns, false, nil
	}

	head := turns[0]
	middle := turns[1 : len(turns)-c.config.KeepRecent]
	tail := turns[len(turns)-c.config.KeepRecent:]

	c.logger.Info("compacting conversation",
		"size_bytes", size,
		"threshold_bytes", c.config.ThresholdBytes,
		"compacting", len(middle),
		"keeping", len(tail),
	)

	summary, err := c.summarizer.Summarize(ctx, middle)
	if err != nil {
		return turns, false, &ErrCompactionFailed{Err: err}
	}

	if c.archiver != nil {
		if err := c.archiver.Archive(middle); err != nil {
			// Archiving is best-effort; losing the archive copy must
			// not block bounding the live log.
			c.logger.Warn("failed to archive compacted turns", "error", err)
		}
	}

	compacted := make([]Turn, 0, len(tail)+2)
	compacted = append(compacted, head)
	compacted = append(compacted, SystemTurn(formatSummaryTurn(len(middle), summary)))
	compacted = append(compacted, tail...)

	c.logger.Info("compaction complete",
		"size_bytes", SerializedSize(compacted),
		"turns", len(compacted),
	)
	return compacted, true, nil
}

// formatSummaryTurn frames the summary so the model can tell synthetic
// context from live conversation.
func formatSummaryTurn(compacted int, summary string) string {
	var sb strings.Builder
	sb.WriteString("[Conversation summary]\n")
	fmt.Fprintf(&sb, "Earlier turns compacted: %d\n\n", compacted)
	sb.WriteString(summary)
	return sb.String()
}

// RenderTranscript renders turns as plain transcript text for the
// summarization prompt.
func RenderTranscript(turns []Turn) string {
	var sb strings.Builder
	for _, t := range turns {
		switch t.Role {
		case RoleTool:
			fmt.Fprintf(&sb, "Tool %s: %s\n\n", t.Name, t.Content)
		case RoleAssistant:
			if t.Content == "" && len(t.ToolCalls) > 0 {
				var names []string
				for _, tc := range t.ToolCalls {
					names = append(names, tc.Name)
				}
				fmt.Fprintf(&sb, "Assistant: (called %s)\n\n", strings.Join(names, ", "))
				continue
			}
			fmt.Fprintf(&sb, "Assistant: %s\n\n", t.Content)
		default:
			role := t.Role
			if len(role) > 0 {
				role = strings.ToUpper(role[:1]) + role[1:]
			}
			fmt.Fprintf(&sb, "%s: %s\n\n", role, t.Content)
		}
	}
	return sb.String()
}

// LLMSummarizer uses an LLM to generate summaries.
type LLMSummarizer struct {
	llmFunc func(ctx context.Context, prompt string) (string, error)
	prompt  func(transcript string) string
}

// NewLLMSummarizer creates a summarizer that renders the turns as a
// transcript, builds the summarization prompt with buildPrompt, and
// sends it through llmFunc.
func NewLLMSummarizer(llmFunc func(ctx context.Context, prompt string) (string, error), buildPrompt func(transcript string) string) *LLMSummarizer {
	return &LLMSummarizer{llmFunc: llmFunc, prompt: buildPrompt}
}

// Summarize generates a summary of the turns using the LLM.
func (s *LLMSummarizer) Summarize(ctx context.Context, turns []Turn) (string, error) {
	return s.llmFunc(ctx, s.prompt(RenderTranscript(turns)))
}

// SimpleSummarizer creates a basic extractive summary without an LLM
// (fallback, and test double).
type SimpleSummarizer struct{}

// Summarize lists short user questions as topics and counts tool usage.
func (s *SimpleSummarizer) Summarize(ctx context.Context, turns []Turn) (string, error) {
	var topics []string
	toolCalls := 0

	for _, t := range turns {
		if t.Role == RoleUser && len(t.Content) < 100 {
			topics = append(topics, "- "+t.Content)
		}
		if t.Role == RoleTool {
			toolCalls++
		}
	}

	var sb strings.Builder
	sb.WriteString("Topics discussed:\n")
	if len(topics) > 0 {
		for _, t := range topics[:min(5, len(topics))] {
			sb.WriteString(t + "\n")
		}
	} else {
		sb.WriteString("- General conversation\n")
	}

	if toolCalls > 0 {
		fmt.Fprintf(&sb, "\nActions taken:\n- %d tool calls\n", toolCalls)
	}

	return sb.String(), nil
}
