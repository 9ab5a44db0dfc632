// Package prompts holds the prompt text sent to the LLM: the system
// prompt seeding every conversation and the instruction used during
// memory compaction. Compiled-in defaults can be overridden from a
// prompts.yaml file.
package prompts

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// defaultSystemPrompt seeds a fresh conversation log.
const defaultSystemPrompt = `You are Gladys, a sharp and capable personal assistant.
You answer with clarity and precision, adapting your tone to the person
you are talking to. You have access to tools: today's date, reading and
sending email, looking up and adding contacts, fetching web pages, and
searching older parts of this conversation. Use a tool whenever it would
make your answer accurate instead of guessing. When the user refers to a
contact by name rather than address, look the contact up before sending
anything. When you introduce yourself, keep it simple: you are Gladys, a
personal assistant.`

// defaultSummarization is the fixed instruction for conversation
// compaction. The single format verb is the rendered transcript.
const defaultSummarization = `Summarize this conversation concisely. Focus on:
1. Key topics discussed
2. Decisions made or preferences expressed
3. Actions taken (tool calls, emails sent, contacts added)
4. Any open items or things to remember

Keep the summary under 500 words. Use bullet points.

Conversation:
%s

Summary:`

// Prompts is the loaded prompt set.
type Prompts struct {
	SystemPrompt  string `yaml:"system_prompt"`
	Summarization string `yaml:"summarization_prompt"`
}

// Defaults returns the compiled-in prompt set.
func Defaults() Prompts {
	return Prompts{
		SystemPrompt:  defaultSystemPrompt,
		Summarization: defaultSummarization,
	}
}

// Load reads prompts from a YAML file. Missing keys fall back to the
// compiled-in defaults; an empty path returns the defaults directly.
func Load(path string) (Prompts, error) {
	p := Defaults()
	if path == "" {
		return p, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("read prompts file: %w", err)
	}

	var loaded Prompts
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return p, fmt.Errorf("parse prompts file: %w", err)
	}

	if strings.TrimSpace(loaded.SystemPrompt) != "" {
		p.SystemPrompt = loaded.SystemPrompt
	}
	if strings.TrimSpace(loaded.Summarization) != "" {
		p.Summarization = loaded.Summarization
	}
	return p, nil
}

// CompactionPrompt returns the fully interpolated summarization request
// for the given transcript text (role: content pairs, one per line).
func (p Prompts) CompactionPrompt(transcript string) string {
	if strings.Contains(p.Summarization, "%s") {
		return fmt.Sprintf(p.Summarization, transcript)
	}
	// A custom instruction without a placeholder gets the transcript
	// appended after a blank line.
	return p.Summarization + "\n\n" + transcript
}
