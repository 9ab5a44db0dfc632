package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gladysproject/gladys/internal/agent"
	"github.com/gladysproject/gladys/internal/config"
	"github.com/gladysproject/gladys/internal/contacts"
	"github.com/gladysproject/gladys/internal/email"
	"github.com/gladysproject/gladys/internal/fetch"
	"github.com/gladysproject/gladys/internal/llm"
	"github.com/gladysproject/gladys/internal/memory"
	"github.com/gladysproject/gladys/internal/prompts"
	"github.com/gladysproject/gladys/internal/tools"
)

// app is the fully wired agent plus everything that needs closing on
// shutdown. chat, ask, and serve all boot through [buildApp] so the
// three entry points cannot drift apart.
type app struct {
	cfg     *config.Config
	cfgPath string
	logger  *slog.Logger
	agent   *agent.Agent
	store   *memory.Store

	mail    *email.Service // nil when email is not configured
	archive *memory.Archive
}

// buildApp loads configuration and constructs the agent with every
// tool the configuration enables. Logs go to logW at the configured
// level.
func buildApp(logW io.Writer, configPath string) (*app, error) {
	cfg, cfgPath, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}

	level := slog.LevelInfo
	if cfg.LogLevel != "" {
		// Already validated by config.Load, so the error path here
		// should be unreachable in practice.
		level, _ = config.ParseLogLevel(cfg.LogLevel)
	}
	logger := newLogger(logW, level)
	logger.Debug("config loaded", "path", cfgPath)

	if cfg.Model.APIKey == "" {
		return nil, fmt.Errorf("model.api_key is not set (export MISTRAL_API_KEY or edit %s)", cfgPath)
	}

	p, err := prompts.Load(cfg.PromptsFile)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	store, err := memory.Open(cfg.MemoryFile(), p.SystemPrompt, logger)
	if err != nil {
		return nil, err
	}

	client := llm.NewMistralClient(cfg.Model.BaseURL, cfg.Model.APIKey, logger)

	summarizer := memory.NewLLMSummarizer(func(ctx context.Context, prompt string) (string, error) {
		return llm.Complete(ctx, client, cfg.Model.Name, prompt)
	}, p.CompactionPrompt)
	compactor := memory.NewCompactor(memory.CompactionConfig{
		ThresholdBytes: cfg.Memory.ThresholdBytes,
		KeepRecent:     cfg.Memory.KeepRecent,
	}, summarizer, logger)

	a := &app{cfg: cfg, cfgPath: cfgPath, logger: logger, store: store}

	registry := tools.NewRegistry(logger)
	tools.RegisterDateTool(registry, time.Now)

	fetcher := fetch.New()
	tools.RegisterFetchTool(registry, fetcher)

	// Unconfigured services still register their tools: the model gets
	// a "not configured" tool result instead of a missing capability.
	if cfg.Memory.ArchiveDB != "" {
		path := cfg.Memory.ArchiveDB
		if !filepath.IsAbs(path) {
			path = filepath.Join(cfg.DataDir, path)
		}
		archive, err := memory.OpenArchive(path, logger)
		if err != nil {
			return nil, err
		}
		a.archive = archive
		compactor.SetArchiver(archive)
	}
	tools.RegisterArchiveTool(registry, a.archive)

	if cfg.Email.Configured() {
		a.mail = email.NewService(cfg.Email, logger)
	} else {
		logger.Debug("email not configured")
	}
	tools.RegisterEmailTools(registry, a.mail)

	var book *contacts.Client
	if cfg.Contacts.URL != "" {
		book = contacts.NewClient(cfg.Contacts.URL, cfg.Contacts.Username, cfg.Contacts.Password, logger)
	} else {
		logger.Debug("contacts not configured")
	}
	tools.RegisterContactTools(registry, book)

	logger.Info("agent ready",
		"model", cfg.Model.Name,
		"memory_file", cfg.MemoryFile(),
		"turns", store.Len(),
		"tools", registry.Names(),
	)

	a.agent = agent.New(agent.Config{
		Model:         cfg.Model.Name,
		MaxToolRounds: cfg.Agent.MaxToolRounds,
	}, store, client, registry, compactor, logger)

	return a, nil
}

// Close releases the app's connections. Safe to call once, in any
// boot outcome where buildApp returned successfully.
func (a *app) Close() {
	if a.mail != nil {
		if err := a.mail.Close(); err != nil {
			a.logger.Warn("close email client", "error", err)
		}
	}
	if a.archive != nil {
		if err := a.archive.Close(); err != nil {
			a.logger.Warn("close archive", "error", err)
		}
	}
}
