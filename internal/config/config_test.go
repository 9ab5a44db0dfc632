package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadExpandsEnvironment(t *testing.T) {
	t.Setenv("GLADYS_TEST_KEY", "sk-test-123")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
model:
  name: mistral-large-latest
  api_key: ${GLADYS_TEST_KEY}
memory:
  threshold_bytes: 1024
  keep_recent: 4
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Model.APIKey != "sk-test-123" {
		t.Errorf("api_key = %q, want expanded env value", cfg.Model.APIKey)
	}
	if cfg.Model.Name != "mistral-large-latest" {
		t.Errorf("model name = %q", cfg.Model.Name)
	}
	if cfg.Memory.ThresholdBytes != 1024 {
		t.Errorf("threshold_bytes = %d, want 1024", cfg.Memory.ThresholdBytes)
	}
	if cfg.Memory.KeepRecent != 4 {
		t.Errorf("keep_recent = %d, want 4", cfg.Memory.KeepRecent)
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("log_level: debug\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Memory.ThresholdBytes != 50*1024 {
		t.Errorf("default threshold_bytes = %d", cfg.Memory.ThresholdBytes)
	}
	if cfg.Memory.KeepRecent != 10 {
		t.Errorf("default keep_recent = %d", cfg.Memory.KeepRecent)
	}
	if cfg.Agent.MaxToolRounds != 8 {
		t.Errorf("default max_tool_rounds = %d", cfg.Agent.MaxToolRounds)
	}
	if cfg.Model.BaseURL == "" {
		t.Error("default base_url is empty")
	}
}

func TestFindConfigExplicitMissing(t *testing.T) {
	if _, err := FindConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing explicit config")
	}
}

func TestMemoryFile(t *testing.T) {
	cfg := Default()
	cfg.DataDir = "/var/lib/gladys"
	if got := cfg.MemoryFile(); got != "/var/lib/gladys/memory.json" {
		t.Errorf("MemoryFile = %q", got)
	}
}

func TestParseLogLevel(t *testing.T) {
	cases := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"", slog.LevelInfo, false},
		{"info", slog.LevelInfo, false},
		{"TRACE", LevelTrace, false},
		{"debug", slog.LevelDebug, false},
		{" warn ", slog.LevelWarn, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	}

	for _, tc := range cases {
		got, err := ParseLogLevel(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseLogLevel(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseLogLevel(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
