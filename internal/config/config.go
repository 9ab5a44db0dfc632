// Package config handles Gladys configuration loading.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/gladysproject/gladys/internal/email"
)

// DefaultSearchPaths returns the config file search order.
// An explicit path (from -config flag) is checked first.
// Then: ./config.yaml, ~/.config/gladys/config.yaml, /etc/gladys/config.yaml.
func DefaultSearchPaths() []string {
	paths := []string{"config.yaml"}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "gladys", "config.yaml"))
	}

	paths = append(paths, "/etc/gladys/config.yaml")
	return paths
}

// FindConfig locates a config file. If explicit is non-empty, it must exist.
// Otherwise, searches DefaultSearchPaths and returns the first that exists.
// Returns the path found, or an error if nothing was found.
func FindConfig(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	for _, p := range DefaultSearchPaths() {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	return "", fmt.Errorf("no config file found (searched: %v)", DefaultSearchPaths())
}

// Config holds all Gladys configuration.
type Config struct {
	Model       ModelConfig    `yaml:"model"`
	Memory      MemoryConfig   `yaml:"memory"`
	Agent       AgentConfig    `yaml:"agent"`
	Email       email.Config   `yaml:"email"`
	Contacts    ContactsConfig `yaml:"contacts"`
	Web         WebConfig      `yaml:"web"`
	DataDir     string         `yaml:"data_dir"`
	PromptsFile string         `yaml:"prompts_file"`
	LogLevel    string         `yaml:"log_level"`
}

// ModelConfig defines the LLM provider settings.
type ModelConfig struct {
	// Name is the model identifier sent with every completion request.
	Name string `yaml:"name"`
	// BaseURL is the chat-completions endpoint root. Defaults to the
	// Mistral platform URL.
	BaseURL string `yaml:"base_url"`
	// APIKey authenticates requests. Supports environment variable
	// expansion via the config loader (e.g., ${MISTRAL_API_KEY}).
	APIKey string `yaml:"api_key"`
}

// MemoryConfig controls the conversation store and compaction policy.
type MemoryConfig struct {
	// ThresholdBytes is the serialized log size above which compaction
	// triggers. Default: 51200 (50 KB).
	ThresholdBytes int `yaml:"threshold_bytes"`
	// KeepRecent is the number of most-recent turns preserved verbatim
	// through compaction. Default: 10.
	KeepRecent int `yaml:"keep_recent"`
	// ArchiveDB is the SQLite file that receives compacted-away turns.
	// Empty disables archiving.
	ArchiveDB string `yaml:"archive_db"`
}

// AgentConfig controls the turn-execution loop.
type AgentConfig struct {
	// MaxToolRounds caps model/tool round-trips within one user turn.
	// Default: 8.
	MaxToolRounds int `yaml:"max_tool_rounds"`
}

// ContactsConfig defines the CardDAV address book connection.
type ContactsConfig struct {
	// URL is the CardDAV endpoint (e.g., a Radicale or Nextcloud
	// address book collection URL). Empty disables contact tools.
	URL      string `yaml:"url"`
	Username string `yaml:"username"`
	// Password supports environment variable expansion via the config
	// loader (e.g., ${CARDDAV_PASSWORD}).
	Password string `yaml:"password"`
}

// WebConfig defines the web front end settings.
type WebConfig struct {
	// Address is the bind address (default: "" = all interfaces).
	Address string `yaml:"address"`
	// Port is the listen port. Default: 8480.
	Port int `yaml:"port"`
}

// Load reads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Default returns a default configuration.
func Default() *Config {
	return &Config{
		Model: ModelConfig{
			Name:    "mistral-small-latest",
			BaseURL: "https://api.mistral.ai/v1",
		},
		Memory: MemoryConfig{
			ThresholdBytes: 50 * 1024,
			KeepRecent:     10,
		},
		Agent: AgentConfig{
			MaxToolRounds: 8,
		},
		Web: WebConfig{
			Port: 8480,
		},
		DataDir: ".",
	}
}

func (c *Config) applyDefaults() {
	if c.Model.BaseURL == "" {
		c.Model.BaseURL = "https://api.mistral.ai/v1"
	}
	if c.Model.Name == "" {
		c.Model.Name = "mistral-small-latest"
	}
	if c.Memory.ThresholdBytes <= 0 {
		c.Memory.ThresholdBytes = 50 * 1024
	}
	if c.Memory.KeepRecent <= 0 {
		c.Memory.KeepRecent = 10
	}
	if c.Agent.MaxToolRounds <= 0 {
		c.Agent.MaxToolRounds = 8
	}
	if c.Web.Port == 0 {
		c.Web.Port = 8480
	}
	if c.DataDir == "" {
		c.DataDir = "."
	}
	c.Email.ApplyDefaults()
}

// Validate checks that the configuration is internally consistent.
// Returns an error describing the first problem found.
func (c *Config) Validate() error {
	if err := c.Email.Validate(); err != nil {
		return err
	}
	if c.Contacts.URL != "" && c.Contacts.Username == "" {
		return fmt.Errorf("contacts.username is required when contacts.url is set")
	}
	if c.Web.Port < 0 || c.Web.Port > 65535 {
		return fmt.Errorf("web.port %d out of range", c.Web.Port)
	}
	return nil
}

// MemoryFile returns the path of the persisted conversation log.
func (c *Config) MemoryFile() string {
	return filepath.Join(c.DataDir, "memory.json")
}
