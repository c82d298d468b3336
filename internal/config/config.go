// Package config handles configuration for llmtui.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	// DefaultTool is the external inference binary
	DefaultTool = "llm"
	// DefaultListenAddr is the loopback address of the remote command socket
	DefaultListenAddr = "127.0.0.1:8080"
)

// MarkdownConfig configures markdown rendering options
type MarkdownConfig struct {
	Style            string `json:"style"`              // "dark", "light", or path to JSON theme
	EnableEmoji      bool   `json:"enable_emoji"`       // Convert :emoji: to unicode
	PreserveNewLines bool   `json:"preserve_newlines"`  // Preserve original line breaks
	TableWrap        bool   `json:"table_wrap"`         // Enable word wrap in table cells
	InlineTableLinks bool   `json:"inline_table_links"` // Render links inline in tables
}

// Config represents the user configuration
type Config struct {
	// Tool is the external inference command ("llm" by default).
	Tool string `json:"tool"`
	// DefaultModel is used when the tool reports no aliases.
	DefaultModel string `json:"default_model,omitempty"`
	// ListenAddr is where the remote command listener binds.
	ListenAddr string `json:"listen_addr"`
	// PollIntervalMS is the scheduler tick period.
	PollIntervalMS int `json:"poll_interval_ms"`
	// FeedbackTTLSeconds is how long a feedback entry stays visible.
	FeedbackTTLSeconds int `json:"feedback_ttl_seconds"`
	// ReadTimeoutSeconds bounds how long a remote connection may take to
	// send its line. Zero waits forever.
	ReadTimeoutSeconds int `json:"read_timeout_seconds"`
	// MaxConnections caps concurrent remote connections. Zero is unlimited.
	MaxConnections int `json:"max_connections"`
	// ShowSidebar starts with the conversation and model panels visible.
	ShowSidebar bool           `json:"show_sidebar"`
	TUITheme    string         `json:"tui_theme,omitempty"`
	Verbose     bool           `json:"verbose"`
	LogFile     string         `json:"log_file,omitempty"`
	Markdown    MarkdownConfig `json:"markdown,omitempty"`
}

// DefaultMarkdownConfig returns the default markdown configuration
func DefaultMarkdownConfig() MarkdownConfig {
	return MarkdownConfig{
		Style:            "dark",
		EnableEmoji:      true,
		PreserveNewLines: true,
		TableWrap:        true,
		InlineTableLinks: false,
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Tool:               DefaultTool,
		ListenAddr:         DefaultListenAddr,
		PollIntervalMS:     100,
		FeedbackTTLSeconds: 5,
		ReadTimeoutSeconds: 0,
		MaxConnections:     0,
		ShowSidebar:        true,
		TUITheme:           "tokyonight",
		Verbose:            false,
		Markdown:           DefaultMarkdownConfig(),
	}
}

// PollInterval returns the scheduler tick period
func (c Config) PollInterval() time.Duration {
	if c.PollIntervalMS <= 0 {
		return 100 * time.Millisecond
	}
	return time.Duration(c.PollIntervalMS) * time.Millisecond
}

// FeedbackTTL returns the lifetime of a feedback entry
func (c Config) FeedbackTTL() time.Duration {
	if c.FeedbackTTLSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(c.FeedbackTTLSeconds) * time.Second
}

// ReadTimeout returns the per-connection read deadline, zero for none
func (c Config) ReadTimeout() time.Duration {
	if c.ReadTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.ReadTimeoutSeconds) * time.Second
}

// ApplyEnv overrides fields from LLMTUI_* environment variables
func (c Config) ApplyEnv() Config {
	if tool := os.Getenv("LLMTUI_TOOL"); tool != "" {
		c.Tool = tool
	}
	if addr := os.Getenv("LLMTUI_ADDR"); addr != "" {
		c.ListenAddr = addr
	}
	return c
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	configDir := filepath.Join(home, ".llmtui")
	return configDir, nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.json"), nil
}

// LoadConfig loads the configuration from disk
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	configPath, err := GetConfigPath()
	if err != nil {
		return cfg, err
	}

	return LoadConfigFrom(configPath)
}

// LoadConfigFrom loads the configuration from a specific file
func LoadConfigFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Use defaults if config doesn't exist
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
	}

	if cfg.Tool == "" {
		cfg.Tool = DefaultTool
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = DefaultListenAddr
	}

	return cfg, nil
}

// SaveConfig saves the configuration to disk
func SaveConfig(cfg Config) error {
	configDir, err := EnsureConfigDir()
	if err != nil {
		return err
	}

	return SaveConfigTo(filepath.Join(configDir, "config.json"), cfg)
}

// SaveConfigTo saves the configuration to a specific file
func SaveConfigTo(path string, cfg Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
