package config

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Config holds all viewer configuration
type Config struct {
	Theme   ThemeConfig   `toml:"theme"`
	Display DisplayConfig `toml:"display"`
}

// ThemeConfig defines color schemes
type ThemeConfig struct {
	Timestamp   string        `toml:"timestamp"`
	LineNumbers string        `toml:"line_numbers"`
	StatusBar   string        `toml:"status_bar"`
	StatusText  string        `toml:"status_bar_text"`
	GroupHeader string        `toml:"group_header"`
	Link        string        `toml:"link"`
	HighlightFg string        `toml:"highlight_fg"`
	HighlightBg string        `toml:"highlight_bg"`
	Commands    CommandColors `toml:"commands"`
}

// CommandColors defines tints for structural command lines
type CommandColors struct {
	Debug   string `toml:"debug"`
	Error   string `toml:"error"`
	Info    string `toml:"info"`
	Notice  string `toml:"notice"`
	Warning string `toml:"warning"`
}

// DisplayConfig holds display options
type DisplayConfig struct {
	ShowTimestamps  bool `toml:"show_timestamps"`
	ShowLineNumbers bool `toml:"show_line_numbers"`
	FollowInterval  int  `toml:"follow_interval_ms"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Theme: ThemeConfig{
			Timestamp:   "240", // Dark gray
			LineNumbers: "240",
			StatusBar:   "236", // Darker gray background
			StatusText:  "252", // Light gray text
			GroupHeader: "75",  // Blue
			Link:        "39",  // Bright blue
			HighlightFg: "16",  // Near black
			HighlightBg: "226", // Yellow
			Commands: CommandColors{
				Debug:   "244", // Medium gray
				Error:   "167", // Soft red
				Info:    "250", // Light gray
				Notice:  "75",  // Blue
				Warning: "214", // Orange
			},
		},
		Display: DisplayConfig{
			ShowTimestamps:  false,
			ShowLineNumbers: true,
			FollowInterval:  500,
		},
	}
}

// Load loads config from file, falling back to defaults
func Load() (*Config, error) {
	cfg := DefaultConfig()

	configPath := getConfigPath()
	if configPath == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save saves config to file
func Save(cfg *Config) error {
	configPath := getConfigPath()
	if configPath == "" {
		return nil
	}

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}

// getConfigPath returns the config file path
func getConfigPath() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "logtree", "config.toml")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".config", "logtree", "config.toml")
}

// GetConfigPath exports the config path for user reference
func GetConfigPath() string {
	return getConfigPath()
}
