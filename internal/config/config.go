package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the global ~/.cosmoschat/config.toml.
type Config struct {
	DefaultProfile string `toml:"default_profile"`

	// Auto-reply delay overrides in milliseconds. Zero means use the
	// built-in defaults (2000 for text, 1500 for images).
	ReplyDelayMs      int `toml:"reply_delay_ms"`
	ImageReplyDelayMs int `toml:"image_reply_delay_ms"`
}

// Load reads config from the given path. Returns an error if the file
// is missing; callers treat that as "use defaults".
func Load(path string) (*Config, error) {
	var cfg Config
	_, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes config to the given path, creating parent dirs as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	encErr := toml.NewEncoder(f).Encode(cfg)
	if closeErr := f.Close(); closeErr != nil && encErr == nil {
		return closeErr
	}
	return encErr
}
