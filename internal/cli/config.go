package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds CLI defaults loaded from the TOML config file. Flags override
// config values, and secrets (API keys) come from the environment only.
type Config struct {
	Naming  NamingConfig  `toml:"naming"`
	Hosting HostingConfig `toml:"hosting"`
	Cache   CacheConfig   `toml:"cache"`
	Server  ServerConfig  `toml:"server"`
}

// NamingConfig controls the LLM naming stage.
type NamingConfig struct {
	// Model is the chat model identifier.
	Model string `toml:"model"`

	// Concurrency bounds parallel naming calls.
	Concurrency int `toml:"concurrency"`

	// CallTimeoutSeconds bounds each naming call.
	CallTimeoutSeconds int `toml:"call_timeout_seconds"`
}

// HostingConfig controls the hosting API client.
type HostingConfig struct {
	// BaseURL of the hosting API. Empty uses the client default.
	BaseURL string `toml:"base_url"`
}

// CacheConfig selects the result cache backend.
type CacheConfig struct {
	// Backend is "file", "redis", or "none". Defaults to "file".
	Backend string `toml:"backend"`

	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
}

// ServerConfig controls the serve command.
type ServerConfig struct {
	// Addr is the listen address.
	Addr string `toml:"addr"`

	// MongoURI enables Mongo-backed persistence when set.
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

// DefaultConfig returns the config used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Cache: CacheConfig{
			Backend:   "file",
			RedisAddr: os.Getenv("REDIS_ADDR"),
		},
	}
}

// LoadConfig reads the TOML config at path, or the default location when path
// is empty. A missing file is not an error; defaults are returned.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		var err error
		path, err = defaultConfigPath()
		if err != nil {
			return nil, err
		}
	}

	cfg := DefaultConfig()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	// Environment wins for connection endpoints so deployments can override
	// a checked-in config file.
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.Cache.RedisAddr = addr
	}
	return cfg, nil
}

// defaultConfigPath returns ~/.config/pathforge/config.toml, honoring
// XDG_CONFIG_HOME.
func defaultConfigPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}
