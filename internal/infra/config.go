package infra

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all application settings. LoadConfig fills it from YAML and
// then applies environment variable overrides.
type Config struct {
	App struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"app"`

	Backend struct {
		RestURL           string `yaml:"rest_url"`
		WSURL             string `yaml:"ws_url"`
		RequestTimeoutSec int    `yaml:"request_timeout_sec"`
	} `yaml:"backend"`

	UI struct {
		NotificationTTLSec int `yaml:"notification_ttl_sec"`
	} `yaml:"ui"`

	Journal struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"journal"`

	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"` // "json" or "console"
	} `yaml:"logging"`
}

// LoadConfig reads and parses the configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	overrideWithEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate checks configuration validity.
func (c *Config) Validate() error {
	if !strings.HasPrefix(c.Backend.RestURL, "http://") && !strings.HasPrefix(c.Backend.RestURL, "https://") {
		return fmt.Errorf("invalid backend REST URL: %s", c.Backend.RestURL)
	}
	if !strings.HasPrefix(c.Backend.WSURL, "ws://") && !strings.HasPrefix(c.Backend.WSURL, "wss://") {
		return fmt.Errorf("invalid backend WS URL: %s", c.Backend.WSURL)
	}
	if c.Backend.RequestTimeoutSec <= 0 {
		return fmt.Errorf("request timeout must be positive")
	}
	if c.UI.NotificationTTLSec <= 0 {
		return fmt.Errorf("notification TTL must be positive")
	}
	return nil
}

// overrideWithEnv applies environment overrides where set, so a deployment can
// point at a different backend without editing the config file.
func overrideWithEnv(cfg *Config) {
	if v := os.Getenv("MTCONSOLE_REST_URL"); v != "" {
		cfg.Backend.RestURL = v
	}
	if v := os.Getenv("MTCONSOLE_WS_URL"); v != "" {
		cfg.Backend.WSURL = v
	}
	if v := os.Getenv("MTCONSOLE_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("MTCONSOLE_JOURNAL_PATH"); v != "" {
		cfg.Journal.Path = v
	}
}
