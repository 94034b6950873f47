package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Service ServiceConfig `yaml:"service"`
	Client  ClientConfig  `yaml:"client"`
	Links   LinksConfig   `yaml:"links"`
}

// ServiceConfig points at the hosted data service (PostgREST/GoTrue-style API).
type ServiceConfig struct {
	URL     string `yaml:"url"`
	AnonKey string `yaml:"anon_key"`
}

// ClientConfig holds local client settings.
type ClientConfig struct {
	StateDir string `yaml:"state_dir"`
	LogFile  string `yaml:"log_file"`
}

// LinksConfig lists URL prefixes recognized as deep links into the app.
type LinksConfig struct {
	Prefixes []string `yaml:"prefixes"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
// Env vars use the prefix LIFTLOG_ and underscore-separated paths:
//
//	LIFTLOG_SERVICE_URL, LIFTLOG_SERVICE_ANON_KEY,
//	LIFTLOG_CLIENT_STATE_DIR, LIFTLOG_CLIENT_LOG_FILE
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LIFTLOG_SERVICE_URL"); v != "" {
		cfg.Service.URL = v
	}
	if v := os.Getenv("LIFTLOG_SERVICE_ANON_KEY"); v != "" {
		cfg.Service.AnonKey = v
	}
	if v := os.Getenv("LIFTLOG_CLIENT_STATE_DIR"); v != "" {
		cfg.Client.StateDir = v
	}
	if v := os.Getenv("LIFTLOG_CLIENT_LOG_FILE"); v != "" {
		cfg.Client.LogFile = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Client.StateDir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			cfg.Client.StateDir = filepath.Join(home, ".liftlog")
		}
	}
}

func (c *Config) validate() error {
	if c.Service.URL == "" {
		return fmt.Errorf("service.url is required")
	}
	if c.Service.AnonKey == "" {
		return fmt.Errorf("service.anon_key is required")
	}
	if c.Client.StateDir == "" {
		return fmt.Errorf("client.state_dir is required")
	}
	return nil
}
