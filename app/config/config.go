package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"tasklist/app/services"
)

const (
	// DefaultPort is the port the API listens on when PORT is unset.
	DefaultPort = 5001

	// DefaultAPIURL is the base URL the client talks to when no override is set.
	DefaultAPIURL = "http://localhost:5001/api"
)

// Config holds server settings.
type Config struct {
	Port            int                 `yaml:"port"`
	LogLevel        string              `yaml:"log_level"`
	LogFormat       string              `yaml:"log_format"`
	ShutdownTimeout time.Duration       `yaml:"shutdown_timeout"`
	Seed            []services.SeedTask `yaml:"seed"`
}

// Default returns the server configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		Port:            DefaultPort,
		LogLevel:        "info",
		LogFormat:       "text",
		ShutdownTimeout: 5 * time.Second,
		Seed:            services.DefaultSeed,
	}
}

// Load builds the server configuration from defaults, an optional YAML file
// and the environment, in that order. An empty path falls back to TODO_CONFIG.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = strings.TrimSpace(os.Getenv("TODO_CONFIG"))
	}
	if path != "" {
		if err := loadFile(cfg, path); err != nil {
			return nil, err
		}
	}

	if err := loadEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(cfg *Config, path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func loadEnv(cfg *Config) error {
	if v := strings.TrimSpace(os.Getenv("PORT")); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		cfg.Port = port
	}
	if v := strings.TrimSpace(os.Getenv("LOG_LEVEL")); v != "" {
		cfg.LogLevel = v
	}
	if v := strings.TrimSpace(os.Getenv("LOG_FORMAT")); v != "" {
		cfg.LogFormat = v
	}
	return nil
}

// Validate checks the settings that would otherwise fail late.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port out of range: %d", c.Port)
	}
	if c.ShutdownTimeout <= 0 {
		return errors.New("shutdown_timeout must be positive")
	}
	return nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

// ClientConfig holds settings for the terminal client.
type ClientConfig struct {
	APIURL   string
	LogFile  string
	LogLevel string
}

// LoadClient reads the client settings from the environment.
// TODO_API_URL wins over REACT_APP_API_URL, which is honored for
// compatibility with existing deployments.
func LoadClient() ClientConfig {
	cfg := ClientConfig{
		APIURL:   DefaultAPIURL,
		LogLevel: "info",
	}
	for _, key := range []string{"TODO_API_URL", "REACT_APP_API_URL"} {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			cfg.APIURL = v
			break
		}
	}
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")
	if v := strings.TrimSpace(os.Getenv("TODO_LOG_FILE")); v != "" {
		cfg.LogFile = v
	}
	if v := strings.TrimSpace(os.Getenv("LOG_LEVEL")); v != "" {
		cfg.LogLevel = v
	}
	return cfg
}
