// Package config loads the stone2sgf settings file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"go.uber.org/multierr"

	"github.com/ironsheep/stone2sgf/internal/pipeline"
	"github.com/ironsheep/stone2sgf/internal/remote"
)

// LogLevelEnv overrides LogLevel when set.
const LogLevelEnv = "STONE2SGF_LOG_LEVEL"

// Config holds runtime configuration for recognition and the binary.
// Fields are loaded from a JSON file; missing fields keep their defaults.
type Config struct {
	// Strategy selects the recognizer: "vision" or "remote".
	Strategy pipeline.Strategy `json:"strategy"`
	LogLevel string            `json:"log_level"`

	Vision pipeline.Config `json:"vision"`
	Remote Remote          `json:"remote"`
}

// Remote configures the delegated recognizer. The key itself is never
// stored in the file, only the name of the variable holding it.
type Remote struct {
	Endpoint  string `json:"endpoint"`
	Model     string `json:"model"`
	APIKeyEnv string `json:"api_key_env"`
	MaxTokens int    `json:"max_tokens"`
}

// DefaultConfig returns a Config populated with standard defaults.
func DefaultConfig() *Config {
	return &Config{
		Strategy: pipeline.StrategyVision,
		LogLevel: "info",
		Vision:   pipeline.DefaultConfig(),
		Remote: Remote{
			Endpoint:  remote.DefaultEndpoint,
			Model:     remote.DefaultModel,
			APIKeyEnv: "ANTHROPIC_API_KEY",
			MaxTokens: remote.DefaultMaxTokens,
		},
	}
}

// Validate reports every invalid field.
func (c *Config) Validate() error {
	var err error
	switch c.Strategy {
	case pipeline.StrategyVision, pipeline.StrategyRemote:
	default:
		err = multierr.Append(err, fmt.Errorf("strategy must be %q or %q, got %q",
			pipeline.StrategyVision, pipeline.StrategyRemote, c.Strategy))
	}
	if _, lerr := zerolog.ParseLevel(strings.ToLower(c.LogLevel)); lerr != nil {
		err = multierr.Append(err, fmt.Errorf("log_level: %w", lerr))
	}
	if c.Remote.MaxTokens < 0 {
		err = multierr.Append(err, fmt.Errorf("remote max_tokens must not be negative, got %d", c.Remote.MaxTokens))
	}
	if c.Strategy == pipeline.StrategyRemote && c.Remote.APIKeyEnv == "" {
		err = multierr.Append(err, fmt.Errorf("remote api_key_env must name a variable"))
	}
	return multierr.Append(err, c.Vision.Validate())
}

// Level returns the log level, honouring LogLevelEnv.
func (c *Config) Level() zerolog.Level {
	name := c.LogLevel
	if env := os.Getenv(LogLevelEnv); env != "" {
		name = env
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(name))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// RemoteOptions resolves the remote settings, reading the API key from the
// environment.
func (c *Config) RemoteOptions() remote.Options {
	return remote.Options{
		Endpoint:  c.Remote.Endpoint,
		Model:     c.Remote.Model,
		APIKey:    os.Getenv(c.Remote.APIKeyEnv),
		MaxTokens: c.Remote.MaxTokens,
	}
}

// Load reads configuration from the JSON file at path. A missing file
// yields DefaultConfig(). The result is validated.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration to path as indented JSON.
func (c *Config) Save(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}
