// Package config loads the optional kali-mcp YAML configuration file.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/tb0hdan/kali-mcp/pkg/registry"
	"github.com/tb0hdan/kali-mcp/pkg/runner"
	"gopkg.in/yaml.v3"
)

const (
	DefaultBind     = "localhost:8989"
	DefaultDatabase = "build/kali-mcp.db"
)

type Config struct {
	Server ServerConfig          `yaml:"server"`
	Log    LogConfig             `yaml:"log"`
	Runner RunnerConfig          `yaml:"runner"`
	Tools  map[string]ToolConfig `yaml:"tools,omitempty" validate:"dive"`
}

type ServerConfig struct {
	Bind string `yaml:"bind" validate:"required,hostname_port"`
	// Database is the SQLite audit log path. Empty disables auditing.
	Database      string `yaml:"database"`
	Stateless     bool   `yaml:"stateless"`
	OnlyAvailable bool   `yaml:"only_available"`
}

type LogConfig struct {
	Level   string `yaml:"level" validate:"oneof=trace debug info warn error"`
	Console bool   `yaml:"console"`
}

type RunnerConfig struct {
	DefaultTimeout time.Duration `yaml:"default_timeout" validate:"gt=0"`
	WaitDelay      time.Duration `yaml:"wait_delay" validate:"gte=0"`
	// SweepConcurrency bounds how many recon_sweep steps run at once.
	SweepConcurrency int `yaml:"sweep_concurrency" validate:"min=1,max=16"`
}

// ToolConfig overrides one entry of the built-in tool catalog.
type ToolConfig struct {
	Binary   string        `yaml:"binary,omitempty"`
	Timeout  time.Duration `yaml:"timeout,omitempty" validate:"gte=0"`
	Disabled bool          `yaml:"disabled,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Bind:      DefaultBind,
			Database:  DefaultDatabase,
			Stateless: true,
		},
		Log: LogConfig{
			Level: "info",
		},
		Runner: RunnerConfig{
			DefaultTimeout:   runner.DefaultTimeout,
			WaitDelay:        runner.DefaultWaitDelay,
			SweepConcurrency: 3,
		},
	}
}

// Load reads path on top of the defaults. An empty path or a missing file
// yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if bind := os.Getenv("KALI_MCP_BIND"); bind != "" {
		c.Server.Bind = bind
	}
	if path, ok := os.LookupEnv("KALI_MCP_DATABASE"); ok {
		c.Server.Database = path
	}
	if level := os.Getenv("KALI_MCP_LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// ToolOverrides converts the tools section into registry overrides.
func (c *Config) ToolOverrides() map[string]registry.Override {
	if len(c.Tools) == 0 {
		return nil
	}
	overrides := make(map[string]registry.Override, len(c.Tools))
	for id, tool := range c.Tools {
		overrides[id] = registry.Override{
			Binary:   tool.Binary,
			Timeout:  tool.Timeout,
			Disabled: tool.Disabled,
		}
	}
	return overrides
}
