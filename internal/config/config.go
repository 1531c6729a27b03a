// Package config provides configuration management for platformapi.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"platformapi/internal/inventory"
	"platformapi/internal/runner"
	"platformapi/internal/target"
)

// Config represents the application configuration structure
type Config struct {
	Listen        string        `mapstructure:"listen"`         // HTTP listen address
	AnsibleBinary string        `mapstructure:"ansible-binary"` // Automation binary name or path
	Playbook      string        `mapstructure:"playbook"`       // Playbook path for ping runs
	Inventory     string        `mapstructure:"inventory"`      // Static inventory file path
	DefaultHosts  string        `mapstructure:"default-hosts"`  // Comma-separated default host list
	HostsFile     string        `mapstructure:"hosts-file"`     // YAML inventory supplying default hosts
	RemoteUser    string        `mapstructure:"remote-user"`    // Connection user for automation runs
	PrivateKey    string        `mapstructure:"private-key"`    // Private key path for automation runs
	SSHExtraArgs  string        `mapstructure:"ssh-extra-args"` // Extra SSH options for automation runs
	RunTimeout    time.Duration `mapstructure:"run-timeout"`    // Wall-clock timeout per automation run
	LogLevel      string        `mapstructure:"log-level"`      // Log level (info, error)
	LogFormat     string        `mapstructure:"log-format"`     // Log format (json, text)
	Quiet         bool          `mapstructure:"quiet"`          // Suppress non-error output
}

// RunnerOptions converts the fixed invocation settings into runner
// options. These are configuration constants, not request-controlled.
func (c *Config) RunnerOptions() runner.Options {
	return runner.Options{
		Binary:       c.AnsibleBinary,
		RemoteUser:   c.RemoteUser,
		PrivateKey:   c.PrivateKey,
		SSHExtraArgs: c.SSHExtraArgs,
	}
}

// DefaultHostList resolves the default host list: the inline
// comma-separated list wins, then the YAML inventory file, then empty.
func (c *Config) DefaultHostList() ([]string, error) {
	if c.DefaultHosts != "" {
		return target.ParseHostsString(c.DefaultHosts), nil
	}
	if c.HostsFile != "" {
		hosts, err := inventory.LoadDefaultHosts(c.HostsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load default hosts: %w", err)
		}
		return hosts, nil
	}
	return nil, nil
}

// Manager defines the interface for configuration management
type Manager interface {
	// Load reads configuration from all sources (files, env vars)
	Load() (*Config, error)

	// SetDefaults establishes default configuration values
	SetDefaults()

	// Validate ensures configuration values are valid and consistent
	Validate(config *Config) error
}

// ViperManager implements the Manager interface using Viper
type ViperManager struct {
	v *viper.Viper
}

// NewManager creates a new configuration manager
func NewManager() Manager {
	return &ViperManager{
		v: viper.New(),
	}
}

// SetDefaults establishes default configuration values
func (m *ViperManager) SetDefaults() {
	m.v.SetDefault("listen", ":8080")
	m.v.SetDefault("ansible-binary", "ansible-playbook")
	m.v.SetDefault("playbook", "playbooks/ping.yml")
	m.v.SetDefault("inventory", "inventory/hosts.ini")
	m.v.SetDefault("default-hosts", "")
	m.v.SetDefault("hosts-file", "")
	m.v.SetDefault("remote-user", "ec2-user")
	m.v.SetDefault("private-key", "/home/ec2-user/.ssh/id_rsa")
	m.v.SetDefault("ssh-extra-args", "-o StrictHostKeyChecking=no -o UserKnownHostsFile=/dev/null")
	m.v.SetDefault("run-timeout", 120*time.Second)
	m.v.SetDefault("log-level", "info")
	m.v.SetDefault("log-format", "text")
	m.v.SetDefault("quiet", false)
}

// Load reads configuration from all sources with proper precedence
func (m *ViperManager) Load() (*Config, error) {
	// Set defaults first
	m.SetDefaults()

	// Configure config file locations and formats
	m.v.SetConfigName("config")

	// Add config paths in precedence order (current dir highest, system lowest)
	m.v.AddConfigPath(".")

	if homeDir, err := os.UserHomeDir(); err == nil {
		m.v.AddConfigPath(filepath.Join(homeDir, ".config", "platformapi"))
	}

	m.v.AddConfigPath("/etc/platformapi/")

	// Set up environment variable handling
	m.v.SetEnvPrefix("PLATFORM_API")
	m.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	m.v.AutomaticEnv()

	// Try to read config file with multiple formats
	formats := []string{"yaml", "yml", "json", "toml"}

	for _, format := range formats {
		m.v.SetConfigType(format)
		if err := m.v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("error reading %s config file: %w", format, err)
			}
		} else {
			break
		}
	}

	// Unmarshal into Config struct
	var config Config
	if err := m.v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Validate the configuration
	if err := m.Validate(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// Validate ensures configuration values are valid and consistent
func (m *ViperManager) Validate(config *Config) error {
	if config.Listen == "" {
		return fmt.Errorf("listen address cannot be empty")
	}

	if config.AnsibleBinary == "" {
		return fmt.Errorf("ansible-binary cannot be empty")
	}

	if config.Playbook == "" {
		return fmt.Errorf("playbook path cannot be empty")
	}

	if config.Inventory == "" {
		return fmt.Errorf("inventory path cannot be empty")
	}

	if config.RemoteUser == "" {
		return fmt.Errorf("remote-user cannot be empty")
	}

	if config.RunTimeout <= 0 {
		return fmt.Errorf("run-timeout must be positive, got %v", config.RunTimeout)
	}

	validLogLevels := map[string]bool{
		"info":  true,
		"error": true,
	}
	if !validLogLevels[config.LogLevel] {
		return fmt.Errorf("invalid log level '%s': must be one of 'info' or 'error'", config.LogLevel)
	}

	validLogFormats := map[string]bool{
		"json": true,
		"text": true,
	}
	if !validLogFormats[config.LogFormat] {
		return fmt.Errorf("invalid log format '%s': must be one of 'json' or 'text'", config.LogFormat)
	}

	return nil
}
