package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Listen:        ":8080",
		AnsibleBinary: "ansible-playbook",
		Playbook:      "playbooks/ping.yml",
		Inventory:     "inventory/hosts.ini",
		RemoteUser:    "ec2-user",
		PrivateKey:    "/home/ec2-user/.ssh/id_rsa",
		SSHExtraArgs:  "-o StrictHostKeyChecking=no -o UserKnownHostsFile=/dev/null",
		RunTimeout:    120 * time.Second,
		LogLevel:      "info",
		LogFormat:     "text",
	}
}

func TestValidateAcceptsDefaults(t *testing.T) {
	m := NewManager()
	require.NoError(t, m.Validate(validConfig()))
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty listen", func(c *Config) { c.Listen = "" }},
		{"empty binary", func(c *Config) { c.AnsibleBinary = "" }},
		{"empty playbook", func(c *Config) { c.Playbook = "" }},
		{"empty inventory", func(c *Config) { c.Inventory = "" }},
		{"empty remote user", func(c *Config) { c.RemoteUser = "" }},
		{"zero timeout", func(c *Config) { c.RunTimeout = 0 }},
		{"negative timeout", func(c *Config) { c.RunTimeout = -time.Second }},
		{"bad log level", func(c *Config) { c.LogLevel = "debug" }},
		{"bad log format", func(c *Config) { c.LogFormat = "xml" }},
	}

	m := NewManager()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			require.Error(t, m.Validate(cfg))
		})
	}
}

// chdir mirrors testing.T.Chdir, which is unavailable before Go 1.24.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestLoadDefaults(t *testing.T) {
	// Run from an empty directory so no config file is picked up
	chdir(t, t.TempDir())

	cfg, err := NewManager().Load()
	require.NoError(t, err)

	require.Equal(t, ":8080", cfg.Listen)
	require.Equal(t, "ansible-playbook", cfg.AnsibleBinary)
	require.Equal(t, "playbooks/ping.yml", cfg.Playbook)
	require.Equal(t, "ec2-user", cfg.RemoteUser)
	require.Equal(t, 120*time.Second, cfg.RunTimeout)
	require.Equal(t, "info", cfg.LogLevel)
}

func TestLoadEnvOverride(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("PLATFORM_API_LISTEN", ":9090")
	t.Setenv("PLATFORM_API_REMOTE_USER", "deploy")

	cfg, err := NewManager().Load()
	require.NoError(t, err)

	require.Equal(t, ":9090", cfg.Listen)
	require.Equal(t, "deploy", cfg.RemoteUser)
}

func TestRunnerOptions(t *testing.T) {
	cfg := validConfig()
	opts := cfg.RunnerOptions()

	require.Equal(t, cfg.AnsibleBinary, opts.Binary)
	require.Equal(t, cfg.RemoteUser, opts.RemoteUser)
	require.Equal(t, cfg.PrivateKey, opts.PrivateKey)
	require.Equal(t, cfg.SSHExtraArgs, opts.SSHExtraArgs)
}

func TestDefaultHostListInline(t *testing.T) {
	cfg := validConfig()
	cfg.DefaultHosts = "10.0.0.1, 10.0.0.2"

	hosts, err := cfg.DefaultHostList()
	require.NoError(t, err)
	require.Equal(t, []string{"10.0.0.1", "10.0.0.2"}, hosts)
}

func TestDefaultHostListFromYAMLInventory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.yml")
	require.NoError(t, os.WriteFile(path, []byte("all:\n  hosts:\n    10.0.0.5:\n"), 0o644))

	cfg := validConfig()
	cfg.HostsFile = path

	hosts, err := cfg.DefaultHostList()
	require.NoError(t, err)
	require.Equal(t, []string{"10.0.0.5"}, hosts)
}

func TestDefaultHostListEmpty(t *testing.T) {
	cfg := validConfig()
	hosts, err := cfg.DefaultHostList()
	require.NoError(t, err)
	require.Empty(t, hosts)
}
