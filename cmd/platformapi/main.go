package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"platformapi/internal/config"
	"platformapi/internal/logging"
	"platformapi/internal/ping"
	"platformapi/internal/runner"
	"platformapi/internal/server"
	"platformapi/internal/stats"
)

var (
	// Build-time variables (set via -ldflags)
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"

	// Global configuration
	cfg *config.Config

	// CLI flags
	listen        string
	playbook      string
	inventoryPath string
	defaultHosts  string
	hostsFile     string
	ansibleBinary string
	remoteUser    string
	privateKey    string
	sshExtraArgs  string
	runTimeout    time.Duration
	logLevel      string
	logFormat     string
	quiet         bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(getExitCode(err))
	}
}

var rootCmd = &cobra.Command{
	Use:   "platformapi",
	Short: "Demo platform service that pings hosts via ansible-playbook",
	Long: `platformapi serves a login page, a dashboard, a health check, a
Prometheus metrics endpoint and a ping API that runs ansible-playbook
against a set of IPv4 hosts and returns the parsed PLAY RECAP counters.

Examples:
  # Serve with defaults (:8080, playbooks/ping.yml)
  platformapi

  # Serve with an explicit playbook and static inventory
  platformapi --playbook playbooks/ping.yml --inventory inventory/hosts.ini

  # Override the default host list
  platformapi --default-hosts "10.0.0.1,10.0.0.2"`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// A .env file, when present, feeds the environment before viper reads it
		_ = godotenv.Load()

		// Load configuration from all sources
		configManager := config.NewManager()
		loadedCfg, err := configManager.Load()
		if err != nil {
			return &SetupError{Message: fmt.Sprintf("failed to load configuration: %v", err)}
		}
		cfg = loadedCfg

		// Override config with CLI flags if provided
		if err := overrideConfigWithFlags(cmd); err != nil {
			return &SetupError{Message: fmt.Sprintf("failed to apply CLI flags: %v", err)}
		}

		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
}

func init() {
	// Add version command
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("platformapi %s\n", version)
			fmt.Printf("Commit: %s\n", commit)
			fmt.Printf("Built: %s\n", buildTime)
		},
	}
	rootCmd.AddCommand(versionCmd)

	// Add all CLI flags
	rootCmd.Flags().StringVar(&listen, "listen", ":8080", "HTTP listen address")
	rootCmd.Flags().StringVar(&playbook, "playbook", "playbooks/ping.yml", "Playbook path for ping runs")
	rootCmd.Flags().StringVar(&inventoryPath, "inventory", "inventory/hosts.ini", "Static inventory file path")
	rootCmd.Flags().StringVar(&defaultHosts, "default-hosts", "", "Comma-separated default host list")
	rootCmd.Flags().StringVar(&hostsFile, "hosts-file", "", "YAML inventory file supplying the default host list")
	rootCmd.Flags().StringVar(&ansibleBinary, "ansible-binary", "ansible-playbook", "Automation binary name or path")
	rootCmd.Flags().StringVar(&remoteUser, "remote-user", "ec2-user", "Connection user for automation runs")
	rootCmd.Flags().StringVar(&privateKey, "private-key", "/home/ec2-user/.ssh/id_rsa", "Private key path for automation runs")
	rootCmd.Flags().StringVar(&sshExtraArgs, "ssh-extra-args", "-o StrictHostKeyChecking=no -o UserKnownHostsFile=/dev/null", "Extra SSH options for automation runs")
	rootCmd.Flags().DurationVar(&runTimeout, "run-timeout", 120*time.Second, "Wall-clock timeout per automation run")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (info, error)")
	rootCmd.Flags().StringVar(&logFormat, "log-format", "text", "Log format (json, text)")
	rootCmd.Flags().BoolVar(&quiet, "quiet", false, "Suppress non-error output")
}

func overrideConfigWithFlags(cmd *cobra.Command) error {
	// Override configuration with CLI flags if they were explicitly set
	if cmd.Flags().Changed("listen") {
		cfg.Listen = listen
	}
	if cmd.Flags().Changed("playbook") {
		cfg.Playbook = playbook
	}
	if cmd.Flags().Changed("inventory") {
		cfg.Inventory = inventoryPath
	}
	if cmd.Flags().Changed("default-hosts") {
		cfg.DefaultHosts = defaultHosts
	}
	if cmd.Flags().Changed("hosts-file") {
		cfg.HostsFile = hostsFile
	}
	if cmd.Flags().Changed("ansible-binary") {
		cfg.AnsibleBinary = ansibleBinary
	}
	if cmd.Flags().Changed("remote-user") {
		cfg.RemoteUser = remoteUser
	}
	if cmd.Flags().Changed("private-key") {
		cfg.PrivateKey = privateKey
	}
	if cmd.Flags().Changed("ssh-extra-args") {
		cfg.SSHExtraArgs = sshExtraArgs
	}
	if cmd.Flags().Changed("run-timeout") {
		cfg.RunTimeout = runTimeout
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if cmd.Flags().Changed("log-format") {
		cfg.LogFormat = logFormat
	}
	if cmd.Flags().Changed("quiet") {
		cfg.Quiet = quiet
	}

	// Validate the final configuration
	configManager := config.NewManager()
	if err := configManager.Validate(cfg); err != nil {
		return &SetupError{Message: fmt.Sprintf("configuration validation failed: %v", err)}
	}

	return nil
}

func serve() error {
	logger := logging.NewLoggerFromConfig(cfg.LogLevel, cfg.LogFormat, cfg.Quiet)
	logger.LogConfigLoad("CLI flags and configuration files")

	tracker := stats.NewTracker()
	svc, err := ping.NewService(cfg, runner.NewRunner(), logger, tracker)
	if err != nil {
		logger.LogConfigError("default hosts", err)
		return &SetupError{Message: fmt.Sprintf("failed to initialize ping service: %v", err)}
	}

	srv, err := server.New(cfg, svc, logger)
	if err != nil {
		return &SetupError{Message: fmt.Sprintf("failed to initialize server: %v", err)}
	}

	// Set up graceful shutdown handling for SIGINT/SIGTERM
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case sig := <-sigChan:
			logger.Info("Received shutdown signal, stopping server", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
	}()

	if err := srv.Run(ctx); err != nil {
		return &ServeError{Message: fmt.Sprintf("server failed: %v", err)}
	}

	return nil
}

// ServeError represents a runtime server failure (exit code 1)
type ServeError struct {
	Message string
}

func (e *ServeError) Error() string {
	return e.Message
}

// SetupError represents an error during setup/configuration (exit code 2)
type SetupError struct {
	Message string
}

func (e *SetupError) Error() string {
	return e.Message
}

// getExitCode determines the appropriate exit code based on error type
// Returns:
//   - 0: Success
//   - 1: Server runtime failure
//   - 2: Setup error (invalid arguments, configuration issues, etc.)
func getExitCode(err error) int {
	if err == nil {
		return 0
	}

	switch err.(type) {
	case *SetupError:
		return 2
	case *ServeError:
		return 1
	default:
		return 2
	}
}
