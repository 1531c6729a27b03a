// Package ping orchestrates host validation, inventory construction,
// automation execution and recap parsing for one ping request.
package ping

import (
	"context"
	"os"

	"platformapi/internal/config"
	"platformapi/internal/errors"
	"platformapi/internal/inventory"
	"platformapi/internal/logging"
	"platformapi/internal/recap"
	"platformapi/internal/runner"
	"platformapi/internal/stats"
	"platformapi/internal/target"
)

// Outcome is the terminal artifact returned to the caller for one
// ping invocation.
type Outcome struct {
	Success     bool          `json:"success"`
	ReturnCode  *int          `json:"returncode,omitempty"`
	Stdout      string        `json:"stdout,omitempty"`
	Stderr      string        `json:"stderr,omitempty"`
	Cmd         string        `json:"cmd,omitempty"`
	PlaySummary recap.Summary `json:"play_summary"`
	Error       string        `json:"error,omitempty"`
}

// failure builds an error outcome. The summary is empty, never null:
// its absence is not a signal.
func failure(cmd string, err error) Outcome {
	return Outcome{
		Success:     false,
		Cmd:         cmd,
		PlaySummary: recap.Summary{},
		Error:       err.Error(),
	}
}

// Service runs the ping pipeline. Each invocation is request-scoped:
// no shared mutable state beyond the statistics tracker.
type Service struct {
	cfg          *config.Config
	opts         runner.Options
	runner       runner.Runner
	logger       *logging.Logger
	tracker      *stats.Tracker
	defaultHosts []string
}

// NewService creates a ping service, resolving the configured default
// host list once at startup.
func NewService(cfg *config.Config, r runner.Runner, logger *logging.Logger, tracker *stats.Tracker) (*Service, error) {
	defaults, err := cfg.DefaultHostList()
	if err != nil {
		return nil, err
	}

	return &Service{
		cfg:          cfg,
		opts:         cfg.RunnerOptions(),
		runner:       r,
		logger:       logger,
		tracker:      tracker,
		defaultHosts: defaults,
	}, nil
}

// Stats returns a snapshot of the accumulated run statistics
func (s *Service) Stats() stats.Snapshot {
	return s.tracker.Snapshot()
}

// Ping validates the supplied hosts, builds an inventory, runs one
// automation process with a bounded timeout, parses the PLAY RECAP
// block and cleans up. Empty input falls back to the configured
// default host list against the static inventory; explicit hosts get
// a request-scoped ephemeral inventory. If some hosts are invalid the
// valid subset still proceeds; the call only fails when no valid host
// remains.
func (s *Service) Ping(ctx context.Context, hosts []string) Outcome {
	custom := len(hosts) > 0
	if !custom {
		hosts = s.defaultHosts
	}

	valid := target.FilterValid(hosts)
	if len(valid) == 0 {
		err := errors.NewValidationError("No valid IPv4 hosts provided", nil)
		s.logger.LogRunError(errors.TypeOf(err).String(), err)
		return failure("", err)
	}

	s.logger.LogPingRequest(len(hosts), len(valid), custom)

	// Playbook existence is checked before any inventory file is
	// created, so a bad playbook path never leaves temp files behind.
	if _, err := os.Stat(s.cfg.Playbook); err != nil {
		nf := errors.NewNotFoundError("playbook not found: "+s.cfg.Playbook, err)
		s.logger.LogRunError(errors.TypeOf(nf).String(), nf)
		return failure("", nf)
	}

	source, err := inventory.Build(valid, custom, s.cfg.Inventory)
	if err != nil {
		s.logger.LogRunError(errors.TypeOf(err).String(), err)
		return failure("", err)
	}
	defer source.Cleanup()

	spec, err := runner.BuildCommand(s.opts, source.Path(), s.cfg.Playbook)
	if err != nil {
		s.logger.LogRunError(errors.TypeOf(err).String(), err)
		return failure("", err)
	}

	result, err := s.runner.Run(ctx, spec, s.cfg.RunTimeout)
	if err != nil {
		s.tracker.Record(false, 0, nil)
		s.logger.LogRunError(errors.TypeOf(err).String(), err)
		return failure(spec.CommandLine(), err)
	}

	summary := recap.Parse(result.Stdout)
	success := result.ExitCode == 0

	s.tracker.Record(success, result.Duration, summary)
	s.logger.LogRunCompleted(result.ExitCode, len(summary), result.Duration)

	code := result.ExitCode
	return Outcome{
		Success:     success,
		ReturnCode:  &code,
		Stdout:      result.Stdout,
		Stderr:      result.Stderr,
		Cmd:         spec.CommandLine(),
		PlaySummary: summary,
	}
}
