package ping

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"platformapi/internal/config"
	"platformapi/internal/errors"
	"platformapi/internal/logging"
	"platformapi/internal/runner"
	"platformapi/internal/stats"
)

// fakeRunner records the invocation and returns a canned result. It
// reads the inventory file at run time, since the real one is deleted
// before Ping returns.
type fakeRunner struct {
	result *runner.Result
	err    error

	called       bool
	spec         runner.CommandSpec
	timeout      time.Duration
	invPath      string
	invContents  string
	invWasOnDisk bool
}

func (f *fakeRunner) Run(_ context.Context, spec runner.CommandSpec, timeout time.Duration) (*runner.Result, error) {
	f.called = true
	f.spec = spec
	f.timeout = timeout
	f.invPath = spec.Args[1]

	if content, err := os.ReadFile(f.invPath); err == nil {
		f.invWasOnDisk = true
		f.invContents = string(content)
	}

	return f.result, f.err
}

const recapStdout = `PLAY RECAP *********************************************************
10.0.0.1 : ok=2    changed=1    unreachable=0    failed=0    skipped=0    rescued=0    ignored=0

`

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()

	playbook := filepath.Join(dir, "ping.yml")
	require.NoError(t, os.WriteFile(playbook, []byte("- hosts: all\n  tasks:\n    - ping:\n"), 0o644))

	inventory := filepath.Join(dir, "hosts.ini")
	require.NoError(t, os.WriteFile(inventory, []byte("10.0.0.1\n"), 0o644))

	return &config.Config{
		Listen:        ":8080",
		AnsibleBinary: "ansible-playbook",
		Playbook:      playbook,
		Inventory:     inventory,
		DefaultHosts:  "10.0.0.1",
		RemoteUser:    "ec2-user",
		PrivateKey:    "/home/ec2-user/.ssh/id_rsa",
		SSHExtraArgs:  "-o StrictHostKeyChecking=no -o UserKnownHostsFile=/dev/null",
		RunTimeout:    120 * time.Second,
		LogLevel:      "error",
		LogFormat:     "text",
		Quiet:         true,
	}
}

func newTestService(t *testing.T, cfg *config.Config, r runner.Runner) *Service {
	t.Helper()
	logger := logging.NewLoggerFromConfig(cfg.LogLevel, cfg.LogFormat, cfg.Quiet)
	svc, err := NewService(cfg, r, logger, stats.NewTracker())
	require.NoError(t, err)
	return svc
}

func TestPingSuccess(t *testing.T) {
	cfg := testConfig(t)
	fake := &fakeRunner{result: &runner.Result{ExitCode: 0, Stdout: recapStdout, Duration: time.Second}}
	svc := newTestService(t, cfg, fake)

	outcome := svc.Ping(context.Background(), []string{"10.0.0.1"})

	require.True(t, outcome.Success)
	require.NotNil(t, outcome.ReturnCode)
	require.Equal(t, 0, *outcome.ReturnCode)
	require.Equal(t, recapStdout, outcome.Stdout)
	require.Equal(t, fake.spec.CommandLine(), outcome.Cmd)
	require.Equal(t, 2, outcome.PlaySummary["10.0.0.1"]["ok"])
	require.Equal(t, 120*time.Second, fake.timeout)
}

func TestPingExplicitHostsUseEphemeralInventory(t *testing.T) {
	cfg := testConfig(t)
	fake := &fakeRunner{result: &runner.Result{ExitCode: 0, Stdout: recapStdout}}
	svc := newTestService(t, cfg, fake)

	svc.Ping(context.Background(), []string{"10.0.0.2", "10.0.0.3"})

	require.True(t, fake.invWasOnDisk)
	require.NotEqual(t, cfg.Inventory, fake.invPath)
	require.Equal(t, "10.0.0.2\n10.0.0.3\n", fake.invContents)

	// Ephemeral inventory never outlives the invocation
	_, err := os.Stat(fake.invPath)
	require.True(t, os.IsNotExist(err))
}

func TestPingEphemeralCleanupOnRunnerError(t *testing.T) {
	cfg := testConfig(t)
	fake := &fakeRunner{err: errors.NewTimeoutError("ansible-playbook timed out after 2m0s", nil)}
	svc := newTestService(t, cfg, fake)

	outcome := svc.Ping(context.Background(), []string{"10.0.0.2"})

	require.False(t, outcome.Success)
	require.Nil(t, outcome.ReturnCode)
	require.Contains(t, outcome.Error, "timed out")
	require.NotEmpty(t, outcome.Cmd)

	_, err := os.Stat(fake.invPath)
	require.True(t, os.IsNotExist(err))
}

func TestPingDefaultHostsUseStaticInventory(t *testing.T) {
	cfg := testConfig(t)
	fake := &fakeRunner{result: &runner.Result{ExitCode: 0, Stdout: recapStdout}}
	svc := newTestService(t, cfg, fake)

	outcome := svc.Ping(context.Background(), nil)

	require.True(t, outcome.Success)
	require.Equal(t, cfg.Inventory, fake.invPath)

	// The static inventory survives the run
	_, err := os.Stat(cfg.Inventory)
	require.NoError(t, err)
}

func TestPingAllHostsInvalid(t *testing.T) {
	cfg := testConfig(t)
	fake := &fakeRunner{}
	svc := newTestService(t, cfg, fake)

	outcome := svc.Ping(context.Background(), []string{"bad", "also-bad", "999.1.1.1"})

	require.False(t, outcome.Success)
	require.Equal(t, "No valid IPv4 hosts provided", outcome.Error)
	// No process execution, no file creation
	require.False(t, fake.called)
}

func TestPingPartialInvalidProceedsWithValidSubset(t *testing.T) {
	cfg := testConfig(t)
	fake := &fakeRunner{result: &runner.Result{ExitCode: 0, Stdout: recapStdout}}
	svc := newTestService(t, cfg, fake)

	outcome := svc.Ping(context.Background(), []string{"10.0.0.1", "bad", "10.0.0.2"})

	require.True(t, outcome.Success)
	require.Equal(t, "10.0.0.1\n10.0.0.2\n", fake.invContents)
}

func TestPingInjectionAttemptsNeverReachTheCommand(t *testing.T) {
	cfg := testConfig(t)
	fake := &fakeRunner{result: &runner.Result{ExitCode: 0, Stdout: recapStdout}}
	svc := newTestService(t, cfg, fake)

	svc.Ping(context.Background(), []string{"10.0.0.1", "; rm -rf /", "--forks 9000"})

	for _, arg := range fake.spec.Args {
		require.NotContains(t, arg, "rm -rf")
		require.NotContains(t, arg, "--forks")
	}
	require.Equal(t, "10.0.0.1\n", fake.invContents)
}

func TestPingMissingPlaybook(t *testing.T) {
	cfg := testConfig(t)
	cfg.Playbook = filepath.Join(t.TempDir(), "missing.yml")
	fake := &fakeRunner{}
	svc := newTestService(t, cfg, fake)

	outcome := svc.Ping(context.Background(), []string{"10.0.0.1"})

	require.False(t, outcome.Success)
	require.Contains(t, outcome.Error, "playbook not found")
	require.False(t, fake.called)
}

func TestPingMissingStaticInventory(t *testing.T) {
	cfg := testConfig(t)
	cfg.Inventory = filepath.Join(t.TempDir(), "missing.ini")
	fake := &fakeRunner{}
	svc := newTestService(t, cfg, fake)

	outcome := svc.Ping(context.Background(), nil)

	require.False(t, outcome.Success)
	require.Contains(t, outcome.Error, "inventory file not found")
	require.False(t, fake.called)
}

func TestPingNonZeroExit(t *testing.T) {
	cfg := testConfig(t)
	fake := &fakeRunner{result: &runner.Result{
		ExitCode: 2,
		Stdout: `PLAY RECAP *********************************************************
10.0.0.1 : ok=0    changed=0    unreachable=1    failed=0
`,
		Stderr: "unreachable\n",
	}}
	svc := newTestService(t, cfg, fake)

	outcome := svc.Ping(context.Background(), []string{"10.0.0.1"})

	require.False(t, outcome.Success)
	require.NotNil(t, outcome.ReturnCode)
	require.Equal(t, 2, *outcome.ReturnCode)
	require.Empty(t, outcome.Error)
	require.Equal(t, 1, outcome.PlaySummary["10.0.0.1"]["unreachable"])
}

func TestPingNoRecapYieldsEmptySummary(t *testing.T) {
	cfg := testConfig(t)
	fake := &fakeRunner{result: &runner.Result{ExitCode: 0, Stdout: "nothing useful\n"}}
	svc := newTestService(t, cfg, fake)

	outcome := svc.Ping(context.Background(), []string{"10.0.0.1"})

	require.True(t, outcome.Success)
	require.NotNil(t, outcome.PlaySummary)
	require.Empty(t, outcome.PlaySummary)
}

func TestPingRecordsStats(t *testing.T) {
	cfg := testConfig(t)
	fake := &fakeRunner{result: &runner.Result{ExitCode: 0, Stdout: recapStdout, Duration: time.Second}}
	svc := newTestService(t, cfg, fake)

	svc.Ping(context.Background(), []string{"10.0.0.1"})
	fake.result = &runner.Result{ExitCode: 4}
	svc.Ping(context.Background(), []string{"10.0.0.1"})

	snapshot := svc.Stats()
	require.Equal(t, 2, snapshot.TotalRuns)
	require.Equal(t, 1, snapshot.Successes)
	require.Equal(t, 1, snapshot.Failures)
	require.False(t, snapshot.LastSuccess)
}
