// Package inventory provides inventory sources for automation runs.
package inventory

import (
	"fmt"
	"os"
	"strings"

	"platformapi/internal/errors"
)

// Source represents the inventory handed to a single automation run.
// Exactly one Source is active per run.
type Source interface {
	// Path returns the filesystem path of the inventory file
	Path() string

	// Ephemeral reports whether the backing file is request-scoped
	Ephemeral() bool

	// Cleanup releases the backing file if it is request-scoped.
	// Best-effort: errors are swallowed, and calling it more than
	// once is safe.
	Cleanup()
}

// StaticSource is a pre-existing inventory file shared across runs
type StaticSource struct {
	path string
}

// Path returns the static inventory file path
func (s *StaticSource) Path() string { return s.path }

// Ephemeral always returns false for a static source
func (s *StaticSource) Ephemeral() bool { return false }

// Cleanup is a no-op: static inventories outlive individual runs
func (s *StaticSource) Cleanup() {}

// EphemeralSource is a temporary one-host-per-line inventory file whose
// lifetime is exactly one run.
type EphemeralSource struct {
	path    string
	removed bool
}

// Path returns the temporary inventory file path
func (e *EphemeralSource) Path() string { return e.path }

// Ephemeral always returns true for an ephemeral source
func (e *EphemeralSource) Ephemeral() bool { return true }

// Cleanup deletes the temporary file. The run has already produced its
// primary result by the time this is called, so deletion failures are
// not reported.
func (e *EphemeralSource) Cleanup() {
	if e.removed {
		return
	}
	e.removed = true
	_ = os.Remove(e.path)
}

// Build selects the inventory source for one run. When the caller
// supplied explicit hosts (custom), a fresh temporary file is written
// with one host per line in input order, duplicates preserved.
// Otherwise the configured static inventory is used and must exist.
func Build(hosts []string, custom bool, staticPath string) (Source, error) {
	if !custom {
		if _, err := os.Stat(staticPath); err != nil {
			return nil, errors.NewNotFoundError(
				fmt.Sprintf("inventory file not found: %s", staticPath), err)
		}
		return &StaticSource{path: staticPath}, nil
	}

	file, err := os.CreateTemp("", "platformapi-inventory-*.ini")
	if err != nil {
		return nil, errors.NewIOError("failed to create temporary inventory", err)
	}

	var sb strings.Builder
	for _, host := range hosts {
		sb.WriteString(host)
		sb.WriteString("\n")
	}

	if _, err := file.WriteString(sb.String()); err != nil {
		file.Close()
		os.Remove(file.Name())
		return nil, errors.NewIOError("failed to write temporary inventory", err)
	}

	if err := file.Close(); err != nil {
		os.Remove(file.Name())
		return nil, errors.NewIOError("failed to close temporary inventory", err)
	}

	return &EphemeralSource{path: file.Name()}, nil
}
