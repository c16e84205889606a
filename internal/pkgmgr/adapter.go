// Package pkgmgr wraps the external package managers dockup drives:
// Homebrew, MacPorts, npm (global packages), and pip3.
//
// Each manager is exposed through the Adapter interface. Listing commands
// are read-only; update commands may mutate the system and, for MacPorts,
// require the stored sudo credential. Parsing of manager output is
// best-effort: an unexpected output shape yields an empty listing and a
// ParseWarning-wrapped error, never a hard failure.
package pkgmgr

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"
)

// Manager identifies one of the supported package managers.
type Manager string

const (
	Homebrew Manager = "homebrew"
	MacPorts Manager = "macports"
	Npm      Manager = "npm"
	Pip      Manager = "pip"
	Unknown  Manager = "unknown"
)

// Status is the outcome of a single update attempt.
type Status string

const (
	StatusUpdated        Status = "updated"
	StatusAlreadyCurrent Status = "already-current"
	StatusFailed         Status = "failed"
	StatusSkipped        Status = "skipped"
)

// UpdateResult records the outcome of one update attempt. It is created
// once per target and never mutated afterwards.
type UpdateResult struct {
	AppName string
	Manager Manager
	Status  Status
	Message string
}

// OutdatedPackage is one entry from a manager's outdated listing.
type OutdatedPackage struct {
	Name    string
	Manager Manager
	Current string
	Latest  string
}

// ErrParseWarning wraps errors caused by unexpected CLI output. Callers
// treat the listing as empty and log the warning; it is never fatal.
var ErrParseWarning = errors.New("unexpected package manager output")

// ErrManagerNotFound indicates the manager executable is not on PATH.
var ErrManagerNotFound = errors.New("package manager not found")

// commandTimeout bounds a single external manager invocation. Upgrades can
// legitimately take minutes; the bound only guards against a hung tool.
const commandTimeout = 10 * time.Minute

// Adapter is the capability set shared by all manager variants.
type Adapter interface {
	// Manager returns the identity of the wrapped package manager.
	Manager() Manager

	// RequiresElevation reports whether Update needs the sudo credential.
	RequiresElevation() bool

	// IsAvailable reports whether the manager executable resolves on PATH.
	IsAvailable() bool

	// ListOutdated returns packages with pending updates. On parse failure
	// it returns an empty slice and an error wrapping ErrParseWarning.
	ListOutdated(ctx context.Context) ([]OutdatedPackage, error)

	// Update applies the manager's update command for one target, or for
	// everything the manager knows about when target is empty. cred is the
	// sudo secret for elevation-requiring managers and ignored otherwise.
	Update(ctx context.Context, target, cred string) UpdateResult
}

// runner abstracts command resolution and execution so adapters can be
// tested without the real tools installed. The zero value is not usable;
// construct via newRunner.
type runner struct {
	lookPath func(file string) (string, error)
	runCmd   func(ctx context.Context, stdin, name string, args ...string) ([]byte, error)
}

func newRunner() runner {
	return runner{
		lookPath: exec.LookPath,
		runCmd: func(ctx context.Context, stdin, name string, args ...string) ([]byte, error) {
			cmd := exec.CommandContext(ctx, name, args...)
			if stdin != "" {
				cmd.Stdin = strings.NewReader(stdin)
			}
			return cmd.CombinedOutput()
		},
	}
}

// available reports whether the named executable resolves on PATH.
func (r runner) available(name string) bool {
	_, err := r.lookPath(name)
	return err == nil
}

// run executes a command under the standard per-command timeout.
func (r runner) run(ctx context.Context, stdin, name string, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()
	return r.runCmd(ctx, stdin, name, args...)
}

// classifySuccess maps a zero-exit update command to Updated or
// AlreadyCurrent by inspecting its output. The mapping is heuristic string
// matching against known manager phrasing and is deliberately best-effort.
func classifySuccess(output string) Status {
	lower := strings.ToLower(output)
	alreadyCurrent := []string{
		"already up-to-date",
		"already up to date",
		"nothing to upgrade",
		"no outdated ports",
		"up to date in",
	}
	for _, phrase := range alreadyCurrent {
		if strings.Contains(lower, phrase) {
			return StatusAlreadyCurrent
		}
	}
	return StatusUpdated
}

// failureResult builds a Failed result, mapping a context deadline to an
// explicit timeout message.
func failureResult(m Manager, target string, err error, output string) UpdateResult {
	msg := err.Error()
	if errors.Is(err, context.DeadlineExceeded) {
		msg = "command timed out after " + commandTimeout.String()
	} else if trimmed := strings.TrimSpace(output); trimmed != "" {
		msg = msg + ": " + lastLine(trimmed)
	}
	return UpdateResult{AppName: target, Manager: m, Status: StatusFailed, Message: msg}
}

// lastLine returns the final non-empty line of s, a reasonable one-line
// summary of a failed command's output.
func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}
