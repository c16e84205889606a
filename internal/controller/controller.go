// Package controller orchestrates dockup's update flow: scan the Dock,
// run the matching package manager adapters over the selected targets,
// stream results to the log, and drive the post-batch auto-close
// countdown.
package controller

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/blackwell-systems/dockup/internal/dock"
	"github.com/blackwell-systems/dockup/internal/keychain"
	"github.com/blackwell-systems/dockup/internal/logging"
	"github.com/blackwell-systems/dockup/internal/pkgmgr"
)

// State is the controller's position in the update flow.
type State string

const (
	StateIdle              State = "idle"
	StateScanning          State = "scanning"
	StateAwaitingSelection State = "awaiting-selection"
	StateRunning           State = "running"
	StateCountingDown      State = "counting-down"
	StateClosed            State = "closed"
)

// ErrBusy is returned when a scan or run is requested while another
// exclusive operation is in progress.
var ErrBusy = errors.New("an operation is already in progress")

// ErrCredentialRequired is returned when a batch contains an
// elevation-requiring target and no credential is stored.
var ErrCredentialRequired = errors.New("set credentials first")

// ErrNoTargets is returned when a run is requested with nothing selected.
var ErrNoTargets = errors.New("no targets selected")

// Scanner lists the Dock's update candidates.
type Scanner interface {
	Scan() ([]dock.AppEntry, error)
}

// CredentialSource yields the stored sudo secret.
type CredentialSource interface {
	Get() (string, error)
}

// Recorder persists a completed batch. Satisfied by *store.Store.
type Recorder interface {
	RecordRun(startedAt, finishedAt time.Time, results []pkgmgr.UpdateResult) (int64, error)
}

// Controller owns the idle-timer state machine and the single-active-
// operation invariant: scanning and update batches never overlap.
type Controller struct {
	mu sync.Mutex

	state           State
	apps            []dock.AppEntry
	armed           bool
	deadline        time.Time
	lastInteraction time.Time

	scanner   Scanner
	registry  *pkgmgr.Registry
	creds     CredentialSource
	logger    *logging.Logger
	recorder  Recorder
	countdown time.Duration

	now func() time.Time
}

// Option configures a Controller.
type Option func(*Controller)

// WithRecorder wires batch persistence. Without it runs are not recorded.
func WithRecorder(r Recorder) Option {
	return func(c *Controller) { c.recorder = r }
}

// WithCountdown overrides the auto-close delay (default 10s).
func WithCountdown(d time.Duration) Option {
	return func(c *Controller) { c.countdown = d }
}

// withClock injects a deterministic clock for tests.
func withClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// New builds a Controller in the Idle state.
func New(scanner Scanner, registry *pkgmgr.Registry, creds CredentialSource, logger *logging.Logger, opts ...Option) *Controller {
	c := &Controller{
		state:     StateIdle,
		scanner:   scanner,
		registry:  registry,
		creds:     creds,
		logger:    logger,
		countdown: 10 * time.Second,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Apps returns the last scan's results. Valid while AwaitingSelection or
// later; Idle has no retained scan.
func (c *Controller) Apps() []dock.AppEntry {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]dock.AppEntry, len(c.apps))
	copy(out, c.apps)
	return out
}

// Refresh scans the Dock: Idle or AwaitingSelection -> Scanning ->
// AwaitingSelection. An empty scan result is valid. Scan errors drop back
// to the previous retained state with the apps list unchanged.
func (c *Controller) Refresh() ([]dock.AppEntry, error) {
	c.mu.Lock()
	if c.state == StateScanning || c.state == StateRunning {
		c.mu.Unlock()
		return nil, ErrBusy
	}
	c.state = StateScanning
	c.mu.Unlock()

	apps, err := c.scanner.Scan()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = StateAwaitingSelection
	c.armed = false
	if err != nil {
		c.logger.Logf("dock scan failed: %v", err)
		return nil, err
	}

	c.apps = apps
	c.logger.Logf("dock scan found %d non-native apps", len(apps))
	out := make([]dock.AppEntry, len(apps))
	copy(out, apps)
	return out, nil
}

// Run executes one update batch over the given targets in submission
// order. Every target yields exactly one result; a failure never aborts
// the batch. On completion the controller enters CountingDown.
func (c *Controller) Run(ctx context.Context, targets []dock.AppEntry) ([]pkgmgr.UpdateResult, error) {
	c.mu.Lock()
	if c.state == StateScanning || c.state == StateRunning {
		c.mu.Unlock()
		return nil, ErrBusy
	}
	if len(targets) == 0 {
		c.mu.Unlock()
		return nil, ErrNoTargets
	}

	cred, err := c.credentialForBatch(targets)
	if err != nil {
		// Stay in AwaitingSelection; nothing is spawned.
		c.state = StateAwaitingSelection
		c.mu.Unlock()
		c.logger.Logf("update refused: %v", err)
		return nil, err
	}

	c.state = StateRunning
	c.armed = false
	c.mu.Unlock()

	startedAt := c.now()
	c.logger.Logf("starting update batch: %d target(s)", len(targets))

	results := make([]pkgmgr.UpdateResult, 0, len(targets))
	for _, target := range targets {
		result := c.updateOne(ctx, target, cred)
		results = append(results, result)
		if result.Message != "" {
			c.logger.Logf("%s [%s]: %s (%s)", result.AppName, result.Manager, result.Status, result.Message)
		} else {
			c.logger.Logf("%s [%s]: %s", result.AppName, result.Manager, result.Status)
		}
	}
	finishedAt := c.now()

	if c.recorder != nil {
		if _, err := c.recorder.RecordRun(startedAt, finishedAt, results); err != nil {
			c.logger.Logf("failed to record run history: %v", err)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = StateCountingDown
	c.armed = true
	c.deadline = c.now().Add(c.countdown)
	c.logger.Logf("update batch complete; closing in %s unless you interact", c.countdown)

	return results, nil
}

// credentialForBatch returns the stored credential when any target needs
// elevation. Called with c.mu held.
func (c *Controller) credentialForBatch(targets []dock.AppEntry) (string, error) {
	needsElevation := false
	for _, target := range targets {
		adapter, err := c.registry.Lookup(target.Manager)
		if err != nil {
			continue
		}
		if adapter.RequiresElevation() {
			needsElevation = true
			break
		}
	}
	if !needsElevation {
		return "", nil
	}

	cred, err := c.creds.Get()
	if errors.Is(err, keychain.ErrNotSet) {
		return "", ErrCredentialRequired
	}
	if err != nil {
		return "", fmt.Errorf("credential unavailable: %w", err)
	}
	return cred, nil
}

// updateOne dispatches a single target to its adapter. Targets with no
// usable adapter degrade to Skipped so the batch always yields one result
// per target.
func (c *Controller) updateOne(ctx context.Context, target dock.AppEntry, cred string) pkgmgr.UpdateResult {
	adapter, err := c.registry.Lookup(target.Manager)
	if err != nil {
		return pkgmgr.UpdateResult{
			AppName: target.Name,
			Manager: target.Manager,
			Status:  pkgmgr.StatusSkipped,
			Message: "no package manager associated with this app",
		}
	}
	if !adapter.IsAvailable() {
		return pkgmgr.UpdateResult{
			AppName: target.Name,
			Manager: target.Manager,
			Status:  pkgmgr.StatusSkipped,
			Message: fmt.Sprintf("%s is not installed on this host", target.Manager),
		}
	}
	return adapter.Update(ctx, updateTarget(target), cred)
}

// updateTarget maps a Dock entry to the manager-facing target name.
// Homebrew-managed GUI apps are casks addressed by their kebab-cased
// token ("Visual Studio Code" -> "visual-studio-code"); other managers
// take the name as-is.
func updateTarget(target dock.AppEntry) string {
	if target.Manager == pkgmgr.Homebrew {
		return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(target.Name)), " ", "-")
	}
	return target.Name
}

// Interact records a user interaction. Strictly before the countdown
// deadline it disarms the timer and returns to AwaitingSelection; the
// last-interaction timestamp is compared inside the same event loop as
// Tick, so a late interaction can never race an already-fired close.
func (c *Controller) Interact() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lastInteraction = c.now()
	if c.state == StateCountingDown {
		c.state = StateAwaitingSelection
		c.armed = false
		c.logger.Log("auto-close cancelled by user interaction")
	}
}

// Tick advances the countdown. It reports true exactly once, when the
// deadline has passed with the timer still armed; the controller is then
// Closed and the process should exit.
func (c *Controller) Tick(now time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateCountingDown || !c.armed {
		return false
	}
	if now.Before(c.deadline) {
		return false
	}

	c.state = StateClosed
	c.armed = false
	c.logger.Log("no interaction before deadline; closing")
	return true
}

// Remaining returns the time left on the countdown, zero when disarmed.
func (c *Controller) Remaining(now time.Time) time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.armed || c.state != StateCountingDown {
		return 0
	}
	if remaining := c.deadline.Sub(now); remaining > 0 {
		return remaining
	}
	return 0
}
