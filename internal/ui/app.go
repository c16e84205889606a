// Package ui implements the interactive terminal front end: a
// selectable list of Dock apps, an update trigger, a credential
// prompt, a scrollable log pane and the auto-close countdown.
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/blackwell-systems/dockup/internal/config"
	"github.com/blackwell-systems/dockup/internal/controller"
	"github.com/blackwell-systems/dockup/internal/dock"
	"github.com/blackwell-systems/dockup/internal/logging"
	"github.com/blackwell-systems/dockup/internal/pkgmgr"
)

const logPaneHeight = 10

// CredentialStore is the slice of the keychain store the UI needs for
// the credential prompt.
type CredentialStore interface {
	Set(secret string) error
	Clear() error
	Verify(secret string) error
}

// Config configures the UI application.
type Config struct {
	Controller *controller.Controller
	Settings   *config.Config
	Logger     *logging.Logger
	Creds      CredentialStore

	// DockEvents, when non-nil, triggers a rescan whenever the Dock
	// layout changes on disk.
	DockEvents <-chan struct{}

	Version string
}

// App implements the Bubble Tea model for dockup.
type App struct {
	ctrl    *controller.Controller
	cfg     *config.Config
	logger  *logging.Logger
	creds   CredentialStore
	dockCh  <-chan struct{}
	logCh   <-chan logging.Entry
	version string

	apps     []dock.AppEntry
	selected map[string]bool
	cursor   int
	results  []pkgmgr.UpdateResult

	logLines []string
	showLog  bool
	logView  viewport.Model

	credInput textinput.Model
	prompting bool

	pathInput     textinput.Model
	promptingPath bool

	status string
	busy   bool

	width  int
	height int
	ready  bool

	now func() time.Time
}

// NewApp creates the UI model. The controller, settings, logger and
// credential store must be non-nil; DockEvents may be nil.
func NewApp(cfg Config) *App {
	input := textinput.New()
	input.Placeholder = "sudo password"
	input.EchoMode = textinput.EchoPassword
	input.EchoCharacter = '*'
	input.CharLimit = 128

	pathInput := textinput.New()
	pathInput.Placeholder = "log file path"
	pathInput.CharLimit = 512

	return &App{
		ctrl:      cfg.Controller,
		cfg:       cfg.Settings,
		logger:    cfg.Logger,
		creds:     cfg.Creds,
		dockCh:    cfg.DockEvents,
		logCh:     cfg.Logger.Subscribe(),
		version:   cfg.Version,
		selected:  make(map[string]bool),
		credInput: input,
		pathInput: pathInput,
		now:       time.Now,
	}
}

func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.scanCmd(), scheduleTick(), waitForLogEntry(a.logCh)}
	if cmd := waitForDockChange(a.dockCh); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.logView = viewport.New(msg.Width-4, logPaneHeight)
		a.logView.SetContent(a.logContent())
		a.ready = true
		return a, nil

	case tickMsg:
		if a.ctrl.Tick(a.now()) {
			return a, tea.Quit
		}
		return a, scheduleTick()

	case scanCompleteMsg:
		a.busy = false
		if msg.err != nil {
			a.status = "scan failed: " + msg.err.Error()
			return a, nil
		}
		a.apps = msg.apps
		a.pruneSelection()
		if a.cursor >= len(a.apps) {
			a.cursor = 0
		}
		a.status = fmt.Sprintf("%d app(s) found in the Dock", len(a.apps))
		return a, nil

	case runCompleteMsg:
		a.busy = false
		if msg.err != nil {
			a.status = msg.err.Error()
			return a, nil
		}
		a.results = msg.results
		a.status = summarize(msg.results)
		return a, nil

	case credSavedMsg:
		if msg.err != nil {
			a.status = "credential not saved: " + msg.err.Error()
		} else {
			a.status = "credential stored in keychain"
		}
		return a, nil

	case credClearedMsg:
		if msg.err != nil {
			a.status = "credential not cleared: " + msg.err.Error()
		} else {
			a.status = "credential cleared"
		}
		return a, nil

	case logEntryMsg:
		if !msg.ok {
			return a, nil
		}
		a.logLines = append(a.logLines, formatLogLine(msg.entry))
		if a.ready {
			a.logView.SetContent(a.logContent())
			a.logView.GotoBottom()
		}
		return a, waitForLogEntry(a.logCh)

	case dockChangedMsg:
		if !msg.ok {
			return a, nil
		}
		cmds := []tea.Cmd{waitForDockChange(a.dockCh)}
		if !a.busy {
			cmds = append(cmds, a.scanCmd())
		}
		return a, tea.Batch(cmds...)

	case tea.MouseMsg:
		a.ctrl.Interact()
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Any keystroke counts as user activity and cancels a pending
	// auto-close countdown.
	a.ctrl.Interact()

	if a.prompting {
		return a.handlePromptKey(msg)
	}
	if a.promptingPath {
		return a.handlePathKey(msg)
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return a, tea.Quit

	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}

	case "down", "j":
		if a.cursor < len(a.apps)-1 {
			a.cursor++
		}

	case " ":
		if a.cursor < len(a.apps) {
			name := a.apps[a.cursor].Name
			a.selected[name] = !a.selected[name]
		}

	case "a":
		a.toggleAll()

	case "r":
		if !a.busy {
			return a, a.scanCmd()
		}

	case "u":
		if !a.busy {
			return a, a.runCmd()
		}

	case "c":
		a.prompting = true
		a.credInput.SetValue("")
		return a, a.credInput.Focus()

	case "x":
		return a, a.clearCredentialCmd()

	case "l":
		enabled := !a.logger.Enabled()
		a.logger.SetEnabled(enabled)
		a.cfg.SetLogEnabled(enabled)
		if err := a.cfg.Save(); err != nil {
			a.status = "could not save settings: " + err.Error()
		} else if enabled {
			a.status = "file logging enabled: " + a.logger.Path()
		} else {
			a.status = "file logging disabled"
		}

	case "p":
		a.promptingPath = true
		a.pathInput.SetValue(a.logger.Path())
		return a, a.pathInput.Focus()

	case "v":
		a.showLog = !a.showLog

	case "C":
		if err := a.logger.Clear(true); err != nil {
			a.status = "could not clear log: " + err.Error()
		} else {
			a.logLines = nil
			if a.ready {
				a.logView.SetContent("")
			}
			a.status = "log cleared"
		}
	}

	return a, nil
}

func (a *App) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		secret := a.credInput.Value()
		a.prompting = false
		a.credInput.Blur()
		a.credInput.SetValue("")
		if secret == "" {
			a.status = "credential prompt cancelled"
			return a, nil
		}
		a.status = "verifying credential..."
		return a, a.saveCredentialCmd(secret)

	case "esc":
		a.prompting = false
		a.credInput.Blur()
		a.credInput.SetValue("")
		a.status = "credential prompt cancelled"
		return a, nil
	}

	var cmd tea.Cmd
	a.credInput, cmd = a.credInput.Update(msg)
	return a, cmd
}

func (a *App) handlePathKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		path := a.pathInput.Value()
		a.promptingPath = false
		a.pathInput.Blur()
		if path == "" || path == a.logger.Path() {
			a.status = "log path unchanged"
			return a, nil
		}
		a.logger.SetPath(path)
		a.cfg.SetLogPath(path)
		if err := a.cfg.Save(); err != nil {
			a.status = "could not save settings: " + err.Error()
		} else {
			a.status = "log path set to " + path
		}
		return a, nil

	case "esc":
		a.promptingPath = false
		a.pathInput.Blur()
		a.status = "log path unchanged"
		return a, nil
	}

	var cmd tea.Cmd
	a.pathInput, cmd = a.pathInput.Update(msg)
	return a, cmd
}

func (a *App) scanCmd() tea.Cmd {
	a.busy = true
	a.status = "scanning Dock..."
	return func() tea.Msg {
		apps, err := a.ctrl.Refresh()
		return scanCompleteMsg{apps: apps, err: err}
	}
}

func (a *App) runCmd() tea.Cmd {
	targets := a.selectedTargets()
	if len(targets) == 0 {
		a.status = "no apps selected; press space to select"
		return nil
	}
	a.busy = true
	a.results = nil
	a.status = fmt.Sprintf("updating %d app(s)...", len(targets))
	return func() tea.Msg {
		results, err := a.ctrl.Run(context.Background(), targets)
		return runCompleteMsg{results: results, err: err}
	}
}

func (a *App) saveCredentialCmd(secret string) tea.Cmd {
	return func() tea.Msg {
		if err := a.creds.Verify(secret); err != nil {
			return credSavedMsg{err: err}
		}
		return credSavedMsg{err: a.creds.Set(secret)}
	}
}

func (a *App) clearCredentialCmd() tea.Cmd {
	return func() tea.Msg {
		return credClearedMsg{err: a.creds.Clear()}
	}
}

func (a *App) selectedTargets() []dock.AppEntry {
	var targets []dock.AppEntry
	for _, app := range a.apps {
		if a.selected[app.Name] {
			targets = append(targets, app)
		}
	}
	return targets
}

// toggleAll selects every app, or clears the selection when every app
// is already selected.
func (a *App) toggleAll() {
	all := len(a.apps) > 0
	for _, app := range a.apps {
		if !a.selected[app.Name] {
			all = false
			break
		}
	}
	for _, app := range a.apps {
		a.selected[app.Name] = !all
	}
}

// pruneSelection drops selections for apps no longer in the Dock.
func (a *App) pruneSelection() {
	present := make(map[string]bool, len(a.apps))
	for _, app := range a.apps {
		present[app.Name] = true
	}
	for name := range a.selected {
		if !present[name] {
			delete(a.selected, name)
		}
	}
}

func (a *App) logContent() string {
	return strings.Join(a.logLines, "\n")
}

func formatLogLine(entry logging.Entry) string {
	return fmt.Sprintf("[%s] %s", entry.Timestamp.Format("15:04:05"), entry.Text)
}

func summarize(results []pkgmgr.UpdateResult) string {
	var updated, current, skipped, failed int
	for _, r := range results {
		switch r.Status {
		case pkgmgr.StatusUpdated:
			updated++
		case pkgmgr.StatusAlreadyCurrent:
			current++
		case pkgmgr.StatusSkipped:
			skipped++
		case pkgmgr.StatusFailed:
			failed++
		}
	}
	return fmt.Sprintf("done: %d updated, %d current, %d skipped, %d failed",
		updated, current, skipped, failed)
}
