package app

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/dockup/internal/dockwatch"
	"github.com/blackwell-systems/dockup/internal/keychain"
	"github.com/blackwell-systems/dockup/internal/ui"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

var (
	configDir string

	// RootCmd is the root command for dockup
	RootCmd = &cobra.Command{
		Use:   "dockup",
		Short: "Update the third-party apps pinned to your macOS Dock",
		Long: `dockup scans the Dock for pinned third-party applications, figures out
which package manager installed each one (Homebrew, MacPorts, npm, pip),
and updates them in one batch.

Running dockup with no arguments opens the interactive terminal UI:
select apps with space, press u to update, and the window closes on its
own ten seconds after a finished batch unless you touch a key.

MacPorts updates need sudo. Store your password once with
'dockup creds set'; it lives in the macOS keychain, never on disk.

Examples:
  # Open the interactive updater
  dockup

  # List Dock apps and their managers
  dockup scan

  # Update everything without the UI
  dockup update --all

  # Show what would be updated
  dockup outdated`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runUI,
	}
)

func init() {
	RootCmd.PersistentFlags().StringVar(&configDir, "config", "", "config directory (default: ~/.dockup)")

	RootCmd.SuggestionsMinimumDistance = 2

	RootCmd.AddCommand(scanCmd)
	RootCmd.AddCommand(outdatedCmd)
	RootCmd.AddCommand(updateCmd)
	RootCmd.AddCommand(credsCmd)
	RootCmd.AddCommand(logCmd)
	RootCmd.AddCommand(historyCmd)
}

// Execute runs the root command
func Execute() error {
	return RootCmd.Execute()
}

func runUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	db, err := openHistory(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	ctrl, err := buildController(cfg, logger, db)
	if err != nil {
		return err
	}

	creds, err := keychain.New()
	if err != nil {
		return err
	}

	uiCfg := ui.Config{
		Controller: ctrl,
		Settings:   cfg,
		Logger:     logger,
		Creds:      creds,
		Version:    Version,
	}

	// Dock layout changes trigger a rescan while the UI is open. A watch
	// failure is not fatal; manual rescan still works.
	if watcher, err := dockwatch.New(); err == nil {
		if err := watcher.Start(); err == nil {
			uiCfg.DockEvents = watcher.Events()
			defer watcher.Stop()
		}
	} else {
		fmt.Fprintf(os.Stderr, "warning: dock watcher unavailable: %v\n", err)
	}

	program := tea.NewProgram(ui.NewApp(uiCfg), tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("UI error: %w", err)
	}
	return nil
}
