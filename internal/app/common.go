package app

import (
	"fmt"
	"time"

	"github.com/blackwell-systems/dockup/internal/config"
	"github.com/blackwell-systems/dockup/internal/controller"
	"github.com/blackwell-systems/dockup/internal/dock"
	"github.com/blackwell-systems/dockup/internal/keychain"
	"github.com/blackwell-systems/dockup/internal/logging"
	"github.com/blackwell-systems/dockup/internal/pkgmgr"
	"github.com/blackwell-systems/dockup/internal/store"
)

// loadSettings resolves the config directory (flag override or
// ~/.dockup) and loads settings from it.
func loadSettings() (*config.Config, error) {
	dir := configDir
	if dir == "" {
		var err error
		dir, err = config.Dir()
		if err != nil {
			return nil, err
		}
	}
	cfg, err := config.Load(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) *logging.Logger {
	return logging.New(cfg.LogPath(), cfg.LogEnabled())
}

// openHistory opens the run-history database and ensures the schema
// exists.
func openHistory(cfg *config.Config) (*store.Store, error) {
	db, err := store.New(cfg.DatabasePath())
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	if err := db.CreateSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create history schema: %w", err)
	}
	return db, nil
}

// buildController assembles the scanner, manager registry and keychain
// store into a controller. rec may be nil for commands that do not
// persist runs.
func buildController(cfg *config.Config, logger *logging.Logger, rec controller.Recorder) (*controller.Controller, error) {
	creds, err := keychain.New()
	if err != nil {
		return nil, fmt.Errorf("failed to open keychain: %w", err)
	}

	opts := []controller.Option{
		controller.WithCountdown(time.Duration(cfg.CountdownSeconds()) * time.Second),
	}
	if rec != nil {
		opts = append(opts, controller.WithRecorder(rec))
	}

	return controller.New(dock.NewScanner(), pkgmgr.NewRegistry(), creds, logger, opts...), nil
}
