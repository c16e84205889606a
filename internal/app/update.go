package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/dockup/internal/dock"
	"github.com/blackwell-systems/dockup/internal/output"
	"github.com/blackwell-systems/dockup/internal/pkgmgr"
)

var (
	updateAll bool

	updateCmd = &cobra.Command{
		Use:   "update [app...]",
		Short: "Update Dock apps without opening the UI",
		Long: `Run an update batch headlessly. Targets are Dock app names as shown
by 'dockup scan'; --all updates every scanned app.

Each target produces exactly one result line. An app whose manager is
unknown or not installed is skipped, not failed. MacPorts targets need a
stored sudo credential ('dockup creds set').`,
		Example: `  # Update two specific apps
  dockup update Firefox "Visual Studio Code"

  # Update everything in the Dock
  dockup update --all`,
		RunE: runUpdate,
	}
)

func init() {
	updateCmd.Flags().BoolVar(&updateAll, "all", false, "update every scanned Dock app")
}

func runUpdate(cmd *cobra.Command, args []string) error {
	if !updateAll && len(args) == 0 {
		return fmt.Errorf("no targets: name apps to update or pass --all")
	}

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

	spinner := output.NewSpinner("Scanning the Dock")
	spinner.Start()
	apps, err := ctrl.Refresh()
	spinner.Stop("")
	if err != nil {
		return fmt.Errorf("failed to scan the Dock: %w", err)
	}

	targets, err := resolveTargets(apps, args)
	if err != nil {
		return err
	}

	spinner = output.NewSpinner(fmt.Sprintf("Updating %d app(s)", len(targets)))
	spinner.Start()
	results, err := ctrl.Run(context.Background(), targets)
	spinner.Stop("")
	if err != nil {
		return err
	}

	fmt.Print(output.RenderResults(results))

	var failed int
	for _, r := range results {
		if r.Status == pkgmgr.StatusFailed {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d update(s) failed", failed)
	}
	return nil
}

// resolveTargets maps command-line names onto scanned Dock entries.
// Matching is case-insensitive; unknown names are an error so typos do
// not silently shrink the batch.
func resolveTargets(apps []dock.AppEntry, names []string) ([]dock.AppEntry, error) {
	if updateAll {
		return apps, nil
	}

	byName := make(map[string]dock.AppEntry, len(apps))
	for _, app := range apps {
		byName[strings.ToLower(app.Name)] = app
	}

	var targets []dock.AppEntry
	var unknown []string
	for _, name := range names {
		app, ok := byName[strings.ToLower(name)]
		if !ok {
			unknown = append(unknown, name)
			continue
		}
		targets = append(targets, app)
	}
	if len(unknown) > 0 {
		return nil, fmt.Errorf("not in the Dock: %s (run 'dockup scan' to list apps)",
			strings.Join(unknown, ", "))
	}
	return targets, nil
}
