package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/dockup/internal/output"
	"github.com/blackwell-systems/dockup/internal/pkgmgr"
)

var outdatedCmd = &cobra.Command{
	Use:   "outdated",
	Short: "List packages with pending updates across all managers",
	Long: `Query every installed package manager (Homebrew, MacPorts, npm, pip)
for packages with a newer version available. Managers that are not
installed are silently skipped.

Unexpected output from a manager is reported as a warning; the listing
from the other managers is still shown.`,
	Example: `  # Show everything that could be updated
  dockup outdated`,
	RunE: runOutdated,
}

func runOutdated(cmd *cobra.Command, args []string) error {
	registry := pkgmgr.NewRegistry()

	spinner := output.NewSpinner("Checking for updates")
	spinner.Start()

	var all []pkgmgr.OutdatedPackage
	var warnings []string
	for _, adapter := range registry.Available() {
		packages, err := adapter.ListOutdated(context.Background())
		if err != nil {
			if errors.Is(err, pkgmgr.ErrParseWarning) {
				warnings = append(warnings, fmt.Sprintf("%s: %v", adapter.Manager(), err))
				continue
			}
			spinner.Stop("")
			return fmt.Errorf("failed to query %s: %w", adapter.Manager(), err)
		}
		all = append(all, packages...)
	}
	spinner.Stop("")

	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
	fmt.Print(output.RenderOutdatedTable(all))
	return nil
}
