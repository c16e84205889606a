package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/dockup/internal/output"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "List third-party apps pinned to the Dock",
	Long: `Scan the Dock's preference plist for pinned applications, drop the
Apple-shipped ones, and report each remaining app's bundle version and
the package manager that appears to own it.

Apps under /System, /Applications/Utilities and /usr are considered part
of macOS and never listed.`,
	Example: `  # Show Dock apps with versions and managers
  dockup scan`,
	RunE: runScanCmd,
}

func runScanCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	ctrl, err := buildController(cfg, logger, nil)
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

	fmt.Print(output.RenderAppTable(apps))
	return nil
}
