package app

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Manage the persistent update log",
	Long: `dockup can append every scan and update event to a plain text file
(default: ~/dock_updater.log). Logging is off until enabled here or
with the l key in the UI.`,
}

var logPathCmd = &cobra.Command{
	Use:   "path [file]",
	Short: "Print or change the log file location",
	Long: `Without an argument, print the current log file and whether logging is
on. With an argument, use that file for future log writes; existing
entries stay where they are.`,
	Example: `  # Where does the log go?
  dockup log path

  # Move future writes
  dockup log path ~/Library/Logs/dockup.log`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadSettings()
		if err != nil {
			return err
		}
		if len(args) == 1 {
			cfg.SetLogPath(args[0])
			if err := cfg.Save(); err != nil {
				return err
			}
			fmt.Printf("Log path set to %s\n", args[0])
			return nil
		}
		state := "disabled"
		if cfg.LogEnabled() {
			state = "enabled"
		}
		fmt.Printf("%s (%s)\n", cfg.LogPath(), state)
		return nil
	},
}

var logEnableCmd = &cobra.Command{
	Use:     "enable",
	Short:   "Turn on file logging",
	Example: `  dockup log enable`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return setLogEnabled(true)
	},
}

var logDisableCmd = &cobra.Command{
	Use:     "disable",
	Short:   "Turn off file logging",
	Example: `  dockup log disable`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return setLogEnabled(false)
	},
}

var logClearCmd = &cobra.Command{
	Use:     "clear",
	Short:   "Truncate the log file",
	Example: `  dockup log clear`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadSettings()
		if err != nil {
			return err
		}
		logger := newLogger(cfg)
		if err := logger.Clear(true); err != nil {
			return fmt.Errorf("failed to clear log: %w", err)
		}
		fmt.Println("Log cleared.")
		return nil
	},
}

var logShowCmd = &cobra.Command{
	Use:     "show",
	Short:   "Print the log file",
	Example: `  dockup log show`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadSettings()
		if err != nil {
			return err
		}
		data, err := os.ReadFile(cfg.LogPath())
		if err != nil {
			if os.IsNotExist(err) {
				fmt.Println("Log is empty.")
				return nil
			}
			return fmt.Errorf("failed to read log: %w", err)
		}
		os.Stdout.Write(data)
		return nil
	},
}

func init() {
	logCmd.AddCommand(logPathCmd)
	logCmd.AddCommand(logEnableCmd)
	logCmd.AddCommand(logDisableCmd)
	logCmd.AddCommand(logClearCmd)
	logCmd.AddCommand(logShowCmd)
}

func setLogEnabled(on bool) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	cfg.SetLogEnabled(on)
	if err := cfg.Save(); err != nil {
		return err
	}
	if on {
		fmt.Printf("Logging enabled: %s\n", cfg.LogPath())
	} else {
		fmt.Println("Logging disabled.")
	}
	return nil
}
