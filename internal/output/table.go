// Package output provides terminal output utilities for dockup's
// headless subcommands: ASCII tables for scans, outdated listings and
// run history, plus a spinner for long-running manager invocations.
//
// Tables use ASCII characters and ANSI color codes; color is gated on
// stdout being a TTY and NO_COLOR being unset.
package output

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/blackwell-systems/dockup/internal/dock"
	"github.com/blackwell-systems/dockup/internal/pkgmgr"
	"github.com/blackwell-systems/dockup/internal/store"
)

// ANSI color codes for status display
const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorRed    = "\033[31m"
	colorGray   = "\033[90m"
)

// IsColorEnabled returns true if ANSI color codes should be emitted.
// It checks that os.Stdout is a TTY and that the NO_COLOR env var is not set.
func IsColorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd())
}

// statusColor returns the ANSI color for an update status.
func statusColor(status pkgmgr.Status) string {
	switch status {
	case pkgmgr.StatusUpdated:
		return colorGreen
	case pkgmgr.StatusAlreadyCurrent:
		return colorGray
	case pkgmgr.StatusSkipped:
		return colorYellow
	case pkgmgr.StatusFailed:
		return colorRed
	default:
		return ""
	}
}

// colorize wraps s in the given color when color output is enabled.
func colorize(color, s string) string {
	if color == "" || !IsColorEnabled() {
		return s
	}
	return color + s + colorReset
}

// RenderAppTable renders the dock scan results.
func RenderAppTable(apps []dock.AppEntry) string {
	if len(apps) == 0 {
		return "No non-native apps pinned to the Dock.\n"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-28s %-14s %-10s\n", "APP", "VERSION", "MANAGER"))
	sb.WriteString(strings.Repeat("-", 54) + "\n")
	for _, app := range apps {
		sb.WriteString(fmt.Sprintf("%-28s %-14s %-10s\n",
			truncate(app.Name, 28), truncate(app.Version, 14), app.Manager))
	}
	sb.WriteString(fmt.Sprintf("\n%d app(s)\n", len(apps)))
	return sb.String()
}

// RenderOutdatedTable renders outdated packages grouped as returned by
// the adapters.
func RenderOutdatedTable(packages []pkgmgr.OutdatedPackage) string {
	if len(packages) == 0 {
		return "Everything is up to date.\n"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-28s %-10s %-14s %-14s\n", "PACKAGE", "MANAGER", "CURRENT", "LATEST"))
	sb.WriteString(strings.Repeat("-", 68) + "\n")
	for _, pkg := range packages {
		sb.WriteString(fmt.Sprintf("%-28s %-10s %-14s %-14s\n",
			truncate(pkg.Name, 28), pkg.Manager, truncate(pkg.Current, 14), truncate(pkg.Latest, 14)))
	}
	sb.WriteString(fmt.Sprintf("\n%d outdated package(s)\n", len(packages)))
	return sb.String()
}

// RenderResults renders a batch's per-target outcomes.
func RenderResults(results []pkgmgr.UpdateResult) string {
	var sb strings.Builder
	for _, r := range results {
		status := colorize(statusColor(r.Status), strings.ToUpper(string(r.Status)))
		sb.WriteString(fmt.Sprintf("%-28s %-10s %s", truncate(r.AppName, 28), r.Manager, status))
		if r.Message != "" {
			sb.WriteString("  " + r.Message)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// RenderHistoryTable renders stored runs, newest first.
func RenderHistoryTable(runs []*store.Run) string {
	if len(runs) == 0 {
		return "No update runs recorded yet.\n"
	}

	var sb strings.Builder
	for _, run := range runs {
		sb.WriteString(fmt.Sprintf("Run #%d  %s  (%d target(s), took %s)\n",
			run.ID,
			run.StartedAt.Format("2006-01-02 15:04:05"),
			run.TargetCount,
			run.FinishedAt.Sub(run.StartedAt).Round(time.Second),
		))
		sb.WriteString(RenderResults(run.Results))
		sb.WriteString("\n")
	}
	return sb.String()
}

// truncate shortens s to max characters with an ellipsis.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
