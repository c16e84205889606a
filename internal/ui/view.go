package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/blackwell-systems/dockup/internal/controller"
)

func (a *App) View() string {
	if !a.ready {
		return "Loading..."
	}

	var sb strings.Builder

	title := "Dock App Updater"
	if a.version != "" {
		title += "  " + a.version
	}
	sb.WriteString(styleHeader.Render(title))
	sb.WriteString("\n\n")

	sb.WriteString(a.renderAppList())
	sb.WriteString("\n")

	if len(a.results) > 0 {
		sb.WriteString(a.renderResults())
		sb.WriteString("\n")
	}

	if a.prompting {
		sb.WriteString("Enter sudo password (esc to cancel):\n")
		sb.WriteString(a.credInput.View())
		sb.WriteString("\n\n")
	}

	if a.promptingPath {
		sb.WriteString("Log file path (esc to cancel):\n")
		sb.WriteString(a.pathInput.View())
		sb.WriteString("\n\n")
	}

	if a.showLog {
		sb.WriteString(styleLogPane.Render(a.logView.View()))
		sb.WriteString("\n")
	}

	sb.WriteString(a.renderFooter())
	return sb.String()
}

func (a *App) renderAppList() string {
	if len(a.apps) == 0 {
		if a.busy {
			return styleDim.Render("Scanning the Dock...") + "\n"
		}
		return styleDim.Render("No non-native apps pinned to the Dock. Press r to rescan.") + "\n"
	}

	var sb strings.Builder
	for i, app := range a.apps {
		cursor := "  "
		if i == a.cursor {
			cursor = "> "
		}
		check := "[ ]"
		if a.selected[app.Name] {
			check = "[x]"
		}
		line := fmt.Sprintf("%s%s %-28s %-14s %s", cursor, check, app.Name, app.Version, app.Manager)
		if i == a.cursor {
			line = styleSelected.Render(line)
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	return sb.String()
}

func (a *App) renderResults() string {
	var sb strings.Builder
	for _, r := range a.results {
		status := resultStyle(r.Status).Render(strings.ToUpper(string(r.Status)))
		sb.WriteString(fmt.Sprintf("  %-28s %s", r.AppName, status))
		if r.Message != "" {
			sb.WriteString("  " + styleDim.Render(r.Message))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func (a *App) renderFooter() string {
	var sb strings.Builder

	if a.ctrl.State() == controller.StateCountingDown {
		remaining := a.ctrl.Remaining(a.now()).Round(time.Second)
		sb.WriteString(styleCountdown.Render(
			fmt.Sprintf("Closing in %s. Press any key to stay open.", remaining)))
		sb.WriteString("\n")
	}

	if a.status != "" {
		sb.WriteString(styleStatus.Render(a.status))
		sb.WriteString("\n")
	}

	sb.WriteString(styleDim.Render(
		"space select  a all  r rescan  u update  c password  x clear password  l log on/off  p log path  v view log  C clear log  q quit"))
	return sb.String()
}
