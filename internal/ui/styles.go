package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/blackwell-systems/dockup/internal/pkgmgr"
)

var (
	cGreen  = lipgloss.Color("42")
	cYellow = lipgloss.Color("220")
	cRed    = lipgloss.Color("203")
	cGray   = lipgloss.Color("240")
	cWhite  = lipgloss.Color("255")
	cBlue   = lipgloss.Color("39")

	styleHeader = lipgloss.NewStyle().
			Foreground(cWhite).
			Background(cBlue).
			Bold(true).
			Padding(0, 1)

	styleSelected = lipgloss.NewStyle().
			Foreground(cWhite).
			Bold(true)

	styleDim    = lipgloss.NewStyle().Foreground(cGray)
	styleStatus = lipgloss.NewStyle().Foreground(cYellow)
	styleError  = lipgloss.NewStyle().Foreground(cRed)

	styleCountdown = lipgloss.NewStyle().
			Foreground(cYellow).
			Bold(true)

	styleLogPane = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(cGray).
			Padding(0, 1)

	styleUpdated = lipgloss.NewStyle().Foreground(cGreen)
	styleSkipped = lipgloss.NewStyle().Foreground(cYellow)
	styleFailed  = lipgloss.NewStyle().Foreground(cRed)
	styleCurrent = lipgloss.NewStyle().Foreground(cGray)
)

func resultStyle(status pkgmgr.Status) lipgloss.Style {
	switch status {
	case pkgmgr.StatusUpdated:
		return styleUpdated
	case pkgmgr.StatusAlreadyCurrent:
		return styleCurrent
	case pkgmgr.StatusSkipped:
		return styleSkipped
	case pkgmgr.StatusFailed:
		return styleFailed
	default:
		return styleDim
	}
}
