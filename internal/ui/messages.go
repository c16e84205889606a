package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/blackwell-systems/dockup/internal/dock"
	"github.com/blackwell-systems/dockup/internal/logging"
	"github.com/blackwell-systems/dockup/internal/pkgmgr"
)

type tickMsg struct{}

func scheduleTick() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return tickMsg{} })
}

type scanCompleteMsg struct {
	apps []dock.AppEntry
	err  error
}

type runCompleteMsg struct {
	results []pkgmgr.UpdateResult
	err     error
}

type credSavedMsg struct {
	err error
}

type credClearedMsg struct {
	err error
}

type logEntryMsg struct {
	entry logging.Entry
	ok    bool
}

func waitForLogEntry(ch <-chan logging.Entry) tea.Cmd {
	return func() tea.Msg {
		entry, ok := <-ch
		return logEntryMsg{entry: entry, ok: ok}
	}
}

type dockChangedMsg struct {
	ok bool
}

func waitForDockChange(ch <-chan struct{}) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		_, ok := <-ch
		return dockChangedMsg{ok: ok}
	}
}
