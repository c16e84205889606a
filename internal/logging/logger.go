// Package logging implements dockup's activity log: an append-only
// in-memory buffer optionally mirrored to a plain-text file.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// timestampLayout is the on-disk line prefix format.
const timestampLayout = "2006-01-02 15:04:05"

// DefaultPath returns the default log file location, ~/dock_updater.log.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "dock_updater.log"
	}
	return filepath.Join(home, "dock_updater.log")
}

// Entry is one timestamped log line. Entries are append-only and cleared
// only by explicit user action.
type Entry struct {
	Timestamp time.Time
	Text      string
}

// Logger appends timestamped entries to an in-memory buffer and, when
// enabled, mirrors each entry to a file. The file handle is never held:
// every write opens, appends and closes, so external viewers are never
// blocked by dockup.
type Logger struct {
	mu      sync.Mutex
	entries []Entry
	enabled bool
	path    string
	subs    []chan Entry

	now func() time.Time
}

// New returns a Logger writing to the given path when enabled.
func New(path string, enabled bool) *Logger {
	if path == "" {
		path = DefaultPath()
	}
	return &Logger{path: path, enabled: enabled, now: time.Now}
}

// Log appends a timestamped entry. File write failures are reported but
// never drop the in-memory entry.
func (l *Logger) Log(text string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry := Entry{Timestamp: l.now(), Text: text}
	l.entries = append(l.entries, entry)
	for _, sub := range l.subs {
		select {
		case sub <- entry:
		default: // slow subscriber, drop rather than block logging
		}
	}

	if !l.enabled {
		return nil
	}
	return appendLine(l.path, entry)
}

// Logf is Log with fmt.Sprintf formatting.
func (l *Logger) Logf(format string, args ...any) error {
	return l.Log(fmt.Sprintf(format, args...))
}

// appendLine writes one formatted entry with a scoped file handle.
func appendLine(path string, entry Entry) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer f.Close()

	line := fmt.Sprintf("[%s] %s\n", entry.Timestamp.Format(timestampLayout), entry.Text)
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("failed to write log file: %w", err)
	}
	return f.Sync()
}

// Entries returns a copy of the in-memory buffer.
func (l *Logger) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Clear empties the in-memory buffer and, when alsoFile is set, truncates
// the log file.
func (l *Logger) Clear(alsoFile bool) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = nil
	if !alsoFile {
		return nil
	}
	if err := os.Truncate(l.path, 0); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to truncate log file: %w", err)
	}
	return nil
}

// SetEnabled toggles file mirroring. Buffered entries are kept either
// way; only future file writes are affected.
func (l *Logger) SetEnabled(enabled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.enabled = enabled
}

// Enabled reports whether file mirroring is on.
func (l *Logger) Enabled() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.enabled
}

// SetPath changes the log file location for future writes.
func (l *Logger) SetPath(path string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.path = path
}

// Path returns the current log file location.
func (l *Logger) Path() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.path
}

// Subscribe returns a channel receiving every future entry. Subscribers
// that fall behind miss entries instead of blocking the logger.
func (l *Logger) Subscribe() <-chan Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	ch := make(chan Entry, 64)
	l.subs = append(l.subs, ch)
	return ch
}
