// Package dockwatch signals when the user's Dock layout changes, so the
// UI can rescan without an explicit refresh. macOS rewrites
// com.apple.dock.plist in a burst of events when apps are pinned or
// removed; bursts are debounced into a single signal.
package dockwatch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceDelay collapses the write burst macOS produces for one Dock
// change into a single signal.
const debounceDelay = 2 * time.Second

// Watcher watches the Dock preferences plist for changes.
type Watcher struct {
	plistPath string
	debounce  time.Duration

	fsw     *fsnotify.Watcher
	events  chan struct{}
	stopCh  chan struct{}
	wg      sync.WaitGroup
	started bool
}

// New creates a Watcher over the current user's Dock preferences.
func New() (*Watcher, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}
	plistPath := filepath.Join(home, "Library", "Preferences", "com.apple.dock.plist")
	return NewAt(plistPath, debounceDelay)
}

// NewAt creates a Watcher over an explicit plist path. Used by tests with
// a short debounce.
func NewAt(plistPath string, debounce time.Duration) (*Watcher, error) {
	if debounce <= 0 {
		debounce = debounceDelay
	}
	return &Watcher{
		plistPath: plistPath,
		debounce:  debounce,
		events:    make(chan struct{}, 1),
		stopCh:    make(chan struct{}),
	}, nil
}

// Events returns the debounced change signal channel. At most one signal
// is pending at a time; a receiver that lags simply coalesces changes.
func (w *Watcher) Events() <-chan struct{} {
	return w.events
}

// Start begins watching. The plist's parent directory is watched rather
// than the file itself: macOS replaces the file on save, which would
// otherwise drop the watch.
func (w *Watcher) Start() error {
	if w.started {
		return fmt.Errorf("watcher already started")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(w.plistPath)); err != nil {
		fsw.Close()
		return fmt.Errorf("failed to watch preferences directory: %w", err)
	}

	w.fsw = fsw
	w.started = true
	w.wg.Add(1)
	go w.run()
	return nil
}

// Stop ends watching and closes the event channel.
func (w *Watcher) Stop() error {
	if !w.started {
		return nil
	}
	close(w.stopCh)
	err := w.fsw.Close()
	w.wg.Wait()
	w.started = false
	return err
}

// run forwards relevant fsnotify events through the debounce window.
func (w *Watcher) run() {
	defer w.wg.Done()
	defer close(w.events)

	var timer *time.Timer
	var timerCh <-chan time.Time

	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerCh = timer.C
			} else {
				if !timer.Stop() {
					<-timerCh
				}
				timer.Reset(w.debounce)
			}

		case <-timerCh:
			timer = nil
			timerCh = nil
			select {
			case w.events <- struct{}{}:
			default: // signal already pending
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			fmt.Fprintf(os.Stderr, "dockwatch: %v\n", err)

		case <-w.stopCh:
			return
		}
	}
}

// relevant reports whether the event touches the Dock plist. Preference
// saves show up as writes, creates or renames of the file (or a temp
// sibling being renamed over it).
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	return strings.HasPrefix(filepath.Base(event.Name), filepath.Base(w.plistPath))
}
