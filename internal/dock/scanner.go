// Package dock enumerates applications pinned to the macOS Dock and
// filters out OS-bundled ones, producing the update candidates dockup
// operates on.
package dock

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"howett.net/plist"

	"github.com/blackwell-systems/dockup/internal/pkgmgr"
)

// AppEntry is one non-native application pinned to the Dock. Entries are
// immutable; each scan produces a fresh set.
type AppEntry struct {
	Name    string
	Path    string
	Version string
	Manager pkgmgr.Manager
}

// dockPlist mirrors the layout of com.apple.dock.plist
type dockPlist struct {
	PersistentApps []dockTile `plist:"persistent-apps"`
}

type dockTile struct {
	TileData tileData `plist:"tile-data"`
}

type tileData struct {
	FileLabel string       `plist:"file-label"`
	FileData  tileFileData `plist:"file-data"`
}

type tileFileData struct {
	URLString string `plist:"_CFURLString"`
}

// infoPlist carries the one Info.plist key we read.
type infoPlist struct {
	ShortVersion string `plist:"CFBundleShortVersionString"`
}

// Scanner reads the Dock preferences plist and resolves each pinned app
// to an AppEntry. All paths are overridable for tests.
type Scanner struct {
	plistPath  string   // dock preferences plist
	caskrooms  []string // Homebrew cask install roots
	portPrefix string   // MacPorts install prefix
}

// NewScanner returns a Scanner over the current user's Dock preferences.
func NewScanner() *Scanner {
	home, _ := os.UserHomeDir()
	return &Scanner{
		plistPath: filepath.Join(home, "Library", "Preferences", "com.apple.dock.plist"),
		caskrooms: []string{
			"/opt/homebrew/Caskroom",
			"/usr/local/Caskroom",
		},
		portPrefix: "/opt/local",
	}
}

// NewScannerAt returns a Scanner over an explicit plist path and manager
// locations. Used by tests.
func NewScannerAt(plistPath string, caskrooms []string, portPrefix string) *Scanner {
	return &Scanner{plistPath: plistPath, caskrooms: caskrooms, portPrefix: portPrefix}
}

// Scan reads the Dock plist and returns the pinned non-native apps with
// their versions and manager hints, sorted by name. Repeated scans of an
// unchanged Dock return the same set.
func (s *Scanner) Scan() ([]AppEntry, error) {
	data, err := os.ReadFile(s.plistPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read dock preferences: %w", err)
	}

	var prefs dockPlist
	if _, err := plist.Unmarshal(data, &prefs); err != nil {
		return nil, fmt.Errorf("failed to parse dock preferences: %w", err)
	}

	var entries []AppEntry
	for _, tile := range prefs.PersistentApps {
		name := tile.TileData.FileLabel
		if name == "" {
			continue
		}

		path := appPathFromURL(tile.TileData.FileData.URLString)
		if isNativeApp(path, name) {
			continue
		}

		entries = append(entries, AppEntry{
			Name:    name,
			Path:    path,
			Version: s.bundleVersion(path),
			Manager: s.managerHint(name, path),
		})
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

// appPathFromURL converts a _CFURLString (file:///Applications/Foo.app/)
// into a filesystem path.
func appPathFromURL(raw string) string {
	path := strings.TrimPrefix(raw, "file://")
	if unescaped, err := url.PathUnescape(path); err == nil {
		path = unescaped
	}
	return strings.TrimSuffix(path, "/")
}

// bundleVersion reads CFBundleShortVersionString from the app bundle's
// Info.plist. Unreadable bundles report "Unknown".
func (s *Scanner) bundleVersion(appPath string) string {
	if appPath == "" {
		return "Unknown"
	}

	data, err := os.ReadFile(filepath.Join(appPath, "Contents", "Info.plist"))
	if err != nil {
		return "Unknown"
	}

	var info infoPlist
	if _, err := plist.Unmarshal(data, &info); err != nil || info.ShortVersion == "" {
		return "Unknown"
	}
	return info.ShortVersion
}

// managerHint guesses which package manager owns the app by matching its
// install path against known manager locations. Best-effort: apps with no
// recognizable location stay Unknown.
func (s *Scanner) managerHint(name, path string) pkgmgr.Manager {
	if s.portPrefix != "" && strings.HasPrefix(path, s.portPrefix+"/") {
		return pkgmgr.MacPorts
	}
	for _, prefix := range []string{"/opt/homebrew/", "/usr/local/Cellar/"} {
		if strings.HasPrefix(path, prefix) {
			return pkgmgr.Homebrew
		}
	}

	// Casks install into /Applications but leave a metadata directory in
	// the Caskroom named after the kebab-cased token.
	token := caskToken(name)
	for _, caskroom := range s.caskrooms {
		if _, err := os.Stat(filepath.Join(caskroom, token)); err == nil {
			return pkgmgr.Homebrew
		}
	}

	return pkgmgr.Unknown
}

// caskToken converts an app label into the Homebrew cask naming scheme,
// e.g. "Visual Studio Code" -> "visual-studio-code".
func caskToken(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "-")
}
