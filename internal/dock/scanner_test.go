package dock

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/blackwell-systems/dockup/internal/pkgmgr"
)

// dockPlistXML builds an XML dock preferences plist with the given
// label/URL pairs. The real file is binary but the parser accepts both.
func dockPlistXML(apps ...[2]string) string {
	var tiles strings.Builder
	for _, app := range apps {
		fmt.Fprintf(&tiles, `
		<dict>
			<key>tile-data</key>
			<dict>
				<key>file-label</key>
				<string>%s</string>
				<key>file-data</key>
				<dict>
					<key>_CFURLString</key>
					<string>%s</string>
					<key>_CFURLStringType</key>
					<integer>15</integer>
				</dict>
			</dict>
		</dict>`, app[0], app[1])
	}

	return `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>persistent-apps</key>
	<array>` + tiles.String() + `
	</array>
</dict>
</plist>
`
}

// writeDockPlist writes a dock plist fixture and returns its path.
func writeDockPlist(t *testing.T, apps ...[2]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "com.apple.dock.plist")
	if err := os.WriteFile(path, []byte(dockPlistXML(apps...)), 0644); err != nil {
		t.Fatalf("failed to write dock plist fixture: %v", err)
	}
	return path
}

// writeAppBundle creates a minimal app bundle with an Info.plist carrying
// the given version, returning the bundle path.
func writeAppBundle(t *testing.T, dir, name, version string) string {
	t.Helper()
	appPath := filepath.Join(dir, name+".app")
	contents := filepath.Join(appPath, "Contents")
	if err := os.MkdirAll(contents, 0755); err != nil {
		t.Fatalf("failed to create bundle dirs: %v", err)
	}

	info := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>CFBundleShortVersionString</key>
	<string>%s</string>
</dict>
</plist>
`, version)
	if err := os.WriteFile(filepath.Join(contents, "Info.plist"), []byte(info), 0644); err != nil {
		t.Fatalf("failed to write Info.plist: %v", err)
	}
	return appPath
}

func TestScanFiltersNativeAppsAndSorts(t *testing.T) {
	appsDir := t.TempDir()
	chromePath := writeAppBundle(t, appsDir, "Google Chrome", "126.0.6478.127")
	codePath := writeAppBundle(t, appsDir, "Visual Studio Code", "1.90.2")

	plistPath := writeDockPlist(t,
		[2]string{"Safari", "file:///Applications/Safari.app/"},
		[2]string{"Visual Studio Code", "file://" + codePath + "/"},
		[2]string{"Terminal", "file:///System/Applications/Utilities/Terminal.app/"},
		[2]string{"Google Chrome", "file://" + chromePath + "/"},
	)

	s := NewScannerAt(plistPath, nil, "/opt/local")
	entries, err := s.Scan()
	if err != nil {
		t.Fatalf("Scan() failed: %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("expected 2 non-native apps, got %d: %+v", len(entries), entries)
	}
	if entries[0].Name != "Google Chrome" || entries[1].Name != "Visual Studio Code" {
		t.Errorf("entries not sorted by name: %+v", entries)
	}
	if entries[0].Version != "126.0.6478.127" {
		t.Errorf("Chrome version = %q, want 126.0.6478.127", entries[0].Version)
	}
}

func TestScanIsDeterministic(t *testing.T) {
	appsDir := t.TempDir()
	chromePath := writeAppBundle(t, appsDir, "Google Chrome", "126.0")
	firefoxPath := writeAppBundle(t, appsDir, "Firefox", "127.0.1")

	plistPath := writeDockPlist(t,
		[2]string{"Firefox", "file://" + firefoxPath + "/"},
		[2]string{"Google Chrome", "file://" + chromePath + "/"},
	)

	s := NewScannerAt(plistPath, nil, "/opt/local")
	first, err := s.Scan()
	if err != nil {
		t.Fatalf("first Scan() failed: %v", err)
	}
	second, err := s.Scan()
	if err != nil {
		t.Fatalf("second Scan() failed: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated scans of unchanged dock differ:\n%+v\n%+v", first, second)
	}
}

func TestScanMissingPlist(t *testing.T) {
	s := NewScannerAt(filepath.Join(t.TempDir(), "nope.plist"), nil, "/opt/local")
	if _, err := s.Scan(); err == nil {
		t.Error("Scan() should fail when the dock plist is missing")
	}
}

func TestManagerHint(t *testing.T) {
	caskroom := t.TempDir()
	if err := os.MkdirAll(filepath.Join(caskroom, "visual-studio-code"), 0755); err != nil {
		t.Fatalf("failed to create caskroom entry: %v", err)
	}

	s := NewScannerAt("", []string{caskroom}, "/opt/local")

	tests := []struct {
		name     string
		appName  string
		path     string
		expected pkgmgr.Manager
	}{
		{
			name:     "macports prefix",
			appName:  "SomePort",
			path:     "/opt/local/Applications/SomePort.app",
			expected: pkgmgr.MacPorts,
		},
		{
			name:     "homebrew prefix",
			appName:  "Emacs",
			path:     "/opt/homebrew/Cellar/emacs/29.1/Emacs.app",
			expected: pkgmgr.Homebrew,
		},
		{
			name:     "caskroom metadata match",
			appName:  "Visual Studio Code",
			path:     "/Applications/Visual Studio Code.app",
			expected: pkgmgr.Homebrew,
		},
		{
			name:     "no match",
			appName:  "HandRolled",
			path:     "/Applications/HandRolled.app",
			expected: pkgmgr.Unknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.managerHint(tt.appName, tt.path); got != tt.expected {
				t.Errorf("managerHint(%q, %q) = %s, want %s", tt.appName, tt.path, got, tt.expected)
			}
		})
	}
}

func TestBundleVersionUnreadable(t *testing.T) {
	s := NewScannerAt("", nil, "")
	if v := s.bundleVersion("/nonexistent/path.app"); v != "Unknown" {
		t.Errorf("bundleVersion on missing bundle = %q, want Unknown", v)
	}
	if v := s.bundleVersion(""); v != "Unknown" {
		t.Errorf("bundleVersion on empty path = %q, want Unknown", v)
	}
}

func TestAppPathFromURL(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"file:///Applications/Firefox.app/", "/Applications/Firefox.app"},
		{"file:///Applications/Visual%20Studio%20Code.app/", "/Applications/Visual Studio Code.app"},
		{"/Applications/Plain.app", "/Applications/Plain.app"},
	}

	for _, tt := range tests {
		if got := appPathFromURL(tt.input); got != tt.expected {
			t.Errorf("appPathFromURL(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}
