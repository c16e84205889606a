package dock

import (
	"path/filepath"
	"strings"
)

// nativePathPrefixes are install locations that only hold OS-bundled
// software. Anything under them is excluded from update candidates.
var nativePathPrefixes = []string{
	"/System/",
	"/Applications/Utilities/",
	"/usr/",
}

// nativeAppNames are Apple applications that live in /Applications on
// some macOS versions but are still OS-managed.
var nativeAppNames = map[string]bool{
	"Finder":             true,
	"Safari":             true,
	"Mail":               true,
	"Calendar":           true,
	"Contacts":           true,
	"Maps":               true,
	"Photos":             true,
	"Messages":           true,
	"FaceTime":           true,
	"Music":              true,
	"TV":                 true,
	"Podcasts":           true,
	"News":               true,
	"Stocks":             true,
	"Home":               true,
	"Shortcuts":          true,
	"System Preferences": true,
	"System Settings":    true,
	"App Store":          true,
	"Launchpad":          true,
}

// isNativeApp reports whether the app is OS-bundled, by install location
// or by name. The label shown in the Dock and the bundle basename are both
// checked: the Dock label can be localized while the bundle name is not.
func isNativeApp(path, label string) bool {
	for _, prefix := range nativePathPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}

	if nativeAppNames[label] {
		return true
	}
	bundleName := strings.TrimSuffix(filepath.Base(path), ".app")
	return nativeAppNames[bundleName]
}
