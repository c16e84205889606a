package pkgmgr

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// brewOutdatedOutput represents the structure of `brew outdated --json=v2` output
type brewOutdatedOutput struct {
	Formulae []brewOutdatedEntry `json:"formulae"`
	Casks    []brewOutdatedEntry `json:"casks"`
}

// brewOutdatedEntry represents one outdated formula or cask
type brewOutdatedEntry struct {
	Name              string   `json:"name"`
	InstalledVersions []string `json:"installed_versions"`
	CurrentVersion    string   `json:"current_version"`
}

// HomebrewAdapter drives Homebrew formulae and casks. Homebrew never
// requires elevation; it refuses to run under sudo.
type HomebrewAdapter struct {
	runner
	casks map[string]bool // names seen as casks in the last listing
}

// NewHomebrew returns a Homebrew adapter with default command execution.
func NewHomebrew() *HomebrewAdapter {
	return &HomebrewAdapter{runner: newRunner(), casks: make(map[string]bool)}
}

func (h *HomebrewAdapter) Manager() Manager        { return Homebrew }
func (h *HomebrewAdapter) RequiresElevation() bool { return false }
func (h *HomebrewAdapter) IsAvailable() bool       { return h.available("brew") }

// ListOutdated returns outdated formulae and casks via brew outdated.
func (h *HomebrewAdapter) ListOutdated(ctx context.Context) ([]OutdatedPackage, error) {
	output, err := h.run(ctx, "", "brew", "outdated", "--json=v2")
	if err != nil {
		return nil, fmt.Errorf("brew outdated failed: %w", err)
	}

	var outdated brewOutdatedOutput
	if err := json.Unmarshal(output, &outdated); err != nil {
		return nil, fmt.Errorf("%w: brew outdated: %v", ErrParseWarning, err)
	}

	var packages []OutdatedPackage
	for _, entry := range outdated.Formulae {
		packages = append(packages, brewEntryToPackage(entry))
	}
	for _, entry := range outdated.Casks {
		h.casks[entry.Name] = true
		packages = append(packages, brewEntryToPackage(entry))
	}
	return packages, nil
}

func brewEntryToPackage(entry brewOutdatedEntry) OutdatedPackage {
	pkg := OutdatedPackage{
		Name:    entry.Name,
		Manager: Homebrew,
		Latest:  entry.CurrentVersion,
	}
	if len(entry.InstalledVersions) > 0 {
		pkg.Current = entry.InstalledVersions[len(entry.InstalledVersions)-1]
	}
	return pkg
}

// Update upgrades one formula or cask, or everything when target is empty.
// Batch mode runs brew update first so upgrade sees fresh metadata.
func (h *HomebrewAdapter) Update(ctx context.Context, target, _ string) UpdateResult {
	if target == "" {
		return h.updateAll(ctx)
	}

	args := []string{"upgrade"}
	if h.casks[target] {
		args = append(args, "--cask")
	}
	args = append(args, target)

	output, err := h.run(ctx, "", "brew", args...)
	if err != nil {
		return failureResult(Homebrew, target, err, string(output))
	}
	return UpdateResult{
		AppName: target,
		Manager: Homebrew,
		Status:  classifySuccess(string(output)),
		Message: fmt.Sprintf("brew %s completed", strings.Join(args, " ")),
	}
}

// updateAll refreshes Homebrew itself and upgrades all formulae and casks.
func (h *HomebrewAdapter) updateAll(ctx context.Context) UpdateResult {
	steps := [][]string{
		{"update"},
		{"upgrade"},
		{"upgrade", "--cask"},
	}

	var combined strings.Builder
	for _, args := range steps {
		output, err := h.run(ctx, "", "brew", args...)
		combined.Write(output)
		if err != nil {
			return failureResult(Homebrew, "all packages", err, string(output))
		}
	}
	return UpdateResult{
		AppName: "all packages",
		Manager: Homebrew,
		Status:  classifySuccess(combined.String()),
		Message: "brew update, upgrade and cask upgrade completed",
	}
}
