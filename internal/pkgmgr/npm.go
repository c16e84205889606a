package pkgmgr

import (
	"context"
	"encoding/json"
	"fmt"
)

// npmOutdatedEntry represents one package in `npm outdated -g --json` output
type npmOutdatedEntry struct {
	Current string `json:"current"`
	Wanted  string `json:"wanted"`
	Latest  string `json:"latest"`
}

// NpmAdapter drives globally installed npm packages. Global npm installs
// under the Homebrew or system prefix are user-writable on a default
// macOS setup, so no elevation is required.
type NpmAdapter struct {
	runner
}

// NewNpm returns an npm adapter with default command execution.
func NewNpm() *NpmAdapter {
	return &NpmAdapter{runner: newRunner()}
}

func (n *NpmAdapter) Manager() Manager        { return Npm }
func (n *NpmAdapter) RequiresElevation() bool { return false }
func (n *NpmAdapter) IsAvailable() bool       { return n.available("npm") }

// ListOutdated parses `npm outdated -g --json`. npm exits non-zero when
// anything is outdated, so the exit code is ignored whenever the command
// produced parseable JSON.
func (n *NpmAdapter) ListOutdated(ctx context.Context) ([]OutdatedPackage, error) {
	output, runErr := n.run(ctx, "", "npm", "outdated", "-g", "--json")

	entries := make(map[string]npmOutdatedEntry)
	if err := json.Unmarshal(output, &entries); err != nil {
		if runErr != nil {
			return nil, fmt.Errorf("npm outdated failed: %w", runErr)
		}
		return nil, fmt.Errorf("%w: npm outdated: %v", ErrParseWarning, err)
	}

	var packages []OutdatedPackage
	for name, entry := range entries {
		packages = append(packages, OutdatedPackage{
			Name:    name,
			Manager: Npm,
			Current: entry.Current,
			Latest:  entry.Latest,
		})
	}
	return packages, nil
}

// Update runs npm update -g for one package, or for all global packages
// when target is empty.
func (n *NpmAdapter) Update(ctx context.Context, target, _ string) UpdateResult {
	name := target
	args := []string{"update", "-g"}
	if target == "" {
		name = "global packages"
	} else {
		args = append(args, target)
	}

	output, err := n.run(ctx, "", "npm", args...)
	if err != nil {
		return failureResult(Npm, name, err, string(output))
	}
	return UpdateResult{
		AppName: name,
		Manager: Npm,
		Status:  classifySuccess(string(output)),
		Message: "npm update -g completed",
	}
}
