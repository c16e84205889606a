package pkgmgr

import (
	"context"
	"encoding/json"
	"fmt"
)

// pipOutdatedEntry represents one package in `pip3 list --outdated
// --format=json` output
type pipOutdatedEntry struct {
	Name          string `json:"name"`
	Version       string `json:"version"`
	LatestVersion string `json:"latest_version"`
}

// PipAdapter reports outdated pip3 packages but never updates them:
// blindly upgrading system Python packages can break macOS tooling, so
// Update always returns Skipped. This is policy, not a missing feature.
type PipAdapter struct {
	runner
}

// NewPip returns a pip adapter with default command execution.
func NewPip() *PipAdapter {
	return &PipAdapter{runner: newRunner()}
}

func (p *PipAdapter) Manager() Manager        { return Pip }
func (p *PipAdapter) RequiresElevation() bool { return false }
func (p *PipAdapter) IsAvailable() bool       { return p.available("pip3") }

// ListOutdated parses `pip3 list --outdated --format=json`.
func (p *PipAdapter) ListOutdated(ctx context.Context) ([]OutdatedPackage, error) {
	output, err := p.run(ctx, "", "pip3", "list", "--outdated", "--format=json")
	if err != nil {
		return nil, fmt.Errorf("pip3 list --outdated failed: %w", err)
	}

	var entries []pipOutdatedEntry
	if err := json.Unmarshal(output, &entries); err != nil {
		return nil, fmt.Errorf("%w: pip3 list: %v", ErrParseWarning, err)
	}

	var packages []OutdatedPackage
	for _, entry := range entries {
		packages = append(packages, OutdatedPackage{
			Name:    entry.Name,
			Manager: Pip,
			Current: entry.Version,
			Latest:  entry.LatestVersion,
		})
	}
	return packages, nil
}

// Update never runs pip; see the type comment.
func (p *PipAdapter) Update(_ context.Context, target, _ string) UpdateResult {
	name := target
	if name == "" {
		name = "pip packages"
	}
	return UpdateResult{
		AppName: name,
		Manager: Pip,
		Status:  StatusSkipped,
		Message: "manual update required: pip packages are reported but never auto-upgraded",
	}
}
