package pkgmgr

import (
	"context"
	"fmt"
	"strings"
)

// MacPortsAdapter drives MacPorts. Every mutating port command runs under
// sudo with the stored credential written to stdin (sudo -S). Without a
// credential Update degrades to Skipped rather than prompting mid-batch.
type MacPortsAdapter struct {
	runner
}

// NewMacPorts returns a MacPorts adapter with default command execution.
func NewMacPorts() *MacPortsAdapter {
	return &MacPortsAdapter{runner: newRunner()}
}

func (m *MacPortsAdapter) Manager() Manager        { return MacPorts }
func (m *MacPortsAdapter) RequiresElevation() bool { return true }
func (m *MacPortsAdapter) IsAvailable() bool       { return m.available("port") }

// ListOutdated parses `port echo outdated`, whose lines have the form
// "portname  @version" with whitespace-separated fields.
func (m *MacPortsAdapter) ListOutdated(ctx context.Context) ([]OutdatedPackage, error) {
	output, err := m.run(ctx, "", "port", "echo", "outdated")
	if err != nil {
		return nil, fmt.Errorf("port echo outdated failed: %w", err)
	}
	return parsePortOutdated(string(output))
}

// parsePortOutdated converts port listing lines into structured entries.
// Lines that do not look like "name @version" trigger a ParseWarning for
// the whole listing: the output shape is not what we expect.
func parsePortOutdated(output string) ([]OutdatedPackage, error) {
	var packages []OutdatedPackage
	for _, line := range strings.Split(strings.TrimSpace(output), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "No ports") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if len(fields) > 1 && !strings.HasPrefix(fields[1], "@") {
			return nil, fmt.Errorf("%w: port outdated line %q", ErrParseWarning, line)
		}

		pkg := OutdatedPackage{Name: fields[0], Manager: MacPorts}
		if len(fields) > 1 {
			pkg.Current = strings.TrimPrefix(fields[1], "@")
		}
		packages = append(packages, pkg)
	}
	return packages, nil
}

// Update upgrades one port, or all outdated ports when target is empty.
// The credential is fed to sudo -S via stdin; -k forces revalidation so a
// stale cached sudo timestamp never masks a bad credential.
func (m *MacPortsAdapter) Update(ctx context.Context, target, cred string) UpdateResult {
	name := target
	if name == "" {
		name = "outdated ports"
	}
	if cred == "" {
		return UpdateResult{
			AppName: name,
			Manager: MacPorts,
			Status:  StatusSkipped,
			Message: "no sudo credential stored; set credentials first",
		}
	}

	args := []string{"-S", "-k", "port", "upgrade"}
	if target == "" {
		args = append(args, "outdated")
	} else {
		args = append(args, target)
	}

	output, err := m.run(ctx, cred+"\n", "sudo", args...)
	if err != nil {
		return failureResult(MacPorts, name, err, string(output))
	}
	return UpdateResult{
		AppName: name,
		Manager: MacPorts,
		Status:  classifySuccess(string(output)),
		Message: "port upgrade completed",
	}
}
