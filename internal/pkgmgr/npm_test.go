package pkgmgr

import (
	"context"
	"errors"
	"sort"
	"testing"
)

// Test data: sample npm outdated -g --json output
const mockNpmOutdatedJSON = `{
  "npm": {
    "current": "10.5.0",
    "wanted": "10.8.1",
    "latest": "10.8.1"
  },
  "typescript": {
    "current": "5.3.3",
    "wanted": "5.4.5",
    "latest": "5.4.5"
  }
}`

func TestNpmListOutdated(t *testing.T) {
	npm := NewNpm()
	// npm exits 1 when anything is outdated; the JSON still counts.
	npm.runner = fakeRunner(mockNpmOutdatedJSON, errors.New("exit status 1"), nil)

	packages, err := npm.ListOutdated(context.Background())
	if err != nil {
		t.Fatalf("ListOutdated() failed: %v", err)
	}

	if len(packages) != 2 {
		t.Fatalf("expected 2 outdated packages, got %d", len(packages))
	}

	sort.Slice(packages, func(i, j int) bool { return packages[i].Name < packages[j].Name })
	if packages[0].Name != "npm" || packages[0].Latest != "10.8.1" {
		t.Errorf("unexpected first entry: %+v", packages[0])
	}
	if packages[1].Name != "typescript" || packages[1].Current != "5.3.3" {
		t.Errorf("unexpected second entry: %+v", packages[1])
	}
}

func TestNpmListOutdatedEmptyObject(t *testing.T) {
	npm := NewNpm()
	npm.runner = fakeRunner("{}", nil, nil)

	packages, err := npm.ListOutdated(context.Background())
	if err != nil {
		t.Fatalf("ListOutdated() failed: %v", err)
	}
	if len(packages) != 0 {
		t.Errorf("expected empty listing, got %d entries", len(packages))
	}
}

func TestNpmListOutdatedParseWarning(t *testing.T) {
	npm := NewNpm()
	npm.runner = fakeRunner("not json at all", nil, nil)

	_, err := npm.ListOutdated(context.Background())
	if !errors.Is(err, ErrParseWarning) {
		t.Errorf("expected ParseWarning, got %v", err)
	}
}

func TestNpmUpdate(t *testing.T) {
	tests := []struct {
		name            string
		target          string
		expectedCommand string
		expectedApp     string
	}{
		{
			name:            "single target",
			target:          "typescript",
			expectedCommand: "npm update -g typescript",
			expectedApp:     "typescript",
		},
		{
			name:            "batch mode",
			target:          "",
			expectedCommand: "npm update -g",
			expectedApp:     "global packages",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls []recordedCall
			npm := NewNpm()
			npm.runner = fakeRunner("changed 3 packages in 4s\n", nil, &calls)

			result := npm.Update(context.Background(), tt.target, "")

			if result.Status != StatusUpdated {
				t.Errorf("expected StatusUpdated, got %s", result.Status)
			}
			if result.AppName != tt.expectedApp {
				t.Errorf("AppName = %q, want %q", result.AppName, tt.expectedApp)
			}
			if len(calls) != 1 || calls[0].commandLine() != tt.expectedCommand {
				t.Errorf("unexpected invocation: %+v", calls)
			}
		})
	}
}
