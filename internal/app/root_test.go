package app

import (
	"testing"
)

func TestRootCommand(t *testing.T) {
	if RootCmd.Use != "dockup" {
		t.Errorf("expected Use to be 'dockup', got '%s'", RootCmd.Use)
	}

	if RootCmd.Short == "" {
		t.Error("expected Short description to be set")
	}

	if RootCmd.Long == "" {
		t.Error("expected Long description to be set")
	}

	if RootCmd.RunE == nil {
		t.Error("expected bare 'dockup' to launch the UI via RunE")
	}
}

func TestRootCommandHasSubcommands(t *testing.T) {
	commands := RootCmd.Commands()

	expectedCommands := []string{"scan", "outdated", "update [app...]", "creds", "log", "history"}
	foundCommands := make(map[string]bool)

	for _, cmd := range commands {
		foundCommands[cmd.Use] = true
	}

	for _, expected := range expectedCommands {
		if !foundCommands[expected] {
			t.Errorf("expected command '%s' to be registered", expected)
		}
	}
}

func TestRootCommandHasPersistentFlags(t *testing.T) {
	flag := RootCmd.PersistentFlags().Lookup("config")
	if flag == nil {
		t.Fatal("expected --config flag to be registered")
	}

	if flag.Usage == "" {
		t.Error("expected --config flag to have usage text")
	}
}

func TestCredsSubcommands(t *testing.T) {
	expected := map[string]bool{"set": false, "clear": false, "status": false}
	for _, cmd := range credsCmd.Commands() {
		if _, ok := expected[cmd.Use]; ok {
			expected[cmd.Use] = true
		}
	}
	for name, found := range expected {
		if !found {
			t.Errorf("expected creds subcommand '%s' to be registered", name)
		}
	}
}

func TestLogSubcommands(t *testing.T) {
	expected := map[string]bool{"path [file]": false, "enable": false, "disable": false, "clear": false, "show": false}
	for _, cmd := range logCmd.Commands() {
		if _, ok := expected[cmd.Use]; ok {
			expected[cmd.Use] = true
		}
	}
	for name, found := range expected {
		if !found {
			t.Errorf("expected log subcommand '%s' to be registered", name)
		}
	}
}

func TestHistoryLimitFlag(t *testing.T) {
	flag := historyCmd.Flags().Lookup("limit")
	if flag == nil {
		t.Fatal("expected --limit flag on history")
	}
	if flag.DefValue != "20" {
		t.Errorf("expected default limit 20, got %s", flag.DefValue)
	}
}
