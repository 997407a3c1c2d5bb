package cli

import (
	"errors"
	"testing"

	"github.com/spf13/cobra"
)

type Command = cobra.Command

func TestRootCommandContainsTopLevelCommands(t *testing.T) {
	root := NewRootCommand()

	expected := []string{
		"run",
		"rules",
		"config",
		"version",
	}

	for _, name := range expected {
		if findCommand(root, name) == nil {
			t.Fatalf("expected command %q to exist", name)
		}
	}
}

func TestConfigCommandContainsSubcommands(t *testing.T) {
	root := NewRootCommand()
	cfg := findCommand(root, "config")
	if cfg == nil {
		t.Fatal("config command missing")
	}

	expected := []string{"init", "check"}
	for _, name := range expected {
		if findCommand(cfg, name) == nil {
			t.Fatalf("expected config subcommand %q", name)
		}
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, 0},
		{errors.New("plain"), 1},
		{&ExitError{Code: 2, Message: "bad config"}, 2},
		{&ExitError{Code: 0}, 1},
	}
	for _, tc := range tests {
		if got := ExitCode(tc.err); got != tc.want {
			t.Fatalf("ExitCode(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func findCommand(parent interface{ Commands() []*Command }, name string) *Command {
	for _, c := range parent.Commands() {
		if c.Name() == name {
			return c
		}
	}
	return nil
}
