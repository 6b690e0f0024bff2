// ABOUTME: Tests for sync, export, and mcp commands
// ABOUTME: Verifies data management command structure

package commands

import (
	"strings"
	"testing"
)

func TestNewSyncCmd(t *testing.T) {
	cmd := NewSyncCmd()

	if cmd.Use != "sync" {
		t.Errorf("Use = %q, want %q", cmd.Use, "sync")
	}

	if !strings.Contains(cmd.Long, "SQLite") {
		t.Error("Long description should mention local storage")
	}

	if cmd.PersistentFlags().Lookup("model") == nil {
		t.Error("--model flag not found")
	}
}

func TestSyncCmd_Subcommands(t *testing.T) {
	cmd := NewSyncCmd()

	for _, name := range []string{"push", "pull", "status", "keys"} {
		t.Run(name, func(t *testing.T) {
			for _, sub := range cmd.Commands() {
				if sub.Use == name {
					if sub.Short == "" {
						t.Error("Short description should not be empty")
					}
					if sub.RunE == nil {
						t.Error("RunE should be set")
					}
					return
				}
			}
			t.Errorf("Subcommand %q not found", name)
		})
	}
}

func TestNewExportCmd(t *testing.T) {
	cmd := NewExportCmd()

	if cmd.Use != "export" {
		t.Errorf("Use = %q, want %q", cmd.Use, "export")
	}

	tests := []struct {
		name      string
		shorthand string
		defValue  string
	}{
		{"format", "f", "yaml"},
		{"output", "o", ""},
	}
	for _, tt := range tests {
		flag := cmd.Flags().Lookup(tt.name)
		if flag == nil {
			t.Fatalf("--%s flag not found", tt.name)
		}
		if flag.Shorthand != tt.shorthand {
			t.Errorf("--%s shorthand = %q, want %q", tt.name, flag.Shorthand, tt.shorthand)
		}
		if flag.DefValue != tt.defValue {
			t.Errorf("--%s default = %q, want %q", tt.name, flag.DefValue, tt.defValue)
		}
	}

	for _, format := range []string{"yaml", "json", "markdown"} {
		if !strings.Contains(cmd.Long, format) {
			t.Errorf("Long description should mention %s", format)
		}
	}
}

func TestNewMCPCmd(t *testing.T) {
	cmd := NewMCPCmd()

	if cmd.Use != "mcp" {
		t.Errorf("Use = %q, want %q", cmd.Use, "mcp")
	}
	if cmd.RunE == nil {
		t.Error("RunE should be set")
	}
	if !strings.Contains(cmd.Example, "mcpServers") {
		t.Error("Example should show client configuration")
	}
	for _, tool := range []string{"search_courses", "recommend_courses", "get_course"} {
		if !strings.Contains(cmd.Long, tool) {
			t.Errorf("Long description should name the %s tool", tool)
		}
	}
}
