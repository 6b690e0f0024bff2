// ABOUTME: Tests for catalog, retrieval, and evaluation command structure
// ABOUTME: Verifies flags, argument rules, and help text of each command

package commands

import (
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestCommandArgs(t *testing.T) {
	tests := []struct {
		name    string
		cmd     *cobra.Command
		args    []string
		wantErr bool
	}{
		{name: "ingest needs csv", cmd: NewIngestCmd(), args: nil, wantErr: true},
		{name: "ingest one csv", cmd: NewIngestCmd(), args: []string{"courses.csv"}},
		{name: "embed takes none", cmd: NewEmbedCmd(), args: []string{"x"}, wantErr: true},
		{name: "search needs query", cmd: NewSearchCmd(), args: nil, wantErr: true},
		{name: "search one query", cmd: NewSearchCmd(), args: []string{"algebra"}},
		{name: "search two queries", cmd: NewSearchCmd(), args: []string{"a", "b"}, wantErr: true},
		{name: "recommend needs prompt", cmd: NewRecommendCmd(), args: nil, wantErr: true},
		{name: "evaluate needs evalset", cmd: NewEvaluateCmd(), args: nil, wantErr: true},
		{name: "split stdin", cmd: NewSplitCmd(), args: nil},
		{name: "split file", cmd: NewSplitCmd(), args: []string{"a.txt"}},
		{name: "split two files", cmd: NewSplitCmd(), args: []string{"a.txt", "b.txt"}, wantErr: true},
		{name: "translate stdin", cmd: NewTranslateCmd(), args: nil},
		{name: "runs list", cmd: NewRunsCmd(), args: nil},
		{name: "runs one id", cmd: NewRunsCmd(), args: []string{"id"}},
		{name: "export takes none", cmd: NewExportCmd(), args: []string{"x"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cmd.Args(tt.cmd, tt.args)
			if (err != nil) != tt.wantErr {
				t.Errorf("Args(%v) error = %v, wantErr %v", tt.args, err, tt.wantErr)
			}
		})
	}
}

func TestCommandFlags(t *testing.T) {
	tests := []struct {
		cmd      *cobra.Command
		flag     string
		defValue string
	}{
		{NewIngestCmd(), "translate", "false"},
		{NewEmbedCmd(), "backend", "openai"},
		{NewSearchCmd(), "limit", "5"},
		{NewSearchCmd(), "backend", "openai"},
		{NewRecommendCmd(), "limit", "5"},
		{NewRecommendCmd(), "no-llm", "false"},
		{NewEvaluateCmd(), "k", "0"},
		{NewEvaluateCmd(), "no-save", "false"},
		{NewSplitCmd(), "max-length", "512"},
		{NewTranslateCmd(), "max-length", "512"},
		{NewRunsCmd(), "limit", "20"},
		{NewMCPCmd(), "backend", "openai"},
	}

	for _, tt := range tests {
		t.Run(tt.cmd.Name()+"/"+tt.flag, func(t *testing.T) {
			flag := tt.cmd.Flags().Lookup(tt.flag)
			if flag == nil {
				t.Fatalf("--%s flag not found", tt.flag)
			}
			if flag.DefValue != tt.defValue {
				t.Errorf("--%s default = %q, want %q", tt.flag, flag.DefValue, tt.defValue)
			}
		})
	}
}

func TestCommandExamples(t *testing.T) {
	for _, cmd := range []*cobra.Command{
		NewIngestCmd(), NewEmbedCmd(), NewSearchCmd(), NewRecommendCmd(),
		NewEvaluateCmd(), NewSplitCmd(), NewTranslateCmd(), NewExportCmd(), NewRunsCmd(),
	} {
		t.Run(cmd.Name(), func(t *testing.T) {
			if cmd.Short == "" {
				t.Error("Short description should not be empty")
			}
			if !strings.Contains(cmd.Long, "courserec "+cmd.Name()) {
				t.Errorf("Long description should show a 'courserec %s' example", cmd.Name())
			}
		})
	}
}

func TestSearchRejectsBadLimit(t *testing.T) {
	cmd := NewRootCmd()
	cmd.SetArgs([]string{"search", "--limit", "0", "algebra"})
	cmd.SetOut(&strings.Builder{})
	cmd.SetErr(&strings.Builder{})

	err := cmd.Execute()
	if err == nil || !strings.Contains(err.Error(), "limit must be positive") {
		t.Fatalf("Execute() error = %v, want limit validation error", err)
	}
}

