package schema

import (
	"testing"

	"github.com/spf13/cobra"
)

func newTestRoot() *cobra.Command {
	root := &cobra.Command{Use: "swapencode"}
	router := &cobra.Command{Use: "router", Short: "encode against the router"}
	history := &cobra.Command{Use: "history", Short: "list recent encodes"}
	history.Flags().Int("limit", 20, "maximum entries to list")
	hidden := &cobra.Command{Use: "schema", Hidden: true}
	root.AddCommand(router, history, hidden)
	return root
}

func TestBuildResolvesCommandPath(t *testing.T) {
	s, err := Build(newTestRoot(), "history")
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if s.Path != "swapencode history" {
		t.Fatalf("unexpected path: %s", s.Path)
	}
	if len(s.Flags) != 1 || s.Flags[0].Name != "limit" || s.Flags[0].Default != "20" {
		t.Fatalf("unexpected flags: %+v", s.Flags)
	}
}

func TestBuildSkipsHiddenSubcommands(t *testing.T) {
	s, err := Build(newTestRoot(), "")
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	for _, sub := range s.Subcommands {
		if sub.Use == "schema" {
			t.Fatal("hidden command leaked into schema")
		}
	}
	if len(s.Subcommands) != 2 {
		t.Fatalf("expected 2 visible subcommands, got %d", len(s.Subcommands))
	}
}

func TestBuildUnknownCommand(t *testing.T) {
	if _, err := Build(newTestRoot(), "nonsense"); err == nil {
		t.Fatal("expected error for unknown command path")
	}
}
