// Package schema renders the swapencode command tree as JSON so wrappers and
// shell-completion tooling can discover subcommands and flags without
// scraping help text. It is exposed through the hidden `schema` command.
package schema

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// CommandSchema describes one command: its own flags plus every visible
// subcommand, recursively. Hidden commands (including `schema` itself) are
// omitted.
type CommandSchema struct {
	Path        string          `json:"path"`
	Use         string          `json:"use"`
	Short       string          `json:"short"`
	Aliases     []string        `json:"aliases,omitempty"`
	Flags       []FlagSchema    `json:"flags,omitempty"`
	Subcommands []CommandSchema `json:"subcommands,omitempty"`
}

type FlagSchema struct {
	Name      string `json:"name"`
	Shorthand string `json:"shorthand,omitempty"`
	Type      string `json:"type"`
	Usage     string `json:"usage"`
	Default   string `json:"default,omitempty"`
}

// Build describes the command at commandPath (space-separated names or
// aliases, e.g. "router-permit2"), or the whole tree when the path is empty.
func Build(root *cobra.Command, commandPath string) (CommandSchema, error) {
	cmd := root
	for _, part := range strings.Fields(strings.TrimSpace(commandPath)) {
		sub, ok := childNamed(cmd, part)
		if !ok {
			return CommandSchema{}, fmt.Errorf("command not found: %s", commandPath)
		}
		cmd = sub
	}
	return describe(cmd), nil
}

func childNamed(cmd *cobra.Command, name string) (*cobra.Command, bool) {
	for _, sub := range cmd.Commands() {
		if sub.Name() == name {
			return sub, true
		}
		for _, alias := range sub.Aliases {
			if alias == name {
				return sub, true
			}
		}
	}
	return nil, false
}

func describe(cmd *cobra.Command) CommandSchema {
	s := CommandSchema{
		Path:    strings.TrimSpace(cmd.CommandPath()),
		Use:     cmd.Use,
		Short:   cmd.Short,
		Aliases: cmd.Aliases,
		Flags:   describeFlags(cmd),
	}
	for _, sub := range cmd.Commands() {
		if sub.Hidden {
			continue
		}
		s.Subcommands = append(s.Subcommands, describe(sub))
	}
	return s
}

// describeFlags lists the command's own flags; persistent flags inherited
// from a parent already appear on that parent's entry.
func describeFlags(cmd *cobra.Command) []FlagSchema {
	items := []FlagSchema{}
	cmd.NonInheritedFlags().VisitAll(func(f *pflag.Flag) {
		items = append(items, FlagSchema{
			Name:      f.Name,
			Shorthand: f.Shorthand,
			Type:      f.Value.Type(),
			Usage:     f.Usage,
			Default:   f.DefValue,
		})
	})
	return items
}
