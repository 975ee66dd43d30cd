// Package app wires the CLI: it parses flags, loads settings, builds the
// encoder for the chosen strategy and renders the encoded transactions.
package app

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ggonzalez94/swapencode/internal/config"
	clierr "github.com/ggonzalez94/swapencode/internal/errors"
	"github.com/ggonzalez94/swapencode/internal/out"
	"github.com/ggonzalez94/swapencode/internal/schema"
	"github.com/ggonzalez94/swapencode/internal/version"
	"github.com/spf13/cobra"
)

type Runner struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	now    func() time.Time
}

func NewRunner() *Runner {
	return NewRunnerWithIO(os.Stdin, os.Stdout, os.Stderr)
}

func NewRunnerWithIO(stdin io.Reader, stdout, stderr io.Writer) *Runner {
	return &Runner{
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
		now:    time.Now,
	}
}

// WithClock fixes the runner's time source. Tests use it to make permit
// deadlines reproducible.
func (r *Runner) WithClock(now func() time.Time) *Runner {
	if now != nil {
		r.now = now
	}
	return r
}

func (r *Runner) Run(args []string) int {
	root := r.newRootCommand()
	root.SetArgs(args)
	root.SetIn(r.stdin)
	root.SetOut(r.stdout)
	root.SetErr(r.stderr)
	root.SilenceUsage = true
	root.SilenceErrors = true

	if err := root.Execute(); err != nil {
		fmt.Fprintf(r.stderr, "error: %v\n", err)
		return clierr.ExitCode(err)
	}
	return int(clierr.CodeSuccess)
}

func (r *Runner) newRootCommand() *cobra.Command {
	flags := &config.GlobalFlags{}
	root := &cobra.Command{
		Use:   "swapencode",
		Short: "Encode swap solutions into router and executor calldata",
		Long: `swapencode reads a swap solution as JSON from stdin and prints the
transaction fields (to, value, data) that execute it on-chain.`,
	}
	root.PersistentFlags().StringVar(&flags.ConfigPath, "config", "", "path to the settings file")
	root.PersistentFlags().BoolVar(&flags.JSON, "json", false, "render output as JSON (default)")
	root.PersistentFlags().BoolVar(&flags.Plain, "plain", false, "render output as key=value lines")
	root.PersistentFlags().StringVar(&flags.Chain, "chain", "", "target chain slug (default ethereum)")
	root.PersistentFlags().StringVarP(&flags.ExecutorsPath, "executors", "e", "", "path to the venue executor table (defaults to the embedded table)")
	root.PersistentFlags().BoolVar(&flags.NoStore, "no-store", false, "skip recording the encode in the local journal")

	root.AddCommand(r.newRouterCommand(flags))
	root.AddCommand(r.newRouterPermit2Command(flags))
	root.AddCommand(r.newDirectCommand(flags))
	root.AddCommand(r.newHistoryCommand(flags))
	root.AddCommand(r.newSchemaCommand(flags, root))
	root.AddCommand(r.newVersionCommand())
	return root
}

func (r *Runner) newSchemaCommand(flags *config.GlobalFlags, root *cobra.Command) *cobra.Command {
	return &cobra.Command{
		Use:    "schema [command path]",
		Short:  "Describe the CLI surface as JSON",
		Hidden: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) > 0 {
				path = args[0]
			}
			s, err := schema.Build(root, path)
			if err != nil {
				return clierr.Wrap(clierr.CodeUsage, "build schema", err)
			}
			settings, err := config.Load(*flags)
			if err != nil {
				return clierr.Wrap(clierr.CodeConfig, "load settings", err)
			}
			return out.Render(r.stdout, s, settings)
		},
	}
}

func (r *Runner) newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(r.stdout, version.Long())
			return err
		},
	}
}
