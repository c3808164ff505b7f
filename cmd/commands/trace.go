package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/dohr-michael/pioboard/internal/stimulus"
)

// NewTraceCommand returns the trace subcommand group.
func NewTraceCommand() *cli.Command {
	return &cli.Command{
		Name:  "trace",
		Usage: "Inspect switch traces",
		Commands: []*cli.Command{
			{
				Name:      "validate",
				Usage:     "Parse and validate a trace file",
				ArgsUsage: "<file|builtin>",
				Action: func(_ context.Context, cmd *cli.Command) error {
					ref := cmd.Args().First()
					if ref == "" {
						return fmt.Errorf("usage: pioboard trace validate <file|builtin>")
					}
					tr, err := resolveTrace(ref)
					if err != nil {
						return err
					}
					fmt.Printf("%s: %d steps, %s\n", ref, len(tr.Steps), tr.Duration())
					return nil
				},
			},
			{
				Name:  "list",
				Usage: "List built-in traces",
				Action: func(_ context.Context, _ *cli.Command) error {
					for _, name := range stimulus.BuiltinNames() {
						tr, _ := stimulus.Builtin(name)
						fmt.Printf("%-14s %d steps, %s\n", name, len(tr.Steps), tr.Duration())
					}
					return nil
				},
			},
		},
	}
}
