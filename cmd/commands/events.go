package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/dohr-michael/pioboard/clients/tui"
	"github.com/dohr-michael/pioboard/internal/config"
	"github.com/dohr-michael/pioboard/internal/storage"
)

// NewEventsCommand returns the events subcommand.
func NewEventsCommand() *cli.Command {
	return &cli.Command{
		Name:      "events",
		Usage:     "List recorded runs, or print the events of one run",
		ArgsUsage: "[run-id]",
		Action: func(_ context.Context, cmd *cli.Command) error {
			dir := config.RunsPath()
			runID := cmd.Args().First()
			if runID == "" {
				runs, err := storage.ListRuns(dir)
				if err != nil {
					return fmt.Errorf("list runs: %w", err)
				}
				if len(runs) == 0 {
					fmt.Println("No recorded runs. Use 'pioboard run --record'.")
					return nil
				}
				for _, r := range runs {
					fmt.Println(r)
				}
				return nil
			}

			evts, err := storage.ReadRun(dir, runID)
			if err != nil {
				return err
			}
			for _, e := range evts {
				if line := tui.Project(e); line != "" {
					fmt.Println(line)
				}
			}
			return nil
		},
	}
}
