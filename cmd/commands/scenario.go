package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/dohr-michael/pioboard/internal/board"
	"github.com/dohr-michael/pioboard/internal/config"
	"github.com/dohr-michael/pioboard/internal/display"
	"github.com/dohr-michael/pioboard/internal/firmware"
)

// scenarioStep changes the switches and then runs idle passes.
type scenarioStep struct {
	title   string
	press   []board.Pin
	release []board.Pin
	passes  int
}

// referenceScenario: all released, switch 3 pressed, held, released.
var referenceScenario = []scenarioStep{
	{title: "all released", passes: 1},
	{title: "switch 3 pressed", press: []board.Pin{board.BTN3}, passes: 1},
	{title: "switch 3 held", passes: 2},
	{title: "switch 3 released", release: []board.Pin{board.BTN3}, passes: 1},
}

// NewScenarioCommand returns the scenario subcommand.
func NewScenarioCommand() *cli.Command {
	return &cli.Command{
		Name:  "scenario",
		Usage: "Step the reference switch scenario through idle passes and print each state",
		Flags: []cli.Flag{variantFlag},
		Action: func(_ context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			setupLogging(cmd, cfg, os.Stderr)
			return runScenario(cfg, os.Stdout)
		},
	}
}

func runScenario(cfg *config.Config, out io.Writer) error {
	fw, err := firmware.New(cfg, firmware.Options{})
	if err != nil {
		return err
	}
	defer fw.Close()
	if err := fw.Boot(); err != nil {
		return err
	}

	fmt.Fprintf(out, "variant %s\n", fw.Variant())
	for _, step := range referenceScenario {
		for _, p := range step.press {
			fw.Board().Press(p)
		}
		for _, p := range step.release {
			fw.Board().Release(p)
		}
		for i := 0; i < step.passes; i++ {
			fw.IdlePass()
		}
		fmt.Fprintf(out, "%-18s %s\n", step.title, display.Line(fw.Frame()))
	}
	return nil
}
