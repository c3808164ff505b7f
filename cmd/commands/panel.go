package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/dohr-michael/pioboard/clients/tui"
	"github.com/dohr-michael/pioboard/internal/config"
	"github.com/dohr-michael/pioboard/internal/firmware"
)

// NewPanelCommand returns the panel subcommand.
func NewPanelCommand() *cli.Command {
	return &cli.Command{
		Name:   "panel",
		Usage:  "Run the board behind an interactive front panel",
		Flags:  []cli.Flag{variantFlag},
		Action: runPanel,
	}
}

func runPanel(ctx context.Context, cmd *cli.Command) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("panel needs an interactive terminal, use 'pioboard run' instead")
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// the panel owns the terminal: logs go to a file
	if err := os.MkdirAll(config.PioboardPath(), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", config.PioboardPath(), err)
	}
	logFile, err := os.OpenFile(filepath.Join(config.PioboardPath(), "panel.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open panel log: %w", err)
	}
	defer logFile.Close()
	level := setupLogging(cmd, cfg, logFile)

	fw, err := firmware.New(cfg, firmware.Options{})
	if err != nil {
		return err
	}
	defer fw.Close()

	return tui.Run(ctx, fw, tui.Options{
		Refresh:  cfg.Display.Refresh.Duration(),
		Reloader: config.NewReloader(cmd.String("config"), config.DotenvPath(), cfg),
		Level:    level,
	})
}
