package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/dohr-michael/pioboard/internal/config"
	"github.com/dohr-michael/pioboard/internal/heartbeat"
)

// NewStatusCommand returns the status subcommand.
func NewStatusCommand() *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Show the state of a running board",
		Action: func(_ context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			setupLogging(cmd, cfg, os.Stderr)

			status, hb, err := heartbeat.Check(config.HeartbeatPath(), cfg.Heartbeat.MaxAge.Duration())
			if err != nil {
				return fmt.Errorf("check heartbeat: %w", err)
			}

			switch status {
			case heartbeat.StatusAlive:
				fmt.Printf("Board: ALIVE (%s, %s, PID %d, uptime %s)\n", hb.RunID, hb.Variant, hb.PID, hb.Uptime)
				fmt.Printf("  %s\n", hb.Board)
				fmt.Printf("  live %d  spawned %d  failed %d  heap %d/%d\n", hb.Live, hb.Spawned, hb.Failed, hb.HeapUsed, hb.HeapSize)
			case heartbeat.StatusStale:
				fmt.Printf("Board: STALE (%s, PID %d, last heartbeat %s ago)\n",
					hb.RunID, hb.PID, time.Since(hb.Timestamp).Truncate(time.Second))
			case heartbeat.StatusDead:
				fmt.Println("Board: NOT RUNNING")
			}
			return nil
		},
	}
}
