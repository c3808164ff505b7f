package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/dohr-michael/pioboard/internal/config"
	"github.com/dohr-michael/pioboard/internal/display"
	"github.com/dohr-michael/pioboard/internal/firmware"
	"github.com/dohr-michael/pioboard/internal/heartbeat"
	"github.com/dohr-michael/pioboard/internal/stimulus"
	"github.com/dohr-michael/pioboard/internal/storage"
)

// NewRunCommand returns the run subcommand.
func NewRunCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Boot the board and run the scheduler",
		Flags: []cli.Flag{
			variantFlag,
			&cli.StringFlag{
				Name:    "trace",
				Aliases: []string{"t"},
				Usage:   "Switch trace to replay: built-in name or JSONC file",
			},
			&cli.DurationFlag{
				Name:    "duration",
				Aliases: []string{"d"},
				Usage:   "Stop after this long (default: end of trace, or until interrupted)",
			},
			&cli.BoolFlag{
				Name:  "no-heartbeat",
				Usage: "Do not write the heartbeat file",
			},
			&cli.BoolFlag{
				Name:  "record",
				Usage: "Record the run's events under $PIOBOARD_PATH/runs",
			},
		},
		Action: runBoard,
	}
}

func runBoard(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	setupLogging(cmd, cfg, os.Stderr)

	var tr *stimulus.Trace
	if ref := cmd.String("trace"); ref != "" {
		if tr, err = resolveTrace(ref); err != nil {
			return err
		}
	}

	fw, err := firmware.New(cfg, firmware.Options{})
	if err != nil {
		return err
	}
	defer fw.Close()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	if d := cmd.Duration("duration"); d > 0 {
		runCtx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	if !cmd.Bool("no-heartbeat") {
		hb := startHeartbeat(cfg, fw)
		defer hb.Stop()
	}

	if cmd.Bool("record") {
		el := storage.NewEventLogger(config.RunsPath(), fw.Bus())
		defer el.Close()
	}

	if tr != nil {
		player := stimulus.NewPlayer(fw.Board(), fw.Registry(), fw.Bus())
		stopAtEnd := !cmd.IsSet("duration")
		go func() {
			err := player.Play(runCtx, tr)
			if err != nil && runCtx.Err() == nil {
				slog.Error("trace failed", "error", err)
			}
			if stopAtEnd {
				cancel()
			}
		}()
	}

	start := time.Now()
	runErr := fw.Run(runCtx)

	fmt.Println(display.Render(fw.Frame()))
	slog.Info("run finished", "run", fw.RunID(), "elapsed", time.Since(start).Truncate(time.Millisecond))
	return runErr
}

func startHeartbeat(cfg *config.Config, fw *firmware.Firmware) *heartbeat.Writer {
	if err := os.MkdirAll(config.PioboardPath(), 0o755); err != nil {
		slog.Warn("heartbeat disabled", "error", err)
	}
	w := heartbeat.NewWriter(config.HeartbeatPath(), cfg.Heartbeat.Interval.Duration(), func(hb *heartbeat.Heartbeat) {
		fr := fw.Frame()
		hb.RunID = fw.RunID()
		hb.Variant = string(fw.Variant())
		hb.Board = display.Line(fr)
		hb.Live = fr.Stats.Live
		hb.Spawned = fr.Stats.Spawned
		hb.Failed = fr.Stats.Failed
		hb.HeapUsed = fr.Stats.HeapUsed
		hb.HeapSize = fr.Stats.HeapSize
	})
	w.Start()
	return w
}
