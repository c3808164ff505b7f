package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/dohr-michael/pioboard/internal/config"
	"github.com/dohr-michael/pioboard/internal/stimulus"
)

var variantFlag = &cli.StringFlag{
	Name:    "variant",
	Aliases: []string{"v"},
	Usage:   "Orchestration variant: persistent or ephemeral (default from config)",
}

// loadConfig reads --config, falling back to defaults when the file is
// missing, and applies --variant.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	path := cmd.String("config")
	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cmd.IsSet("variant") {
		v, err := config.ParseVariant(cmd.String("variant"))
		if err != nil {
			return nil, err
		}
		cfg.Variant = v
	}
	return cfg, nil
}

// setupLogging installs the default slog handler at the configured level;
// --debug wins over log.level.
func setupLogging(cmd *cli.Command, cfg *config.Config, w io.Writer) *slog.LevelVar {
	level := new(slog.LevelVar)
	var l slog.Level
	if err := l.UnmarshalText([]byte(cfg.Log.Level)); err == nil {
		level.Set(l)
	}
	if cmd.Bool("debug") {
		level.Set(slog.LevelDebug)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
	return level
}

// resolveTrace finds a trace by built-in name, by path, or by name under
// the traces directory.
func resolveTrace(ref string) (*stimulus.Trace, error) {
	if tr, ok := stimulus.Builtin(ref); ok {
		return tr, nil
	}
	if _, err := os.Stat(ref); err == nil || filepath.IsAbs(ref) {
		return stimulus.Load(ref)
	}
	return stimulus.Load(filepath.Join(config.TracesPath(), ref))
}
