package config

import (
	"os"
	"path/filepath"
)

// PioboardPath returns the root directory for pioboard data.
// It uses $PIOBOARD_PATH if set, otherwise defaults to ~/.pioboard.
func PioboardPath() string {
	if v := os.Getenv("PIOBOARD_PATH"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".pioboard")
	}
	return filepath.Join(home, ".pioboard")
}

// ConfigPath returns the path to the config file.
func ConfigPath() string {
	return filepath.Join(PioboardPath(), "config.jsonc")
}

// DotenvPath returns the path to the .env file.
func DotenvPath() string {
	return filepath.Join(PioboardPath(), ".env")
}

// TracesPath returns the directory searched for relative stimulus trace names.
func TracesPath() string {
	return filepath.Join(PioboardPath(), "traces")
}

// HeartbeatPath returns the path to the heartbeat file of the running board.
func HeartbeatPath() string {
	return filepath.Join(PioboardPath(), "heartbeat.json")
}

// RunsPath returns the directory holding recorded run events.
func RunsPath() string {
	return filepath.Join(PioboardPath(), "runs")
}
