package config

import (
	"errors"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalidVariant is returned when the configured variant is neither persistent nor ephemeral.
var ErrInvalidVariant = errors.New("invalid variant")

// Variant selects the orchestration policy.
type Variant string

const (
	VariantPersistent Variant = "persistent"
	VariantEphemeral  Variant = "ephemeral"
)

// ParseVariant validates s. An empty string selects the persistent variant.
func ParseVariant(s string) (Variant, error) {
	switch Variant(s) {
	case "", VariantPersistent:
		return VariantPersistent, nil
	case VariantEphemeral:
		return VariantEphemeral, nil
	default:
		return "", fmt.Errorf("%w: %q (want %q or %q)", ErrInvalidVariant, s, VariantPersistent, VariantEphemeral)
	}
}

// Config is the root configuration for pioboard.
type Config struct {
	Variant   Variant         `json:"variant"`
	Kernel    KernelConfig    `json:"kernel"`
	Events    EventsConfig    `json:"events"`
	Display   DisplayConfig   `json:"display"`
	Heartbeat HeartbeatConfig `json:"heartbeat"`
	Log       LogConfig       `json:"log"`
}

// KernelConfig sizes the simulated scheduler.
type KernelConfig struct {
	HeapSize     int      `json:"heap_size"`     // task arena in bytes (default: 8192)
	StackDepth   int      `json:"stack_depth"`   // words requested per worker (default: 150)
	IdleInterval Duration `json:"idle_interval"` // pause between idle hook passes (default: 1ms)
	TimeSlice    Duration `json:"time_slice"`    // optional pause after each dispatch (default: 0)
}

// EventsConfig holds event bus settings.
type EventsConfig struct {
	BufferSize int `json:"buffer_size"`
}

// DisplayConfig configures the front panel.
type DisplayConfig struct {
	Refresh Duration `json:"refresh"`
}

// HeartbeatConfig configures the liveness file written by `pioboard run`.
type HeartbeatConfig struct {
	Interval Duration `json:"interval"` // default: 1s
	MaxAge   Duration `json:"max_age"`  // older heartbeats are stale (default: 5s)
}

// LogConfig configures the default slog handler.
type LogConfig struct {
	Level string `json:"level"` // debug, info, warn, error
}

// Duration wraps time.Duration for JSON unmarshaling.
type Duration time.Duration

func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	// Remove quotes
	s := string(b)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

// UnmarshalYAML accepts the same duration strings as UnmarshalJSON.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("duration: expected a scalar, got %v", value.Tag)
	}
	dur, err := time.ParseDuration(value.Value)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Duration(d).String() + `"`), nil
}
