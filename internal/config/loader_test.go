package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.jsonc")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `{
	// This is a JSONC comment
	"variant": "${{ .Env.BOARD_VARIANT }}",
	"kernel": {
		"heap_size": 2048,
		"idle_interval": "5ms",
		"time_slice": "100us"
	},
	"events": { "buffer_size": 16 },
	"display": { "refresh": "1s" },
	"log": { "level": "debug" }
}`)

	t.Setenv("BOARD_VARIANT", "ephemeral")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Variant != VariantEphemeral {
		t.Errorf("expected ephemeral, got %s", cfg.Variant)
	}
	if cfg.Kernel.HeapSize != 2048 {
		t.Errorf("expected heap 2048, got %d", cfg.Kernel.HeapSize)
	}
	if cfg.Kernel.IdleInterval.Duration() != 5*time.Millisecond {
		t.Errorf("expected idle 5ms, got %s", cfg.Kernel.IdleInterval.Duration())
	}
	if cfg.Kernel.TimeSlice.Duration() != 100*time.Microsecond {
		t.Errorf("expected time slice 100us, got %s", cfg.Kernel.TimeSlice.Duration())
	}
	if cfg.Events.BufferSize != 16 {
		t.Errorf("expected buffer 16, got %d", cfg.Events.BufferSize)
	}
	if cfg.Display.Refresh.Duration() != time.Second {
		t.Errorf("expected refresh 1s, got %s", cfg.Display.Refresh.Duration())
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("expected level debug, got %s", cfg.Log.Level)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PIOBOARD_VARIANT", "")
	cfg, err := Load(writeConfig(t, `{}`))
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Variant != VariantPersistent {
		t.Errorf("expected default variant persistent, got %s", cfg.Variant)
	}
	if cfg.Kernel.HeapSize != 8192 {
		t.Errorf("expected default heap 8192, got %d", cfg.Kernel.HeapSize)
	}
	if cfg.Kernel.StackDepth != 150 {
		t.Errorf("expected default stack depth 150, got %d", cfg.Kernel.StackDepth)
	}
	if cfg.Kernel.IdleInterval.Duration() != time.Millisecond {
		t.Errorf("expected default idle 1ms, got %s", cfg.Kernel.IdleInterval.Duration())
	}
	if cfg.Kernel.TimeSlice != 0 {
		t.Errorf("expected no time slice, got %s", cfg.Kernel.TimeSlice.Duration())
	}
	if cfg.Events.BufferSize != 1024 {
		t.Errorf("expected default buffer 1024, got %d", cfg.Events.BufferSize)
	}
	if cfg.Display.Refresh.Duration() != 250*time.Millisecond {
		t.Errorf("expected default refresh 250ms, got %s", cfg.Display.Refresh.Duration())
	}
	if cfg.Heartbeat.Interval.Duration() != time.Second || cfg.Heartbeat.MaxAge.Duration() != 5*time.Second {
		t.Errorf("unexpected heartbeat defaults %+v", cfg.Heartbeat)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("expected default level info, got %q", cfg.Log.Level)
	}
}

func TestLoadDefaults_VariantFromEnv(t *testing.T) {
	t.Setenv("PIOBOARD_VARIANT", "ephemeral")
	cfg, err := Load(writeConfig(t, `{}`))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Variant != VariantEphemeral {
		t.Errorf("expected ephemeral from env, got %s", cfg.Variant)
	}
}

func TestLoadInvalidVariant(t *testing.T) {
	_, err := Load(writeConfig(t, `{"variant": "hybrid"}`))
	if !errors.Is(err, ErrInvalidVariant) {
		t.Fatalf("expected ErrInvalidVariant, got %v", err)
	}
}

func TestLoadBadDuration(t *testing.T) {
	if _, err := Load(writeConfig(t, `{"kernel": {"idle_interval": "soon"}}`)); err == nil {
		t.Fatal("expected an error for a bad duration")
	}
}

func TestLoadOrDefault(t *testing.T) {
	t.Setenv("PIOBOARD_VARIANT", "")
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.jsonc"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Variant != VariantPersistent || cfg.Kernel.HeapSize != 8192 {
		t.Errorf("expected defaults, got %+v", cfg)
	}

	if _, err := LoadOrDefault(writeConfig(t, `{"variant": 3}`)); err == nil {
		t.Error("a present but broken file must still fail")
	}
}

func TestParseVariant(t *testing.T) {
	for in, want := range map[string]Variant{
		"":           VariantPersistent,
		"persistent": VariantPersistent,
		"ephemeral":  VariantEphemeral,
	} {
		got, err := ParseVariant(in)
		if err != nil || got != want {
			t.Errorf("ParseVariant(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseVariant("A"); !errors.Is(err, ErrInvalidVariant) {
		t.Errorf("expected ErrInvalidVariant, got %v", err)
	}
}

func TestExpandEnvTemplates(t *testing.T) {
	t.Setenv("TEST_HEAP", "4096")
	result := expandEnvTemplates(`{"heap_size": ${{ .Env.TEST_HEAP }}}`)
	expected := `{"heap_size": 4096}`
	if result != expected {
		t.Errorf("expected %s, got %s", expected, result)
	}
}
