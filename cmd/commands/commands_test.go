package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dohr-michael/pioboard/internal/config"
)

func scenarioOutput(t *testing.T, variant config.Variant) []string {
	t.Helper()
	cfg := config.Default()
	cfg.Variant = variant

	var out bytes.Buffer
	if err := runScenario(cfg, &out); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != len(referenceScenario)+1 {
		t.Fatalf("expected %d lines, got:\n%s", len(referenceScenario)+1, out.String())
	}
	return lines
}

func TestScenarioPersistent(t *testing.T) {
	lines := scenarioOutput(t, config.VariantPersistent)

	if !strings.Contains(lines[1], "switches=0000") || strings.Contains(lines[1], "suspended") {
		t.Errorf("all released: %s", lines[1])
	}
	for _, l := range lines[2:4] {
		if !strings.Contains(l, "switches=0010") || !strings.Contains(l, "Task3:suspended") {
			t.Errorf("switch 3 down: %s", l)
		}
		if strings.Count(l, "suspended") != 1 {
			t.Errorf("only Task3 may be suspended: %s", l)
		}
	}
	if strings.Contains(lines[4], "suspended") {
		t.Errorf("switch 3 released: %s", lines[4])
	}
}

func TestScenarioEphemeral(t *testing.T) {
	lines := scenarioOutput(t, config.VariantEphemeral)

	if !strings.Contains(lines[1], "tasks=[]") {
		t.Errorf("all released: %s", lines[1])
	}
	for _, l := range lines[2:] {
		if !strings.Contains(l, "tasks=[Task3:runnable]") {
			t.Errorf("expected exactly one ch2 worker: %s", l)
		}
	}
}

func TestResolveTrace(t *testing.T) {
	if tr, err := resolveTrace("double-press"); err != nil || len(tr.Steps) == 0 {
		t.Fatalf("builtin: %v", err)
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "mine.jsonc")
	if err := os.WriteFile(path, []byte(`{"steps": [{"at": "0s", "press": [1]}]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := resolveTrace(path); err != nil {
		t.Fatalf("file: %v", err)
	}

	t.Setenv("PIOBOARD_PATH", dir)
	if err := os.MkdirAll(config.TracesPath(), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(config.TracesPath(), "named.jsonc"), []byte(`{"steps": []}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := resolveTrace("named.jsonc"); err != nil {
		t.Fatalf("traces dir: %v", err)
	}
	if _, err := resolveTrace("nope"); err == nil {
		t.Fatal("expected an error for an unknown trace")
	}
}

func TestRootCommands(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PIOBOARD_PATH", dir)
	cfgPath := filepath.Join(dir, "config.jsonc")

	runs := [][]string{
		{"pioboard", "--config", cfgPath, "trace", "validate", "staircase"},
		{"pioboard", "--config", cfgPath, "trace", "list"},
		{"pioboard", "--config", cfgPath, "scenario", "--variant", "ephemeral"},
		{"pioboard", "--config", cfgPath, "run", "--variant", "ephemeral", "--duration", "50ms", "--no-heartbeat"},
		{"pioboard", "--config", cfgPath, "status"},
	}
	for _, args := range runs {
		if err := NewRootCommand().Run(context.Background(), args); err != nil {
			t.Errorf("%v: %v", args[3:], err)
		}
	}

	err := NewRootCommand().Run(context.Background(), []string{"pioboard", "--config", cfgPath, "scenario", "--variant", "hybrid"})
	if err == nil {
		t.Error("expected an invalid variant to fail")
	}
}
