package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dohr-michael/pioboard/internal/events"
)

func waitForFile(t *testing.T, path string) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		if _, err := os.Stat(path); err == nil {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("timeout waiting for %s", path)
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestEventLogger_WriteAndReadBack(t *testing.T) {
	dir := t.TempDir()
	bus := events.NewBus(64)
	defer bus.Close()

	el := NewEventLogger(dir, bus)
	defer el.Close()

	bus.Publish(events.NewTypedEventWithRun(events.SourceOrchestrator, events.TaskSpawnedPayload{
		Channel:  2,
		TaskID:   "tsk_1",
		Name:     "Task3",
		Priority: 0,
		Budget:   0x1FFF * 3,
	}, "run_1"))

	waitForFile(t, LogPath(dir, "run_1"))
	time.Sleep(20 * time.Millisecond)

	got, err := ReadRun(dir, "run_1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 event, got %d", len(got))
	}
	p, ok := events.GetTaskSpawnedPayload(got[0])
	if !ok || p.Name != "Task3" || p.Budget != 0x1FFF*3 {
		t.Fatalf("unexpected payload %+v", p)
	}
}

func TestEventLogger_RunRouting(t *testing.T) {
	dir := t.TempDir()
	bus := events.NewBus(64)
	defer bus.Close()

	el := NewEventLogger(dir, bus)
	defer el.Close()

	bus.Publish(events.NewTypedEvent(events.SourceStimulus, events.SwitchChangedPayload{Channel: 0, Pressed: true}))
	bus.Publish(events.NewTypedEventWithRun(events.SourceStimulus, events.SwitchChangedPayload{Channel: 1, Pressed: true}, "run_b"))

	waitForFile(t, filepath.Join(dir, "_global.jsonl"))
	waitForFile(t, filepath.Join(dir, "run_b.jsonl"))

	runs, err := ListRuns(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0] != "run_b" {
		t.Fatalf("expected [run_b], got %v", runs)
	}
}

func TestEventLogger_SkipTypes(t *testing.T) {
	dir := t.TempDir()
	bus := events.NewBus(64)
	defer bus.Close()

	el := NewEventLogger(dir, bus, events.EventSwitchChanged)
	defer el.Close()

	bus.Publish(events.NewTypedEventWithRun(events.SourceStimulus, events.SwitchChangedPayload{Channel: 3}, "run_s"))
	bus.Publish(events.NewTypedEventWithRun(events.SourceFirmware, events.SchedulerStartedPayload{Variant: "ephemeral"}, "run_s"))

	waitForFile(t, LogPath(dir, "run_s"))
	time.Sleep(50 * time.Millisecond)

	got, err := ReadRun(dir, "run_s")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Type != events.EventSchedulerStarted {
		t.Fatalf("expected only scheduler.started, got %+v", got)
	}
}

func TestEventLogger_DirectoryAutoCreation(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "runs")
	bus := events.NewBus(64)
	defer bus.Close()

	el := NewEventLogger(dir, bus)
	defer el.Close()

	bus.Publish(events.NewTypedEventWithRun(events.SourceFirmware, events.SchedulerReturnedPayload{Error: "boom"}, "run_x"))
	waitForFile(t, LogPath(dir, "run_x"))
}

func TestReadRunOrdersAndSkipsMalformed(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()
	late := `{"id":"2","run_id":"run_o","type":"task.resumed","timestamp":"` + now.Add(time.Second).Format(time.RFC3339Nano) + `","source":"orchestrator","payload":{}}`
	early := `{"id":"1","run_id":"run_o","type":"task.suspended","timestamp":"` + now.Format(time.RFC3339Nano) + `","source":"orchestrator","payload":{}}`
	data := late + "\nnot json\n" + early + "\n"
	if err := os.WriteFile(LogPath(dir, "run_o"), []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := ReadRun(dir, "run_o")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].ID != "1" || got[1].ID != "2" {
		t.Fatalf("unexpected order: %+v", got)
	}
}

func TestReadRunMissing(t *testing.T) {
	if _, err := ReadRun(t.TempDir(), "run_none"); err == nil {
		t.Fatal("expected an error for a missing run")
	}
	runs, err := ListRuns(filepath.Join(t.TempDir(), "absent"))
	if err != nil || len(runs) != 0 {
		t.Fatalf("expected no runs, got %v %v", runs, err)
	}
}
