package display

import (
	"strings"
	"testing"

	"github.com/dohr-michael/pioboard/internal/channels"
	"github.com/dohr-michael/pioboard/internal/input"
	"github.com/dohr-michael/pioboard/internal/kernel"
)

func sampleFrame() Frame {
	f := Frame{
		Variant:  "persistent",
		RunID:    "run_abcd1234",
		Switches: input.VectorOf(channels.Ch2),
		Tasks: []kernel.TaskInfo{
			{Name: "Task1", Priority: 1, State: kernel.StateRunnable, Running: true, Slices: 42},
			{Name: "Task3", Priority: 0, State: kernel.StateSuspended},
		},
		Stats: kernel.Stats{Spawned: 4, HeapUsed: 2784, HeapSize: 8192},
	}
	f.Indicators[channels.Ch0] = true
	return f
}

func TestRender(t *testing.T) {
	out := Render(sampleFrame())

	for _, want := range []string{"pioboard", "persistent", "run_abcd1234", "LED1", "LED4", "ERR", "SW3", "0010", "Task1", "Task3", "suspended", "heap 2784/8192"} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q:\n%s", want, out)
		}
	}
}

func TestRenderNoTasks(t *testing.T) {
	out := Render(Frame{})
	if !strings.Contains(out, "no live tasks") {
		t.Errorf("expected empty task notice:\n%s", out)
	}
}

func TestLine(t *testing.T) {
	f := sampleFrame()
	f.Error = true
	got := Line(f)
	want := "switches=0010 leds=1000 err=on tasks=[Task1:runnable Task3:suspended]"
	if got != want {
		t.Errorf("Line() = %q, want %q", got, want)
	}
}

func TestLit(t *testing.T) {
	f := Frame{}
	if len(f.Lit()) != 0 {
		t.Fatal("expected nothing lit")
	}
	f.Indicators[channels.Ch3] = true
	if lit := f.Lit(); len(lit) != 1 || lit[0] != channels.Ch3 {
		t.Fatalf("unexpected lit %v", lit)
	}
}
