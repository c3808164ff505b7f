package orchestrator

import (
	"testing"

	"github.com/dohr-michael/pioboard/internal/board"
	"github.com/dohr-michael/pioboard/internal/channels"
	"github.com/dohr-michael/pioboard/internal/input"
	"github.com/dohr-michael/pioboard/internal/kernel"
)

func TestPersistentInstall(t *testing.T) {
	k := kernel.New(kernel.Config{})
	p := NewPersistent(Config{Scheduler: k, Board: newBoard()})
	if err := p.Install(); err != nil {
		t.Fatal(err)
	}

	wantPrio := [channels.Count]int{1, 1, 0, 0}
	wantName := [channels.Count]string{"Task1", "Task2", "Task3", "Task4"}
	for _, id := range channels.All() {
		task := p.Slot(id)
		if task == nil {
			t.Fatalf("%s: no worker", id)
		}
		if task.Name() != wantName[id] || task.Priority() != wantPrio[id] {
			t.Errorf("%s: got %s prio %d", id, task.Name(), task.Priority())
		}
		if task.State() != kernel.StateRunnable {
			t.Errorf("%s: expected runnable, got %s", id, task.State())
		}
	}
	if st := k.Stats(); st.HeapUsed != channels.Count*(channels.StackDepth*kernel.WordSize+kernel.TCBSize) {
		t.Errorf("unexpected heap use %d", st.HeapUsed)
	}
}

func TestPersistentInstallFailure(t *testing.T) {
	sim := newBoard()
	k := kernel.New(kernel.Config{HeapSize: 1024})
	p := NewPersistent(Config{Scheduler: k, Board: sim})

	err := p.Install()
	if err == nil {
		t.Fatal("expected an error when the heap cannot hold four workers")
	}
	if !sim.Lit(board.ErrorLED) {
		t.Error("error indicator not raised")
	}
}

func TestPersistentLevelTriggered(t *testing.T) {
	k := kernel.New(kernel.Config{})
	p := NewPersistent(Config{Scheduler: k, Board: newBoard()})
	if err := p.Install(); err != nil {
		t.Fatal(err)
	}

	// every vector, in an order that visits each one from several predecessors
	for round := 0; round < 3; round++ {
		for n := 0; n < 1<<channels.Count; n++ {
			v := input.Vector((n*(round*2+1) + round) % (1 << channels.Count))
			p.Evaluate(v)
			for _, id := range channels.All() {
				runnable := p.Slot(id).State() == kernel.StateRunnable
				if runnable == v.Pressed(id) {
					t.Fatalf("sample %s: %s runnable=%v", v, id, runnable)
				}
			}
		}
	}
}

func TestPersistentIdempotent(t *testing.T) {
	k := kernel.New(kernel.Config{})
	p := NewPersistent(Config{Scheduler: k, Board: newBoard()})
	if err := p.Install(); err != nil {
		t.Fatal(err)
	}

	v := input.VectorOf(channels.Ch1, channels.Ch3)
	p.Evaluate(v)
	var once [channels.Count]kernel.State
	for _, id := range channels.All() {
		once[id] = p.Slot(id).State()
	}
	p.Evaluate(v)
	for _, id := range channels.All() {
		if got := p.Slot(id).State(); got != once[id] {
			t.Errorf("%s: %s after one pass, %s after two", id, once[id], got)
		}
	}
}

func TestPersistentScenario(t *testing.T) {
	sim := newBoard()
	k := kernel.New(kernel.Config{})
	p := NewPersistent(Config{Scheduler: k, Board: sim})
	if err := p.Install(); err != nil {
		t.Fatal(err)
	}

	p.Idle()
	for _, id := range channels.All() {
		if p.Slot(id).State() != kernel.StateRunnable {
			t.Fatalf("%s: expected runnable with nothing pressed", id)
		}
	}

	sim.Press(board.BTN3)
	p.Idle()
	p.Idle()
	for _, id := range channels.All() {
		want := kernel.StateRunnable
		if id == channels.Ch2 {
			want = kernel.StateSuspended
		}
		if got := p.Slot(id).State(); got != want {
			t.Errorf("%s: expected %s, got %s", id, want, got)
		}
	}

	sim.Release(board.BTN3)
	p.Idle()
	if got := p.Slot(channels.Ch2).State(); got != kernel.StateRunnable {
		t.Errorf("ch2: expected runnable after release, got %s", got)
	}
}

func TestPersistentIdleClearsIndicators(t *testing.T) {
	sim := newBoard()
	k := kernel.New(kernel.Config{})
	p := NewPersistent(Config{Scheduler: k, Board: sim})
	if err := p.Install(); err != nil {
		t.Fatal(err)
	}

	p.claim(channels.Ch0)
	if !sim.Lit(board.LED1) {
		t.Fatal("claim must light LED1")
	}
	for _, led := range indicators[1:] {
		sim.SetIndicator(led.Bank, led.Mask)
	}
	sim.SetIndicator(board.ErrorLED.Bank, board.ErrorLED.Mask)

	p.Idle()
	if lit := litIndicators(sim); len(lit) != 0 {
		t.Fatalf("idle hook left %v lit", lit)
	}
	if !sim.Lit(board.ErrorLED) {
		t.Error("idle hook must not clear the error indicator")
	}
}

func TestPersistentRunning(t *testing.T) {
	sim := newBoard()
	k := kernel.New(kernel.Config{})
	p := NewPersistent(Config{Scheduler: k, Board: sim})
	if err := p.Install(); err != nil {
		t.Fatal(err)
	}
	runKernel(t, k)

	waitFor(t, "high priority workers to run", func() bool {
		return p.Claims(channels.Ch0) > 10 && p.Claims(channels.Ch1) > 10
	})

	sim.Press(board.BTN3)
	waitFor(t, "ch2 to be suspended by a running worker", func() bool {
		return p.Slot(channels.Ch2).State() == kernel.StateSuspended
	})

	for _, sw := range []board.Pin{board.BTN1, board.BTN2, board.BTN4} {
		sim.Press(sw)
	}
	waitFor(t, "every worker suspended", func() bool {
		for _, id := range channels.All() {
			if p.Slot(id).State() != kernel.StateSuspended {
				return false
			}
		}
		return true
	})

	// with every worker suspended only the idle hook runs, and it leaves nothing lit
	waitFor(t, "idle hook to clear the indicators", func() bool { return len(litIndicators(sim)) == 0 })

	// only the idle hook is left to notice the release
	sim.Release(board.BTN1)
	waitFor(t, "idle hook to resume ch0", func() bool {
		return p.Slot(channels.Ch0).State() == kernel.StateRunnable
	})
	before := p.Claims(channels.Ch0)
	waitFor(t, "ch0 to run again", func() bool { return p.Claims(channels.Ch0) > before+10 })

	if got := sim.MaxLit(); got > 1 {
		t.Fatalf("expected at most one lit indicator, saw %d", got)
	}
}
