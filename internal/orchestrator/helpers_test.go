package orchestrator

import (
	"context"
	"testing"
	"time"

	"github.com/dohr-michael/pioboard/internal/board"
	"github.com/dohr-michael/pioboard/internal/kernel"
)

func newBoard() *board.Sim {
	sim := board.NewSim()
	board.Setup(sim)
	return sim
}

func runKernel(t *testing.T, k *kernel.Kernel) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		k.Start(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Error("timeout waiting for scheduler to stop")
		}
	})
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.After(10 * time.Second)
	for !cond() {
		select {
		case <-deadline:
			t.Fatalf("timeout waiting for %s", what)
		case <-time.After(time.Millisecond):
		}
	}
}

var indicators = []board.Pin{board.LED1, board.LED2, board.LED3, board.LED4}

func litIndicators(sim *board.Sim) []board.Pin {
	var lit []board.Pin
	for _, led := range indicators {
		if sim.Lit(led) {
			lit = append(lit, led)
		}
	}
	return lit
}
