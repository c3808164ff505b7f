package orchestrator

import (
	"log/slog"

	"github.com/dohr-michael/pioboard/internal/channels"
	"github.com/dohr-michael/pioboard/internal/events"
	"github.com/dohr-michael/pioboard/internal/input"
	"github.com/dohr-michael/pioboard/internal/kernel"
)

// ChannelStats counts admissions for one channel.
type ChannelStats struct {
	Spawned   uint64
	Failed    uint64
	Completed uint64
}

// Ephemeral spawns a worker for a channel each time its switch goes from
// released to pressed. The worker claims its indicator for the channel's
// budget of iterations and then deletes itself.
type Ephemeral struct {
	shared

	// guarded by the scheduler critical section
	detector input.Detector
	slots    [channels.Count]*kernel.Task
	stats    [channels.Count]ChannelStats
}

// NewEphemeral creates the controller. A nil Config.Registry selects channels.Ephemeral().
func NewEphemeral(cfg Config) *Ephemeral {
	e := &Ephemeral{}
	e.init(cfg, channels.Ephemeral())
	return e
}

// Install registers the idle hook. No worker exists until the first press.
func (e *Ephemeral) Install() error {
	e.sched.OnIdle(e.Idle)
	slog.Info("orchestrator: ephemeral admission installed")
	return nil
}

// Evaluate samples the switches and admits a worker for every rising edge.
// The sample, the classification, the spawns and the update of the previous
// sample all happen inside one critical section.
func (e *Ephemeral) Evaluate() {
	defer e.sched.EnterCritical().Exit()
	e.admit(input.Sample(e.board, e.reg))
}

// EvaluateVector is Evaluate with a caller-supplied sample.
func (e *Ephemeral) EvaluateVector(v input.Vector) {
	defer e.sched.EnterCritical().Exit()
	e.admit(v)
}

// admit must be called inside the critical section.
func (e *Ephemeral) admit(v input.Vector) {
	edges := e.detector.Advance(v)
	for _, id := range channels.All() {
		if edges[id] != input.Rising {
			continue
		}
		c := e.reg.Get(id)
		name := taskName(id)
		t, err := e.sched.Spawn(e.worker(c), name, e.stack, c.Priority)
		if err != nil {
			e.stats[id].Failed++
			e.raiseError()
			slog.Warn("orchestrator: spawn failed", "channel", id, "error", err)
			e.publish(events.SpawnFailedPayload{Channel: int(id), Error: err.Error()})
			continue
		}
		e.slots[id] = t
		e.stats[id].Spawned++
		slog.Debug("orchestrator: worker spawned", "channel", id, "task", t.ID(), "budget", c.Budget)
		e.publish(events.TaskSpawnedPayload{
			Channel:  int(id),
			TaskID:   t.ID(),
			Name:     name,
			Priority: c.Priority,
			Budget:   c.Budget,
		})
	}
}

func (e *Ephemeral) worker(c channels.Channel) kernel.Entry {
	return func(self *kernel.Task) {
		for i := 0; i < c.Budget; i++ {
			e.claim(c.ID)
			e.Evaluate()
			self.Yield()
		}

		cs := e.sched.EnterCritical()
		e.stats[c.ID].Completed++
		cs.Exit()

		slog.Debug("orchestrator: worker finished", "channel", c.ID, "task", self.ID(), "iterations", c.Budget)
		e.publish(events.TaskTerminatedPayload{Channel: int(c.ID), TaskID: self.ID(), Iterations: c.Budget})
		self.DeleteSelf()
	}
}

// Idle clears every indicator and runs one admission pass on a fresh sample.
func (e *Ephemeral) Idle() {
	e.clearAll()
	e.Evaluate()
}

// Slot returns the last worker admitted for id. The task may since have
// terminated; check its State before relying on it.
func (e *Ephemeral) Slot(id channels.ID) *kernel.Task {
	if !id.Valid() {
		return nil
	}
	defer e.sched.EnterCritical().Exit()
	return e.slots[id]
}

// Stats returns the admission counters of every channel.
func (e *Ephemeral) Stats() [channels.Count]ChannelStats {
	defer e.sched.EnterCritical().Exit()
	return e.stats
}
