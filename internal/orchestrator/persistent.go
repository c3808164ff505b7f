package orchestrator

import (
	"fmt"
	"log/slog"

	"github.com/dohr-michael/pioboard/internal/channels"
	"github.com/dohr-michael/pioboard/internal/events"
	"github.com/dohr-michael/pioboard/internal/input"
	"github.com/dohr-michael/pioboard/internal/kernel"
)

// Persistent runs one long-lived worker per channel. A worker is suspended
// while its switch is pressed and runnable while it is released.
type Persistent struct {
	shared

	// written by Install before the scheduler starts, read-only afterwards
	slots [channels.Count]*kernel.Task
}

// NewPersistent creates the controller. A nil Config.Registry selects channels.Persistent().
func NewPersistent(cfg Config) *Persistent {
	p := &Persistent{}
	p.init(cfg, channels.Persistent())
	return p
}

// Install spawns the four workers and registers the idle hook. It must be
// called before the scheduler starts.
func (p *Persistent) Install() error {
	for _, c := range p.reg.Channels() {
		name := taskName(c.ID)
		t, err := p.sched.Spawn(p.worker(c.ID), name, p.stack, c.Priority)
		if err != nil {
			p.raiseError()
			p.publish(events.SpawnFailedPayload{Channel: int(c.ID), Error: err.Error()})
			return fmt.Errorf("spawn %s: %w", name, err)
		}
		p.slots[c.ID] = t
		p.publish(events.TaskSpawnedPayload{Channel: int(c.ID), TaskID: t.ID(), Name: name, Priority: c.Priority})
	}
	p.sched.OnIdle(p.Idle)
	slog.Info("orchestrator: persistent workers installed", "tasks", channels.Count)
	return nil
}

func (p *Persistent) worker(id channels.ID) kernel.Entry {
	return func(self *kernel.Task) {
		for {
			p.claim(id)
			p.Evaluate(input.Sample(p.board, p.reg))
			self.Yield()
		}
	}
}

// Evaluate suspends the worker of every pressed channel and resumes the
// worker of every released one. Repeating it with the same v changes nothing.
func (p *Persistent) Evaluate(v input.Vector) {
	for _, id := range channels.All() {
		t := p.slots[id]
		if t == nil {
			continue
		}
		if v.Pressed(id) {
			if p.sched.Suspend(t) {
				slog.Debug("orchestrator: worker suspended", "channel", id, "task", t.Name())
				p.publish(events.TaskSuspendedPayload{Channel: int(id), TaskID: t.ID()})
			}
			continue
		}
		if p.sched.Resume(t) {
			slog.Debug("orchestrator: worker resumed", "channel", id, "task", t.Name())
			p.publish(events.TaskResumedPayload{Channel: int(id), TaskID: t.ID()})
		}
	}
}

// Idle clears every indicator and runs one evaluation on a fresh sample.
func (p *Persistent) Idle() {
	p.clearAll()
	p.Evaluate(input.Sample(p.board, p.reg))
}

// Slot returns the worker bound to id, or nil before Install.
func (p *Persistent) Slot(id channels.ID) *kernel.Task {
	if !id.Valid() {
		return nil
	}
	return p.slots[id]
}
