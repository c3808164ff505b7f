package stimulus

import (
	"context"
	"log/slog"
	"time"

	"github.com/dohr-michael/pioboard/internal/board"
	"github.com/dohr-michael/pioboard/internal/channels"
	"github.com/dohr-michael/pioboard/internal/events"
)

// Switches is the part of a simulated board a trace drives.
type Switches interface {
	Press(p board.Pin)
	Release(p board.Pin)
}

// Player applies a trace to a board.
type Player struct {
	switches Switches
	reg      *channels.Registry
	bus      *events.Bus
}

// NewPlayer creates a player. bus may be nil.
func NewPlayer(sw Switches, reg *channels.Registry, bus *events.Bus) *Player {
	return &Player{switches: sw, reg: reg, bus: bus}
}

// Play applies every step at its offset, then waits out the hold. It returns
// ctx.Err() if ctx ends first. An invalid trace is rejected before any step.
func (p *Player) Play(ctx context.Context, tr *Trace) error {
	if err := tr.Validate(); err != nil {
		return err
	}
	start := time.Now()
	slog.Info("stimulus: trace started", "name", tr.Name, "steps", len(tr.Steps), "duration", tr.Duration())

	for i, s := range tr.Steps {
		if err := sleepUntil(ctx, start.Add(s.At.Duration())); err != nil {
			return err
		}
		for _, n := range s.Press {
			p.apply(ctx, channels.ID(n), true)
		}
		for _, n := range s.Release {
			p.apply(ctx, channels.ID(n), false)
		}
		slog.Debug("stimulus: step applied", "step", i, "at", s.At.Duration())
	}

	if err := sleepUntil(ctx, start.Add(tr.Duration())); err != nil {
		return err
	}
	slog.Info("stimulus: trace finished", "name", tr.Name)
	return nil
}

func (p *Player) apply(ctx context.Context, id channels.ID, pressed bool) {
	sw := p.reg.Get(id).Switch
	if pressed {
		p.switches.Press(sw)
	} else {
		p.switches.Release(sw)
	}
	if p.bus != nil {
		p.bus.Publish(events.NewTypedEventWithRun(events.SourceStimulus,
			events.SwitchChangedPayload{Channel: int(id), Pressed: pressed},
			events.RunIDFromContext(ctx)))
	}
}

func sleepUntil(ctx context.Context, t time.Time) error {
	d := time.Until(t)
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
