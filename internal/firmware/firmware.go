// Package firmware assembles the board, the scheduler and the selected
// orchestration variant, and owns the startup sequence.
package firmware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/dohr-michael/pioboard/internal/board"
	"github.com/dohr-michael/pioboard/internal/channels"
	"github.com/dohr-michael/pioboard/internal/config"
	"github.com/dohr-michael/pioboard/internal/display"
	"github.com/dohr-michael/pioboard/internal/events"
	"github.com/dohr-michael/pioboard/internal/kernel"
	"github.com/dohr-michael/pioboard/internal/orchestrator"
)

// ErrSchedulerReturned is returned by Run when the scheduler stops for any
// reason other than cancellation of the run context.
var ErrSchedulerReturned = errors.New("scheduler returned")

// Controller is the orchestration variant driven by the firmware.
type Controller interface {
	Install() error
	Idle()
}

// Options overrides the collaborators New would otherwise create.
type Options struct {
	Board *board.Sim  // default: a fresh simulated board
	Bus   *events.Bus // default: a bus owned and closed by the firmware
	RunID string      // default: run_ + 8 hex chars
}

// Firmware is one power-on of the board.
type Firmware struct {
	variant config.Variant
	sim     *board.Sim
	reg     *channels.Registry
	kern    *kernel.Kernel
	bus     *events.Bus
	ownBus  bool
	runID   string
	ctrl    Controller

	persistent *orchestrator.Persistent
	ephemeral  *orchestrator.Ephemeral
}

// New builds the firmware for cfg.Variant.
func New(cfg *config.Config, opts Options) (*Firmware, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	variant, err := config.ParseVariant(string(cfg.Variant))
	if err != nil {
		return nil, err
	}

	f := &Firmware{
		variant: variant,
		sim:     opts.Board,
		bus:     opts.Bus,
		runID:   opts.RunID,
		kern: kernel.New(kernel.Config{
			HeapSize:     cfg.Kernel.HeapSize,
			IdleInterval: cfg.Kernel.IdleInterval.Duration(),
			TimeSlice:    cfg.Kernel.TimeSlice.Duration(),
		}),
	}
	if f.sim == nil {
		f.sim = board.NewSim()
	}
	if f.bus == nil {
		size := cfg.Events.BufferSize
		if size <= 0 {
			size = 1024
		}
		f.bus = events.NewBus(size)
		f.ownBus = true
	}
	if f.runID == "" {
		f.runID = generateRunID()
	}

	ocfg := orchestrator.Config{
		Scheduler:  f.kern,
		Board:      f.sim,
		Bus:        f.bus,
		RunID:      f.runID,
		StackDepth: cfg.Kernel.StackDepth,
	}
	switch variant {
	case config.VariantEphemeral:
		f.reg = channels.Ephemeral()
		ocfg.Registry = f.reg
		f.ephemeral = orchestrator.NewEphemeral(ocfg)
		f.ctrl = f.ephemeral
	default:
		f.reg = channels.Persistent()
		ocfg.Registry = f.reg
		f.persistent = orchestrator.NewPersistent(ocfg)
		f.ctrl = f.persistent
	}
	return f, nil
}

// Boot performs the power-on pin configuration and installs the variant.
// Run calls it; it is exported for stepping the board without a scheduler.
func (f *Firmware) Boot() error {
	board.Setup(f.sim)
	if err := f.ctrl.Install(); err != nil {
		return fmt.Errorf("install %s: %w", f.variant, err)
	}
	return nil
}

// IdlePass runs the idle hook once, as the scheduler does when nothing is runnable.
func (f *Firmware) IdlePass() {
	f.ctrl.Idle()
}

// Run boots the board and hands control to the scheduler until ctx is done.
// Cancellation is a normal shutdown and yields nil. Any other return of the
// scheduler lights the error indicator and yields ErrSchedulerReturned.
func (f *Firmware) Run(ctx context.Context) error {
	ctx = events.ContextWithRunID(ctx, f.runID)
	if err := f.Boot(); err != nil {
		return err
	}

	st := f.kern.Stats()
	slog.Info("firmware: starting scheduler", "variant", f.variant, "run", f.runID, "tasks", st.Live)
	f.publish(events.SchedulerStartedPayload{Variant: string(f.variant), Tasks: st.Live, HeapSize: st.HeapSize})

	err := f.kern.Start(ctx)
	if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		slog.Info("firmware: stopped", "run", f.runID)
		return nil
	}

	f.sim.SetIndicator(board.ErrorLED.Bank, board.ErrorLED.Mask)
	slog.Error("firmware: scheduler returned", "run", f.runID, "error", err)
	f.publish(events.SchedulerReturnedPayload{Error: fmt.Sprint(err)})
	return fmt.Errorf("%w: %w", ErrSchedulerReturned, err)
}

// Close releases the event bus if the firmware created it.
func (f *Firmware) Close() {
	if f.ownBus {
		f.bus.Close()
	}
}

// Frame captures the current state of the board and scheduler.
func (f *Firmware) Frame() display.Frame {
	fr := display.Frame{
		Variant: string(f.variant),
		RunID:   f.runID,
		Error:   f.sim.Lit(board.ErrorLED),
		Tasks:   f.kern.Snapshot(),
		Stats:   f.kern.Stats(),
	}
	for _, c := range f.reg.Channels() {
		fr.Indicators[c.ID] = f.sim.Lit(c.Indicator)
		if f.sim.Pressed(c.Switch) {
			fr.Switches |= 1 << c.ID
		}
	}
	return fr
}

// Board returns the simulated board.
func (f *Firmware) Board() *board.Sim { return f.sim }

// Bus returns the event bus.
func (f *Firmware) Bus() *events.Bus { return f.bus }

// Kernel returns the scheduler.
func (f *Firmware) Kernel() *kernel.Kernel { return f.kern }

// Registry returns the channel table of the running variant.
func (f *Firmware) Registry() *channels.Registry { return f.reg }

// Variant returns the orchestration variant.
func (f *Firmware) Variant() config.Variant { return f.variant }

// RunID returns the identifier stamped on every event of this run.
func (f *Firmware) RunID() string { return f.runID }

// Persistent returns the persistent controller, or nil for the ephemeral variant.
func (f *Firmware) Persistent() *orchestrator.Persistent { return f.persistent }

// Ephemeral returns the ephemeral controller, or nil for the persistent variant.
func (f *Firmware) Ephemeral() *orchestrator.Ephemeral { return f.ephemeral }

func (f *Firmware) publish(payload events.EventPayload) {
	f.bus.Publish(events.NewTypedEventWithRun(events.SourceFirmware, payload, f.runID))
}

func generateRunID() string {
	u := uuid.New().String()
	return "run_" + strings.ReplaceAll(u[:8], "-", "")
}
