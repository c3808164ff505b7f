// Package orchestrator drives the four channel workers from switch samples.
//
// Persistent keeps one long-lived worker per channel and suspends it while
// its switch is held (level-triggered). Ephemeral spawns a bounded worker on
// every press of a switch (edge-triggered). Both evaluate from the scheduler's
// idle hook and from every worker iteration.
package orchestrator

import (
	"fmt"
	"sync/atomic"

	"github.com/dohr-michael/pioboard/internal/board"
	"github.com/dohr-michael/pioboard/internal/channels"
	"github.com/dohr-michael/pioboard/internal/events"
	"github.com/dohr-michael/pioboard/internal/kernel"
)

// Scheduler is the subset of the kernel used by the controllers.
type Scheduler interface {
	Spawn(entry kernel.Entry, name string, stackDepth, priority int) (*kernel.Task, error)
	Suspend(t *kernel.Task) bool
	Resume(t *kernel.Task) bool
	EnterCritical() kernel.Critical
	OnIdle(fn func())
}

var _ Scheduler = (*kernel.Kernel)(nil)

// Config holds dependencies for a controller.
type Config struct {
	Scheduler Scheduler
	Board     board.Peripheral
	Registry  *channels.Registry
	Bus       *events.Bus // nil-safe
	RunID     string

	// StackDepth is the stack, in words, requested per worker (default: channels.StackDepth).
	StackDepth int
}

// shared holds what both variants do to the board.
type shared struct {
	sched Scheduler
	board board.Peripheral
	reg   *channels.Registry
	bus   *events.Bus
	runID string
	stack int

	claims [channels.Count]atomic.Uint64
}

func (s *shared) init(cfg Config, reg *channels.Registry) {
	if cfg.Registry != nil {
		reg = cfg.Registry
	}
	s.sched = cfg.Scheduler
	s.board = cfg.Board
	s.reg = reg
	s.bus = cfg.Bus
	s.runID = cfg.RunID
	s.stack = cfg.StackDepth
	if s.stack <= 0 {
		s.stack = channels.StackDepth
	}
}

// claim lights the indicator of id and only that one. The other three are
// cleared before id is set, so at no point are two indicators lit.
func (s *shared) claim(id channels.ID) {
	mine := s.reg.Get(id)
	for _, c := range s.reg.Channels() {
		if c.ID != id {
			s.board.ClearIndicator(c.Indicator.Bank, c.Indicator.Mask)
		}
	}
	s.board.SetIndicator(mine.Indicator.Bank, mine.Indicator.Mask)
	s.claims[id].Add(1)
}

func (s *shared) clearAll() {
	for _, bank := range s.reg.IndicatorBanks() {
		s.board.ClearIndicator(bank, s.reg.IndicatorMask(bank))
	}
}

func (s *shared) raiseError() {
	s.board.SetIndicator(board.ErrorLED.Bank, board.ErrorLED.Mask)
}

func (s *shared) publish(payload events.EventPayload) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(events.NewTypedEventWithRun(events.SourceOrchestrator, payload, s.runID))
}

// Claims returns how many times the worker of id has claimed its indicator.
func (s *shared) Claims(id channels.ID) uint64 {
	if !id.Valid() {
		return 0
	}
	return s.claims[id].Load()
}

func taskName(id channels.ID) string {
	return fmt.Sprintf("Task%d", int(id)+1)
}
