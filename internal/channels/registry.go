// Package channels holds the fixed mapping of the four channels to their
// indicator, switch and worker parameters.
package channels

import (
	"fmt"

	"github.com/dohr-michael/pioboard/internal/board"
)

// ID identifies one of the four channels.
type ID uint8

const (
	Ch0 ID = iota
	Ch1
	Ch2
	Ch3
)

// Count is the number of channels.
const Count = 4

// BaseIterations is the unit of a worker's iteration budget.
const BaseIterations = 0x1FFF

// StackDepth is the stack size, in words, requested for every worker.
const StackDepth = 150

// Valid reports whether id names one of the four channels.
func (id ID) Valid() bool { return id < Count }

func (id ID) String() string {
	if !id.Valid() {
		return fmt.Sprintf("ID(%d)", uint8(id))
	}
	return fmt.Sprintf("ch%d", uint8(id))
}

// Parse converts a channel number into an ID.
func Parse(n int) (ID, error) {
	if n < 0 || n >= Count {
		return 0, fmt.Errorf("channel %d out of range [0,%d)", n, Count)
	}
	return ID(n), nil
}

// All returns every channel in ascending order.
func All() [Count]ID {
	return [Count]ID{Ch0, Ch1, Ch2, Ch3}
}

// Channel is the immutable description of one channel.
type Channel struct {
	ID        ID
	Indicator board.Pin
	Switch    board.Pin
	// Budget is the number of iterations an ephemeral worker runs. Zero for persistent workers.
	Budget int
	// Priority is the scheduler priority of the channel's worker.
	Priority int
}

// Registry is a fixed-capacity table of channels indexed by ID.
type Registry struct {
	channels [Count]Channel
}

var (
	indicators = [Count]board.Pin{board.LED1, board.LED2, board.LED3, board.LED4}
	switches   = [Count]board.Pin{board.BTN1, board.BTN2, board.BTN3, board.BTN4}
)

// Persistent returns the registry used by long-lived workers: channels 0 and 1
// run at priority 1, channels 2 and 3 at priority 0.
func Persistent() *Registry {
	prio := [Count]int{1, 1, 0, 0}
	r := &Registry{}
	for _, id := range All() {
		r.channels[id] = Channel{
			ID:        id,
			Indicator: indicators[id],
			Switch:    switches[id],
			Priority:  prio[id],
		}
	}
	return r
}

// Ephemeral returns the registry used by spawned workers: every worker runs at
// priority 0 with a channel-specific budget.
func Ephemeral() *Registry {
	mult := [Count]int{1, 4, 3, 2}
	r := &Registry{}
	for _, id := range All() {
		r.channels[id] = Channel{
			ID:        id,
			Indicator: indicators[id],
			Switch:    switches[id],
			Budget:    BaseIterations * mult[id],
			Priority:  0,
		}
	}
	return r
}

// Get returns the channel for id. It panics on an invalid id.
func (r *Registry) Get(id ID) Channel {
	if !id.Valid() {
		panic(fmt.Sprintf("channels: invalid channel %d", uint8(id)))
	}
	return r.channels[id]
}

// Channels returns a copy of every channel in ID order.
func (r *Registry) Channels() [Count]Channel {
	return r.channels
}

// IndicatorMask returns the combined mask of all channel indicators in bank.
func (r *Registry) IndicatorMask(bank board.Bank) board.Mask {
	var m board.Mask
	for _, c := range r.channels {
		if c.Indicator.Bank == bank {
			m |= c.Indicator.Mask
		}
	}
	return m
}

// IndicatorBanks returns the distinct banks holding channel indicators.
func (r *Registry) IndicatorBanks() []board.Bank {
	var banks []board.Bank
	seen := make(map[board.Bank]bool, 1)
	for _, c := range r.channels {
		if !seen[c.Indicator.Bank] {
			seen[c.Indicator.Bank] = true
			banks = append(banks, c.Indicator.Bank)
		}
	}
	return banks
}
