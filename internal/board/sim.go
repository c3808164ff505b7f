package board

import (
	"math/bits"
	"sync"
)

type lineConfig struct {
	mode Mode
	attr Attr
}

// Sim is an in-memory board. Switch lines are active-low with pull-ups, so a
// released switch reads high and a pressed one reads low; ReadSwitch hides
// that polarity from callers.
//
// Sim is safe for concurrent use.
type Sim struct {
	mu      sync.Mutex
	config  [BankCount][32]lineConfig
	pressed [BankCount]Mask // physical switch state
	out     [BankCount]Mask // asserted output lines
	sets    map[Pin]uint64
	maxLit  int
}

// NewSim returns a board with every line unconfigured and every switch released.
func NewSim() *Sim {
	return &Sim{sets: make(map[Pin]uint64)}
}

var _ Peripheral = (*Sim)(nil)

// ConfigurePin implements Peripheral.
func (s *Sim) ConfigurePin(bank Bank, mask Mask, mode Mode, attr Attr) {
	if !validBank(bank) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for v := uint32(mask); v != 0; v &= v - 1 {
		s.config[bank][bits.TrailingZeros32(v)] = lineConfig{mode: mode, attr: attr}
	}
	switch mode {
	case ModeOutput0:
		s.out[bank] &^= mask
	case ModeOutput1:
		s.out[bank] |= mask
	}
	s.trackLit()
}

// ReadSwitch implements Peripheral. A line that is not configured as a
// pulled-up input never reads as pressed.
func (s *Sim) ReadSwitch(bank Bank, mask Mask) bool {
	if !validBank(bank) || mask == 0 {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for v := uint32(mask); v != 0; v &= v - 1 {
		c := s.config[bank][bits.TrailingZeros32(v)]
		if c.mode != ModeInput || c.attr&AttrPullUp == 0 {
			return false
		}
	}
	return s.pressed[bank]&mask == mask
}

// SetIndicator implements Peripheral. Lines not configured as outputs are left untouched.
func (s *Sim) SetIndicator(bank Bank, mask Mask) {
	if !validBank(bank) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	driven := s.outputsLocked(bank, mask)
	s.out[bank] |= driven
	for v := uint32(driven); v != 0; v &= v - 1 {
		s.sets[Pin{bank, Mask(v & -v)}]++
	}
	s.trackLit()
}

// ClearIndicator implements Peripheral.
func (s *Sim) ClearIndicator(bank Bank, mask Mask) {
	if !validBank(bank) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.out[bank] &^= s.outputsLocked(bank, mask)
}

func (s *Sim) outputsLocked(bank Bank, mask Mask) Mask {
	var driven Mask
	for v := uint32(mask); v != 0; v &= v - 1 {
		n := bits.TrailingZeros32(v)
		switch s.config[bank][n].mode {
		case ModeOutput0, ModeOutput1:
			driven |= Line(uint(n))
		}
	}
	return driven
}

// trackLit updates the high-water mark of simultaneously lit channel indicators.
// Caller must hold s.mu.
func (s *Sim) trackLit() {
	if n := bits.OnesCount32(uint32(s.out[PIOC] & LEDAll)); n > s.maxLit {
		s.maxLit = n
	}
}

// Press holds the switch on pin down.
func (s *Sim) Press(p Pin) {
	if !validBank(p.Bank) {
		return
	}
	s.mu.Lock()
	s.pressed[p.Bank] |= p.Mask
	s.mu.Unlock()
}

// Release lets the switch on pin go.
func (s *Sim) Release(p Pin) {
	if !validBank(p.Bank) {
		return
	}
	s.mu.Lock()
	s.pressed[p.Bank] &^= p.Mask
	s.mu.Unlock()
}

// Toggle flips the switch on pin and reports whether it is now pressed.
func (s *Sim) Toggle(p Pin) bool {
	if !validBank(p.Bank) {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pressed[p.Bank] ^= p.Mask
	return s.pressed[p.Bank]&p.Mask == p.Mask
}

// Pressed reports the physical state of the switch on pin, regardless of configuration.
func (s *Sim) Pressed(p Pin) bool {
	if !validBank(p.Bank) {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pressed[p.Bank]&p.Mask == p.Mask
}

// Lit reports whether the indicator on pin is asserted.
func (s *Sim) Lit(p Pin) bool {
	if !validBank(p.Bank) {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.out[p.Bank]&p.Mask == p.Mask
}

// Mode returns the configured mode of the lowest line in pin.
func (s *Sim) Mode(p Pin) Mode {
	if !validBank(p.Bank) || p.Mask == 0 {
		return ModeUnconfigured
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.config[p.Bank][bits.TrailingZeros32(uint32(p.Mask))].mode
}

// Sets returns how many times the indicator on pin has been asserted.
func (s *Sim) Sets(p Pin) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sets[p]
}

// MaxLit returns the largest number of channel indicators ever lit at once.
func (s *Sim) MaxLit() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.maxLit
}

// ResetMaxLit restarts high-water tracking from the current output state.
func (s *Sim) ResetMaxLit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.maxLit = 0
	s.trackLit()
}

func validBank(b Bank) bool {
	return b >= 0 && b < BankCount
}
