// Package board describes the evaluation board's parallel I/O lines and the
// peripheral access layer the orchestration core consumes.
package board

import (
	"fmt"
	"math/bits"
	"strings"
)

// Bank identifies a parallel I/O controller.
type Bank int

const (
	PIOA Bank = iota
	PIOB
	PIOC
	PIOD
)

// BankCount is the number of I/O controllers on the board.
const BankCount = 4

func (b Bank) String() string {
	switch b {
	case PIOA:
		return "PIOA"
	case PIOB:
		return "PIOB"
	case PIOC:
		return "PIOC"
	case PIOD:
		return "PIOD"
	default:
		return fmt.Sprintf("Bank(%d)", int(b))
	}
}

// Mask selects one or more lines of a bank.
type Mask uint32

// Line returns the mask of a single line.
func Line(n uint) Mask { return Mask(1) << n }

func (m Mask) String() string {
	if m == 0 {
		return "none"
	}
	var parts []string
	for v := uint32(m); v != 0; v &= v - 1 {
		parts = append(parts, fmt.Sprintf("P%d", bits.TrailingZeros32(v)))
	}
	return strings.Join(parts, "|")
}

// Pin is a bank/mask pair addressing one physical line.
type Pin struct {
	Bank Bank
	Mask Mask
}

func (p Pin) String() string {
	return p.Bank.String() + ":" + p.Mask.String()
}

// Mode is the direction a line is configured for.
type Mode int

const (
	ModeUnconfigured Mode = iota
	ModeInput
	ModeOutput0 // output, driven low at configuration time
	ModeOutput1 // output, driven high at configuration time
)

func (m Mode) String() string {
	switch m {
	case ModeUnconfigured:
		return "unconfigured"
	case ModeInput:
		return "input"
	case ModeOutput0:
		return "output-0"
	case ModeOutput1:
		return "output-1"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Attr is a set of line attributes applied together with a Mode.
type Attr uint32

const (
	AttrPullUp Attr = 1 << iota
	AttrDebounce
)

// Lines of the evaluation board.
var (
	LED1 = Pin{PIOC, Line(23)}
	LED2 = Pin{PIOC, Line(22)}
	LED3 = Pin{PIOC, Line(21)}
	LED4 = Pin{PIOC, Line(29)}

	BTN1 = Pin{PIOC, Line(28)}
	BTN2 = Pin{PIOC, Line(26)}
	BTN3 = Pin{PIOC, Line(25)}
	BTN4 = Pin{PIOC, Line(24)}

	// ErrorLED signals a failed task allocation.
	ErrorLED = Pin{PIOB, Line(27)}
)

// LEDAll is the combined mask of the four channel indicators.
var LEDAll = LED1.Mask | LED2.Mask | LED3.Mask | LED4.Mask

// BTNAll is the combined mask of the four switches.
var BTNAll = BTN1.Mask | BTN2.Mask | BTN3.Mask | BTN4.Mask
