// Package input samples the four switches and classifies their transitions.
package input

import (
	"strings"

	"github.com/dohr-michael/pioboard/internal/board"
	"github.com/dohr-michael/pioboard/internal/channels"
)

// Vector is a snapshot of the four switches: bit i set means channel i is pressed.
type Vector uint8

// Released is the vector with every switch up.
const Released Vector = 0

const vectorMask Vector = 1<<channels.Count - 1

// VectorOf returns the vector with exactly the given channels pressed.
func VectorOf(ids ...channels.ID) Vector {
	var v Vector
	for _, id := range ids {
		if id.Valid() {
			v |= 1 << id
		}
	}
	return v
}

// Pressed reports whether channel id is pressed in v.
func (v Vector) Pressed(id channels.ID) bool {
	return id.Valid() && v&(1<<id) != 0
}

// String renders v channel 0 first, e.g. "0010" when only channel 2 is pressed.
func (v Vector) String() string {
	var b strings.Builder
	for _, id := range channels.All() {
		if v.Pressed(id) {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

// ParseVector is the inverse of Vector.String.
func ParseVector(s string) (Vector, bool) {
	if len(s) != channels.Count {
		return 0, false
	}
	var v Vector
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '1':
			v |= 1 << i
		case '0':
		default:
			return 0, false
		}
	}
	return v, true
}

// Sample reads the four switches of reg from p.
func Sample(p board.Peripheral, reg *channels.Registry) Vector {
	var v Vector
	for _, c := range reg.Channels() {
		if p.ReadSwitch(c.Switch.Bank, c.Switch.Mask) {
			v |= 1 << c.ID
		}
	}
	return v & vectorMask
}
