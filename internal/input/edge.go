package input

import (
	"fmt"

	"github.com/dohr-michael/pioboard/internal/channels"
)

// Edge classifies one channel's transition between two samples.
type Edge int

const (
	Low     Edge = iota // released in both samples
	High                // pressed in both samples
	Rising              // released, now pressed
	Falling             // pressed, now released
)

func (e Edge) String() string {
	switch e {
	case Low:
		return "low"
	case High:
		return "high"
	case Rising:
		return "rising"
	case Falling:
		return "falling"
	default:
		return fmt.Sprintf("Edge(%d)", int(e))
	}
}

// Edges holds one classification per channel.
type Edges [channels.Count]Edge

// Classify compares current against previous for every channel.
func Classify(current, previous Vector) Edges {
	var out Edges
	for _, id := range channels.All() {
		now, before := current.Pressed(id), previous.Pressed(id)
		switch {
		case now && !before:
			out[id] = Rising
		case !now && before:
			out[id] = Falling
		case now:
			out[id] = High
		default:
			out[id] = Low
		}
	}
	return out
}

// Changed reports whether any channel rose or fell.
func (e Edges) Changed() bool {
	for _, c := range e {
		if c == Rising || c == Falling {
			return true
		}
	}
	return false
}

// Detector owns the previously recorded sample.
//
// It is not synchronized: the caller must serialize Advance together with
// whatever it does with the result, so that reading the previous sample,
// acting on the classification and storing the new sample form one unit.
type Detector struct {
	previous Vector
}

// Previous returns the last recorded sample.
func (d *Detector) Previous() Vector {
	return d.previous
}

// Advance classifies current against the recorded sample and then records current.
func (d *Detector) Advance(current Vector) Edges {
	edges := Classify(current, d.previous)
	d.previous = current
	return edges
}
