package tui

import (
	"time"

	"github.com/dohr-michael/pioboard/internal/config"
	"github.com/dohr-michael/pioboard/internal/events"
)

// tickMsg triggers a frame refresh.
type tickMsg time.Time

// EventMsg carries one bus event into the model.
type EventMsg struct {
	Event events.Event
}

// ReloadedMsg reports the outcome of a config reload.
type ReloadedMsg struct {
	Config *config.Config
	Err    error
}

// StoppedMsg reports that the firmware returned.
type StoppedMsg struct {
	Err error
}
