package tui

import (
	"fmt"

	"github.com/dohr-michael/pioboard/internal/events"
)

// Project converts a bus event into one line of the event feed.
// Returns "" for events that are not shown.
func Project(e events.Event) string {
	ts := MutedStyle.Render(e.Timestamp.Format("15:04:05.000"))

	switch e.Type {
	case events.EventTaskSpawned:
		p, ok := events.GetTaskSpawnedPayload(e)
		if !ok {
			return ""
		}
		detail := fmt.Sprintf("prio %d", p.Priority)
		if p.Budget > 0 {
			detail = fmt.Sprintf("budget %d", p.Budget)
		}
		return ts + " " + SpawnStyle.Render(fmt.Sprintf("spawn  ch%d %s (%s)", p.Channel, p.Name, detail))

	case events.EventSpawnFailed:
		p, ok := events.GetSpawnFailedPayload(e)
		if !ok {
			return ""
		}
		return ts + " " + ErrorStyle.Render(fmt.Sprintf("fail   ch%d %s", p.Channel, p.Error))

	case events.EventTaskSuspended, events.EventTaskResumed:
		p, ok := events.ExtractPayload[events.TaskSuspendedPayload](e)
		if !ok {
			return ""
		}
		verb := "suspend"
		if e.Type == events.EventTaskResumed {
			verb = "resume "
		}
		return ts + " " + fmt.Sprintf("%s ch%d", verb, p.Channel)

	case events.EventTaskTerminated:
		p, ok := events.GetTaskTerminatedPayload(e)
		if !ok {
			return ""
		}
		return ts + " " + MutedStyle.Render(fmt.Sprintf("done   ch%d after %d iterations", p.Channel, p.Iterations))

	case events.EventSwitchChanged:
		p, ok := events.GetSwitchChangedPayload(e)
		if !ok {
			return ""
		}
		state := "released"
		if p.Pressed {
			state = "pressed"
		}
		return ts + " " + SwitchStyle.Render(fmt.Sprintf("switch ch%d %s", p.Channel, state))

	case events.EventSchedulerReturned:
		p, ok := events.ExtractPayload[events.SchedulerReturnedPayload](e)
		if !ok {
			return ""
		}
		return ts + " " + ErrorStyle.Render("scheduler returned: "+p.Error)

	default:
		return ""
	}
}
