// Package display renders a snapshot of the board and scheduler.
package display

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dohr-michael/pioboard/internal/channels"
	"github.com/dohr-michael/pioboard/internal/input"
	"github.com/dohr-michael/pioboard/internal/kernel"
)

// Frame is everything shown for one refresh.
type Frame struct {
	Variant    string
	RunID      string
	Indicators [channels.Count]bool
	Error      bool
	Switches   input.Vector
	Tasks      []kernel.TaskInfo
	Stats      kernel.Stats
}

// Lit returns the channels whose indicator is on.
func (f Frame) Lit() []channels.ID {
	var ids []channels.ID
	for _, id := range channels.All() {
		if f.Indicators[id] {
			ids = append(ids, id)
		}
	}
	return ids
}

// Render draws f as a bordered panel.
func Render(f Frame) string {
	rows := []string{
		renderHeader(f),
		"",
		renderIndicators(f),
		renderSwitches(f),
		"",
		renderTasks(f.Tasks),
		"",
		renderStats(f.Stats),
	}
	return panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// Line renders f on a single uncolored line, for logs and scripted output.
func Line(f Frame) string {
	var leds strings.Builder
	for _, on := range f.Indicators {
		if on {
			leds.WriteByte('1')
		} else {
			leds.WriteByte('0')
		}
	}
	errLED := "off"
	if f.Error {
		errLED = "on"
	}
	var tasks []string
	for _, t := range f.Tasks {
		tasks = append(tasks, fmt.Sprintf("%s:%s", t.Name, t.State))
	}
	return fmt.Sprintf("switches=%s leds=%s err=%s tasks=[%s]", f.Switches, leds.String(), errLED, strings.Join(tasks, " "))
}

func renderHeader(f Frame) string {
	title := headerStyle.Render("pioboard")
	parts := []string{title}
	if f.Variant != "" {
		parts = append(parts, f.Variant)
	}
	if f.RunID != "" {
		parts = append(parts, mutedStyle.Render(f.RunID))
	}
	return strings.Join(parts, " · ")
}

func renderIndicators(f Frame) string {
	cells := make([]string, 0, channels.Count+1)
	for _, id := range channels.All() {
		label := fmt.Sprintf("LED%d", int(id)+1)
		if f.Indicators[id] {
			cells = append(cells, litStyle.Render("● "+label))
		} else {
			cells = append(cells, mutedStyle.Render("○ "+label))
		}
	}
	if f.Error {
		cells = append(cells, errorStyle.Render("● ERR"))
	} else {
		cells = append(cells, mutedStyle.Render("○ ERR"))
	}
	return strings.Join(cells, "  ")
}

func renderSwitches(f Frame) string {
	cells := make([]string, 0, channels.Count)
	for _, id := range channels.All() {
		label := fmt.Sprintf("SW%d", int(id)+1)
		if f.Switches.Pressed(id) {
			cells = append(cells, pressedStyle.Render("▼ "+label))
		} else {
			cells = append(cells, mutedStyle.Render("▲ "+label))
		}
	}
	return strings.Join(cells, "  ") + "   " + mutedStyle.Render(f.Switches.String())
}

func renderTasks(tasks []kernel.TaskInfo) string {
	if len(tasks) == 0 {
		return mutedStyle.Render("no live tasks")
	}
	lines := make([]string, 0, len(tasks)+1)
	lines = append(lines, mutedStyle.Render(fmt.Sprintf("%-2s %-8s %-4s %-10s %s", "", "TASK", "PRIO", "STATE", "SLICES")))
	for _, t := range tasks {
		marker := " "
		if t.Running {
			marker = "▶"
		}
		state := fmt.Sprintf("%-10s", t.State)
		switch t.State {
		case kernel.StateSuspended:
			state = suspendedStyle.Render(state)
		case kernel.StateRunnable:
			state = litStyle.Render(state)
		}
		lines = append(lines, fmt.Sprintf("%-2s %-8s %-4d %s %d", marker, t.Name, t.Priority, state, t.Slices))
	}
	return strings.Join(lines, "\n")
}

func renderStats(s kernel.Stats) string {
	line := fmt.Sprintf("heap %d/%d  spawned %d  failed %d  terminated %d  dispatches %d  idle %d",
		s.HeapUsed, s.HeapSize, s.Spawned, s.Failed, s.Terminated, s.Dispatches, s.IdlePasses)
	if s.Failed > 0 {
		return errorStyle.Render(line)
	}
	return mutedStyle.Render(line)
}
