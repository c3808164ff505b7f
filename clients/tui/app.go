package tui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dohr-michael/pioboard/internal/channels"
	"github.com/dohr-michael/pioboard/internal/config"
	"github.com/dohr-michael/pioboard/internal/display"
	"github.com/dohr-michael/pioboard/internal/events"
	"github.com/dohr-michael/pioboard/internal/firmware"
)

// DefaultFeedSize is the number of event lines kept on screen.
const DefaultFeedSize = 12

// Options configures the panel.
type Options struct {
	Refresh  time.Duration
	FeedSize int
	Reloader *config.Reloader // nil disables the reload key
	Level    *slog.LevelVar   // updated from log.level on reload
}

// App is the front panel model.
// Layout: BOARD | EVENT FEED | HELP BAR
type App struct {
	fw       *firmware.Firmware
	events   <-chan events.Event
	reloader *config.Reloader
	level    *slog.LevelVar

	refresh  time.Duration
	feedSize int

	// State
	frame    display.Frame
	feed     []string
	seeded   map[string]bool // history events already in the feed
	status   string
	width    int
	stopped  bool
	quitting bool
}

// NewApp creates the panel for fw. The feed starts from the bus history;
// events read from ch are appended to it.
func NewApp(fw *firmware.Firmware, ch <-chan events.Event, opts Options) *App {
	if opts.Refresh <= 0 {
		opts.Refresh = 250 * time.Millisecond
	}
	if opts.FeedSize <= 0 {
		opts.FeedSize = DefaultFeedSize
	}
	a := &App{
		fw:       fw,
		events:   ch,
		reloader: opts.Reloader,
		level:    opts.Level,
		refresh:  opts.Refresh,
		feedSize: opts.FeedSize,
		frame:    fw.Frame(),
		seeded:   make(map[string]bool),
	}
	for _, e := range fw.Bus().History(opts.FeedSize) {
		a.seeded[e.ID] = true
		a.push(e)
	}
	return a
}

func (a *App) push(e events.Event) {
	line := Project(e)
	if line == "" {
		return
	}
	a.feed = append(a.feed, line)
	if over := len(a.feed) - a.feedSize; over > 0 {
		a.feed = a.feed[over:]
	}
}

// Init starts the refresh ticks and the event pump.
func (a *App) Init() tea.Cmd {
	return tea.Batch(tick(a.refresh), waitForEvent(a.events))
}

func tick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func waitForEvent(ch <-chan events.Event) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		e, ok := <-ch
		if !ok {
			return nil
		}
		return EventMsg{Event: e}
	}
}

// Update handles messages and updates state.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case tickMsg:
		a.frame = a.fw.Frame()
		return a, tick(a.refresh)

	case EventMsg:
		if a.seeded[msg.Event.ID] {
			delete(a.seeded, msg.Event.ID)
		} else {
			a.push(msg.Event)
		}
		return a, waitForEvent(a.events)

	case ReloadedMsg:
		if msg.Err != nil {
			a.status = ErrorStyle.Render("reload failed: " + msg.Err.Error())
			return a, nil
		}
		a.apply(msg.Config)
		a.status = fmt.Sprintf("config reloaded (refresh %s, log %s)", a.refresh, msg.Config.Log.Level)
		return a, nil

	case StoppedMsg:
		a.stopped = true
		a.frame = a.fw.Frame()
		if msg.Err != nil {
			a.status = ErrorStyle.Render(msg.Err.Error())
		} else {
			a.status = "firmware stopped"
		}
		return a, nil
	}
	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		a.quitting = true
		return a, tea.Quit
	case "1", "2", "3", "4":
		id := channels.ID(msg.String()[0] - '1')
		a.toggle(id)
		a.frame = a.fw.Frame()
		return a, nil
	case "r":
		if a.reloader == nil {
			a.status = "reload unavailable"
			return a, nil
		}
		r := a.reloader
		return a, func() tea.Msg {
			err := r.Reload()
			return ReloadedMsg{Config: r.Current(), Err: err}
		}
	}
	return a, nil
}

// toggle flips the switch of id on the simulated board.
func (a *App) toggle(id channels.ID) {
	sw := a.fw.Registry().Get(id).Switch
	pressed := a.fw.Board().Toggle(sw)
	a.fw.Bus().Publish(events.NewTypedEventWithRun(events.SourcePanel,
		events.SwitchChangedPayload{Channel: int(id), Pressed: pressed}, a.fw.RunID()))
}

func (a *App) apply(cfg *config.Config) {
	if d := cfg.Display.Refresh.Duration(); d > 0 {
		a.refresh = d
	}
	if a.level != nil {
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(cfg.Log.Level)); err == nil {
			a.level.Set(lvl)
		}
	}
}

// View renders the full panel.
func (a *App) View() string {
	if a.quitting {
		return ""
	}

	feed := MutedStyle.Render("no events yet")
	if len(a.feed) > 0 {
		feed = strings.Join(a.feed, "\n")
	}
	feedBox := FeedStyle
	if a.width > 4 {
		feedBox = feedBox.Width(a.width - 4)
	}

	help := "1-4 toggle switch · r reload config · q quit"
	if a.stopped {
		help = "stopped · q quit"
	}
	bar := HelpBarStyle.Render(help)
	if a.status != "" {
		bar += " " + a.status
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		display.Render(a.frame),
		feedBox.Render(feed),
		bar,
	)
}
