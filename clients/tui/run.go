package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dohr-michael/pioboard/internal/firmware"
)

// Run starts fw and the panel, and returns when the panel quits or ctx ends.
// The firmware's own error is returned if it stopped abnormally.
func Run(ctx context.Context, fw *firmware.Firmware, opts Options) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ch, unsub := fw.Bus().SubscribeChan(256)
	defer unsub()

	program := tea.NewProgram(
		NewApp(fw, ch, opts),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	fwErr := make(chan error, 1)
	go func() {
		err := fw.Run(ctx)
		program.Send(StoppedMsg{Err: err})
		fwErr <- err
	}()

	_, err := program.Run()
	cancel()
	runErr := <-fwErr

	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return runErr
}
