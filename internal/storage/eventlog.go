// Package storage records bus events of a board run to disk.
package storage

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/dohr-michael/pioboard/internal/events"
)

// EventLogger persists bus events to JSONL files, one file per run.
type EventLogger struct {
	dir         string
	mu          sync.Mutex
	skip        map[events.EventType]bool
	unsubscribe func()
}

// NewEventLogger subscribes to every bus event and appends it to
// dir/<run_id>.jsonl. Events of the skipped types are not written.
func NewEventLogger(dir string, bus *events.Bus, skip ...events.EventType) *EventLogger {
	el := &EventLogger{
		dir:  dir,
		skip: make(map[events.EventType]bool, len(skip)),
	}
	for _, t := range skip {
		el.skip[t] = true
	}
	el.unsubscribe = bus.Subscribe(el.handleEvent)
	return el
}

// Close unsubscribes the logger from the event bus.
func (el *EventLogger) Close() {
	if el.unsubscribe != nil {
		el.unsubscribe()
	}
}

func (el *EventLogger) handleEvent(e events.Event) {
	if el.skip[e.Type] {
		return
	}
	_ = el.writeEvent(e)
}

func (el *EventLogger) writeEvent(e events.Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	data = append(data, '\n')

	// handlers run on their own goroutines
	el.mu.Lock()
	defer el.mu.Unlock()

	if err := os.MkdirAll(el.dir, 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(LogPath(el.dir, e.RunID), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write(data)
	return err
}

// LogPath returns the JSONL file holding the events of runID.
func LogPath(dir, runID string) string {
	if runID == "" {
		return filepath.Join(dir, "_global.jsonl")
	}
	return filepath.Join(dir, runID+".jsonl")
}

// ReadRun loads the recorded events of runID ordered by timestamp.
// Malformed lines are skipped.
func ReadRun(dir, runID string) ([]events.Event, error) {
	f, err := os.Open(LogPath(dir, runID))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("no recorded events for %q", runID)
		}
		return nil, err
	}
	defer f.Close()

	var out []events.Event
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		var e events.Event
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			continue
		}
		out = append(out, e)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", runID, err)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out, nil
}

// ListRuns returns the run IDs that have a recorded log, sorted.
func ListRuns(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var runs []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || filepath.Ext(name) != ".jsonl" || name == "_global.jsonl" {
			continue
		}
		runs = append(runs, name[:len(name)-len(".jsonl")])
	}
	sort.Strings(runs)
	return runs, nil
}
