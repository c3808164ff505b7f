package kernel

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/google/uuid"
)

// State is the scheduler-owned lifecycle state of a task.
type State int

const (
	StateNotCreated State = iota
	StateRunnable
	StateSuspended
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateNotCreated:
		return "not-created"
	case StateRunnable:
		return "runnable"
	case StateSuspended:
		return "suspended"
	case StateTerminated:
		return "terminated"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Entry is the body of a task. It runs on the task's own goroutine and must
// call Yield at every point where the task may be preempted.
type Entry func(self *Task)

// Task is a handle to a scheduler-managed unit of execution.
//
// A handle stays valid after the task terminates; its State then reports
// StateTerminated and Suspend/Resume on it are no-ops.
type Task struct {
	id         string
	name       string
	priority   int
	stackDepth int
	cost       int

	k     *Kernel
	entry Entry
	run   chan struct{} // dispatcher -> task: you hold the CPU

	// guarded by k.mu
	state  State
	slices uint64
}

// ID returns the task's unique identifier.
func (t *Task) ID() string { return t.id }

// Name returns the name given at spawn time.
func (t *Task) Name() string { return t.name }

// Priority returns the task's scheduling priority. Higher runs first.
func (t *Task) Priority() int { return t.priority }

// State returns the current lifecycle state.
func (t *Task) State() State {
	t.k.mu.Lock()
	defer t.k.mu.Unlock()
	return t.state
}

// Yield marks a timeslice boundary: the task hands the CPU back to the
// dispatcher and blocks until it is selected again. If the task was suspended
// meanwhile, it stays blocked until resumed.
//
// Once the kernel halts, Yield does not return; the task goroutine exits.
func (t *Task) Yield() {
	k := t.k
	select {
	case k.yield <- t:
	case <-k.halted:
		runtime.Goexit()
	}
	select {
	case <-t.run:
	case <-k.halted:
		runtime.Goexit()
	}
}

// DeleteSelf terminates the calling task and releases its heap allocation.
// It must be called from the task's own goroutine and never returns.
func (t *Task) DeleteSelf() {
	runtime.Goexit()
}

// TaskInfo is a point-in-time view of a task.
type TaskInfo struct {
	ID       string
	Name     string
	Priority int
	State    State
	Running  bool
	Slices   uint64
}

func generateTaskID() string {
	u := uuid.New().String()
	return "tsk_" + strings.ReplaceAll(u[:8], "-", "")
}
