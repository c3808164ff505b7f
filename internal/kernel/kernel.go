// Package kernel is a single-core, preemptive, priority-based task scheduler
// simulated on goroutines.
//
// Exactly one task holds the CPU at a time. A task keeps it until its next
// Yield (the timeslice boundary), after which the dispatcher selects the
// highest-priority runnable task, rotating among tasks of equal priority.
// When no task is runnable the idle hook runs on the dispatcher goroutine.
package kernel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

var (
	// ErrResourceExhausted is returned by Spawn when the heap arena cannot hold the new task.
	ErrResourceExhausted = errors.New("task heap exhausted")
	// ErrAlreadyStarted is returned by a second call to Start.
	ErrAlreadyStarted = errors.New("scheduler already started")
	// ErrHalted is returned by Spawn once the scheduler has stopped.
	ErrHalted = errors.New("scheduler halted")
)

const (
	// DefaultHeapSize is the arena size in bytes when Config.HeapSize is zero.
	DefaultHeapSize = 8192
	// WordSize is the size of one stack word in bytes.
	WordSize = 4
	// TCBSize is the per-task bookkeeping overhead charged to the arena, in bytes.
	TCBSize = 96
	// MinimalStackDepth is used when a task is spawned with a non-positive stack depth.
	MinimalStackDepth = 128
)

// Config holds scheduler parameters.
type Config struct {
	// HeapSize is the arena, in bytes, shared by every task's stack and TCB.
	HeapSize int
	// IdleInterval is the pause between two idle hook invocations.
	IdleInterval time.Duration
	// TimeSlice is an optional pause after every dispatch, to slow the simulation down.
	TimeSlice time.Duration
}

// Stats are cumulative scheduler counters.
type Stats struct {
	Spawned    uint64
	Failed     uint64
	Terminated uint64
	Dispatches uint64
	IdlePasses uint64
	Live       int
	HeapUsed   int
	HeapSize   int
}

// Critical is an acquired critical section. Exit releases it.
type Critical struct {
	mu *sync.Mutex
}

// Exit leaves the critical section.
func (c Critical) Exit() {
	c.mu.Unlock()
}

// Kernel is the scheduler. The zero value is not usable; use New.
type Kernel struct {
	cfg Config

	mu       sync.Mutex
	tasks    []*Task // live tasks in dispatch order
	current  *Task
	idle     func()
	heapUsed int
	stats    Stats

	crit sync.Mutex

	yield   chan *Task
	halted  chan struct{}
	started atomic.Bool
	wg      sync.WaitGroup // task goroutines
}

// New creates a scheduler. Tasks may be spawned before Start.
func New(cfg Config) *Kernel {
	if cfg.HeapSize <= 0 {
		cfg.HeapSize = DefaultHeapSize
	}
	return &Kernel{
		cfg:    cfg,
		yield:  make(chan *Task),
		halted: make(chan struct{}),
	}
}

// OnIdle registers the hook run whenever no task is runnable.
func (k *Kernel) OnIdle(fn func()) {
	k.mu.Lock()
	k.idle = fn
	k.mu.Unlock()
}

// Spawn creates a runnable task. The task's stack and TCB are charged to the
// heap arena; if they do not fit, Spawn returns ErrResourceExhausted.
func (k *Kernel) Spawn(entry Entry, name string, stackDepth, priority int) (*Task, error) {
	if entry == nil {
		panic("kernel: Spawn called with nil entry")
	}
	if stackDepth <= 0 {
		stackDepth = MinimalStackDepth
	}
	cost := stackDepth*WordSize + TCBSize

	k.mu.Lock()
	if k.isHalted() {
		k.mu.Unlock()
		return nil, ErrHalted
	}
	if free := k.cfg.HeapSize - k.heapUsed; cost > free {
		k.stats.Failed++
		k.mu.Unlock()
		return nil, fmt.Errorf("%w: %s needs %d bytes, %d free", ErrResourceExhausted, name, cost, free)
	}
	t := &Task{
		id:         generateTaskID(),
		name:       name,
		priority:   priority,
		stackDepth: stackDepth,
		cost:       cost,
		k:          k,
		entry:      entry,
		run:        make(chan struct{}, 1),
		state:      StateRunnable,
	}
	k.heapUsed += cost
	k.tasks = append(k.tasks, t)
	k.stats.Spawned++
	k.wg.Add(1)
	k.mu.Unlock()

	go k.launch(t)

	slog.Debug("kernel: task spawned", "task", name, "id", t.id, "priority", priority, "stack", stackDepth)
	return t, nil
}

func (k *Kernel) launch(t *Task) {
	defer k.wg.Done()
	defer k.retire(t)

	select {
	case <-t.run:
	case <-k.halted:
		return
	}
	t.entry(t)
	slog.Warn("kernel: task returned without deleting itself", "task", t.name, "id", t.id)
}

// retire moves t to the terminated state, frees its arena share and, if t
// held the CPU, hands the CPU back to the dispatcher.
func (k *Kernel) retire(t *Task) {
	k.mu.Lock()
	t.state = StateTerminated
	k.heapUsed -= t.cost
	for i, other := range k.tasks {
		if other == t {
			k.tasks = append(k.tasks[:i], k.tasks[i+1:]...)
			break
		}
	}
	k.stats.Terminated++
	holding := k.current == t
	k.mu.Unlock()

	if holding {
		select {
		case k.yield <- t:
		case <-k.halted:
		}
	}
}

// Suspend makes t ineligible for dispatch and reports whether its state changed.
// A task that suspends itself keeps the CPU until its next Yield.
func (k *Kernel) Suspend(t *Task) bool {
	if t == nil {
		return false
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	if t.state != StateRunnable {
		return false
	}
	t.state = StateSuspended
	return true
}

// Resume makes a suspended t runnable again and reports whether its state changed.
func (k *Kernel) Resume(t *Task) bool {
	if t == nil {
		return false
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	if t.state != StateSuspended {
		return false
	}
	t.state = StateRunnable
	return true
}

// EnterCritical acquires the scheduler-wide critical section. It is not
// reentrant, and a task must not Yield while holding it.
//
//	defer k.EnterCritical().Exit()
func (k *Kernel) EnterCritical() Critical {
	k.crit.Lock()
	return Critical{mu: &k.crit}
}

// Start runs the dispatcher until ctx is done and returns ctx's error. On
// return every task goroutine has exited and no further task can be spawned.
func (k *Kernel) Start(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if !k.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}
	defer k.halt()

	k.mu.Lock()
	slog.Info("kernel: scheduler started", "tasks", len(k.tasks), "heap_size", k.cfg.HeapSize, "heap_used", k.heapUsed)
	k.mu.Unlock()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		t := k.next()
		if t == nil {
			k.runIdle()
			if !pause(ctx, k.cfg.IdleInterval) {
				return ctx.Err()
			}
			continue
		}
		if !k.dispatch(ctx, t) {
			return ctx.Err()
		}
		if k.cfg.TimeSlice > 0 && !pause(ctx, k.cfg.TimeSlice) {
			return ctx.Err()
		}
	}
}

// next selects the highest-priority runnable task and moves it behind its
// peers so that equal priorities share the CPU round-robin.
func (k *Kernel) next() *Task {
	k.mu.Lock()
	defer k.mu.Unlock()

	idx := -1
	for i, t := range k.tasks {
		if t.state != StateRunnable {
			continue
		}
		if idx < 0 || t.priority > k.tasks[idx].priority {
			idx = i
		}
	}
	if idx < 0 {
		return nil
	}
	t := k.tasks[idx]
	copy(k.tasks[idx:], k.tasks[idx+1:])
	k.tasks[len(k.tasks)-1] = t

	k.current = t
	t.slices++
	k.stats.Dispatches++
	return t
}

// dispatch hands the CPU to t and waits until t yields or terminates.
func (k *Kernel) dispatch(ctx context.Context, t *Task) bool {
	t.run <- struct{}{}
	select {
	case <-k.yield:
	case <-ctx.Done():
		return false
	}
	k.mu.Lock()
	k.current = nil
	k.mu.Unlock()
	return true
}

func (k *Kernel) runIdle() {
	k.mu.Lock()
	fn := k.idle
	k.stats.IdlePasses++
	k.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (k *Kernel) halt() {
	k.mu.Lock()
	if !k.isHalted() {
		close(k.halted)
	}
	k.current = nil
	k.mu.Unlock()

	k.wg.Wait()
	slog.Info("kernel: scheduler stopped")
}

// isHalted reports whether the scheduler has stopped. Caller must hold k.mu.
func (k *Kernel) isHalted() bool {
	select {
	case <-k.halted:
		return true
	default:
		return false
	}
}

// Snapshot returns the live tasks ordered by descending priority, then name.
func (k *Kernel) Snapshot() []TaskInfo {
	k.mu.Lock()
	out := make([]TaskInfo, 0, len(k.tasks))
	for _, t := range k.tasks {
		out = append(out, TaskInfo{
			ID:       t.id,
			Name:     t.name,
			Priority: t.priority,
			State:    t.state,
			Running:  t == k.current,
			Slices:   t.slices,
		})
	}
	k.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority > out[j].Priority
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Stats returns the scheduler counters.
func (k *Kernel) Stats() Stats {
	k.mu.Lock()
	defer k.mu.Unlock()
	s := k.stats
	s.Live = len(k.tasks)
	s.HeapUsed = k.heapUsed
	s.HeapSize = k.cfg.HeapSize
	return s
}

func pause(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		runtime.Gosched()
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
