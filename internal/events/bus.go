// Package events provides an in-memory event bus using Go channels.
package events

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// EventType represents the type of event.
type EventType string

const (
	// Task lifecycle
	EventTaskSpawned    EventType = "task.spawned"
	EventSpawnFailed    EventType = "task.spawn_failed"
	EventTaskSuspended  EventType = "task.suspended"
	EventTaskResumed    EventType = "task.resumed"
	EventTaskTerminated EventType = "task.terminated"

	// Inputs
	EventSwitchChanged EventType = "switch.changed"

	// Firmware
	EventSchedulerStarted  EventType = "scheduler.started"
	EventSchedulerReturned EventType = "scheduler.returned"
)

// EventSource identifies the component that emitted an event.
type EventSource string

const (
	SourceOrchestrator EventSource = "orchestrator"
	SourceFirmware     EventSource = "firmware"
	SourceStimulus     EventSource = "stimulus"
	SourcePanel        EventSource = "panel"
)

// Event represents an event in the system.
type Event struct {
	ID        string         `json:"id"`
	RunID     string         `json:"run_id,omitempty"`
	Type      EventType      `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	Source    EventSource    `json:"source"`
	Payload   map[string]any `json:"payload"`
}

var eventSeq uint64

func generateEventID() string {
	return fmt.Sprintf("%d-%d", time.Now().UnixNano(), atomic.AddUint64(&eventSeq, 1))
}

// Subscriber is a function that receives events.
type Subscriber func(Event)

type subscription struct {
	types   []EventType
	handler Subscriber
}

func (s *subscription) wants(t EventType) bool {
	if len(s.types) == 0 {
		return true
	}
	for _, want := range s.types {
		if want == t {
			return true
		}
	}
	return false
}

// Bus fans events out to subscribers from a single delivery goroutine and
// keeps the most recent ones for late readers. Publish never blocks: when
// the queue is full the event is dropped.
type Bus struct {
	mu     sync.RWMutex
	subs   map[int]*subscription
	nextID int
	closed bool

	queue  chan Event
	done   chan struct{}
	recent *history
}

// NewBus creates a bus whose queue and history both hold size events.
func NewBus(size int) *Bus {
	if size <= 0 {
		size = 1
	}
	b := &Bus{
		subs:   make(map[int]*subscription),
		queue:  make(chan Event, size),
		done:   make(chan struct{}),
		recent: newHistory(size),
	}
	go b.deliver()
	return b
}

func (b *Bus) deliver() {
	for {
		select {
		case e := <-b.queue:
			b.recent.add(e)
			b.mu.RLock()
			for _, sub := range b.subs {
				if sub.wants(e.Type) {
					go sub.handler(e)
				}
			}
			b.mu.RUnlock()
		case <-b.done:
			return
		}
	}
}

// Publish queues e for delivery. It is a no-op on a closed bus.
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}
	select {
	case b.queue <- e:
	default:
	}
}

// Subscribe registers handler for the given types, or for every type when
// none is given. Each delivery runs on its own goroutine. Returns an
// unsubscribe function.
func (b *Bus) Subscribe(handler Subscriber, types ...EventType) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.subs[id] = &subscription{types: types, handler: handler}

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs, id)
	}
}

// SubscribeChan returns a channel that receives events. Events are dropped
// when the channel is full. The returned function unsubscribes and closes it.
func (b *Bus) SubscribeChan(bufSize int, types ...EventType) (<-chan Event, func()) {
	ch := make(chan Event, bufSize)

	var mu sync.Mutex
	closed := false

	unsubscribe := b.Subscribe(func(e Event) {
		mu.Lock()
		defer mu.Unlock()
		if closed {
			return
		}
		select {
		case ch <- e:
		default:
		}
	}, types...)

	return ch, func() {
		unsubscribe()
		mu.Lock()
		defer mu.Unlock()
		if !closed {
			closed = true
			close(ch)
		}
	}
}

// History returns up to limit of the most recently delivered events,
// oldest first.
func (b *Bus) History(limit int) []Event {
	return b.recent.last(limit)
}

// Close stops delivery. Later publishes are dropped.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	close(b.done)
}

// history is a fixed window over the latest delivered events.
type history struct {
	mu   sync.Mutex
	buf  []Event
	next int
	full bool
}

func newHistory(size int) *history {
	return &history{buf: make([]Event, size)}
}

func (h *history) add(e Event) {
	h.mu.Lock()
	h.buf[h.next] = e
	h.next++
	if h.next == len(h.buf) {
		h.next = 0
		h.full = true
	}
	h.mu.Unlock()
}

func (h *history) last(limit int) []Event {
	h.mu.Lock()
	defer h.mu.Unlock()

	var ordered []Event
	if h.full {
		ordered = append(ordered, h.buf[h.next:]...)
	}
	ordered = append(ordered, h.buf[:h.next]...)
	if limit >= 0 && limit < len(ordered) {
		ordered = ordered[len(ordered)-limit:]
	}
	if len(ordered) == 0 {
		return nil
	}
	return ordered
}
