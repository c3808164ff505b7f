package events

import (
	"encoding/json"
	"time"
)

// EventPayload is the interface all typed payloads implement.
type EventPayload interface {
	EventType() EventType
}

// =============================================================================
// TASK LIFECYCLE EVENTS
// =============================================================================

type TaskSpawnedPayload struct {
	Channel  int    `json:"channel"`
	TaskID   string `json:"task_id"`
	Name     string `json:"name"`
	Priority int    `json:"priority"`
	Budget   int    `json:"budget,omitempty"`
}

func (TaskSpawnedPayload) EventType() EventType { return EventTaskSpawned }

type SpawnFailedPayload struct {
	Channel int    `json:"channel"`
	Error   string `json:"error"`
}

func (SpawnFailedPayload) EventType() EventType { return EventSpawnFailed }

type TaskSuspendedPayload struct {
	Channel int    `json:"channel"`
	TaskID  string `json:"task_id"`
}

func (TaskSuspendedPayload) EventType() EventType { return EventTaskSuspended }

type TaskResumedPayload struct {
	Channel int    `json:"channel"`
	TaskID  string `json:"task_id"`
}

func (TaskResumedPayload) EventType() EventType { return EventTaskResumed }

type TaskTerminatedPayload struct {
	Channel    int    `json:"channel"`
	TaskID     string `json:"task_id"`
	Iterations int    `json:"iterations"`
}

func (TaskTerminatedPayload) EventType() EventType { return EventTaskTerminated }

// =============================================================================
// INPUT EVENTS
// =============================================================================

type SwitchChangedPayload struct {
	Channel int  `json:"channel"`
	Pressed bool `json:"pressed"`
}

func (SwitchChangedPayload) EventType() EventType { return EventSwitchChanged }

// =============================================================================
// FIRMWARE EVENTS
// =============================================================================

type SchedulerStartedPayload struct {
	Variant  string `json:"variant"`
	Tasks    int    `json:"tasks"`
	HeapSize int    `json:"heap_size"`
}

func (SchedulerStartedPayload) EventType() EventType { return EventSchedulerStarted }

type SchedulerReturnedPayload struct {
	Error string `json:"error"`
}

func (SchedulerReturnedPayload) EventType() EventType { return EventSchedulerReturned }

// =============================================================================
// TYPED EVENT CONSTRUCTORS
// =============================================================================

func NewTypedEvent(source EventSource, payload EventPayload) Event {
	return Event{
		ID:        generateEventID(),
		Type:      payload.EventType(),
		Timestamp: time.Now(),
		Source:    source,
		Payload:   toMap(payload),
	}
}

func NewTypedEventWithRun(source EventSource, payload EventPayload, runID string) Event {
	return Event{
		ID:        generateEventID(),
		RunID:     runID,
		Type:      payload.EventType(),
		Timestamp: time.Now(),
		Source:    source,
		Payload:   toMap(payload),
	}
}

func toMap(v any) map[string]any {
	var result map[string]any
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return nil
	}
	return result
}

// =============================================================================
// TYPED PAYLOAD EXTRACTORS
// =============================================================================

func ExtractPayload[T EventPayload](e Event) (T, bool) {
	var result T
	data, err := json.Marshal(e.Payload)
	if err != nil {
		return result, false
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return result, false
	}
	return result, true
}

func GetTaskSpawnedPayload(e Event) (TaskSpawnedPayload, bool) {
	return ExtractPayload[TaskSpawnedPayload](e)
}

func GetSpawnFailedPayload(e Event) (SpawnFailedPayload, bool) {
	return ExtractPayload[SpawnFailedPayload](e)
}

func GetTaskTerminatedPayload(e Event) (TaskTerminatedPayload, bool) {
	return ExtractPayload[TaskTerminatedPayload](e)
}

func GetSwitchChangedPayload(e Event) (SwitchChangedPayload, bool) {
	return ExtractPayload[SwitchChangedPayload](e)
}
