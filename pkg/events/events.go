// Package events defines the typed lifecycle events the engine emits.
package events

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

// Topic is the single channel topic all engine lifecycle events flow over.
const Topic = "stepflow.events"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	// Run lifecycle events.
	ExecutionStartedEvent   EventType = "execution:started"
	ExecutionCompletedEvent EventType = "execution:completed"
	ExecutionFailedEvent    EventType = "execution:failed"
	ExecutionStoppedEvent   EventType = "execution:stopped"

	// Node lifecycle events.
	NodeStartedEvent   EventType = "node:started"
	NodeCompletedEvent EventType = "node:completed"
	NodeRetryEvent     EventType = "node:retry"
	NodeFailedEvent    EventType = "node:failed"
	NodeBlockedEvent   EventType = "node:blocked"

	// Registration events.
	HandlerRegisteredEvent EventType = "handler:registered"
)

type BaseEvent struct {
	ID        string         `json:"id"`
	Type      EventType      `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	GraphID   string         `json:"graph_id"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

type ExecutionStarted struct {
	BaseEvent

	ExecutionID string         `json:"execution_id"`
	GraphName   string         `json:"graph_name"`
	Variables   map[string]any `json:"variables,omitempty"`
}

func (e ExecutionStarted) GetType() EventType {
	return ExecutionStartedEvent
}

type ExecutionCompleted struct {
	BaseEvent

	ExecutionID   string `json:"execution_id"`
	DurationMs    int64  `json:"duration_ms"`
	NodesExecuted int    `json:"nodes_executed"`
}

func (e ExecutionCompleted) GetType() EventType {
	return ExecutionCompletedEvent
}

type ExecutionFailed struct {
	BaseEvent

	ExecutionID string   `json:"execution_id"`
	DurationMs  int64    `json:"duration_ms"`
	Error       string   `json:"error"`
	FailedNodes []string `json:"failed_nodes"`
}

func (e ExecutionFailed) GetType() EventType {
	return ExecutionFailedEvent
}

type ExecutionStopped struct {
	BaseEvent

	ExecutionID string `json:"execution_id"`
	DurationMs  int64  `json:"duration_ms"`
}

func (e ExecutionStopped) GetType() EventType {
	return ExecutionStoppedEvent
}

type NodeStarted struct {
	BaseEvent

	ExecutionID string `json:"execution_id"`
	NodeID      string `json:"node_id"`
	Attempt     int    `json:"attempt"`
}

func (e NodeStarted) GetType() EventType {
	return NodeStartedEvent
}

type NodeCompleted struct {
	BaseEvent

	ExecutionID string `json:"execution_id"`
	NodeID      string `json:"node_id"`
	DurationMs  int64  `json:"duration_ms"`
}

func (e NodeCompleted) GetType() EventType {
	return NodeCompletedEvent
}

// NodeRetry is emitted after a failed attempt when retry budget remains,
// before the backoff delay elapses.
type NodeRetry struct {
	BaseEvent

	ExecutionID string `json:"execution_id"`
	NodeID      string `json:"node_id"`
	Attempt     int    `json:"attempt"`
	RetryCount  int    `json:"retry_count"`
	DelayMs     int64  `json:"delay_ms"`
	Error       string `json:"error"`
}

func (e NodeRetry) GetType() EventType {
	return NodeRetryEvent
}

type NodeFailed struct {
	BaseEvent

	ExecutionID string `json:"execution_id"`
	NodeID      string `json:"node_id"`
	DurationMs  int64  `json:"duration_ms"`
	Attempts    int    `json:"attempts"`
	Error       string `json:"error"`
}

func (e NodeFailed) GetType() EventType {
	return NodeFailedEvent
}

type NodeBlocked struct {
	BaseEvent

	ExecutionID      string `json:"execution_id"`
	NodeID           string `json:"node_id"`
	FailedDependency string `json:"failed_dependency"`
}

func (e NodeBlocked) GetType() EventType {
	return NodeBlockedEvent
}

type HandlerRegistered struct {
	BaseEvent

	NodeType string `json:"node_type"`
}

func (e HandlerRegistered) GetType() EventType {
	return HandlerRegisteredEvent
}

func NewBaseEvent(eventType EventType, graphID string) BaseEvent {
	return BaseEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		GraphID:   graphID,
		Metadata:  make(map[string]any),
	}
}
