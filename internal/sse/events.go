// Package sse implements Server-Sent Events for content invalidation notices.
package sse

import (
	"time"
)

// Frontends render pages from the public API and cache them. We push a
// notice over SSE whenever content changes so they can drop the affected
// paths instead of polling.

// EventType represents the type of SSE Event.
type EventType string

const (
	// EventContentInvalidated is sent after a committed mutation with the
	// public paths whose rendered output is now stale.
	EventContentInvalidated EventType = "content.invalidated"

	// EventHeartbeat represents a connection keepalive event.
	EventHeartbeat EventType = "heartbeat"
)

// Event represents an SSE event to be sent to clients.
// The Data field contains the event payload as a JSON object for direct deserialization.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
	Type      EventType `json:"type"`
}

// ContentInvalidatedEventData is the data payload for invalidation events.
type ContentInvalidatedEventData struct {
	Paths []string `json:"paths"`
}

// HeartbeatEventData is the data payload for heartbeat events.
type HeartbeatEventData struct {
	ServerTime time.Time `json:"server_time"`
}

// NewContentInvalidatedEvent creates an invalidation event for the given paths.
func NewContentInvalidatedEvent(paths []string) Event {
	return Event{
		Type:      EventContentInvalidated,
		Data:      ContentInvalidatedEventData{Paths: paths},
		Timestamp: time.Now(),
	}
}

// NewHeartbeatEvent creates a keepalive event.
func NewHeartbeatEvent() Event {
	now := time.Now()
	return Event{
		Type:      EventHeartbeat,
		Data:      HeartbeatEventData{ServerTime: now},
		Timestamp: now,
	}
}
