// Package sse implements Server-Sent Events so open dashboards learn when the
// catalog behind them changes.
package sse

import "time"

// The page polls nothing: it refetches its views when a dataset event arrives.

// EventType represents the type of SSE Event.
type EventType string

const (
	// EventDatasetLoaded is sent after a catalog load replaced the served data.
	EventDatasetLoaded EventType = "dataset.loaded"
	// EventDatasetReloadFailed is sent when a reload failed and the previous
	// catalog is still being served.
	EventDatasetReloadFailed EventType = "dataset.reload_failed"

	// EventHeartbeat represents a connection keepalive event.
	EventHeartbeat EventType = "heartbeat"
)

// Event represents an SSE event to be sent to clients.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
	Type      EventType `json:"type"`
}

// DatasetEventData is the payload of dataset events.
type DatasetEventData struct {
	SnapshotID string `json:"snapshot_id,omitempty"`
	Path       string `json:"path"`
	Titles     int    `json:"titles,omitempty"`
	Skipped    int    `json:"skipped,omitempty"`
	Error      string `json:"error,omitempty"`
}

// HeartbeatEventData is the payload of heartbeat events.
type HeartbeatEventData struct {
	ServerTime time.Time `json:"server_time"`
}

// NewDatasetLoadedEvent creates a dataset.loaded event.
func NewDatasetLoadedEvent(snapshotID, path string, titles, skipped int) Event {
	return Event{
		Type: EventDatasetLoaded,
		Data: DatasetEventData{
			SnapshotID: snapshotID,
			Path:       path,
			Titles:     titles,
			Skipped:    skipped,
		},
		Timestamp: time.Now(),
	}
}

// NewDatasetReloadFailedEvent creates a dataset.reload_failed event.
func NewDatasetReloadFailedEvent(path string, err error) Event {
	return Event{
		Type: EventDatasetReloadFailed,
		Data: DatasetEventData{
			Path:  path,
			Error: err.Error(),
		},
		Timestamp: time.Now(),
	}
}

// NewHeartbeatEvent creates a heartbeat event.
func NewHeartbeatEvent() Event {
	return Event{
		Type: EventHeartbeat,
		Data: HeartbeatEventData{
			ServerTime: time.Now(),
		},
		Timestamp: time.Now(),
	}
}
