package sse

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// writeTimeout is how long one event may take to reach the client. The
// deadline moves forward after every event, so streams outlive the server's
// WriteTimeout.
const writeTimeout = 60 * time.Second

// SnapshotFunc reports the id of the catalog being served, or "" when none is.
type SnapshotFunc func() string

// Handler streams catalog events.
//
// The first event on every stream is "connected" and carries the served
// snapshot id, so a page that reconnects can tell whether it missed a reload.
type Handler struct {
	manager  *Manager
	snapshot SnapshotFunc
	logger   *slog.Logger
}

// NewHandler creates a handler. snapshot may be nil.
func NewHandler(manager *Manager, snapshot SnapshotFunc, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if snapshot == nil {
		snapshot = func() string { return "" }
	}
	return &Handler{manager: manager, snapshot: snapshot, logger: logger}
}

// ConnectedEventData is the payload of the first event on a stream.
type ConnectedEventData struct {
	ClientID   string `json:"client_id"`
	SnapshotID string `json:"snapshot_id,omitempty"`
}

// ServeHTTP streams events until the client goes away or the manager stops.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if ctx.Err() != nil {
		return
	}

	header := w.Header()
	header.Set("Content-Type", "text/event-stream")
	header.Set("Cache-Control", "no-cache")
	header.Set("Connection", "keep-alive")
	header.Set("X-Accel-Buffering", "no")

	rc := http.NewResponseController(w)
	if err := rc.Flush(); err != nil {
		h.logger.Error("response does not support streaming", "error", err)
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	client, err := h.manager.Connect()
	if err != nil {
		h.logger.Error("failed to register event stream", "error", err)
		http.Error(w, "Failed to establish connection", http.StatusInternalServerError)
		return
	}
	defer h.manager.Disconnect(client.ID)

	hello := ConnectedEventData{ClientID: client.ID, SnapshotID: h.snapshot()}
	if err := write(rc, w, "connected", hello); err != nil {
		return
	}

	for {
		select {
		case event, ok := <-client.EventChan:
			if !ok {
				return
			}
			if err := write(rc, w, string(event.Type), event); err != nil {
				// The client went away mid-write.
				return
			}
		case <-client.Done:
			return
		case <-ctx.Done():
			return
		}
	}
}

// write sends one event and flushes it.
func write(rc *http.ResponseController, w http.ResponseWriter, name string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", name, err)
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, payload); err != nil {
		return err
	}
	if err := rc.Flush(); err != nil {
		return err
	}
	// Not every ResponseWriter supports deadlines.
	_ = rc.SetWriteDeadline(time.Now().Add(writeTimeout))
	return nil
}
