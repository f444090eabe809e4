package sse

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/flixlens/flixlens/internal/id"
)

const (
	queueSize         = 64
	clientBufferSize  = 16
	heartbeatInterval = 30 * time.Second
)

// Client is one open event stream.
type Client struct {
	ID          string
	ConnectedAt time.Time
	EventChan   chan Event
	Done        chan struct{}
}

// Manager fans catalog events out to every open stream. Sends never block:
// a client whose buffer is full misses the event.
type Manager struct {
	logger    *slog.Logger
	heartbeat time.Duration

	queue chan Event
	wg    sync.WaitGroup

	mu      sync.RWMutex // guards clients and closed
	clients map[string]*Client
	closed  bool
}

// NewManager creates a manager. Call Start to begin delivering events.
func NewManager(logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Manager{
		logger:    logger,
		heartbeat: heartbeatInterval,
		queue:     make(chan Event, queueSize),
		clients:   make(map[string]*Client),
	}
}

// Start delivers queued events and heartbeats until ctx is done or the
// manager is shut down.
func (m *Manager) Start(ctx context.Context) {
	m.wg.Add(1)
	defer m.wg.Done()

	ticker := time.NewTicker(m.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-m.queue:
			if !ok {
				m.closeAllClients()
				return
			}
			m.broadcast(event)
		case <-ticker.C:
			m.broadcast(NewHeartbeatEvent())
		case <-ctx.Done():
			m.closeAllClients()
			return
		}
	}
}

// Shutdown refuses further events and closes every client once the queued
// events are delivered or ctx expires. It is safe to call more than once.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	close(m.queue)
	m.mu.Unlock()

	drained := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(drained)
	}()

	var err error
	select {
	case <-drained:
	case <-ctx.Done():
		err = ctx.Err()
		m.logger.Warn("event delivery did not finish before shutdown", "error", err)
	}

	// Start may never have run.
	m.closeAllClients()
	return err
}

// Emit queues an event. Anything that is not an Event is dropped, as is
// every event once the manager is shut down.
func (m *Manager) Emit(event any) {
	evt, ok := event.(Event)
	if !ok {
		m.logger.Error("ignoring value that is not an event")
		return
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return
	}

	select {
	case m.queue <- evt:
	default:
		m.logger.Error("event queue full, dropping event", "event_type", evt.Type)
	}
}

// Connect registers a new stream.
func (m *Manager) Connect() (*Client, error) {
	clientID, err := id.Generate(id.PrefixClient)
	if err != nil {
		return nil, err
	}

	client := &Client{
		ID:          clientID,
		ConnectedAt: time.Now(),
		EventChan:   make(chan Event, clientBufferSize),
		Done:        make(chan struct{}),
	}

	m.mu.Lock()
	m.clients[clientID] = client
	n := len(m.clients)
	m.mu.Unlock()

	m.logger.Debug("event stream opened", "client_id", clientID, "clients", n)
	return client, nil
}

// Disconnect removes a stream. Unknown ids are ignored.
func (m *Manager) Disconnect(clientID string) {
	m.mu.Lock()
	client, ok := m.clients[clientID]
	if ok {
		delete(m.clients, clientID)
		close(client.Done)
		close(client.EventChan)
	}
	n := len(m.clients)
	m.mu.Unlock()

	if ok {
		m.logger.Debug("event stream closed",
			"client_id", clientID,
			"duration", time.Since(client.ConnectedAt),
			"clients", n,
		)
	}
}

// ClientCount returns the number of open streams.
func (m *Manager) ClientCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients)
}

func (m *Manager) broadcast(event Event) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	dropped := 0
	for _, client := range m.clients {
		select {
		case client.EventChan <- event:
		default:
			dropped++
		}
	}

	if dropped > 0 {
		m.logger.Warn("slow event streams missed an event",
			"event_type", event.Type,
			"dropped", dropped,
			"clients", len(m.clients),
		)
	}
}

func (m *Manager) closeAllClients() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for clientID, client := range m.clients {
		close(client.Done)
		close(client.EventChan)
		delete(m.clients, clientID)
	}
}
