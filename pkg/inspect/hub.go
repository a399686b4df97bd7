package inspect

import (
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/weft/internal/errors"
	"github.com/vango-dev/weft/pkg/node"
)

// EventType identifies a node lifecycle event.
type EventType string

const (
	EventCreated   EventType = "created"
	EventStarted   EventType = "started"
	EventReplayed  EventType = "replayed"
	EventSwallowed EventType = "swallowed"
)

// Event is sent to websocket clients.
type Event struct {
	Type      EventType `json:"type"`
	NodeID    uint64    `json:"node_id"`
	Tag       string    `json:"tag"`
	Time      time.Time `json:"time"`
	ElapsedMS float64   `json:"elapsed_ms,omitempty"`
	Key       uint64    `json:"key,omitempty"`
	Fired     bool      `json:"fired,omitempty"`
	Code      string    `json:"code,omitempty"`
	Error     string    `json:"error,omitempty"`
}

const (
	eventBuffer  = 256
	writeTimeout = time.Second
)

// Hub fans node events out to websocket clients. Observer methods only
// enqueue; a background goroutine does the writes, and events are dropped
// when the queue is full.
type Hub struct {
	clients  map[*websocket.Conn]bool
	mu       sync.RWMutex
	upgrader websocket.Upgrader
	logger   *slog.Logger

	events  chan Event
	done    chan struct{}
	closed  sync.Once
	dropped atomic.Uint64
}

// NewHub creates a hub and starts its writer. origins lists the allowed
// Origin headers; "*" allows any, and an empty list allows same-host
// requests only.
func NewHub(origins []string, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Hub{
		clients: make(map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin(origins),
		},
		logger: logger,
		events: make(chan Event, eventBuffer),
		done:   make(chan struct{}),
	}
	go h.run()
	return h
}

func checkOrigin(origins []string) func(*http.Request) bool {
	if len(origins) == 0 {
		// nil selects the upgrader's same-host check.
		return nil
	}
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		allowed[o] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || allowed[origin]
	}
}

// HandleWebSocket upgrades the request and keeps the client registered
// until it disconnects.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, req *http.Request) {
	conn, err := h.upgrader.Upgrade(w, req, nil)
	if err != nil {
		h.logger.Warn("inspect: websocket upgrade failed", "remote", req.RemoteAddr, "error", err)
		return
	}

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()
	h.logger.Info("inspect: client connected", "remote", req.RemoteAddr)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.remove(conn)
	h.logger.Info("inspect: client disconnected", "remote", req.RemoteAddr)
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	if h.clients[conn] {
		delete(h.clients, conn)
		conn.Close()
	}
	h.mu.Unlock()
}

// Publish queues ev for all clients.
func (h *Hub) Publish(ev Event) {
	if ev.Time.IsZero() {
		ev.Time = time.Now()
	}
	select {
	case <-h.done:
	case h.events <- ev:
	default:
		h.dropped.Add(1)
	}
}

// Dropped returns the number of events discarded because the queue was full.
func (h *Hub) Dropped() uint64 { return h.dropped.Load() }

func (h *Hub) run() {
	for {
		select {
		case <-h.done:
			return
		case ev := <-h.events:
			h.broadcast(ev)
		}
	}
}

// broadcast sends ev to all connected clients. Only the run goroutine
// writes, so each connection has a single writer.
func (h *Hub) broadcast(ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}

	h.mu.RLock()
	clients := make([]*websocket.Conn, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	for _, client := range clients {
		client.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := client.WriteMessage(websocket.TextMessage, data); err != nil {
			h.remove(client)
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close stops the writer and closes all client connections.
func (h *Hub) Close() {
	h.closed.Do(func() { close(h.done) })

	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		client.Close()
		delete(h.clients, client)
	}
}

// NodeCreated implements node.Observer.
func (h *Hub) NodeCreated(n *node.Node) {
	h.Publish(Event{Type: EventCreated, NodeID: n.ID(), Tag: n.Kind()})
}

// NodeStarted implements node.Observer.
func (h *Hub) NodeStarted(n *node.Node, elapsed time.Duration) {
	h.Publish(Event{
		Type:      EventStarted,
		NodeID:    n.ID(),
		Tag:       n.Kind(),
		ElapsedMS: float64(elapsed) / float64(time.Millisecond),
	})
}

// Replayed implements node.Observer.
func (h *Hub) Replayed(n *node.Node, key uint64, fired bool) {
	h.Publish(Event{Type: EventReplayed, NodeID: n.ID(), Tag: n.Kind(), Key: key, Fired: fired})
}

// Swallowed implements node.Observer.
func (h *Hub) Swallowed(n *node.Node, err error) {
	ev := Event{Type: EventSwallowed, NodeID: n.ID(), Tag: n.Kind(), Error: err.Error()}
	var e *errors.Error
	if stderrors.As(err, &e) {
		ev.Code = e.Code
	}
	h.Publish(ev)
}

var _ node.Observer = (*Hub)(nil)
