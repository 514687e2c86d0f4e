package inspect

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// connection is one inspector UI session. Writes are serialized per
// connection; gorilla allows a single concurrent writer.
type connection struct {
	id   string
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *connection) send(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Hub manages WebSocket connections for the inspector event stream.
type Hub struct {
	mu       sync.RWMutex
	conns    map[string]*connection
	upgrader websocket.Upgrader
	logger   *slog.Logger

	// snapshot builds the event sent to each connection on connect.
	snapshot func() Event
}

// NewHub creates a hub. snapshot may be nil, in which case connections
// receive no greeting.
func NewHub(logger *slog.Logger, snapshot func() Event) *Hub {
	if logger == nil {
		logger = slog.Default().With("component", "inspect")
	}
	return &Hub{
		conns: make(map[string]*connection),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // Debug surface, not exposed to the public
			},
		},
		logger:   logger,
		snapshot: snapshot,
	}
}

// HandleWebSocket handles WebSocket upgrade and connection.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, req *http.Request) {
	conn, err := h.upgrader.Upgrade(w, req, nil)
	if err != nil {
		return
	}

	c := &connection{id: uuid.NewString(), conn: conn}

	h.mu.Lock()
	h.conns[c.id] = c
	h.mu.Unlock()
	h.logger.Debug("inspector connected", "conn", c.id)

	if h.snapshot != nil {
		if data, err := json.Marshal(h.snapshot()); err == nil {
			if err := c.send(data); err != nil {
				h.logger.Debug("snapshot write failed", "conn", c.id, "error", err)
			}
		}
	}

	// Keep connection alive until the client disconnects
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.mu.Lock()
	delete(h.conns, c.id)
	h.mu.Unlock()
	conn.Close()
	h.logger.Debug("inspector disconnected", "conn", c.id)
}

// Broadcast sends an event to all connected clients.
func (h *Hub) Broadcast(ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		h.logger.Warn("event marshal failed", "error", err)
		return
	}

	h.mu.RLock()
	conns := make([]*connection, 0, len(h.conns))
	for _, c := range h.conns {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	for _, c := range conns {
		if err := c.send(data); err != nil {
			h.mu.Lock()
			delete(h.conns, c.id)
			h.mu.Unlock()
			c.conn.Close()
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// Close closes all client connections.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, c := range h.conns {
		c.conn.Close()
		delete(h.conns, id)
	}
}
