package ws

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ledhaus/matrixd/internal/infrastructure/logging"
	"github.com/ledhaus/matrixd/internal/shared/types"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins in dev
	},
}

// StatusFunc supplies the current supervisor status for subscriber queries.
type StatusFunc func() types.SupervisorStatus

// Hub fans supervisor events out to websocket subscribers. It implements
// supervisor.Publisher.
type Hub struct {
	status StatusFunc
	log    *logging.Logger

	mu    sync.Mutex
	conns map[*client]struct{}
}

// client is one subscriber connection. Writes are serialized per connection;
// gorilla/websocket allows at most one concurrent writer.
type client struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *client) send(data interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(data)
}

// NewHub creates a websocket hub.
func NewHub(status StatusFunc, log *logging.Logger) *Hub {
	return &Hub{
		status: status,
		log:    log,
		conns:  make(map[*client]struct{}),
	}
}

// HandleConnection handles WebSocket upgrade and messages.
func (h *Hub) HandleConnection(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}

	cl := &client{conn: conn}
	h.register(cl)
	defer func() {
		h.unregister(cl)
		conn.Close()
	}()

	// Send welcome message
	cl.send(map[string]interface{}{
		"type":    "system",
		"message": "Connected to matrixd",
	})

	// Listen for messages
	for {
		var msg struct {
			Type string `json:"type"`
		}
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Warn("WebSocket read error", zap.Error(err))
			}
			return
		}

		switch msg.Type {
		case "ping":
			cl.send(map[string]interface{}{"type": "pong"})
		case "status":
			cl.send(map[string]interface{}{
				"type":      "status",
				"status":    h.status(),
				"timestamp": time.Now().Unix(),
			})
		default:
			cl.send(map[string]interface{}{
				"type":      "error",
				"message":   "unknown message type",
				"timestamp": time.Now().Unix(),
			})
		}
	}
}

// Publish broadcasts a supervisor event to every subscriber. Connections
// that fail to take the write are dropped.
func (h *Hub) Publish(event types.Event) {
	for _, cl := range h.snapshot() {
		if err := cl.send(map[string]interface{}{
			"type":      "event",
			"event":     event,
			"timestamp": time.Now().Unix(),
		}); err != nil {
			h.unregister(cl)
			cl.conn.Close()
		}
	}
}

// Count returns the number of connected subscribers.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

func (h *Hub) register(cl *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[cl] = struct{}{}
}

func (h *Hub) unregister(cl *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, cl)
}

func (h *Hub) snapshot() []*client {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]*client, 0, len(h.conns))
	for cl := range h.conns {
		out = append(out, cl)
	}
	return out
}
