package handlers

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	eventBufferSize = 256
	pingInterval    = 30 * time.Second
	writeTimeout    = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // the bridge only listens on a local address
	},
}

// EventMessage is one event pushed to front-end listeners
type EventMessage struct {
	Event   string `json:"event"`
	Payload any    `json:"payload"`
}

type hubClient struct {
	conn *websocket.Conn
	send chan []byte
}

// EventHub fans events out to every connected WebSocket client.
// It implements domain.EventEmitter; Emit never blocks on a slow client.
type EventHub struct {
	mu      sync.RWMutex
	clients map[*hubClient]struct{}
	logger  *zap.Logger
}

// NewEventHub creates an empty hub
func NewEventHub(logger *zap.Logger) *EventHub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventHub{
		clients: make(map[*hubClient]struct{}),
		logger:  logger,
	}
}

// Emit broadcasts an event; a client whose buffer is full misses it
func (h *EventHub) Emit(event string, payload any) error {
	data, err := json.Marshal(EventMessage{Event: event, Payload: payload})
	if err != nil {
		return err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		select {
		case client.send <- data:
		default:
			h.logger.Debug("Dropping event for slow client", zap.String("event", event))
		}
	}
	return nil
}

// ClientCount returns the number of connected clients
func (h *EventHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// HandleWebSocket handles GET /api/v1/events
func (h *EventHub) HandleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("Failed to upgrade WebSocket", zap.Error(err))
		return
	}

	client := &hubClient{conn: conn, send: make(chan []byte, eventBufferSize)}
	h.register(client)

	h.logger.Info("Event listener connected", zap.String("remote_addr", c.Request.RemoteAddr))

	go h.writePump(client)

	// reads only detect the close; clients send nothing
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.unregister(client)
	h.logger.Info("Event listener disconnected", zap.String("remote_addr", c.Request.RemoteAddr))
}

func (h *EventHub) register(client *hubClient) {
	h.mu.Lock()
	h.clients[client] = struct{}{}
	h.mu.Unlock()
}

// unregister removes the client and stops its writer
func (h *EventHub) unregister(client *hubClient) {
	h.mu.Lock()
	delete(h.clients, client)
	h.mu.Unlock()
	close(client.send)
}

// writePump is the only writer of client.conn
func (h *EventHub) writePump(client *hubClient) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		client.conn.Close()
	}()

	for {
		select {
		case data, ok := <-client.send:
			client.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				client.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := client.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				h.logger.Debug("Failed to write event", zap.Error(err))
				return
			}
		case <-ticker.C:
			client.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := client.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
