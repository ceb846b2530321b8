package ws

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true // CORS is enforced on the HTTP routes
	},
}

const (
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	pingInterval = 30 * time.Second
	sendBuffer   = 256
)

// Client is one WebSocket connection watching a run
type Client struct {
	conn     *websocket.Conn
	playerID int
	runToken string
	send     chan []byte
	release  func() // unsubscribes from run frames
}

// Hub maintains the set of active clients, one per run
type Hub struct {
	clients    map[string]*Client // run token -> Client
	register   chan *pendingClient
	unregister chan *Client
	mu         sync.RWMutex
}

// NewHub creates a new Hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *pendingClient),
		unregister: make(chan *Client),
	}
}

// deliver queues data for a client that is still registered.
// Must not be called with h.mu held.
func (h *Hub) deliver(c *Client, data []byte) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if cur, ok := h.clients[c.runToken]; !ok || cur != c {
		return false
	}
	select {
	case c.send <- data:
		return true
	default:
		log.Printf("[WS] send buffer full for run %s, dropping message", c.runToken)
		return false
	}
}

// SendToRun sends a message to the client watching a run
func (h *Hub) SendToRun(runToken string, message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("[WS] Error marshaling message: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	if client, exists := h.clients[runToken]; exists {
		select {
		case client.send <- data:
		default:
			log.Printf("[WS] SendToRun dropped message for run %s (buffer full)", runToken)
		}
	}
}

// BroadcastAll sends a message to every connected client
func (h *Hub) BroadcastAll(message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("[WS] Error marshaling message: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for token, client := range h.clients {
		select {
		case client.send <- data:
		default:
			log.Printf("[WS] BroadcastAll dropped message for run %s (buffer full)", token)
		}
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// WSMessage is the envelope of every client message
type WSMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// writePump writes messages to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel; best-effort close frame.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("[WS] write error for run %s: %v", c.runToken, err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("[WS] ping error for run %s: %v", c.runToken, err)
				return
			}
		}
	}
}

// sendError sends an error message to the client
func (c *Client) sendError(message string) {
	data, _ := json.Marshal(map[string]interface{}{
		"type":    "error",
		"message": message,
	})
	GameHub.deliver(c, data)
}
