package ws

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/minigolfstudio/backend/internal/game"
	"github.com/minigolfstudio/backend/internal/golf"
)

// inputData is the payload of pointer messages. One of Point or Screen is set.
type inputData struct {
	Point  *golf.Vec3        `json:"point,omitempty"`
	Screen *game.ScreenPoint `json:"screen,omitempty"`
}

// GameHub is the single hub for all runs.
var GameHub *Hub

func init() {
	GameHub = NewHub()
	go runGameHub(GameHub)
}

// pendingClient carries the frame subscription from the handler to the hub.
type pendingClient struct {
	*Client
	frames <-chan game.Frame
}

// HandleWebSocket streams a run's frames to its owner and accepts aim input.
// The auth middleware has already put player_id in the context.
func HandleWebSocket(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		token = c.Query("token")
	}
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "run token required"})
		return
	}
	if game.Manager == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "game server not ready"})
		return
	}

	run, err := game.Manager.GetRun(token)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
		return
	}
	if run.PlayerID != c.GetInt("player_id") {
		c.JSON(http.StatusForbidden, gin.H{"error": "run belongs to another player"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[WS] Upgrade error: %v", err)
		return
	}

	frames, release := run.Subscribe()
	client := &Client{
		conn:     conn,
		playerID: run.PlayerID,
		runToken: token,
		send:     make(chan []byte, sendBuffer),
		release:  release,
	}

	GameHub.register <- &pendingClient{Client: client, frames: frames}

	go client.writePump()
	go client.readPump()
}

// runGameHub registers and unregisters clients.
func runGameHub(h *Hub) {
	for {
		select {
		case p := <-h.register:
			client := p.Client
			h.mu.Lock()
			old, reconnect := h.clients[client.runToken]
			if reconnect {
				delete(h.clients, client.runToken)
				close(old.send)
			}
			h.clients[client.runToken] = client
			h.mu.Unlock()

			if reconnect {
				log.Printf("[WS] Run %s reconnected - closing old connection", client.runToken)
				old.release()
				if old.conn != nil {
					old.conn.WriteControl(websocket.CloseMessage,
						websocket.FormatCloseMessage(websocket.CloseNormalClosure, "replaced by new connection"),
						time.Now().Add(time.Second))
				}
			}
			log.Printf("[WS] Player %d connected to run %s", client.playerID, client.runToken)
			go client.forwardFrames(p.frames)

		case client := <-h.unregister:
			h.mu.Lock()
			cur, ok := h.clients[client.runToken]
			if ok && cur == client {
				delete(h.clients, client.runToken)
				close(client.send)
			}
			h.mu.Unlock()

			if ok && cur == client {
				client.release()
				log.Printf("[WS] Player %d disconnected from run %s", client.playerID, client.runToken)
			}
		}
	}
}

// forwardFrames relays run frames until the run ends or the client leaves.
func (c *Client) forwardFrames(frames <-chan game.Frame) {
	for f := range frames {
		data, err := json.Marshal(f)
		if err != nil {
			log.Printf("[WS] Error marshaling frame for run %s: %v", c.runToken, err)
			continue
		}
		GameHub.deliver(c, data)
	}
}

// readPump reads aim input from the client.
func (c *Client) readPump() {
	defer func() {
		GameHub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(16384)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				log.Printf("[WS] unexpected close for run %s: %v", c.runToken, err)
			}
			break
		}
		c.conn.SetReadDeadline(time.Now().Add(pongWait))

		var msg WSMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			c.sendError("Invalid message")
			continue
		}
		c.handleMessage(msg)
	}
}

// handleMessage maps a client message onto run input.
func (c *Client) handleMessage(msg WSMessage) {
	run, err := game.Manager.GetRun(c.runToken)
	if err != nil {
		c.sendError("Run not found")
		return
	}

	switch kind := game.InputKind(msg.Type); kind {
	case game.InputPointerDown, game.InputPointerMove, game.InputPointerUp,
		game.InputPointerLeave, game.InputRestart, game.InputNextHole:
		var data inputData
		if len(msg.Data) > 0 {
			if err := json.Unmarshal(msg.Data, &data); err != nil {
				c.sendError("Invalid input data")
				return
			}
		}
		err := run.Send(game.Input{Kind: kind, Point: data.Point, Screen: data.Screen})
		switch {
		case errors.Is(err, game.ErrInvalidInput):
			c.sendError("Invalid input")
		case errors.Is(err, game.ErrRunClosed):
			c.sendError("Run is over")
		}

	case "get_state":
		data, _ := json.Marshal(map[string]interface{}{
			"type": "run_state",
			"run":  run.View(),
		})
		GameHub.deliver(c, data)

	default:
		c.sendError("Unknown message type")
	}
}
