package websocket

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/abrezinsky/jeopardy/internal/game"
	"github.com/abrezinsky/jeopardy/internal/logger"
	"github.com/abrezinsky/jeopardy/internal/models"
)

// MessageSnapshot is the type of every game state message
const MessageSnapshot = "snapshot"

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for now
	},
}

// SnapshotSource looks up the current state of a game
type SnapshotSource interface {
	Snapshot(gameID string) (game.Snapshot, error)
}

// Hub maintains the set of active clients and fans game snapshots out to
// the clients watching each game
type Hub struct {
	log        logger.Logger
	clients    map[*Client]bool
	broadcast  chan envelope
	register   chan *Client
	unregister chan *Client
	mutex      sync.RWMutex
	snapshots  SnapshotSource
}

type envelope struct {
	gameID  string
	message models.WSMessage
}

// Client is a middleman between the websocket connection and the hub
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	gameID string
	send   chan models.WSMessage
}

// New creates a new Hub instance with injected dependencies
func New(log logger.Logger, snapshots SnapshotSource) *Hub {
	return &Hub{
		log:        log,
		clients:    make(map[*Client]bool),
		broadcast:  make(chan envelope, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		snapshots:  snapshots,
	}
}

// Start begins the hub's main loop in a goroutine
func (h *Hub) Start() {
	go h.run()
}

// run handles client registration/unregistration and message fan-out
func (h *Hub) run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mutex.Unlock()
			h.log.Debug("Client connected", "game_id", client.gameID, "total_clients", total)

			// Send the current game state to the new client
			go func() {
				snap, err := h.snapshots.Snapshot(client.gameID)
				if err != nil {
					return
				}
				h.mutex.RLock()
				defer h.mutex.RUnlock()
				if h.clients[client] {
					select {
					case client.send <- models.WSMessage{Type: MessageSnapshot, Payload: snap}:
					default:
					}
				}
			}()

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			total := len(h.clients)
			h.mutex.Unlock()
			h.log.Debug("Client disconnected", "game_id", client.gameID, "total_clients", total)

		case env := <-h.broadcast:
			h.mutex.RLock()
			for client := range h.clients {
				if client.gameID != env.gameID {
					continue
				}
				select {
				case client.send <- env.message:
				default:
					// Client's send channel is full, unregister
					go func(c *Client) {
						h.unregister <- c
					}(client)
				}
			}
			h.mutex.RUnlock()
		}
	}
}

// Publish implements game.Notifier
func (h *Hub) Publish(gameID string, snap game.Snapshot) {
	h.broadcast <- envelope{
		gameID:  gameID,
		message: models.WSMessage{Type: MessageSnapshot, Payload: snap},
	}
}

// ClientCount returns the number of clients watching gameID
func (h *Hub) ClientCount(gameID string) int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	n := 0
	for client := range h.clients {
		if client.gameID == gameID {
			n++
		}
	}
	return n
}

// readPump drains the connection so control frames are processed
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log.Debug("WebSocket error", "error", err)
			}
			break
		}

		// Intents go through the HTTP API; incoming frames are only logged
		var msg models.WSMessage
		if err := json.Unmarshal(message, &msg); err == nil {
			c.hub.log.Debug("Received message", "game_id", c.gameID, "type", msg.Type)
		}
	}
}

// writePump pumps messages from the hub to the websocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				// Hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ServeWs subscribes a websocket to the game named by the gameID URL parameter
func (h *Hub) ServeWs(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "gameID")
	if _, err := h.snapshots.Snapshot(gameID); err != nil {
		http.Error(w, "game not found", http.StatusNotFound)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("WebSocket upgrade error", "error", err)
		return
	}

	client := &Client{
		hub:    h,
		conn:   conn,
		gameID: gameID,
		send:   make(chan models.WSMessage, 256),
	}
	h.register <- client

	// Allow collection of memory referenced by the caller by doing all work in new goroutines
	go client.writePump()
	go client.readPump()
}

// Ensure Hub implements game.Notifier
var _ game.Notifier = (*Hub)(nil)
