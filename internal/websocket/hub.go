package websocket

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for now (should be restricted in production)
	},
}

// Client represents a WebSocket client subscribed to one rating run.
type Client struct {
	RunID string
	Conn  *websocket.Conn
	Send  chan []byte
	Hub   *Hub
}

// Hub maintains active WebSocket connections and fans rating-run progress
// out to the clients watching each run.
type Hub struct {
	clients    map[*Client]bool
	runClients map[string][]*Client
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	logger     *logrus.Logger
	mutex      sync.RWMutex
}

// NewHub creates a new WebSocket hub
func NewHub(logger *logrus.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		runClients: make(map[string][]*Client),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     logger,
	}
}

// Run starts the hub and handles client registration/unregistration
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			h.runClients[client.RunID] = append(h.runClients[client.RunID], client)
			h.mutex.Unlock()

			h.logger.WithFields(logrus.Fields{
				"run_id":        client.RunID,
				"total_clients": len(h.clients),
			}).Info("WebSocket client connected")

		case client := <-h.unregister:
			h.mutex.Lock()
			h.removeClient(client)
			h.mutex.Unlock()

			h.logger.WithFields(logrus.Fields{
				"run_id":        client.RunID,
				"total_clients": len(h.clients),
			}).Info("WebSocket client disconnected")

		case message := <-h.broadcast:
			h.mutex.Lock()
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					h.removeClient(client)
				}
			}
			h.mutex.Unlock()
		}
	}
}

// removeClient drops a client from both maps and closes its Send channel.
// Caller must hold the write lock; only the hub goroutine ever calls this,
// so Send is closed exactly once.
func (h *Hub) removeClient(client *Client) {
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.Send)

	runClients := h.runClients[client.RunID]
	for i, c := range runClients {
		if c == client {
			h.runClients[client.RunID] = append(runClients[:i], runClients[i+1:]...)
			break
		}
	}
	if len(h.runClients[client.RunID]) == 0 {
		delete(h.runClients, client.RunID)
	}
}

// HandleWebSocket upgrades a connection and subscribes it to a run.
func (h *Hub) HandleWebSocket(c *gin.Context) {
	runID := c.Param("run_id")
	if runID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid run ID"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.WithError(err).Error("Failed to upgrade WebSocket connection")
		return
	}

	client := &Client{
		RunID: runID,
		Conn:  conn,
		Send:  make(chan []byte, 256),
		Hub:   h,
	}

	client.Hub.register <- client

	go client.writePump()
	go client.readPump()
}

// BroadcastToRun sends a message to all connections watching a run.
func (h *Hub) BroadcastToRun(runID string, message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		h.logger.WithError(err).Error("Failed to marshal WebSocket message")
		return
	}

	// The read lock is held across the sends so the hub goroutine cannot
	// close a Send channel mid-iteration. Slow subscribers just miss this
	// update; eviction happens only in the hub goroutine.
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	for _, client := range h.runClients[runID] {
		select {
		case client.Send <- data:
		default:
			h.logger.WithField("run_id", runID).Warn("Dropping progress update for slow WebSocket client")
		}
	}
}

// BroadcastToAll sends a message to all connected clients
func (h *Hub) BroadcastToAll(message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		h.logger.WithError(err).Error("Failed to marshal WebSocket message")
		return
	}

	h.broadcast <- data
}

// GetConnectionCount returns the total number of active connections
func (h *Hub) GetConnectionCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// readPump pumps messages from the WebSocket connection to the hub
func (c *Client) readPump() {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()

	for {
		_, _, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.logger.WithError(err).Error("WebSocket error")
			}
			break
		}
	}
}

// writePump pumps messages from the hub to the WebSocket connection
func (c *Client) writePump() {
	defer c.Conn.Close()

	for message := range c.Send {
		if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
			c.Hub.logger.WithError(err).Error("Failed to write WebSocket message")
			return
		}
	}
	c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
}
