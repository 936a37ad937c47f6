package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/mhruby/catchboard/internal/logger"
	"github.com/mhruby/catchboard/internal/models"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Spectator dashboards connect from arbitrary LAN hosts
	},
}

// SettingsReader supplies the scoring window state for the welcome
// message sent to newly connected clients.
type SettingsReader interface {
	IsScoringOpen(ctx context.Context) bool
}

// Hub maintains the set of active clients and broadcasts messages to the clients
type Hub struct {
	log        logger.Logger
	clients    map[*Client]bool
	broadcast  chan models.WSMessage
	register   chan *Client
	unregister chan *Client
	mutex      sync.RWMutex
	settings   SettingsReader

	// Last known state, replayed to clients as they connect so a page
	// load never waits for the next recompute.
	stateMu       sync.RWMutex
	lastStandings map[string][]models.Standing
	lastOnline    bool
}

// Client is a middleman between the websocket connection and the hub
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan models.WSMessage
}

// New creates a new Hub instance with injected dependencies
func New(log logger.Logger, settings SettingsReader) *Hub {
	return &Hub{
		log:           log,
		clients:       make(map[*Client]bool),
		broadcast:     make(chan models.WSMessage),
		register:      make(chan *Client),
		unregister:    make(chan *Client),
		settings:      settings,
		lastStandings: make(map[string][]models.Standing),
		lastOnline:    true,
	}
}

// Start begins the hub's main loop in a goroutine
func (h *Hub) Start() {
	go h.run()
}

// run handles client registration/unregistration and message broadcasting
func (h *Hub) run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			h.mutex.Unlock()
			h.log.Debug("Client connected", "total_clients", len(h.clients))

			// Welcome runs on the hub loop so it is serialized with the
			// unregister close; sending from another goroutine could hit
			// an already closed channel when the client drops right away.
			h.welcome(client)

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mutex.Unlock()
			h.log.Debug("Client disconnected", "total_clients", len(h.clients))

		case message := <-h.broadcast:
			h.mutex.RLock()
			for client := range h.clients {
				select {
				case client.send <- message:
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

// welcome queues the current state for a newly connected client: the
// scoring window, upstream connectivity, and every sector's last
// broadcast standings. Called from the hub loop only; the client's
// fresh buffer holds the whole replay, and if it somehow does not the
// surplus is dropped rather than blocking the loop.
func (h *Hub) welcome(client *Client) {
	msgs := []models.WSMessage{{
		Type:    "scoring_status",
		Payload: map[string]interface{}{"open": h.settings.IsScoringOpen(context.Background())},
	}}

	h.stateMu.RLock()
	msgs = append(msgs, models.WSMessage{
		Type:    "connectivity",
		Payload: map[string]interface{}{"online": h.lastOnline},
	})
	for sector, rows := range h.lastStandings {
		msgs = append(msgs, standingsMessage(sector, rows))
	}
	h.stateMu.RUnlock()

	for _, msg := range msgs {
		select {
		case client.send <- msg:
		default:
			return
		}
	}
}

// BroadcastMessage sends a message to all connected clients
func (h *Hub) BroadcastMessage(msgType string, payload interface{}) {
	h.broadcast <- models.WSMessage{
		Type:    msgType,
		Payload: payload,
	}
}

// BroadcastStandings implements scheduler.Broadcaster
func (h *Hub) BroadcastStandings(sector string, rows []models.Standing) {
	h.stateMu.Lock()
	h.lastStandings[sector] = rows
	h.stateMu.Unlock()

	h.broadcast <- standingsMessage(sector, rows)
}

// BroadcastScoringStatus implements services.ScoringBroadcaster
func (h *Hub) BroadcastScoringStatus(open bool) {
	h.BroadcastMessage("scoring_status", map[string]interface{}{"open": open})
}

// BroadcastConnectivity implements offline.Broadcaster
func (h *Hub) BroadcastConnectivity(online bool) {
	h.stateMu.Lock()
	h.lastOnline = online
	h.stateMu.Unlock()

	h.BroadcastMessage("connectivity", map[string]interface{}{"online": online})
}

func standingsMessage(sector string, rows []models.Standing) models.WSMessage {
	return models.WSMessage{
		Type: "standings",
		Payload: map[string]interface{}{
			"sector": sector,
			"rows":   rows,
		},
	}
}

// readPump pumps messages from the websocket connection to the hub
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

		// Viewers are read-only; incoming messages are logged and dropped
		var msg models.WSMessage
		if err := json.Unmarshal(message, &msg); err == nil {
			c.hub.log.Debug("Received message", "type", msg.Type)
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

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}

			msgBytes, _ := json.Marshal(message)
			w.Write(msgBytes)

			if err := w.Close(); err != nil {
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

// ServeWs handles websocket requests from clients
func (h *Hub) ServeWs(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("WebSocket upgrade error", "error", err)
		return
	}

	client := &Client{
		hub:  h,
		conn: conn,
		send: make(chan models.WSMessage, 256),
	}
	h.register <- client

	go client.writePump()
	go client.readPump()
}
