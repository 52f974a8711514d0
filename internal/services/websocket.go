package services

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/swiftship/parcel-service/internal/models"
)

// Client is one WebSocket connection, tied to the authenticated user.
type Client struct {
	UserID uint
	Conn   *websocket.Conn
	Send   chan []byte
	Hub    *Hub
}

// Hub maintains the active connections and fans parcel status events
// out to the parcel's sender.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	mutex      sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run starts the hub loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			h.mutex.Unlock()
			log.Printf("[ws] user %d connected", client.UserID)

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			h.mutex.Unlock()
			log.Printf("[ws] user %d disconnected", client.UserID)
		}
	}
}

// Register adds a connection to the hub.
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister removes a connection from the hub.
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// BroadcastToUser sends a message to every connection of a user.
func (h *Hub) BroadcastToUser(userID uint, message []byte) {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	for client := range h.clients {
		if client.UserID == userID {
			select {
			case client.Send <- message:
			default:
				// Slow consumer, drop the event rather than block.
			}
		}
	}
}

// ParcelStatusEvent is the live-tracking payload pushed to senders.
type ParcelStatusEvent struct {
	Type       string              `json:"type"`
	ParcelID   uuid.UUID           `json:"parcel_id"`
	TrackingID string              `json:"tracking_id"`
	Status     models.ParcelStatus `json:"status"`
	Timestamp  int64               `json:"timestamp"`
}

// PublishParcelStatus pushes a status event to the parcel's sender.
// Best-effort: a nil hub or marshal failure is ignored.
func (h *Hub) PublishParcelStatus(parcel *models.Parcel) {
	if h == nil {
		return
	}

	event := ParcelStatusEvent{
		Type:       "parcel_status",
		ParcelID:   parcel.ID,
		TrackingID: parcel.TrackingID,
		Status:     parcel.Status,
		Timestamp:  time.Now().Unix(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("[ws] failed to encode status event: %v", err)
		return
	}

	h.BroadcastToUser(parcel.SenderID, data)
}

// WritePump drains the client's send channel onto the connection.
func (c *Client) WritePump() {
	defer c.Conn.Close()
	for message := range c.Send {
		if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
}

// ReadPump discards inbound frames until the connection drops; the
// feed is one-way.
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Unregister(c)
		c.Conn.Close()
	}()
	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			return
		}
	}
}
