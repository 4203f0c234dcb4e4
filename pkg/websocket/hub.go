// Package websocket pushes admin events (bans, bookings, tickets) to
// connected dashboard sessions.
package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"mecfinder/pkg/logger"
)

type Event struct {
	Type       string                 `json:"type"`
	Topic      string                 `json:"topic"`
	ResourceID string                 `json:"resourceId,omitempty"`
	AdminID    string                 `json:"adminId,omitempty"`
	Timestamp  int64                  `json:"timestamp"`
	Data       map[string]interface{} `json:"data,omitempty"`
}

const (
	TopicModeration = "moderation"
	TopicBookings   = "bookings"
	TopicSupport    = "support"
	TopicPricing    = "pricing"
	TopicCatalog    = "catalog"
)

// NewEvent stamps an event with the current time.
func NewEvent(topic, eventType, resourceID string, data map[string]interface{}) Event {
	return Event{
		Type:       eventType,
		Topic:      topic,
		ResourceID: resourceID,
		Timestamp:  time.Now().Unix(),
		Data:       data,
	}
}

type Hub struct {
	clients    map[*Client]bool
	broadcast  chan Event
	register   chan *Client
	unregister chan *Client
	maxClients int
	mutex      sync.RWMutex
	log        *logger.Logger
}

func NewHub(maxClients int, log *logger.Logger) *Hub {
	if log == nil {
		log = logger.NewNop()
	}
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan Event, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		maxClients: maxClients,
		log:        log,
	}
}

// Run processes registrations and broadcasts until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case event := <-h.broadcast:
			h.broadcastEvent(event)
		}
	}
}

// Broadcast queues an event for local delivery. It drops the event if the
// queue is full rather than blocking the caller.
func (h *Hub) Broadcast(event Event) {
	select {
	case h.broadcast <- event:
	default:
		h.log.WithField("type", event.Type).Warn("websocket broadcast queue full, dropping event")
	}
}

// Relay forwards events published on a redis channel by any API instance
// to this hub's clients. It returns when ctx is done or the channel closes.
func (h *Hub) Relay(ctx context.Context, messages <-chan *redis.Message) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}
			var event Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				h.log.WithError(err).Warn("discarding malformed admin event")
				continue
			}
			h.Broadcast(event)
		}
	}
}

func (h *Hub) ClientCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

func (h *Hub) full() bool {
	return h.maxClients > 0 && h.ClientCount() >= h.maxClients
}

func (h *Hub) registerClient(client *Client) {
	h.mutex.Lock()
	h.clients[client] = true
	h.mutex.Unlock()

	h.log.WithFields(map[string]interface{}{
		"admin_id": client.AdminID,
		"role":     client.Role,
	}).Debug("websocket client registered")

	h.sendToClient(client, NewEvent("", "welcome", "", map[string]interface{}{
		"message": "Connected successfully",
	}))
}

func (h *Hub) unregisterClient(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
}

func (h *Hub) broadcastEvent(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		h.log.WithError(err).Error("failed to encode admin event")
		return
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	for client := range h.clients {
		if !client.Wants(event.Topic) {
			continue
		}
		select {
		case client.send <- data:
		default:
			close(client.send)
			delete(h.clients, client)
		}
	}
}

func (h *Hub) sendToClient(client *Client, event Event) {
	data, _ := json.Marshal(event)

	h.mutex.Lock()
	defer h.mutex.Unlock()

	if _, ok := h.clients[client]; !ok {
		return
	}
	select {
	case client.send <- data:
	default:
		close(client.send)
		delete(h.clients, client)
	}
}

func (h *Hub) closeAll() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for client := range h.clients {
		close(client.send)
		delete(h.clients, client)
	}
}
