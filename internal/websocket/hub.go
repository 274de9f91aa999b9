package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/tennis-web/internal/domain"
	"github.com/tennis-web/internal/session"
)

// Message types
const (
	MessageTypeLoggedIn    = "logged_in"
	MessageTypeLoggedOut   = "logged_out"
	MessageTypeUserUpdated = "user_updated"
	MessageTypeActivity    = "activity"
	MessageTypePing        = "ping"
	MessageTypePong        = "pong"
	MessageTypeError       = "error"
)

// Message represents a WebSocket message
type Message struct {
	Type      string      `json:"type"`
	SessionID string      `json:"-"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// ActivityNotice is the part of an activity pushed to every connection.
// It tells open dashboards that data changed without saying who changed it.
type ActivityNotice struct {
	Type    string `json:"type"`
	Subject int64  `json:"subject_id,omitempty"`
}

// Hub maintains the set of active clients, grouped by browser session
type Hub struct {
	// Connected clients by session ID
	sessions map[string]map[*Client]bool

	// All connected clients
	allClients map[*Client]bool

	// Register requests from clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Outbound messages
	broadcast chan *Message

	mu sync.RWMutex

	allowedOrigins map[string]bool

	logger *slog.Logger

	// Context for shutdown
	ctx    context.Context
	cancel context.CancelFunc
}

// NewHub creates a new Hub. Upgrades are accepted from allowedOrigins and
// from requests without an Origin header.
func NewHub(allowedOrigins []string, logger *slog.Logger) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	origins := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = true
	}
	return &Hub{
		sessions:       make(map[string]map[*Client]bool),
		allClients:     make(map[*Client]bool),
		register:       make(chan *Client),
		unregister:     make(chan *Client),
		broadcast:      make(chan *Message, 256),
		allowedOrigins: origins,
		logger:         logger,
		ctx:            ctx,
		cancel:         cancel,
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	h.logger.Info("WebSocket hub started")
	for {
		select {
		case <-h.ctx.Done():
			h.logger.Info("WebSocket hub stopping")
			h.closeAll()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.allClients[client] = true
			if _, ok := h.sessions[client.sessionID]; !ok {
				h.sessions[client.sessionID] = make(map[*Client]bool)
			}
			h.sessions[client.sessionID][client] = true
			h.mu.Unlock()
			h.logger.Debug("client registered", "client_id", client.id)

		case client := <-h.unregister:
			h.mu.Lock()
			h.remove(client)
			h.mu.Unlock()
			h.logger.Debug("client unregistered", "client_id", client.id)

		case message := <-h.broadcast:
			h.broadcastMessage(message)
		}
	}
}

// remove must be called with mu held
func (h *Hub) remove(client *Client) {
	if _, ok := h.allClients[client]; !ok {
		return
	}
	delete(h.allClients, client)
	if clients, ok := h.sessions[client.sessionID]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.sessions, client.sessionID)
		}
	}
	close(client.send)
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.allClients {
		h.remove(client)
	}
}

// Stop stops the hub
func (h *Hub) Stop() {
	h.cancel()
}

// broadcastMessage sends a message to the clients of one session, or to
// every client when the message has no session
func (h *Hub) broadcastMessage(message *Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	data, err := json.Marshal(message)
	if err != nil {
		h.logger.Error("failed to marshal message", "error", err)
		return
	}

	targets := h.allClients
	if message.SessionID != "" {
		targets = h.sessions[message.SessionID]
	}
	for client := range targets {
		select {
		case client.send <- data:
		default:
			h.logger.Warn("client buffer full, skipping", "client_id", client.id)
		}
	}
}

func (h *Hub) enqueue(message *Message) {
	select {
	case h.broadcast <- message:
	default:
		h.logger.Warn("broadcast channel full, dropping message", "type", message.Type)
	}
}

// HandleSessionEvent forwards a session change to the connections of that
// session so open tabs follow a login, logout or profile change.
func (h *Hub) HandleSessionEvent(ev session.Event) {
	var kind string
	switch ev.Kind {
	case session.EventLoggedIn:
		kind = MessageTypeLoggedIn
	case session.EventLoggedOut:
		kind = MessageTypeLoggedOut
	case session.EventUserUpdated:
		kind = MessageTypeUserUpdated
	default:
		return
	}

	var data interface{}
	if ev.User != nil {
		data = map[string]string{"username": ev.User.Username, "role": ev.User.Role.String()}
	}
	h.enqueue(&Message{
		Type:      kind,
		SessionID: ev.SessionID,
		Data:      data,
		Timestamp: ev.At,
	})
}

// Publish pushes an activity notice to every connection
func (h *Hub) Publish(_ context.Context, activity domain.Activity) {
	h.enqueue(&Message{
		Type:      MessageTypeActivity,
		Data:      ActivityNotice{Type: activity.Type, Subject: activity.Subject},
		Timestamp: time.Now(),
	})
}

// Register adds a client to the hub. It reports false once the hub stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.ctx.Done():
		return false
	}
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.ctx.Done():
	}
}

// SessionConnections returns the number of connections of one session
func (h *Hub) SessionConnections(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions[sessionID])
}

// TotalConnections returns the total number of connected clients
func (h *Hub) TotalConnections() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.allClients)
}
