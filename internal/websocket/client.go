package websocket

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeTimeout = 10 * time.Second

	// A tab that answers no ping within keepaliveTimeout is dropped
	keepaliveTimeout  = 60 * time.Second
	keepaliveInterval = (keepaliveTimeout * 9) / 10

	// Browsers only send small control messages
	maxInbound = 256

	sendBuffer = 32
)

// Client is one browser tab connected for session pushes
type Client struct {
	id        string
	sessionID string
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	logger    *slog.Logger
}

// ClientMessage is a message sent by a tab
type ClientMessage struct {
	Type string `json:"type"`
}

// NewClient creates a client bound to sessionID
func NewClient(hub *Hub, sessionID string, conn *websocket.Conn, logger *slog.Logger) *Client {
	id := uuid.NewString()
	return &Client{
		id:        id,
		sessionID: sessionID,
		hub:       hub,
		conn:      conn,
		send:      make(chan []byte, sendBuffer),
		logger:    logger.With("client_id", id, "session_id", sessionID),
	}
}

func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxInbound)
	c.conn.SetReadDeadline(time.Now().Add(keepaliveTimeout))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(keepaliveTimeout))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("websocket read failed", "error", err)
			}
			return
		}
		c.handle(raw)
	}
}

// handle answers a tab's application-level ping. Anything else is ignored.
func (c *Client) handle(raw []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		c.logger.Warn("invalid message from tab", "error", err)
		c.reply(Message{Type: MessageTypeError, Data: map[string]string{"error": "invalid message format"}})
		return
	}
	if msg.Type == MessageTypePing {
		c.reply(Message{Type: MessageTypePong})
		return
	}
	c.logger.Debug("ignoring message from tab", "type", msg.Type)
}

func (c *Client) reply(msg Message) {
	msg.Timestamp = time.Now()
	data, err := json.Marshal(msg)
	if err != nil {
		c.logger.Error("failed to marshal reply", "error", err)
		return
	}
	select {
	case c.send <- data:
	default:
		c.logger.Warn("send buffer full, dropping reply", "type", msg.Type)
	}
}

func (c *Client) writePump() {
	keepalive := time.NewTicker(keepaliveInterval)
	defer func() {
		keepalive.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				// unregistered or hub stopped
				c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session closed"))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				c.logger.Debug("websocket write failed", "error", err)
				return
			}

		case <-keepalive.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ServeWs upgrades the request and attaches the connection to sessionID
func (h *Hub) ServeWs(sessionID string, w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "session_id", sessionID, "error", err)
		return
	}

	client := NewClient(h, sessionID, conn, h.logger)
	if !h.Register(client) {
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// checkOrigin accepts requests without an Origin header, configured
// origins and pages served from this host.
func (h *Hub) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || h.allowedOrigins[origin] {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host == r.Host
}
