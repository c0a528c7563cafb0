// Package websocket provides the server-push alert feed: each signed-in
// browser may hold one connection and receives the due-soon set as it is
// recomputed, instead of (or in addition to) polling the JSON endpoint.
// File: websocket/connection.go
package websocket

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"go-sched-log/logger"
)

// WSConn is an interface for the WebSocket connection.
type WSConn interface {
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	ReadMessage() (int, []byte, error)
	Close() error
	RemoteAddr() net.Addr
	SetReadLimit(limit int64)
	SetReadDeadline(t time.Time) error
	SetPongHandler(h func(string) error)
}

// Connection represents a single alert-feed connection for one client.
type Connection struct {
	conn     WSConn
	send     chan []byte
	username string
}

// registry of active connections
var (
	connMu      sync.Mutex
	connections = make(map[*Connection]bool)
)

// Configuration constants.
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// Upgrader upgrades HTTP requests to WebSocket connections. The feed
// sits behind the session middleware, so origin checking stays open.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// ServeAlerts upgrades the request to a WebSocket connection and starts
// the read and write pumps. The username comes from the session, which
// AuthRequired has already validated.
func ServeAlerts(w http.ResponseWriter, r *http.Request, username string) {
	logger.Info.Printf("[ServeAlerts] Upgrading to WS: remoteAddr=%v, user=%q", r.RemoteAddr, username)
	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error.Printf("[ServeAlerts] WebSocket upgrade error: %v", err)
		return
	}

	c := &Connection{
		conn:     wsConn,
		send:     make(chan []byte, 16),
		username: username,
	}

	registerConnection(c)

	go c.readPump()
	go c.writePump()
}

// readPump drains inbound frames. The feed is one-way; clients have
// nothing to say beyond the pong frames keeping the connection alive.
func (c *Connection) readPump() {
	defer func() {
		unregisterConnection(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			logger.Debug.Printf("[readPump] closing alert feed for %v: %v", c.conn.RemoteAddr(), err)
			return
		}
	}
}

// writePump handles outbound messages, including periodic pings.
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if !ok {
				// channel closed
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				logger.Warn.Printf("[writePump] Error writing to %v: %v", c.conn.RemoteAddr(), err)
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				logger.Warn.Printf("[writePump] Ping error for %v: %v", c.conn.RemoteAddr(), err)
				return
			}
		}
	}
}

// registerConnection adds the connection to the registry.
func registerConnection(c *Connection) {
	connMu.Lock()
	connections[c] = true
	count := len(connections)
	connMu.Unlock()

	logger.Info.Printf("Alert feed connected for %q (%d active)", c.username, count)
	PublishAlertConnections(count)
}

// unregisterConnection removes the connection from the registry.
func unregisterConnection(c *Connection) {
	connMu.Lock()
	if _, ok := connections[c]; ok {
		delete(connections, c)
	}
	count := len(connections)
	connMu.Unlock()

	logger.Info.Printf("Alert feed disconnected for %q (%d active)", c.username, count)
	PublishAlertConnections(count)
}

// ConnectionCount returns the number of active alert-feed connections.
func ConnectionCount() int {
	connMu.Lock()
	defer connMu.Unlock()
	return len(connections)
}
