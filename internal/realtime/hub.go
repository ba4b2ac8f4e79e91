// Package realtime pushes JSON messages to a user's open websocket
// connections.
package realtime

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait    = 10 * time.Second
	PingInterval = 25 * time.Second
)

// Client is one websocket connection of one user. gorilla connections allow a
// single concurrent writer, so every write goes through mu.
type Client struct {
	UserID int64
	conn   *websocket.Conn
	mu     sync.Mutex
}

func NewClient(userID int64, conn *websocket.Conn) *Client {
	return &Client{UserID: userID, conn: conn}
}

func (c *Client) write(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(messageType, data)
}

// Send writes payload as one JSON text message.
func (c *Client) Send(payload any) error {
	msg, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return c.write(websocket.TextMessage, msg)
}

// Ping sends a keepalive control frame.
func (c *Client) Ping() error {
	return c.write(websocket.PingMessage, nil)
}

// Hub tracks the open clients per user.
type Hub struct {
	mu      sync.RWMutex
	clients map[int64]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[int64]map[*Client]struct{})}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	if h.clients[c.UserID] == nil {
		h.clients[c.UserID] = make(map[*Client]struct{})
	}
	h.clients[c.UserID][c] = struct{}{}
	h.mu.Unlock()
}

// Unregister drops c and closes its connection. Safe to call twice.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if set := h.clients[c.UserID]; set != nil {
		delete(set, c)
		if len(set) == 0 {
			delete(h.clients, c.UserID)
		}
	}
	h.mu.Unlock()
	_ = c.conn.Close()
}

// Count reports how many connections userID has open.
func (h *Hub) Count(userID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// Publish sends payload as JSON to every connection of userID. Clients whose
// write fails are dropped.
func (h *Hub) Publish(userID int64, payload any) {
	msg, err := json.Marshal(payload)
	if err != nil {
		log.Printf("[Publish] marshal error: %v", err)
		return
	}

	h.mu.RLock()
	targets := make([]*Client, 0, len(h.clients[userID]))
	for c := range h.clients[userID] {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		if err := c.write(websocket.TextMessage, msg); err != nil {
			log.Printf("[Publish] user id=%d: %v", userID, err)
			h.Unregister(c)
		}
	}
}

// Serve keeps c registered until the peer goes away, pinging every
// PingInterval. It blocks, so call it from the upgrading handler.
func (h *Hub) Serve(c *Client) {
	h.Register(c)
	done := make(chan struct{})
	defer close(done)

	go func() {
		t := time.NewTicker(PingInterval)
		defer t.Stop()
		for {
			select {
			case <-done:
				return
			case <-t.C:
				if err := c.Ping(); err != nil {
					h.Unregister(c)
					return
				}
			}
		}
	}()

	// Clients never send anything we act on; the read loop only notices closes.
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			h.Unregister(c)
			return
		}
	}
}
