package services

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
)

// WSClient is one websocket connection subscribed to a user's diet feed.
// gorilla/websocket allows at most one concurrent writer per connection,
// so every write (broadcasts and keepalive pings alike) funnels through
// the client's mutex.
type WSClient struct {
	UserID string
	Conn   *websocket.Conn

	mu sync.Mutex // serializes writes to Conn
}

func (c *WSClient) write(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Conn.WriteMessage(messageType, data)
}

// Ping sends a keepalive control frame, serialized with broadcasts.
func (c *WSClient) Ping() error {
	return c.write(websocket.PingMessage, nil)
}

// DietHub fans successful diet mutations out to the user's connected
// clients, so open apps see commits/edits without polling.
type DietHub struct {
	mu      sync.RWMutex
	clients map[string]map[*WSClient]struct{}
}

func NewDietHub() *DietHub {
	return &DietHub{clients: make(map[string]map[*WSClient]struct{})}
}

func (h *DietHub) Register(c *WSClient) {
	h.mu.Lock()
	if h.clients[c.UserID] == nil {
		h.clients[c.UserID] = make(map[*WSClient]struct{})
	}
	h.clients[c.UserID][c] = struct{}{}
	h.mu.Unlock()
}

func (h *DietHub) Unregister(c *WSClient) {
	h.mu.Lock()
	if set := h.clients[c.UserID]; set != nil {
		delete(set, c)
		if len(set) == 0 {
			delete(h.clients, c.UserID)
		}
	}
	h.mu.Unlock()
	_ = c.Conn.Close()
}

func (h *DietHub) BroadcastDiet(userID string, payload any) {
	msg, _ := json.Marshal(payload)
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients[userID] {
		_ = c.write(websocket.TextMessage, msg)
	}
}
