package services

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
)

// Event types pushed to connected clients so open screens can refresh
// without polling.
const (
	EventLogCreated   = "log.created"
	EventLogUpdated   = "log.updated"
	EventLogDeleted   = "log.deleted"
	EventWaterLogged  = "water.logged"
	EventWeightLogged = "weight.logged"
)

type LogEvent struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

type WSClient struct {
	UserID uint
	Conn   *websocket.Conn

	mu sync.Mutex
}

// WriteMessage serializes writes to the connection; gorilla/websocket allows
// only one concurrent writer, and the ping loop races Broadcast otherwise.
func (c *WSClient) WriteMessage(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Conn.WriteMessage(messageType, data)
}

type RealtimeHub struct {
	mu      sync.RWMutex
	clients map[uint]map[*WSClient]struct{}
}

func NewRealtimeHub() *RealtimeHub {
	return &RealtimeHub{clients: make(map[uint]map[*WSClient]struct{})}
}

func (h *RealtimeHub) Register(c *WSClient) {
	h.mu.Lock()
	if h.clients[c.UserID] == nil {
		h.clients[c.UserID] = make(map[*WSClient]struct{})
	}
	h.clients[c.UserID][c] = struct{}{}
	h.mu.Unlock()
}

func (h *RealtimeHub) Unregister(c *WSClient) {
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

// Broadcast fans an event out to every connection the user has open.
// Safe on a nil hub so services can run without realtime wiring in tests.
func (h *RealtimeHub) Broadcast(userID uint, eventType string, payload any) {
	if h == nil {
		return
	}
	msg, _ := json.Marshal(LogEvent{Type: eventType, Payload: payload})
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients[userID] {
		_ = c.WriteMessage(websocket.TextMessage, msg)
	}
}
