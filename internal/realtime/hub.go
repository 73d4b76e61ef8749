// Package realtime pushes events to connected clients over websockets.
package realtime

import (
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// Event is the envelope written to clients.
type Event struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Hub tracks the open connections per user. A user may have several tabs
// open; every connection gets each event. Each connection carries its own
// write mutex: gorilla/websocket allows only one concurrent writer per
// connection, and pushes for the same recipient can arrive from several
// goroutines at once.
type Hub struct {
	mu    sync.RWMutex
	conns map[int]map[*websocket.Conn]*sync.Mutex
}

func NewHub() *Hub {
	return &Hub{conns: make(map[int]map[*websocket.Conn]*sync.Mutex)}
}

func (h *Hub) Register(userID int, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.conns[userID] == nil {
		h.conns[userID] = make(map[*websocket.Conn]*sync.Mutex)
	}
	h.conns[userID][conn] = &sync.Mutex{}
}

func (h *Hub) Unregister(userID int, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns[userID], conn)
	if len(h.conns[userID]) == 0 {
		delete(h.conns, userID)
	}
}

// Connections reports how many connections a user currently holds.
func (h *Hub) Connections(userID int) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns[userID])
}

// Push delivers an event to every open connection of the recipient.
// Delivery is best effort: a write failure closes that connection and is
// logged, never surfaced to the caller. The persisted notification remains
// the source of truth.
func (h *Hub) Push(userID int, event string, payload any) {
	type target struct {
		conn  *websocket.Conn
		write *sync.Mutex
	}

	h.mu.RLock()
	targets := make([]target, 0, len(h.conns[userID]))
	for conn, write := range h.conns[userID] {
		targets = append(targets, target{conn: conn, write: write})
	}
	h.mu.RUnlock()

	for _, t := range targets {
		t.write.Lock()
		err := t.conn.WriteJSON(Event{Event: event, Data: payload})
		t.write.Unlock()
		if err != nil {
			log.Printf("realtime: push to user %d failed: %v", userID, err)
			t.conn.Close()
			h.Unregister(userID, t.conn)
		}
	}
}
