package http

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/google/uuid"
)

const sendBufferSize = 64

// Connection is one participant's live socket. RoomID pins it to the room
// incarnation it joined; Room is the name used for service lookups and logs.
type Connection struct {
	ID       string
	RoomID   string
	Room     string
	Username string
	send     chan []byte
}

func NewConnection(roomID, room, username string) *Connection {
	return &Connection{
		ID:       uuid.NewString(),
		RoomID:   roomID,
		Room:     room,
		Username: username,
		send:     make(chan []byte, sendBufferSize),
	}
}

// Hub delivers outbound messages to connections. Delivery is best-effort: a
// missing connection or a full buffer drops the message.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[string]*Connection // room ID -> username -> conn
}

func NewHub() *Hub {
	return &Hub{
		rooms: make(map[string]map[string]*Connection),
	}
}

// Register adds a connection, replacing any previous one for the same user.
func (h *Hub) Register(conn *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns, ok := h.rooms[conn.RoomID]
	if !ok {
		conns = make(map[string]*Connection)
		h.rooms[conn.RoomID] = conns
	}
	if old, ok := conns[conn.Username]; ok {
		close(old.send)
	}
	conns[conn.Username] = conn
}

// Unregister removes the connection if it is still the registered one.
func (h *Hub) Unregister(conn *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns, ok := h.rooms[conn.RoomID]
	if !ok {
		return
	}
	if existing, ok := conns[conn.Username]; ok && existing == conn {
		delete(conns, conn.Username)
		close(conn.send)
	}
	if len(conns) == 0 {
		delete(h.rooms, conn.RoomID)
	}
}

// DeliverToUser sends payload to one user of the room incarnation roomID.
func (h *Hub) DeliverToUser(roomID, username string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("ws: marshal error: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	if conn, ok := h.rooms[roomID][username]; ok {
		h.enqueue(conn, data)
	}
}

// DeliverToRoom sends payload to every connected user except exclude.
func (h *Hub) DeliverToRoom(roomID string, payload any, exclude string) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("ws: marshal error: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for username, conn := range h.rooms[roomID] {
		if exclude != "" && username == exclude {
			continue
		}
		h.enqueue(conn, data)
	}
}

// CloseRoom terminates every connection of the room incarnation. Messages
// already queued are flushed before the socket closes. Connections to a newer
// room under the same name are untouched.
func (h *Hub) CloseRoom(roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, conn := range h.rooms[roomID] {
		close(conn.send)
	}
	delete(h.rooms, roomID)
}

// Connected reports whether the user has a live connection in the room.
func (h *Hub) Connected(roomID, username string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.rooms[roomID][username]
	return ok
}

func (h *Hub) enqueue(conn *Connection, data []byte) {
	select {
	case conn.send <- data:
	default:
		log.Printf("ws: send buffer full for %s in room %s, dropping message", conn.Username, conn.Room)
	}
}
