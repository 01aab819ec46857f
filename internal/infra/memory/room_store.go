package memory

import (
	"sync"

	"pixel-poll-service/internal/app"
)

// RoomStore is an in-memory implementation of app.RoomRepository.
type RoomStore struct {
	mu    sync.RWMutex
	rooms map[string]*app.Room
}

func NewRoomStore() *RoomStore {
	return &RoomStore{
		rooms: make(map[string]*app.Room),
	}
}

func (s *RoomStore) GetOrCreate(name string) *app.Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	if room, ok := s.rooms[name]; ok && !room.IsClosed() {
		return room
	}
	room := app.NewRoom(name)
	s.rooms[name] = room
	return room
}

func (s *RoomStore) Get(name string) (*app.Room, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[name]
	if !ok || room.IsClosed() {
		return nil, false
	}
	return room, true
}

func (s *RoomStore) Delete(name, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if room, ok := s.rooms[name]; ok && room.ID() == id {
		delete(s.rooms, name)
	}
}

