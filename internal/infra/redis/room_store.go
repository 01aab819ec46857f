package redis

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"pixel-poll-service/internal/app"
)

// RoomStore is a Redis-aware implementation of app.RoomRepository.
// Notes:
//   - Live room state stays in the local map; it is never read back from Redis.
//   - Redis holds a liveness marker per room (value = room ID) so operators and
//     other tooling can see which room names are in use.
type RoomStore struct {
	client *redis.Client
	ttl    time.Duration
	mu     sync.RWMutex
	rooms  map[string]*app.Room
}

func NewRoomStore(client *redis.Client, ttl time.Duration) *RoomStore {
	return &RoomStore{
		client: client,
		ttl:    ttl,
		rooms:  make(map[string]*app.Room),
	}
}

func (s *RoomStore) GetOrCreate(name string) *app.Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[name]
	if !ok || room.IsClosed() {
		room = app.NewRoom(name)
		s.rooms[name] = room
	}
	// Every join renews the marker, so a room outlives the TTL while people
	// keep coming back to it.
	s.mark(name, room.ID())
	return room
}

// mark writes the best-effort liveness marker.
func (s *RoomStore) mark(name, id string) {
	if err := s.client.Set(context.Background(), s.key(name), id, s.ttl).Err(); err != nil {
		log.Printf("redis: mark room %s: %v", name, err)
	}
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
	room, ok := s.rooms[name]
	if !ok || room.ID() != id {
		return
	}
	delete(s.rooms, name)
	if err := s.client.Del(context.Background(), s.key(name)).Err(); err != nil {
		log.Printf("redis: unmark room %s: %v", name, err)
	}
}

func (s *RoomStore) key(name string) string {
	return "pixelpoll:room:" + name
}
