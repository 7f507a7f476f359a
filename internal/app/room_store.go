package app

import (
	"sort"
	"sync"

	"github.com/dkeye/coderoom/internal/core"
	"github.com/dkeye/coderoom/internal/domain"
)

// MemoryRoomStore keeps every room in process memory. State is lost on restart.
type MemoryRoomStore struct {
	mu    sync.RWMutex
	rooms map[domain.RoomID]*core.Room
}

func NewRoomStore() core.RoomStore {
	return &MemoryRoomStore{rooms: make(map[domain.RoomID]*core.Room)}
}

func (s *MemoryRoomStore) Get(id domain.RoomID) (*core.Room, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rooms[id]
	return r, ok
}

func (s *MemoryRoomStore) Put(room *core.Room) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms[room.ID] = room
}

func (s *MemoryRoomStore) Delete(id domain.RoomID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, id)
}

// List returns rooms ordered by id so callers iterate deterministically.
func (s *MemoryRoomStore) List() []*core.Room {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*core.Room, 0, len(s.rooms))
	for _, r := range s.rooms {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *MemoryRoomStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rooms)
}
