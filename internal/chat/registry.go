package chat

import (
	"sort"
	"sync"
)

// RoomInfo is a point-in-time view of one room.
type RoomInfo struct {
	Name        string `json:"name"`
	Subscribers int    `json:"subscribers"`
}

// Registry maps room names to rooms. Rooms are created on first reference
// and are never removed.
type Registry struct {
	mu    sync.Mutex
	rooms map[string]*Room
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{rooms: make(map[string]*Room)}
}

// GetOrCreate returns the room called name, creating it if needed. All
// callers asking for the same name get the same *Room.
func (r *Registry) GetOrCreate(name string) *Room {
	r.mu.Lock()
	defer r.mu.Unlock()

	if room, ok := r.rooms[name]; ok {
		return room
	}
	room := NewRoom(name)
	r.rooms[name] = room
	return room
}

// Lookup returns the room called name without creating it.
func (r *Registry) Lookup(name string) (*Room, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[name]
	return room, ok
}

// Len returns the number of rooms ever created.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rooms)
}

// Snapshot lists every room sorted by name.
func (r *Registry) Snapshot() []RoomInfo {
	r.mu.Lock()
	rooms := make([]*Room, 0, len(r.rooms))
	for _, room := range r.rooms {
		rooms = append(rooms, room)
	}
	r.mu.Unlock()

	infos := make([]RoomInfo, 0, len(rooms))
	for _, room := range rooms {
		infos = append(infos, RoomInfo{Name: room.Name(), Subscribers: room.Len()})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}
