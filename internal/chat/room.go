// Package chat implements named broadcast rooms and the registry that owns
// them, independent of the transport carrying the messages.
package chat

import (
	"log"
	"sync"
)

// Subscriber is one live connection able to receive published text.
// Send must only enqueue the message; it must not block on the network.
// Subscribers are compared by identity, so implementations should be
// pointer types.
type Subscriber interface {
	ID() string
	Send(message []byte) error
}

// Room holds the subscribers of one named channel in join order.
type Room struct {
	name string

	// mu serializes Subscribe, Unsubscribe and Publish. Publish holds it for
	// the whole iteration so every subscriber sees the same message order.
	mu          sync.Mutex
	subscribers []Subscriber
}

// NewRoom creates an empty room. Rooms are normally obtained through a
// Registry rather than created directly.
func NewRoom(name string) *Room {
	return &Room{name: name}
}

// Name returns the room name.
func (r *Room) Name() string {
	return r.name
}

// Subscribe adds s to the room. It returns false without changing anything
// if s is already subscribed.
func (r *Room) Subscribe(s Subscriber) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexOf(s) >= 0 {
		return false
	}
	r.subscribers = append(r.subscribers, s)
	log.Printf("Client %s subscribed to room %q. Total subscribers: %d", s.ID(), r.name, len(r.subscribers))
	return true
}

// Unsubscribe removes s from the room and reports whether it was present.
// Removing an unknown subscriber is a no-op.
func (r *Room) Unsubscribe(s Subscriber) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(s)
	if i < 0 {
		return false
	}
	copy(r.subscribers[i:], r.subscribers[i+1:])
	r.subscribers[len(r.subscribers)-1] = nil
	r.subscribers = r.subscribers[:len(r.subscribers)-1]
	log.Printf("Client %s unsubscribed from room %q. Total subscribers: %d", s.ID(), r.name, len(r.subscribers))
	return true
}

// Publish sends message to every current subscriber in join order and
// returns how many sends succeeded. A failed send is logged and does not
// stop delivery to the others.
func (r *Room) Publish(message []byte) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	delivered := 0
	for _, s := range r.subscribers {
		if err := s.Send(message); err != nil {
			log.Printf("Failed to deliver message to client %s in room %q: %v", s.ID(), r.name, err)
			continue
		}
		delivered++
	}
	return delivered
}

// Len returns the current number of subscribers.
func (r *Room) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.subscribers)
}

// Subscribers returns a copy of the subscriber list in join order.
func (r *Room) Subscribers() []Subscriber {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Subscriber(nil), r.subscribers...)
}

// indexOf must be called with r.mu held.
func (r *Room) indexOf(s Subscriber) int {
	for i, existing := range r.subscribers {
		if existing == s {
			return i
		}
	}
	return -1
}
