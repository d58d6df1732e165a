package chat

import (
	"fmt"
	"sync"
)

// JoinAnnouncement is published to a room when a client joins it.
func JoinAnnouncement(id string) string {
	return fmt.Sprintf("client %s subscribed", id)
}

// LeaveAnnouncement is published to a room when a client leaves it.
func LeaveAnnouncement(id string) string {
	return fmt.Sprintf("client %s unsubscribed", id)
}

// Membership is one subscriber's presence in a room, from Join to Leave.
type Membership struct {
	room       *Room
	subscriber Subscriber
	leaveOnce  sync.Once
}

// Join subscribes s to the room and announces it to every subscriber,
// s included. The caller must call Leave exactly when the connection ends;
// extra calls are ignored.
func (r *Room) Join(s Subscriber) *Membership {
	r.Subscribe(s)
	r.Publish([]byte(JoinAnnouncement(s.ID())))
	return &Membership{room: r, subscriber: s}
}

// Room returns the room joined.
func (m *Membership) Room() *Room {
	return m.room
}

// Publish relays message unchanged to the whole room, the sender included.
func (m *Membership) Publish(message []byte) int {
	return m.room.Publish(message)
}

// Leave unsubscribes and announces the departure to the remaining
// subscribers. Only the first call has any effect.
func (m *Membership) Leave() {
	m.leaveOnce.Do(func() {
		m.room.Unsubscribe(m.subscriber)
		m.room.Publish([]byte(LeaveAnnouncement(m.subscriber.ID())))
	})
}
