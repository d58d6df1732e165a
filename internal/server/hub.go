// Package server tracks live WebSocket clients and the rooms they join via
// the Hub type, and coordinates their shutdown.
package server

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/vvnva/chat-relay/internal/chat"
)

// Hub owns the room registry and every live client connection. It starts
// the pump goroutines for each client and waits for them on shutdown.
type Hub struct {
	rooms *chat.Registry

	mutex   sync.Mutex
	clients map[*Client]struct{}
	closed  bool
	wg      sync.WaitGroup
}

// NewHub creates a Hub with an empty room registry.
func NewHub() *Hub {
	return &Hub{
		rooms:   chat.NewRegistry(),
		clients: make(map[*Client]struct{}),
	}
}

// Rooms returns the hub's room registry.
func (h *Hub) Rooms() *chat.Registry {
	return h.rooms
}

// ClientCount returns the number of connected clients across all rooms.
func (h *Hub) ClientCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

// Serve joins client to its room and starts its read and write pumps. It
// returns ErrHubClosed if the hub is shutting down.
func (h *Hub) Serve(client *Client) error {
	h.mutex.Lock()
	if h.closed {
		h.mutex.Unlock()
		return ErrHubClosed
	}
	h.clients[client] = struct{}{}
	clientCount := len(h.clients)
	h.wg.Add(2)
	h.mutex.Unlock()

	log.Printf("Client %s registered from %s in room %q. Total clients: %d", client.id, client.addr, client.room, clientCount)

	room := h.rooms.GetOrCreate(client.room)
	go func() {
		defer h.wg.Done()
		client.writePump()
	}()
	go func() {
		defer h.wg.Done()
		client.readPump(room, func() { h.remove(client) })
	}()
	return nil
}

func (h *Hub) remove(client *Client) {
	h.mutex.Lock()
	_, ok := h.clients[client]
	delete(h.clients, client)
	clientCount := len(h.clients)
	h.mutex.Unlock()

	if ok {
		log.Printf("Client %s unregistered from %s. Total clients: %d", client.id, client.addr, clientCount)
	}
}

// closeClients closes every live connection, which ends each client's
// read loop and with it the client's room membership.
func (h *Hub) closeClients() int {
	h.mutex.Lock()
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mutex.Unlock()

	for _, client := range clients {
		if client.conn == nil {
			continue
		}
		if err := client.conn.Close(); err != nil && !isExpectedCloseError(err) {
			log.Printf("Error closing client connection from %s: %v", client.addr, err)
		}
	}
	return len(clients)
}

// Shutdown stops accepting clients, closes every connection, and waits for
// all client goroutines to finish. It returns context.DeadlineExceeded if
// they have not finished within timeout. Calling it again is safe.
func (h *Hub) Shutdown(timeout time.Duration) error {
	log.Println("Initiating hub shutdown...")

	h.mutex.Lock()
	h.closed = true
	h.mutex.Unlock()

	closed := h.closeClients()
	log.Printf("Closed %d client connections", closed)

	done := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Println("Hub shutdown completed successfully")
		return nil
	case <-time.After(timeout):
		log.Println("Hub shutdown timeout reached, some goroutines may still be running")
		return context.DeadlineExceeded
	}
}
