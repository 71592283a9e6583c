// Package notify pushes server events to connected admins and founders over
// websockets.
package notify

import (
	"fmt"
	"sync"

	"github.com/gorilla/websocket"

	"incubator/pkg/token"
)

// Client is one connected principal. A principal has at most one connection.
type Client struct {
	UserID string
	Role   token.Role
	Conn   *websocket.Conn
	Send   chan Message
	Done   chan struct{}

	closeOnce sync.Once
}

func (c *Client) stop() {
	c.closeOnce.Do(func() { close(c.Done) })
}

type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

func NewHub() *Hub {
	return &Hub{clients: make(map[string]*Client)}
}

// AddClient registers conn for identity, replacing any previous connection.
func (h *Hub) AddClient(identity token.Identity, conn *websocket.Conn) *Client {
	h.mu.Lock()
	defer h.mu.Unlock()

	if existing, ok := h.clients[identity.UserID()]; ok {
		existing.stop()
		if existing.Conn != nil {
			existing.Conn.Close()
		}
	}

	client := &Client{
		UserID: identity.UserID(),
		Role:   identity.Role(),
		Conn:   conn,
		Send:   make(chan Message, 32),
		Done:   make(chan struct{}),
	}
	h.clients[client.UserID] = client
	return client
}

// RemoveClient unregisters client if it is still the active connection.
func (h *Hub) RemoveClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	client.stop()
	if current, ok := h.clients[client.UserID]; ok && current == client {
		delete(h.clients, client.UserID)
	}
}

func (h *Hub) IsOnline(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	_, ok := h.clients[userID]
	return ok
}

// SendTo queues msg for a single user. Offline users are an error.
func (h *Hub) SendTo(userID string, msg Message) error {
	h.mu.RLock()
	client, ok := h.clients[userID]
	h.mu.RUnlock()

	if !ok {
		return fmt.Errorf("user %s is not online", userID)
	}
	return deliver(client, msg)
}

// Broadcast queues msg for every connected client with role and returns the
// number of clients it was queued for.
func (h *Hub) Broadcast(role token.Role, msg Message) int {
	h.mu.RLock()
	targets := make([]*Client, 0, len(h.clients))
	for _, c := range h.clients {
		if c.Role == role {
			targets = append(targets, c)
		}
	}
	h.mu.RUnlock()

	sent := 0
	for _, c := range targets {
		if deliver(c, msg) == nil {
			sent++
		}
	}
	return sent
}

func deliver(client *Client, msg Message) error {
	select {
	case client.Send <- msg:
		return nil
	case <-client.Done:
		return fmt.Errorf("user %s disconnected", client.UserID)
	default:
		return fmt.Errorf("user %s message queue full", client.UserID)
	}
}
