package websocket

import (
	"encoding/json"
	"log"
	"sync"
)

// Hub maintains the set of connected UI clients and fans sync status
// events out to them. Clients are pure listeners; nothing they send is
// interpreted beyond the websocket control traffic.
type Hub struct {
	clients map[*Client]bool

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			log.Printf("🔌 Sync event listener connected: %s", client.ID)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				log.Printf("🔌 Sync event listener disconnected: %s", client.ID)
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast sends a message to every connected client. Clients with a
// full buffer miss the message rather than blocking the sender.
func (h *Hub) Broadcast(message interface{}) {
	jsonMsg, err := json.Marshal(message)
	if err != nil {
		log.Printf("Error marshaling message: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		select {
		case client.send <- jsonMsg:
		default:
		}
	}
}
