package gateway

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// Hub maintains the set of connected gateway bridges and remembers which
// bridge last carried each chat, so replies can be routed back over the
// same connection.
type Hub struct {
	// Registered bridge connections.
	clients map[*Client]bool

	// Register requests from the clients.
	Register chan *Client

	// Unregister requests from clients.
	Unregister chan *Client

	// Map to find the bridge owning a chat (set as updates flow through)
	chatClients map[int64]*Client

	// Mutex to protect the chatClients map
	mutex sync.Mutex

	log *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		Register:    make(chan *Client),
		Unregister:  make(chan *Client),
		clients:     make(map[*Client]bool),
		chatClients: make(map[int64]*Client),
		log:         log,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.clients[client] = true
			h.log.Info("gateway bridge connected")
		case client := <-h.Unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
				h.dropClient(client)
				h.log.Info("gateway bridge disconnected")
			}
		}
	}
}

// claimChat records that a chat is reachable through the given bridge.
func (h *Hub) claimChat(chatID int64, client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.chatClients[chatID] = client
}

// dropClient forgets every chat owned by a departing bridge.
func (h *Hub) dropClient(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	for chatID, owner := range h.chatClients {
		if owner == client {
			delete(h.chatClients, chatID)
		}
	}
}

// SendToChat delivers a message over the bridge owning the chat. Returns
// false when no bridge carries it, so the caller can fall back to HTTP.
func (h *Hub) SendToChat(msg Message) bool {
	h.mutex.Lock()
	client, ok := h.chatClients[msg.ChatID]
	h.mutex.Unlock()
	if !ok {
		return false
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return false
	}

	select {
	case client.Send <- payload:
		return true
	default:
		// Bridge is wedged, let the fallback path deliver.
		return false
	}
}
