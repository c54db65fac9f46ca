package main

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/google/uuid"
)

// Hub fans game updates out to every connected websocket client.
// Clients with a full send queue drop messages instead of blocking the
// broadcast loop; the next full-board payload resyncs them.
type Hub struct {
	mu                sync.Mutex
	clients           map[*Client]struct{}
	broadcastBoard    chan boardPayload
	broadcastStatus   chan statusPayload
	broadcastReset    chan resetPayload
	broadcastSettings chan settingsPayload
}

type Client struct {
	id   uuid.UUID
	hub  *Hub
	send chan []byte
}

type wsMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

func NewHub() *Hub {
	return &Hub{
		clients:           make(map[*Client]struct{}),
		broadcastBoard:    make(chan boardPayload, 16),
		broadcastStatus:   make(chan statusPayload, 32),
		broadcastReset:    make(chan resetPayload, 8),
		broadcastSettings: make(chan settingsPayload, 8),
	}
}

func (h *Hub) Run(done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case payload := <-h.broadcastBoard:
			h.broadcast("board", payload)
		case payload := <-h.broadcastStatus:
			h.broadcast("status", payload)
		case payload := <-h.broadcastReset:
			h.broadcast("reset", payload)
		case payload := <-h.broadcastSettings:
			h.broadcast("settings", payload)
		}
	}
}

func (h *Hub) broadcast(msgType string, payload any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		client.sendJSON(wsMessage{Type: msgType, Payload: mustMarshal(payload)})
	}
}

func (h *Hub) NewClient() *Client {
	return &Client{
		id:   uuid.New(),
		hub:  h,
		send: make(chan []byte, 64),
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	count := len(h.clients)
	h.mu.Unlock()
	log.Printf("ws client %s connected (%d total)", c.id, count)
}

func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	count := len(h.clients)
	h.mu.Unlock()
	log.Printf("ws client %s disconnected (%d total)", c.id, count)
}

func (h *Hub) HasClients() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients) > 0
}

func (c *Client) sendJSON(msg wsMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

func mustMarshal(v any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		return json.RawMessage(`{}`)
	}
	return data
}
