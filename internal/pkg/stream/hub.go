// Package stream fans parsed events out to connected websocket clients.
package stream

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"github.com/anicoll/onvif-integration/internal/pkg/model"
)

type Hub struct {
	clients    map[*Client]struct{}
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	logger     *zap.Logger
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     zap.L(),
	}
}

// Run owns the client set; call it once from the process supervisor. It
// returns after ctx is cancelled, dropping every connected client.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = struct{}{}
			h.mu.Unlock()
			h.logger.Debug("stream client registered", zap.String("remote", client.RemoteAddr()))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			h.logger.Debug("stream client unregistered", zap.String("remote", client.RemoteAddr()))

		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Slow consumer, drop it rather than block the hub.
					delete(h.clients, client)
					close(client.send)
				}
			}
			h.mu.Unlock()
		}
	}
}

type streamEvent struct {
	Device string `json:"device"`
	UID    string `json:"uid"`
	Name   string `json:"name"`
	Type   string `json:"platform"`
	Value  string `json:"value"`
}

// BroadcastEvent serializes one parsed event to every connected client.
func (h *Hub) BroadcastEvent(device model.Device, event model.Event) {
	payload, err := json.Marshal(streamEvent{
		Device: device.UID,
		UID:    event.UID,
		Name:   event.Name,
		Type:   event.Platform.String(),
		Value:  event.StateString(),
	})
	if err != nil {
		h.logger.Error("failed to marshal stream event", zap.Error(err))
		return
	}
	h.broadcast <- payload
}

func (h *Hub) RegisterClient(client *Client) {
	h.register <- client
}

func (h *Hub) UnregisterClient(client *Client) {
	h.unregister <- client
}
