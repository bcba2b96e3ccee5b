package ws

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/ecocaval/Bate-Papo-UOL-API/internal/domain"
)

type delivery struct {
	msg  domain.Message
	data []byte
}

// Hub fans stored messages out to connected participants, applying the
// same visibility rule as GET /messages.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	deliveries chan delivery
	mu         sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		deliveries: make(chan delivery, 64),
	}
}

// Run fans deliveries out until ctx is cancelled; Close disconnects the
// remaining clients afterwards.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
		case d := <-h.deliveries:
			h.mu.Lock()
			for client := range h.clients {
				if !d.msg.VisibleTo(client.Name) {
					continue
				}
				select {
				case client.send <- d.data:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Deliver queues a stored message for fanout. A nil hub drops it, so the
// service can run without live delivery.
func (h *Hub) Deliver(m *domain.Message) {
	if h == nil {
		return
	}
	data, err := json.Marshal(m)
	if err != nil {
		log.Error().Err(err).Msg("ws: marshal message")
		return
	}
	select {
	case h.deliveries <- delivery{msg: *m, data: data}:
	default:
		log.Warn().Msg("ws: delivery channel full, dropping message")
	}
}

func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		close(client.send)
		client.conn.Close()
		delete(h.clients, client)
	}
}
