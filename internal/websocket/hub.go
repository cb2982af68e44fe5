package websocket

import (
	"encoding/json"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"
)

// broadcastBuffer bounds the number of feed messages waiting for the hub loop.
const broadcastBuffer = 256

// Hub maintains the set of active clients and broadcasts messages to them.
// Only the Run goroutine touches the client set.
type Hub struct {
	// Registered clients.
	clients map[*Client]bool

	// Outbound messages for every client.
	broadcast chan []byte

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Mirrors len(clients) for readers outside Run.
	active atomic.Int64

	done     chan struct{}
	stopped  chan struct{}
	stopOnce sync.Once
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		broadcast:  make(chan []byte, broadcastBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		done:       make(chan struct{}),
		stopped:    make(chan struct{}),
	}
}

// Run starts the Hub's message processing loop. It returns after Stop.
func (h *Hub) Run() {
	defer close(h.stopped)
	defer h.active.Store(0)
	for {
		h.active.Store(int64(len(h.clients)))
		select {
		case <-h.done:
			for client := range h.clients {
				close(client.Send)
				delete(h.clients, client)
			}
			return
		case client := <-h.register:
			h.clients[client] = true
			log.Info().Int("total_clients", len(h.clients)).Str("user_id", client.UserID).Msg("Feed client connected")
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
				log.Info().Int("total_clients", len(h.clients)).Msg("Feed client disconnected")
			}
		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					// Slow consumer; drop it rather than stall the feed.
					close(client.Send)
					delete(h.clients, client)
				}
			}
		}
	}
}

// ClientCount returns the number of attached clients.
func (h *Hub) ClientCount() int {
	return int(h.active.Load())
}

// Attach registers a client. It reports false if the hub has stopped.
func (h *Hub) Attach(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

// Detach unregisters a client. It is a no-op once the hub has stopped.
func (h *Hub) Detach(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Stop terminates Run and closes every client's send channel.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
	<-h.stopped
}

// Publish encodes a feed message and queues it for broadcast. It never
// blocks; messages are dropped when the queue is full.
func (h *Hub) Publish(action string, payload interface{}) {
	data, err := json.Marshal(Message{Action: action, Payload: payload})
	if err != nil {
		log.Error().Err(err).Str("action", action).Msg("Failed to encode feed message")
		return
	}
	select {
	case h.broadcast <- data:
	default:
		log.Warn().Str("action", action).Msg("Feed queue full, dropping message")
	}
}
